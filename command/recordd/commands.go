// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/record"
	"github.com/bitmark-inc/recordd/store"
)

const (
	rpcCertificateKeyFilename = defaultCertificateFile
	rpcPrivateKeyFilename     = defaultKeyFile
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "start", "run":
		return false // continue processing

	case "list", "l", "print-tree", "tree", "check", "get", "g":
		return false // defer processing until records are loaded

	case "config-test", "config", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--define=NAME=VALUE...] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  list                       (l)      - print all records as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  get ID                     (g)      - print one record as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  print-tree [data]          (tree)   - draw the record tree, optionally with each record\n")
		fmt.Printf("\n")

		fmt.Printf("  check                               - verify the record tree\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// get a file name from the optional directory argument
func getFilenameWithDirectory(arguments []string, name string) string {
	directory := "."
	if len(arguments) >= 1 {
		directory = arguments[0]
	}
	return filepath.Join(directory, name)
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "config", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// commands that only read the loaded records
func isDataCommand(command string) bool {
	switch command {
	case "list", "l", "get", "g", "print-tree", "tree", "check":
		return true
	default:
		return false
	}
}

// the records are loaded so these commands can examine them
func processDataCommand(log *logger.L, arguments []string, s *store.Store) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "list", "l":
		b, err := record.EncodeMapping(s.List(), "  ")
		if nil != err {
			exitwithstatus.Message("encode error: %s", err)
		}
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")

	case "get", "g":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing record identifier argument")
		}
		identifier, err := record.ParseIdentifier(arguments[0])
		if nil != err {
			exitwithstatus.Message("error: identifier: %q  %s", arguments[0], err)
		}
		r, err := s.Get(identifier)
		if nil != err {
			exitwithstatus.Message("error: identifier: %d  %s", identifier, err)
		}
		b, err := json.MarshalIndent(r, "", "  ")
		if nil != err {
			exitwithstatus.Message("encode error: %s", err)
		}
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")

	case "print-tree", "tree":
		printData := len(arguments) > 0 && "data" == arguments[0]
		depth := s.Print(os.Stdout, printData)
		fmt.Printf("records: %d  depth: %d\n", s.Count(), depth)

	case "check":
		err := s.Check()
		if nil != err {
			log.Criticalf("check failed: %s", err)
			exitwithstatus.Message("check failed: %s", err)
		}
		fmt.Printf("ok: records: %d  height: %d\n", s.Count(), s.Height())

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}
