// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/background"
	"github.com/bitmark-inc/recordd/configuration"
	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/rpc"
	"github.com/bitmark-inc/recordd/snapshot"
	"github.com/bitmark-inc/recordd/storage"
	"github.com/bitmark-inc/recordd/store"
	"github.com/bitmark-inc/recordd/watcher"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "define", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'd'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// variables visible to the configuration file
	variables := make(map[string]string)
	for _, definition := range options["define"] {
		name, value, err := configuration.ParseVariable(definition)
		if nil != err {
			exitwithstatus.Message("%s: %s", program, err)
		}
		variables[name] = value
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// open the persistence backend
	log.Infof("persistence: %#v", theConfiguration.Persistence)
	readOnly := len(arguments) > 0 && isDataCommand(arguments[0])
	persister, closer, err := openPersister(&theConfiguration.Persistence, readOnly)
	if nil != err {
		log.Criticalf("persistence open error: %s", err)
		exitwithstatus.Message("persistence open error: %s", err)
	}
	defer closer()

	// load the records
	log.Info("initialise store")
	records := store.New(logger.New("store"), persister)
	err = records.Load()
	if nil != err {
		log.Criticalf("store load error: %s", err)
		exitwithstatus.Message("store load error: %s", err)
	}

	// these commands are allowed to access the loaded records
	if len(arguments) > 0 && processDataCommand(log, arguments, records) {
		return
	}

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start up the rpc servers
	log.Debugf("%s = %#v", "HTTP", theConfiguration.HTTP)
	err = rpc.Initialise(&theConfiguration.HTTP, records, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// optionally guard the snapshot file
	processes := background.Processes{}
	if file, ok := persister.(*snapshot.File); ok && theConfiguration.Persistence.Watch {
		w, err := watcher.New(logger.New(watcher.LoggerPrefix), file.FileName(), records.Save)
		if nil != err {
			log.Criticalf("watcher initialise error: %s", err)
			exitwithstatus.Message("watcher initialise error: %s", err)
		}
		processes = append(processes, w)
	}
	bg := background.Start(processes, nil)
	defer bg.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// select the persistence backend
//
// a read only database must already exist; the returned function
// releases the backend
func openPersister(persistence *PersistenceType, readOnly bool) (store.Persister, func(), error) {
	switch persistence.Backend {
	case backendJSON:
		return snapshot.NewFile(persistence.File), func() {}, nil

	case backendLevelDB:
		open := storage.Open
		if readOnly {
			open = storage.OpenReadOnly
		}
		database, err := open(persistence.Directory)
		if nil != err {
			return nil, nil, err
		}
		return database, func() { database.Close() }, nil

	default:
		return nil, nil, fault.ErrInvalidBackend
	}
}
