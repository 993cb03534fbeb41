// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/recordd/command/record-cli/rpccalls"
)

type metadata struct {
	client  *rpccalls.Client
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

const (
	defaultURL = "http://127.0.0.1:2150"
)

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "record-cli"
	app.Usage = "manage the records held by a recordd server"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "url, u",
			Value:  defaultURL,
			Usage:  " recordd base `URL`",
			EnvVar: "RECORDD_URL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list",
			Usage:  "list all records in roll number order",
			Action: runList,
		},
		{
			Name:      "get",
			Usage:     "display one record",
			ArgsUsage: "ROLL_NO",
			Action:    runGet,
		},
		{
			Name:      "add",
			Usage:     "add a new record",
			ArgsUsage: "\n   (* = required)",
			Flags:     recordFlags,
			Action:    runAdd,
		},
		{
			Name:      "update",
			Usage:     "replace an existing record",
			ArgsUsage: "ROLL_NO\n   (* = required)",
			Flags:     recordFlags,
			Action:    runUpdate,
		},
		{
			Name:      "delete",
			Usage:     "remove a record",
			ArgsUsage: "ROLL_NO",
			Action:    runDelete,
		},
		{
			Name:   "details",
			Usage:  "display server status",
			Action: runDetails,
		},
		{
			Name:  "version",
			Usage: "display record-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		verbose := c.GlobalBool("verbose")
		url := c.GlobalString("url")
		if "" == url {
			return fmt.Errorf("url cannot be blank")
		}

		if verbose {
			fmt.Fprintf(c.App.ErrWriter, "url: %q\n", url)
		}

		c.App.Metadata["config"] = &metadata{
			client:  rpccalls.NewClient(url, verbose, c.App.ErrWriter),
			verbose: verbose,
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		if m, ok := c.App.Metadata["config"].(*metadata); ok {
			m.client.Close()
		}
		return nil
	}

	return app
}

// flags shared by add and update
var recordFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "roll, r",
		Value: -1,
		Usage: "*roll number `ROLL_NO`",
	},
	cli.StringFlag{
		Name:  "name, n",
		Value: "",
		Usage: "*student `NAME`",
	},
	cli.IntFlag{
		Name:  "marks, m",
		Value: 0,
		Usage: " `MARKS` scored",
	},
	cli.StringFlag{
		Name:  "grade, g",
		Value: "",
		Usage: "*`GRADE` awarded",
	},
}
