// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/recordd/record"
)

func runList(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	records, err := m.client.List()
	if nil != err {
		return err
	}

	b, err := record.EncodeMapping(records, "  ")
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", b)
	return nil
}

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	identifier, err := identifierArgument(c)
	if nil != err {
		return err
	}

	r, err := m.client.Get(identifier)
	if nil != err {
		return err
	}
	return printJson(m.w, r)
}

func runAdd(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	r, err := recordFromFlags(c)
	if nil != err {
		return err
	}

	reply, err := m.client.Add(r)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

// a missing --roll keeps the existing roll number
func runUpdate(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	identifier, err := identifierArgument(c)
	if nil != err {
		return err
	}

	if !c.IsSet("roll") {
		c.Set("roll", fmt.Sprintf("%d", identifier))
	}

	r, err := recordFromFlags(c)
	if nil != err {
		return err
	}

	reply, err := m.client.Update(identifier, r)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runDelete(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	identifier, err := identifierArgument(c)
	if nil != err {
		return err
	}

	reply, err := m.client.Delete(identifier)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runDetails(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	reply, err := m.client.Details()
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

// first positional argument
func identifierArgument(c *cli.Context) (int, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("missing roll number")
	}
	return record.ParseIdentifier(c.Args().Get(0))
}

func recordFromFlags(c *cli.Context) (record.Record, error) {
	r := record.Record{
		Identifier: c.Int("roll"),
		Name:       strings.TrimSpace(c.String("name")),
		Score:      c.Int("marks"),
		Category:   strings.TrimSpace(c.String("grade")),
	}
	return r, r.Validate()
}

func printJson(handle io.Writer, message interface{}) error {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}
	_, err = fmt.Fprintf(handle, "%s\n", b)
	return err
}
