// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bitmark-inc/recordd/record"
)

const (
	studentsPath = "/students"
)

// MessageReply - confirmation of a change
type MessageReply struct {
	Message string `json:"message"`
}

// DetailsReply - server status
type DetailsReply struct {
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Records     int    `json:"records"`
	Height      int    `json:"height"`
	Generation  uint64 `json:"generation"`
	Connections int64  `json:"connections"`
}

// List - all records in ascending identifier order
func (c *Client) List() ([]record.Record, error) {
	reply, err := c.do(http.MethodGet, studentsPath, nil)
	if nil != err {
		return nil, err
	}
	return record.DecodeMapping(reply)
}

// Get - one record
func (c *Client) Get(identifier int) (*record.Record, error) {
	reply, err := c.do(http.MethodGet, recordPath(identifier), nil)
	if nil != err {
		return nil, err
	}
	r := &record.Record{}
	err = json.Unmarshal(reply, r)
	if nil != err {
		return nil, err
	}
	return r, nil
}

// Add - create a record
func (c *Client) Add(r record.Record) (*MessageReply, error) {
	return c.message(http.MethodPost, studentsPath, r)
}

// Update - replace the record stored under identifier
func (c *Client) Update(identifier int, r record.Record) (*MessageReply, error) {
	return c.message(http.MethodPut, recordPath(identifier), r)
}

// Delete - remove a record
func (c *Client) Delete(identifier int) (*MessageReply, error) {
	return c.message(http.MethodDelete, recordPath(identifier), nil)
}

// Details - server status
func (c *Client) Details() (*DetailsReply, error) {
	reply, err := c.do(http.MethodGet, "/details", nil)
	if nil != err {
		return nil, err
	}
	d := &DetailsReply{}
	err = json.Unmarshal(reply, d)
	if nil != err {
		return nil, err
	}
	return d, nil
}

func (c *Client) message(method string, path string, request interface{}) (*MessageReply, error) {
	reply, err := c.do(method, path, request)
	if nil != err {
		return nil, err
	}
	m := &MessageReply{}
	err = json.Unmarshal(reply, m)
	if nil != err {
		return nil, err
	}
	return m, nil
}

func recordPath(identifier int) string {
	return studentsPath + "/" + strconv.Itoa(identifier)
}
