// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/recordd/fault"
)

const (
	requestTimeout = 30 * time.Second
)

// Client - to hold the HTTP connection to a recordd
type Client struct {
	url     string
	client  *http.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a client for a recordd base URL
//
// HTTPS servers normally use a self-signed certificate so it is not
// verified
func NewClient(url string, verbose bool, handle io.Writer) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}
	return &Client{
		url: strings.TrimRight(url, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		verbose: verbose,
		handle:  handle,
	}
}

// Close - release idle connections
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// error reply from the server
type errorReply struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// perform one request and return the body of a successful reply
func (c *Client) do(method string, path string, request interface{}) ([]byte, error) {
	var body io.Reader
	if nil != request {
		b, err := json.Marshal(request)
		if nil != err {
			return nil, err
		}
		body = bytes.NewReader(b)
		if c.verbose {
			fmt.Fprintf(c.handle, "%s %s\n%s\n", method, path, b)
		}
	} else if c.verbose {
		fmt.Fprintf(c.handle, "%s %s\n", method, path)
	}

	req, err := http.NewRequest(method, c.url+path, body)
	if nil != err {
		return nil, err
	}
	if nil != body {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if nil != err {
		return nil, err
	}
	defer resp.Body.Close()

	reply, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return nil, err
	}
	if c.verbose {
		fmt.Fprintf(c.handle, "status: %d\n%s\n", resp.StatusCode, reply)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return reply, nil
	}

	e := errorReply{}
	if err := json.Unmarshal(reply, &e); nil != err || "" == e.Error {
		return nil, fmt.Errorf("%w: status: %d", fault.ErrRemoteFailed, resp.StatusCode)
	}
	return nil, fmt.Errorf("%w: status: %d  error: %s", fault.ErrRemoteFailed, e.Code, e.Error)
}
