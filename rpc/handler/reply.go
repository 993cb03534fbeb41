// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bitmark-inc/recordd/fault"
)

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}
	sendJSON(w, text, http.StatusOK)
}

// short confirmation of a change
func sendMessage(w http.ResponseWriter, message string) {
	sendReply(w, struct {
		Message string `json:"message"`
	}{
		Message: message,
	})
}

// pre-encoded JSON
func sendJSON(w http.ResponseWriter, text []byte, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}

// map an error from the store to a status code
func sendFault(w http.ResponseWriter, err error) {
	switch {
	case fault.IsErrNotFound(err):
		sendError(w, err.Error(), http.StatusNotFound)
	case fault.IsErrInvalid(err):
		sendError(w, err.Error(), http.StatusBadRequest)
	case fault.IsErrExists(err):
		sendError(w, err.Error(), http.StatusConflict)
	default:
		sendInternalServerError(w)
	}
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}
	sendJSON(w, text, code)
}
