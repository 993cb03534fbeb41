// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handler - JSON over HTTP access to the record store
//
// routes:
//
//	GET    /students        all records as an object keyed by roll_no
//	POST   /students        add a record
//	GET    /students/{id}   one record
//	PUT    /students/{id}   replace a record
//	DELETE /students/{id}   remove a record
//	GET    /details         server status
//	GET    /metrics         prometheus metrics
package handler
