// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store - the record store shared by all request handlers
//
// A Store wraps one AVL tree, serialises access to it and writes a
// full snapshot to its persister after every successful change.
package store
