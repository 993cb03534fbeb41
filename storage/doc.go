// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - keep the records in a LevelDB database
//
// Each record is one key/value pair.  The key is a one byte prefix
// followed by the identifier as a big endian uint64 with the sign bit
// inverted, so the natural iteration order of the database is
// ascending identifier order.  The value is the JSON encoded record.
package storage
