// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package snapshot - keep the records in a single JSON file
//
// The file holds one object that maps each stringified identifier to
// its record, keys in ascending numeric order.  Every save rewrites
// the whole file.
package snapshot
