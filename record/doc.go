// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - the data item held by the store
//
// A record is plain data ordered only by its identifier.  The JSON
// form uses the field names of the student roster: "roll_no" carries
// the identifier, "marks" the score and "grade" the category.
package record
