// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/recordd/record"
)

// Search - find a specific record
func (tree *Tree) Search(identifier int) (record.Record, bool) {
	p := tree.root
	for nil != p {
		switch {
		case identifier < p.record.Identifier:
			p = p.left
		case identifier > p.record.Identifier:
			p = p.right
		default:
			return p.record, true
		}
	}
	return record.Record{}, false
}
