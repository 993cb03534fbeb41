// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/recordd/record"
)

// Insert - insert a new record into the tree
//
// returns false and leaves the tree unchanged if the identifier is
// already present
func (tree *Tree) Insert(r record.Record) bool {
	added := false
	tree.root, added = insert(r, tree.root)
	if added {
		tree.count += 1
	}
	return added
}

// internal routine for insert
func insert(r record.Record, p *node) (*node, bool) {
	if nil == p { // insert new node
		return newNode(r), true
	}

	key := r.Identifier
	added := false
	switch {
	case key < p.record.Identifier:
		p.left, added = insert(r, p.left)
	case key > p.record.Identifier:
		p.right, added = insert(r, p.right)
	default:
		return p, false // duplicate
	}
	if !added {
		return p, false
	}

	p.update()
	balance := p.balance()

	// the inserted key selects the case
	switch {
	case balance > 1 && key < p.left.record.Identifier:
		// single LL rotation
		return rotateRight(p), true

	case balance < -1 && key > p.right.record.Identifier:
		// single RR rotation
		return rotateLeft(p), true

	case balance > 1 && key > p.left.record.Identifier:
		// double LR rotation
		p.left = rotateLeft(p.left)
		return rotateRight(p), true

	case balance < -1 && key < p.right.record.Identifier:
		// double RL rotation
		p.right = rotateRight(p.right)
		return rotateLeft(p), true
	}
	return p, true
}
