// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/recordd/record"
)

// Iterator - in-order walk over a tree
//
// the tree must not be modified while an iterator is in use
type Iterator struct {
	stack []*node // path of nodes whose records are still to be returned
}

// Iterator - start a new walk from the lowest identifier
func (tree *Tree) Iterator() *Iterator {
	it := &Iterator{
		stack: make([]*node, 0, tree.Height()),
	}
	it.descend(tree.root)
	return it
}

// Next - return the record with the next highest identifier
//
// returns false when the walk is complete
func (it *Iterator) Next() (record.Record, bool) {
	n := len(it.stack)
	if 0 == n {
		return record.Record{}, false
	}
	p := it.stack[n-1]
	it.stack = it.stack[:n-1]
	it.descend(p.right)
	return p.record, true
}

// push a node and the whole chain of its left children
func (it *Iterator) descend(p *node) {
	for nil != p {
		it.stack = append(it.stack, p)
		p = p.left
	}
}

// Snapshot - all records in ascending identifier order
func (tree *Tree) Snapshot() []record.Record {
	records := make([]record.Record, 0, tree.count)
	it := tree.Iterator()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		records = append(records, r)
	}
	return records
}

// First - return the record with the lowest identifier
func (tree *Tree) First() (record.Record, bool) {
	p := tree.root.first()
	if nil == p {
		return record.Record{}, false
	}
	return p.record, true
}

// internal: lowest node in a sub-tree
func (p *node) first() *node {
	if nil == p {
		return nil
	}
	for nil != p.left {
		p = p.left
	}
	return p
}

// Last - return the record with the highest identifier
func (tree *Tree) Last() (record.Record, bool) {
	p := tree.root.last()
	if nil == p {
		return record.Record{}, false
	}
	return p.record, true
}

// internal: highest node in a sub-tree
func (p *node) last() *node {
	if nil == p {
		return nil
	}
	for nil != p.right {
		p = p.right
	}
	return p
}
