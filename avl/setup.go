// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/recordd/record"
)

// a node in the tree
type node struct {
	left   *node         // left sub-tree
	right  *node         // right sub-tree
	height int           // 1 + height of the taller sub-tree
	record record.Record // data, ordered by Identifier
}

// Tree - type to hold the root node of a tree
type Tree struct {
	root  *node
	count int
}

// New - create an initially empty tree
func New() *Tree {
	return &Tree{
		root:  nil,
		count: 0,
	}
}

// IsEmpty - true if tree contains no data
func (tree *Tree) IsEmpty() bool {
	return nil == tree.root
}

// Count - number of nodes currently in the tree
func (tree *Tree) Count() int {
	return tree.count
}

// Height - height of the whole tree, zero when empty
func (tree *Tree) Height() int {
	return height(tree.root)
}

// create a leaf
func newNode(r record.Record) *node {
	return &node{
		record: r,
		height: 1,
	}
}

// height of a possibly empty sub-tree
func height(p *node) int {
	if nil == p {
		return 0
	}
	return p.height
}

// recompute the cached height from the children
func (p *node) update() {
	p.height = 1 + max(height(p.left), height(p.right))
}

// left height minus right height
func (p *node) balance() int {
	if nil == p {
		return 0
	}
	return height(p.left) - height(p.right)
}
