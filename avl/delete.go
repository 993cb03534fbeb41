// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Delete - remove a record from the tree
//
// returns false and leaves the tree unchanged if the identifier is
// not present
func (tree *Tree) Delete(identifier int) bool {
	deleted := false
	tree.root, deleted = remove(identifier, tree.root)
	if deleted {
		tree.count -= 1
	}
	return deleted
}

// internal routine for delete
func remove(identifier int, p *node) (*node, bool) {
	if nil == p {
		return nil, false
	}

	deleted := false
	switch {
	case identifier < p.record.Identifier:
		p.left, deleted = remove(identifier, p.left)

	case identifier > p.record.Identifier:
		p.right, deleted = remove(identifier, p.right)

	case nil == p.left || nil == p.right:
		// zero or one child: splice this node out
		child := p.left
		if nil == child {
			child = p.right
		}
		p.left = nil
		p.right = nil
		return child, true

	default:
		// two children: move the in-order successor's record into
		// this node then delete the successor from the right
		// sub-tree, the successor has no left child
		successor := p.right.first()
		p.record = successor.record
		p.right, deleted = remove(successor.record.Identifier, p.right)
	}
	if !deleted {
		return p, false
	}

	p.update()
	return rebalance(p), true
}

// delete: tree balancer
//
// the deleted key is gone, so the case is selected by the balance of
// the taller child
func rebalance(p *node) *node {
	balance := p.balance()

	switch {
	case balance > 1 && p.left.balance() >= 0:
		// single LL rotation
		return rotateRight(p)

	case balance > 1:
		// double LR rotation
		p.left = rotateLeft(p.left)
		return rotateRight(p)

	case balance < -1 && p.right.balance() <= 0:
		// single RR rotation
		return rotateLeft(p)

	case balance < -1:
		// double RL rotation
		p.right = rotateRight(p.right)
		return rotateLeft(p)
	}
	return p
}
