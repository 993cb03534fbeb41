// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// single right rotation, returns the new sub-tree root
//
//	    y            x
//	   / \          / \
//	  x   c  ==>   a   y
//	 / \              / \
//	a   b            b   c
//
// heights are recomputed for y (moved down) before x (moved up)
func rotateRight(y *node) *node {
	x := y.left
	b := x.right

	x.right = y
	y.left = b

	y.update()
	x.update()
	return x
}

// single left rotation, returns the new sub-tree root
//
//	  x                y
//	 / \              / \
//	a   y    ==>     x   c
//	   / \          / \
//	  b   c        a   b
//
// heights are recomputed for x (moved down) before y (moved up)
func rotateLeft(x *node) *node {
	y := x.right
	b := y.left

	y.left = x
	x.right = b

	x.update()
	y.update()
	return y
}
