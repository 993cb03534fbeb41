// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package avl - an AVL balanced tree of records ordered by identifier
//
// Note: an individual tree is not thread safe, so either access only
// in a single go routine or use mutex/rwmutex to restrict access.  A
// rotation observed part way through by another go routine would
// expose a tree that is neither ordered nor balanced.
//
// Each node caches the height of its sub-tree (a leaf is 1, an empty
// sub-tree is 0) and owns its children outright; there are no parent
// pointers.  Insert and delete descend recursively and rebalance on
// the way back up, each level returning the possibly new sub-tree
// root for its caller to link in.
//
// An insert never overwrites: inserting an identifier that is
// already present leaves the tree unchanged.  To change a record
// delete it and insert the replacement.
package avl
