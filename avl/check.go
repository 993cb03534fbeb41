// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"fmt"

	"github.com/bitmark-inc/recordd/fault"
)

// Check - verify ordering, balance, cached heights and count
func (tree *Tree) Check() error {
	_, n, err := check(tree.root, nil, nil)
	if nil != err {
		return err
	}
	if n != tree.count {
		return fmt.Errorf("%w: nodes: %d  count: %d", fault.ErrTreeCount, n, tree.count)
	}
	return nil
}

// internal: consistency checker
//
// every identifier must lie strictly between the bounds, which also
// rules out duplicates; returns the computed height and node count
func check(p *node, low *int, high *int) (int, int, error) {
	if nil == p {
		return 0, 0, nil
	}
	id := p.record.Identifier
	if (nil != low && id <= *low) || (nil != high && id >= *high) {
		return 0, 0, fmt.Errorf("%w: identifier: %d", fault.ErrTreeOrder, id)
	}

	lh, ln, err := check(p.left, low, &id)
	if nil != err {
		return 0, 0, err
	}
	rh, rn, err := check(p.right, &id, high)
	if nil != err {
		return 0, 0, err
	}

	if d := lh - rh; d > 1 || d < -1 {
		return 0, 0, fmt.Errorf("%w: identifier: %d  left: %d  right: %d", fault.ErrTreeBalance, id, lh, rh)
	}
	if h := 1 + max(lh, rh); h != p.height {
		return 0, 0, fmt.Errorf("%w: identifier: %d  cached: %d  actual: %d", fault.ErrTreeHeight, id, p.height, h)
	}
	return p.height, 1 + ln + rn, nil
}
