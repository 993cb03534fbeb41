// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/recordd/fault"
)

// Limit - wait for a single request slot
//
// a request that would have to wait longer than maximumDelay, or whose
// context ends while waiting, is rejected and its reservation returned
// to the limiter
func Limit(ctx context.Context, limiter *rate.Limiter, maximumDelay time.Duration) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	delay := r.Delay()
	if delay > maximumDelay {
		r.Cancel()
		return fault.ErrRateLimiting
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// New - limiter for a rate in requests per second
//
// a zero rate disables limiting
func New(perSecond float64, burst int) (*rate.Limiter, error) {
	if perSecond < 0 || burst < 0 {
		return nil, fault.ErrInvalidRateLimit
	}
	if 0 == perSecond {
		return rate.NewLimiter(rate.Inf, 0), nil
	}
	if 0 == burst {
		return nil, fault.ErrInvalidRateLimit
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst), nil
}
