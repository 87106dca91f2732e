//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package ratelimiter

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Limiter bounds the rate of requests against the object store. A nil
// *Limiter never blocks.
type Limiter struct {
	limiter *rate.Limiter
	// waited counts the calls to Wait that found no token available.
	waited atomic.Int64
}

// New creates a [Limiter] allowing requestsPerSecond on average with bursts
// of up to the same number of requests, but at least one. A non-positive
// rate disables limiting and returns nil.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	burst := int(math.Max(1, math.Ceil(requestsPerSecond)))
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next request is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r := l.limiter.Reserve()
	if !r.OK() {
		return errors.New("rate limiter cannot serve request")
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}
	l.waited.Add(1)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Waited returns how many calls to Wait had to block for a token.
func (l *Limiter) Waited() int64 {
	if l == nil {
		return 0
	}
	return l.waited.Load()
}
