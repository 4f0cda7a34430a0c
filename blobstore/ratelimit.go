package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Store and throttles Put throughput. Snapshot
// publishing runs in the background of a fit; capping its bandwidth
// keeps it from competing with the data path.
type RateLimited struct {
	Store
	limiter *rate.Limiter
}

// NewRateLimited wraps store with a bytes-per-second write limit.
// If bytesPerSec <= 0 the store is returned unlimited.
func NewRateLimited(store Store, bytesPerSec int) *RateLimited {
	var limiter *rate.Limiter
	if bytesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
	return &RateLimited{Store: store, limiter: limiter}
}

// Put waits for write budget before delegating to the wrapped store.
func (s *RateLimited) Put(ctx context.Context, name string, data []byte) error {
	if s.limiter != nil {
		remaining := len(data)
		for remaining > 0 {
			n := remaining
			if n > s.limiter.Burst() {
				n = s.limiter.Burst()
			}
			if err := s.limiter.WaitN(ctx, n); err != nil {
				return err
			}
			remaining -= n
		}
	}
	return s.Store.Put(ctx, name, data)
}
