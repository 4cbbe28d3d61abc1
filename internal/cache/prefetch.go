package cache

import (
	"context"
	"log"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// PrefetchOptions configures the player-details prefetcher. Zero fields
// take defaults.
type PrefetchOptions struct {
	// Limit caps the players warmed per call (default: 5).
	Limit int
	// Delay is the pause between sequential prefetch requests
	// (default: 500ms).
	Delay time.Duration
}

// DefaultPrefetchOptions returns the production configuration.
func DefaultPrefetchOptions() PrefetchOptions {
	return PrefetchOptions{
		Limit: 5,
		Delay: 500 * time.Millisecond,
	}
}

// Prefetcher warms per-player cache entries in the background so the
// first visit to a player's page hits cache. A bloom filter remembers
// names already attempted this session; false positives merely skip a
// warm-up, which the read path covers anyway.
type Prefetcher struct {
	service   *Service
	opts      PrefetchOptions
	attempted *bloom.BloomFilter
}

// NewPrefetcher creates a prefetcher over the given service.
func NewPrefetcher(service *Service, opts PrefetchOptions) *Prefetcher {
	defaults := DefaultPrefetchOptions()
	if opts.Limit == 0 {
		opts.Limit = defaults.Limit
	}
	if opts.Delay == 0 {
		opts.Delay = defaults.Delay
	}

	return &Prefetcher{
		service:   service,
		opts:      opts,
		attempted: bloom.NewWithEstimates(10000, 0.001),
	}
}

// PrefetchPlayerDetails warms cache entries for up to Limit of the given
// players, skipping entries that are already fresh and names attempted
// earlier this session. One player's failure never stops the batch.
func (p *Prefetcher) PrefetchPlayerDetails(ctx context.Context, names []string) {
	if len(names) > p.opts.Limit {
		names = names[:p.opts.Limit]
	}

	fetched := 0
	for _, name := range names {
		if name == "" || p.attempted.TestString(name) {
			continue
		}
		p.attempted.AddString(name)

		if p.service.HasFreshEntry(name) {
			continue
		}

		if fetched > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.opts.Delay):
			}
		}

		if _, err := p.service.FetchPlayerDetails(ctx, name, false); err != nil {
			log.Printf("[Prefetch] player %q failed: %v", name, err)
			continue
		}
		fetched++
	}
}
