package cache

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// UpdaterOptions configures the background updater. Zero fields take
// defaults.
type UpdaterOptions struct {
	// Interval between check-and-refresh cycles (default: 5m).
	Interval time.Duration
	// RefreshLimit caps how many cached player entries one cycle
	// refreshes; the rest go stale until their next read (default: 3).
	RefreshLimit int
	// RefreshDelay is the pause between sequential per-player refreshes,
	// a deliberate rate limit on the sheet backend (default: 400ms).
	RefreshDelay time.Duration
}

// DefaultUpdaterOptions returns the production configuration.
func DefaultUpdaterOptions() UpdaterOptions {
	return UpdaterOptions{
		Interval:     5 * time.Minute,
		RefreshLimit: 3,
		RefreshDelay: 400 * time.Millisecond,
	}
}

// Updater periodically asks the service whether the remote data has
// changed and, when it has, refreshes the shared entry caches and
// publishes one update event.
type Updater struct {
	service  *Service
	notifier *Notifier
	opts     UpdaterOptions

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewUpdater creates a background updater over the given service.
func NewUpdater(service *Service, notifier *Notifier, opts UpdaterOptions) *Updater {
	defaults := DefaultUpdaterOptions()
	if opts.Interval == 0 {
		opts.Interval = defaults.Interval
	}
	if opts.RefreshLimit == 0 {
		opts.RefreshLimit = defaults.RefreshLimit
	}
	if opts.RefreshDelay == 0 {
		opts.RefreshDelay = defaults.RefreshDelay
	}

	return &Updater{
		service:  service,
		notifier: notifier,
		opts:     opts,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one cycle immediately, then one per interval, until Stop.
// Calling Start more than once has no additional effect.
func (u *Updater) Start() {
	if !u.started.CompareAndSwap(false, true) {
		return
	}
	go u.run()
}

// Stop halts the update loop and waits for an in-flight cycle to finish.
// Safe to call multiple times; a stopped updater stays stopped.
func (u *Updater) Stop() {
	if !u.started.Load() {
		return
	}
	u.stopOnce.Do(func() {
		close(u.stop)
	})
	<-u.done
}

func (u *Updater) run() {
	defer close(u.done)

	ticker := time.NewTicker(u.opts.Interval)
	defer ticker.Stop()

	u.runCycle(context.Background())

	for {
		select {
		case <-u.stop:
			return
		case <-ticker.C:
			u.runCycle(context.Background())
		}
	}
}

// runCycle performs one check-and-refresh pass. The interval is the
// throttle here, so the cooldown is bypassed.
func (u *Updater) runCycle(ctx context.Context) {
	if !u.service.CheckForUpdates(ctx, true) {
		return
	}

	log.Println("[Updater] remote data changed, refreshing caches")

	// Summary and players have no ordering dependency; refresh together.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		u.service.FetchSummary(ctx, true)
	}()
	go func() {
		defer wg.Done()
		u.service.FetchPlayers(ctx, true)
	}()
	wg.Wait()

	u.refreshCachedPlayers(ctx)

	u.notifier.Publish()
}

// refreshCachedPlayers re-fetches a bounded subset of the already-cached
// player entries, sequentially with a fixed delay. Bounding the subset
// keeps one cycle's request fan-out independent of roster size; entries
// left out refresh lazily on their next read.
func (u *Updater) refreshCachedPlayers(ctx context.Context) {
	names := u.service.CachedPlayerNames()
	if len(names) > u.opts.RefreshLimit {
		names = names[:u.opts.RefreshLimit]
	}

	for i, name := range names {
		if i > 0 {
			select {
			case <-u.stop:
				return
			case <-time.After(u.opts.RefreshDelay):
			}
		}

		if _, err := u.service.FetchPlayerDetails(ctx, name, true); err != nil {
			log.Printf("[Updater] refresh of player %q failed: %v", name, err)
		}
	}
}
