// Package cache implements the metadata-versioned, TTL-bound read-through
// cache between the club's spreadsheet API and anything that renders its
// data. Read paths never fail: a broken network serves the newest cached
// payload, and a cold cache serves an empty default.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/araf-office/fsmb-cricket-club/internal/api"
	"github.com/araf-office/fsmb-cricket-club/internal/stats"
	"github.com/araf-office/fsmb-cricket-club/internal/store"
)

// ErrNoPlayerName is returned when a per-player fetch is called without a
// name; it is the only error a read path surfaces.
var ErrNoPlayerName = errors.New("player name is required")

// Source is the remote data source consumed by the cache. *api.Client
// implements it; tests substitute fakes.
type Source interface {
	Metadata(ctx context.Context) (api.Metadata, error)
	Summary(ctx context.Context) (api.SummaryData, error)
	Players(ctx context.Context) (api.PlayersData, error)
	PlayerDetails(ctx context.Context, name string) (api.PlayerDetailsData, error)
	MatchData(ctx context.Context) (api.MatchDataResponse, error)
}

// Options configures a Service. Zero fields take defaults.
type Options struct {
	// TTL is the maximum entry age before a cached payload stops being
	// served on the fast path (default: 24h).
	TTL time.Duration
	// UpdateCooldown is the minimum gap between non-bypassed update
	// checks (default: 30s).
	UpdateCooldown time.Duration
	// Now overrides the clock (for tests).
	Now func() time.Time
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		TTL:            24 * time.Hour,
		UpdateCooldown: 30 * time.Second,
		Now:            time.Now,
	}
}

// Service is the cache layer over one Store and one Source.
type Service struct {
	store  store.Store
	source Source

	ttl      time.Duration
	cooldown time.Duration
	now      func() time.Time

	// Guards the throttle's read-modify-write on the last-check key.
	checkMu sync.Mutex
}

// NewService creates a cache service. Zero Options fields fall back to
// DefaultOptions values.
func NewService(st store.Store, source Source, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.TTL == 0 {
		opts.TTL = defaults.TTL
	}
	if opts.UpdateCooldown == 0 {
		opts.UpdateCooldown = defaults.UpdateCooldown
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}

	return &Service{
		store:    st,
		source:   source,
		ttl:      opts.TTL,
		cooldown: opts.UpdateCooldown,
		now:      opts.Now,
	}
}

// CheckForUpdates asks the remote source whether its data generation has
// moved past the locally recorded one, storing the remote metadata when it
// has. Unless bypassThrottle is set, calls within the cooldown window
// return false without touching the network. Failures also return false:
// serving stale data beats a failed refresh loop.
func (s *Service) CheckForUpdates(ctx context.Context, bypassThrottle bool) bool {
	s.checkMu.Lock()
	now := s.now()
	if !bypassThrottle && s.withinCooldown(now) {
		s.checkMu.Unlock()
		return false
	}
	// Record the check time before the network call so a failed call
	// still respects the cooldown.
	if err := s.store.Set(updateCheckKey, formatMillis(now)); err != nil {
		log.Printf("[Cache] failed to record update-check time: %v", err)
	}
	s.checkMu.Unlock()

	remote, err := s.source.Metadata(ctx)
	if err != nil {
		log.Printf("[Cache] update check failed: %v", err)
		return false
	}

	raw, ok := s.store.Get(metadataKey)
	if !ok {
		s.storeMetadata(remote)
		return true
	}

	var local api.Metadata
	if err := json.Unmarshal([]byte(raw), &local); err != nil {
		log.Printf("[Cache] corrupt stored metadata, forcing sync: %v", err)
		s.storeMetadata(remote)
		return true
	}

	if remote.LastUpdated > local.LastUpdated || remote.Version != local.Version {
		s.storeMetadata(remote)
		return true
	}
	return false
}

func (s *Service) withinCooldown(now time.Time) bool {
	raw, ok := s.store.Get(updateCheckKey)
	if !ok {
		return false
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return now.Sub(time.UnixMilli(last)) < s.cooldown
}

func (s *Service) storeMetadata(meta api.Metadata) {
	raw, err := json.Marshal(meta)
	if err != nil {
		log.Printf("[Cache] failed to encode metadata: %v", err)
		return
	}
	if err := s.store.Set(metadataKey, string(raw)); err != nil {
		log.Printf("[Cache] failed to store metadata: %v", err)
	}
}

// FetchSummary returns the home-page summary, from cache when fresh.
func (s *Service) FetchSummary(ctx context.Context, forceRefresh bool) api.SummaryData {
	if !forceRefresh {
		var cached api.SummaryData
		if s.readFresh(summaryKey, &cached) {
			return cached
		}
	}

	data, err := s.source.Summary(ctx)
	if err != nil {
		log.Printf("[Cache] summary fetch failed: %v", err)
		var cached api.SummaryData
		if s.readAnyAge(summaryKey, &cached) {
			return cached
		}
		return api.SummaryData{Teams: map[string]any{}, Matches: []any{}}
	}

	s.writeEntry(summaryKey, data)
	return data
}

// FetchPlayers returns the raw players sheet, from cache when fresh.
func (s *Service) FetchPlayers(ctx context.Context, forceRefresh bool) api.PlayersData {
	if !forceRefresh {
		var cached api.PlayersData
		if s.readFresh(playersKey, &cached) {
			return cached
		}
	}

	data, err := s.source.Players(ctx)
	if err != nil {
		log.Printf("[Cache] players fetch failed: %v", err)
		var cached api.PlayersData
		if s.readAnyAge(playersKey, &cached) {
			return cached
		}
		return api.PlayersData{Stats: [][]any{}}
	}

	s.writeEntry(playersKey, data)
	return data
}

// FetchPlayerDetails returns one player's details, from cache when fresh.
// The empty-default contract makes "player has no data" and "network down"
// indistinguishable to the caller; the distinction exists only in the log.
func (s *Service) FetchPlayerDetails(ctx context.Context, name string, forceRefresh bool) (api.PlayerDetailsData, error) {
	if name == "" {
		return api.PlayerDetailsData{}, ErrNoPlayerName
	}

	key := playerKey(name)
	if !forceRefresh {
		var cached api.PlayerDetailsData
		if s.readFresh(key, &cached) {
			return cached, nil
		}
	}

	data, err := s.source.PlayerDetails(ctx, name)
	if err != nil {
		log.Printf("[Cache] player %q fetch failed: %v", name, err)
		var cached api.PlayerDetailsData
		if s.readAnyAge(key, &cached) {
			return cached, nil
		}
		return api.PlayerDetailsData{Matches: [][]any{}, Stats: map[string]any{}}, nil
	}

	s.writeEntry(key, data)
	return data, nil
}

// FetchLastMatch returns the parsed most-recent match, from cache when
// fresh. The parsed form is what gets cached; nil means no match is
// available, which is not an error.
func (s *Service) FetchLastMatch(ctx context.Context, forceRefresh bool) *stats.LastMatchInfo {
	if !forceRefresh {
		var cached stats.LastMatchInfo
		if s.readFresh(matchKey, &cached) {
			return &cached
		}
	}

	resp, err := s.source.MatchData(ctx)
	if err != nil || len(resp.Rows) == 0 {
		if err != nil {
			log.Printf("[Cache] match data fetch failed: %v", err)
		}
		var cached stats.LastMatchInfo
		if s.readAnyAge(matchKey, &cached) {
			return &cached
		}
		return nil
	}

	parsed := stats.ParseMatchRows(resp.Rows)
	if parsed == nil {
		return nil
	}

	s.writeEntry(matchKey, parsed)
	return parsed
}

// CachedPlayerNames lists players that currently have a cached details
// entry, fresh or not.
func (s *Service) CachedPlayerNames() []string {
	var names []string
	for _, key := range s.store.Keys() {
		if name, ok := playerNameFromKey(key); ok {
			names = append(names, name)
		}
	}
	return names
}

// HasFreshEntry reports whether a player's details entry exists and is
// within its TTL.
func (s *Service) HasFreshEntry(name string) bool {
	key := playerKey(name)
	_, ok := s.store.Get(key)
	return ok && !s.isExpired(key)
}

// Clear removes every cache key, returning the store to cold-start state.
func (s *Service) Clear() {
	for _, key := range []string{metadataKey, summaryKey, playersKey, matchKey, updateCheckKey} {
		s.store.Remove(key)
		s.store.Remove(timestampKey(key))
	}

	for _, key := range s.store.Keys() {
		if _, ok := playerNameFromKey(key); ok {
			s.store.Remove(key)
			s.store.Remove(timestampKey(key))
		}
	}
	log.Println("[Cache] cleared")
}

// isExpired reports whether key's entry is past the TTL. A missing or
// unreadable timestamp counts as expired.
func (s *Service) isExpired(key string) bool {
	raw, ok := s.store.Get(timestampKey(key))
	if !ok {
		return true
	}
	storedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return s.now().Sub(time.UnixMilli(storedAt)) > s.ttl
}

// readFresh decodes key's payload into out when the entry exists and is
// within its TTL.
func (s *Service) readFresh(key string, out any) bool {
	if s.isExpired(key) {
		return false
	}
	return s.readAnyAge(key, out)
}

// readAnyAge decodes key's payload into out regardless of entry age; the
// fallback path for failed refreshes.
func (s *Service) readAnyAge(key string, out any) bool {
	raw, ok := s.store.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[Cache] corrupt payload under %q: %v", key, err)
		return false
	}
	return true
}

// writeEntry stores a payload and its timestamp. Write failures are
// logged and swallowed: the fetched payload is still returned to the
// caller, the cache just stays cold.
func (s *Service) writeEntry(key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Cache] failed to encode payload for %q: %v", key, err)
		return
	}
	if err := s.store.Set(key, string(raw)); err != nil {
		log.Printf("[Cache] failed to store %q: %v", key, err)
		return
	}
	if err := s.store.Set(timestampKey(key), formatMillis(s.now())); err != nil {
		log.Printf("[Cache] failed to store timestamp for %q: %v", key, err)
	}
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
