package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/araf-office/fsmb-cricket-club/internal/api"
	"github.com/araf-office/fsmb-cricket-club/internal/store"
)

// fakeSource implements Source with overridable funcs and call counters.
type fakeSource struct {
	metadataFn      func(ctx context.Context) (api.Metadata, error)
	summaryFn       func(ctx context.Context) (api.SummaryData, error)
	playersFn       func(ctx context.Context) (api.PlayersData, error)
	playerDetailsFn func(ctx context.Context, name string) (api.PlayerDetailsData, error)
	matchDataFn     func(ctx context.Context) (api.MatchDataResponse, error)

	metadataCalls      int
	summaryCalls       int
	playersCalls       int
	playerDetailsCalls int
	matchDataCalls     int
}

func (f *fakeSource) Metadata(ctx context.Context) (api.Metadata, error) {
	f.metadataCalls++
	if f.metadataFn == nil {
		return api.Metadata{LastUpdated: 100, Version: "v1"}, nil
	}
	return f.metadataFn(ctx)
}

func (f *fakeSource) Summary(ctx context.Context) (api.SummaryData, error) {
	f.summaryCalls++
	if f.summaryFn == nil {
		return api.SummaryData{Teams: map[string]any{"Tigers": nil}, Matches: []any{"m1"}}, nil
	}
	return f.summaryFn(ctx)
}

func (f *fakeSource) Players(ctx context.Context) (api.PlayersData, error) {
	f.playersCalls++
	if f.playersFn == nil {
		return api.PlayersData{Stats: [][]any{{"Name"}, {"Alice"}}}, nil
	}
	return f.playersFn(ctx)
}

func (f *fakeSource) PlayerDetails(ctx context.Context, name string) (api.PlayerDetailsData, error) {
	f.playerDetailsCalls++
	if f.playerDetailsFn == nil {
		return api.PlayerDetailsData{Matches: [][]any{{"row"}}, Stats: map[string]any{"runs": 10.0}}, nil
	}
	return f.playerDetailsFn(ctx, name)
}

func (f *fakeSource) MatchData(ctx context.Context) (api.MatchDataResponse, error) {
	f.matchDataCalls++
	if f.matchDataFn == nil {
		return api.MatchDataResponse{}, nil
	}
	return f.matchDataFn(ctx)
}

// testClock is a movable clock for TTL and throttle tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(source *fakeSource) (*Service, *store.MemoryStore, *testClock) {
	st := store.NewMemoryStore()
	clock := &testClock{now: time.UnixMilli(1_700_000_000_000)}
	svc := NewService(st, source, Options{
		TTL:            24 * time.Hour,
		UpdateCooldown: 30 * time.Second,
		Now:            clock.Now,
	})
	return svc, st, clock
}

func TestFetchSummaryCachesResult(t *testing.T) {
	source := &fakeSource{}
	svc, _, _ := newTestService(source)
	ctx := context.Background()

	first := svc.FetchSummary(ctx, false)
	if len(first.Teams) != 1 {
		t.Fatalf("expected 1 team, got %d", len(first.Teams))
	}

	second := svc.FetchSummary(ctx, false)
	if len(second.Teams) != 1 {
		t.Fatalf("expected cached summary, got %+v", second)
	}
	if source.summaryCalls != 1 {
		t.Errorf("expected 1 network call, got %d", source.summaryCalls)
	}
}

func TestFetchSummaryForceRefreshSkipsCache(t *testing.T) {
	source := &fakeSource{}
	svc, _, _ := newTestService(source)
	ctx := context.Background()

	svc.FetchSummary(ctx, false)
	svc.FetchSummary(ctx, true)
	if source.summaryCalls != 2 {
		t.Errorf("expected 2 network calls, got %d", source.summaryCalls)
	}
}

func TestFetchSummaryTTLBoundary(t *testing.T) {
	source := &fakeSource{}
	svc, _, clock := newTestService(source)
	ctx := context.Background()

	svc.FetchSummary(ctx, false)

	// Exactly at the TTL the entry still serves; one past it does not.
	clock.Advance(24 * time.Hour)
	svc.FetchSummary(ctx, false)
	if source.summaryCalls != 1 {
		t.Fatalf("entry at exactly TTL should still be fresh, got %d calls", source.summaryCalls)
	}

	clock.Advance(time.Millisecond)
	svc.FetchSummary(ctx, false)
	if source.summaryCalls != 2 {
		t.Errorf("entry past TTL should refetch, got %d calls", source.summaryCalls)
	}
}

func TestFetchSummaryServesExpiredCacheOnFailure(t *testing.T) {
	source := &fakeSource{}
	svc, _, clock := newTestService(source)
	ctx := context.Background()

	svc.FetchSummary(ctx, false)

	clock.Advance(25 * time.Hour)
	source.summaryFn = func(ctx context.Context) (api.SummaryData, error) {
		return api.SummaryData{}, errors.New("network down")
	}

	got := svc.FetchSummary(ctx, false)
	if len(got.Teams) != 1 || len(got.Matches) != 1 {
		t.Errorf("expected expired cached summary, got %+v", got)
	}
}

func TestFetchSummaryEmptyDefaultOnColdFailure(t *testing.T) {
	source := &fakeSource{
		summaryFn: func(ctx context.Context) (api.SummaryData, error) {
			return api.SummaryData{}, errors.New("network down")
		},
	}
	svc, _, _ := newTestService(source)

	got := svc.FetchSummary(context.Background(), false)
	if got.Teams == nil || got.Matches == nil {
		t.Errorf("cold-cache failure should return empty default, got %+v", got)
	}
	if len(got.Teams) != 0 || len(got.Matches) != 0 {
		t.Errorf("expected empty default, got %+v", got)
	}
}

func TestFetchPlayersEmptyDefaultOnColdFailure(t *testing.T) {
	source := &fakeSource{
		playersFn: func(ctx context.Context) (api.PlayersData, error) {
			return api.PlayersData{}, errors.New("network down")
		},
	}
	svc, _, _ := newTestService(source)

	got := svc.FetchPlayers(context.Background(), false)
	if got.Stats == nil || len(got.Stats) != 0 {
		t.Errorf("expected empty stats default, got %+v", got)
	}
}

func TestFetchPlayerDetailsRequiresName(t *testing.T) {
	source := &fakeSource{}
	svc, _, _ := newTestService(source)

	_, err := svc.FetchPlayerDetails(context.Background(), "", false)
	if !errors.Is(err, ErrNoPlayerName) {
		t.Errorf("expected ErrNoPlayerName, got %v", err)
	}
	if source.playerDetailsCalls != 0 {
		t.Errorf("empty name must not hit the network, got %d calls", source.playerDetailsCalls)
	}
}

func TestFetchPlayerDetailsCachesPerPlayer(t *testing.T) {
	source := &fakeSource{}
	svc, _, _ := newTestService(source)
	ctx := context.Background()

	if _, err := svc.FetchPlayerDetails(ctx, "Alice", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FetchPlayerDetails(ctx, "Alice", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.playerDetailsCalls != 1 {
		t.Errorf("expected 1 network call for cached player, got %d", source.playerDetailsCalls)
	}

	if _, err := svc.FetchPlayerDetails(ctx, "Bob", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.playerDetailsCalls != 2 {
		t.Errorf("distinct players use distinct entries, got %d calls", source.playerDetailsCalls)
	}
}

func TestFetchPlayerDetailsEmptyDefaultOnColdFailure(t *testing.T) {
	source := &fakeSource{
		playerDetailsFn: func(ctx context.Context, name string) (api.PlayerDetailsData, error) {
			return api.PlayerDetailsData{}, errors.New("network down")
		},
	}
	svc, _, _ := newTestService(source)

	got, err := svc.FetchPlayerDetails(context.Background(), "Alice", false)
	if err != nil {
		t.Fatalf("network failure must not surface an error, got %v", err)
	}
	if got.Matches == nil || got.Stats == nil {
		t.Errorf("expected empty default, got %+v", got)
	}
}

func TestCheckForUpdatesBootstrap(t *testing.T) {
	source := &fakeSource{}
	svc, st, _ := newTestService(source)
	ctx := context.Background()

	if !svc.CheckForUpdates(ctx, true) {
		t.Fatal("first check with no local metadata should report true")
	}

	raw, ok := st.Get("cricket_data_metadata")
	if !ok {
		t.Fatal("bootstrap should store the remote metadata")
	}
	var stored api.Metadata
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored metadata unreadable: %v", err)
	}
	if stored.LastUpdated != 100 || stored.Version != "v1" {
		t.Errorf("stored metadata = %+v", stored)
	}

	if svc.CheckForUpdates(ctx, true) {
		t.Error("second check with identical metadata should report false")
	}
}

func TestCheckForUpdatesComparison(t *testing.T) {
	tests := []struct {
		name   string
		remote api.Metadata
		want   bool
	}{
		{"identical", api.Metadata{LastUpdated: 100, Version: "v1"}, false},
		{"newer timestamp", api.Metadata{LastUpdated: 101, Version: "v1"}, true},
		{"older timestamp", api.Metadata{LastUpdated: 99, Version: "v1"}, false},
		{"version changed", api.Metadata{LastUpdated: 100, Version: "v2"}, true},
		{"both changed", api.Metadata{LastUpdated: 200, Version: "v2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{}
			svc, _, _ := newTestService(source)
			ctx := context.Background()

			// Seed local metadata at {100, v1}.
			if !svc.CheckForUpdates(ctx, true) {
				t.Fatal("seed check should report true")
			}

			source.metadataFn = func(ctx context.Context) (api.Metadata, error) {
				return tt.remote, nil
			}
			if got := svc.CheckForUpdates(ctx, true); got != tt.want {
				t.Errorf("CheckForUpdates with remote %+v = %v, want %v", tt.remote, got, tt.want)
			}
		})
	}
}

func TestCheckForUpdatesThrottle(t *testing.T) {
	source := &fakeSource{}
	svc, _, clock := newTestService(source)
	ctx := context.Background()

	svc.CheckForUpdates(ctx, false)
	if source.metadataCalls != 1 {
		t.Fatalf("expected 1 metadata call, got %d", source.metadataCalls)
	}

	// Inside the cooldown: no network, result false.
	clock.Advance(10 * time.Second)
	if svc.CheckForUpdates(ctx, false) {
		t.Error("throttled check should report false")
	}
	if source.metadataCalls != 1 {
		t.Errorf("throttled check must not hit the network, got %d calls", source.metadataCalls)
	}

	// Bypass ignores the cooldown.
	svc.CheckForUpdates(ctx, true)
	if source.metadataCalls != 2 {
		t.Errorf("bypass should hit the network, got %d calls", source.metadataCalls)
	}

	// Past the cooldown a normal check proceeds again.
	clock.Advance(31 * time.Second)
	svc.CheckForUpdates(ctx, false)
	if source.metadataCalls != 3 {
		t.Errorf("post-cooldown check should hit the network, got %d calls", source.metadataCalls)
	}
}

func TestCheckForUpdatesFailureStillStartsCooldown(t *testing.T) {
	source := &fakeSource{
		metadataFn: func(ctx context.Context) (api.Metadata, error) {
			return api.Metadata{}, errors.New("network down")
		},
	}
	svc, _, clock := newTestService(source)
	ctx := context.Background()

	if svc.CheckForUpdates(ctx, false) {
		t.Error("failed check should report false")
	}

	clock.Advance(5 * time.Second)
	svc.CheckForUpdates(ctx, false)
	if source.metadataCalls != 1 {
		t.Errorf("failed check should still start the cooldown, got %d calls", source.metadataCalls)
	}
}

func TestFetchLastMatchParsesAndCaches(t *testing.T) {
	rows := [][]any{
		matchRow("2026-08-30", "Alice", "yes", "Tigers", "Won", "150/4"),
		matchRow("2026-08-30", "Bob", "", "Lions", "Lost", "120/8"),
	}
	source := &fakeSource{
		matchDataFn: func(ctx context.Context) (api.MatchDataResponse, error) {
			return api.MatchDataResponse{Rows: rows}, nil
		},
	}
	svc, _, _ := newTestService(source)
	ctx := context.Background()

	match := svc.FetchLastMatch(ctx, false)
	if match == nil {
		t.Fatal("expected a parsed match")
	}
	if match.Date != "2026-08-30" {
		t.Errorf("Date = %q", match.Date)
	}
	if len(match.Teams) != 2 || len(match.Players) != 2 {
		t.Errorf("teams=%d players=%d", len(match.Teams), len(match.Players))
	}

	// Second read comes from the cached parsed form.
	again := svc.FetchLastMatch(ctx, false)
	if again == nil || again.Date != "2026-08-30" {
		t.Fatalf("cached match = %+v", again)
	}
	if source.matchDataCalls != 1 {
		t.Errorf("expected 1 network call, got %d", source.matchDataCalls)
	}
}

func TestFetchLastMatchNilWhenNoData(t *testing.T) {
	source := &fakeSource{}
	svc, _, _ := newTestService(source)

	if match := svc.FetchLastMatch(context.Background(), false); match != nil {
		t.Errorf("no rows and no cache should yield nil, got %+v", match)
	}
}

func TestCachedPlayerNamesAndFreshness(t *testing.T) {
	source := &fakeSource{}
	svc, _, clock := newTestService(source)
	ctx := context.Background()

	if _, err := svc.FetchPlayerDetails(ctx, "Alice", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := svc.CachedPlayerNames()
	if len(names) != 1 || names[0] != "Alice" {
		t.Fatalf("CachedPlayerNames = %v", names)
	}

	if !svc.HasFreshEntry("Alice") {
		t.Error("Alice should be fresh right after fetching")
	}
	if svc.HasFreshEntry("Bob") {
		t.Error("Bob was never fetched")
	}

	clock.Advance(25 * time.Hour)
	if svc.HasFreshEntry("Alice") {
		t.Error("Alice should be stale past the TTL")
	}
	// Stale entries still count as cached.
	if got := svc.CachedPlayerNames(); len(got) != 1 {
		t.Errorf("stale entry should still be listed, got %v", got)
	}
}

func TestClear(t *testing.T) {
	source := &fakeSource{}
	svc, st, _ := newTestService(source)
	ctx := context.Background()

	svc.CheckForUpdates(ctx, true)
	svc.FetchSummary(ctx, false)
	svc.FetchPlayers(ctx, false)
	if _, err := svc.FetchPlayerDetails(ctx, "Alice", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.Clear()
	if keys := st.Keys(); len(keys) != 0 {
		t.Errorf("expected empty store after Clear, got %v", keys)
	}

	// Cold store behaves like first run again.
	if !svc.CheckForUpdates(ctx, true) {
		t.Error("check after Clear should bootstrap again")
	}
}

// matchRow builds one match-sheet row with the club's column layout
// (A date, B player, U man-of-the-match, V team, W result, Y score).
func matchRow(date, player, mom, team, result, score string) []any {
	row := make([]any, 25)
	for i := range row {
		row[i] = ""
	}
	row[0] = date
	row[1] = player
	row[20] = mom
	row[21] = team
	row[22] = result
	row[24] = score
	return row
}
