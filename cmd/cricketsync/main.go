package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/araf-office/fsmb-cricket-club/internal/api"
	"github.com/araf-office/fsmb-cricket-club/internal/cache"
	"github.com/araf-office/fsmb-cricket-club/internal/config"
	"github.com/araf-office/fsmb-cricket-club/internal/stats"
	"github.com/araf-office/fsmb-cricket-club/internal/store"
)

func main() {
	watch := flag.Bool("watch", false, "keep the background updater running until interrupted")
	clearCache := flag.Bool("clear", false, "clear the local cache and exit")
	player := flag.String("player", "", "also fetch and summarize one player's details")
	memory := flag.Bool("memory", false, "use an in-memory store instead of the SQLite cache")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, closeStore, err := openStore(cfg, *memory)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	clientOpts := []api.Option{api.WithTimeout(cfg.RequestTimeout)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.BaseURL))
	}
	client := api.NewClient(clientOpts...)

	service := cache.NewService(st, client, cache.Options{
		TTL:            cfg.CacheTTL,
		UpdateCooldown: cfg.UpdateCooldown,
	})

	if *clearCache {
		service.Clear()
		fmt.Println("Cache cleared.")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n[Shutdown] Gracefully shutting down...")
		cancel()
	}()

	printSummary(service.FetchSummary(ctx, false))
	players := stats.ParsePlayerRows(service.FetchPlayers(ctx, false).Stats)
	printLeaderboard(players)
	printLastMatch(service.FetchLastMatch(ctx, false))

	if *player != "" {
		printPlayerDetails(ctx, service, *player)
	}

	// Warm the top of the leaderboard so detail lookups hit cache.
	prefetcher := cache.NewPrefetcher(service, cache.PrefetchOptions{
		Limit: cfg.PrefetchLimit,
		Delay: cfg.PrefetchDelay,
	})
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	prefetcher.PrefetchPlayerDetails(ctx, names)

	if !*watch {
		return
	}

	notifier := cache.NewNotifier()
	unsubscribe := notifier.Subscribe(func() {
		log.Println("[Watch] cache updated, re-reading leaderboard")
		printLeaderboard(stats.ParsePlayerRows(service.FetchPlayers(context.Background(), false).Stats))
	})
	defer unsubscribe()

	updater := cache.NewUpdater(service, notifier, cache.UpdaterOptions{
		Interval:     cfg.PollInterval,
		RefreshLimit: cfg.RefreshLimit,
		RefreshDelay: cfg.RefreshDelay,
	})
	updater.Start()
	defer updater.Stop()

	fmt.Printf("Watching for updates every %s (Ctrl-C to stop)...\n", cfg.PollInterval)
	<-ctx.Done()
}

// openStore picks the backing store and returns its cleanup func.
func openStore(cfg config.Config, inMemory bool) (store.Store, func(), error) {
	if inMemory {
		return store.NewMemoryStore(), func() {}, nil
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return st, func() {
		if err := st.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}, nil
}

func printSummary(summary api.SummaryData) {
	fmt.Printf("=== FSMB Cricket Club ===\n")
	fmt.Printf("Teams: %d, recent matches: %d\n", len(summary.Teams), len(summary.Matches))
}

func printLeaderboard(players []stats.PlayerData) {
	if len(players) == 0 {
		fmt.Println("No players found.")
		return
	}

	limit := len(players)
	if limit > 10 {
		limit = 10
	}

	fmt.Printf("\nTop %d of %d players:\n", limit, len(players))
	for _, p := range players[:limit] {
		fmt.Printf("  #%-3d %-20s %-11s bat %s  bowl %s  econ %s\n",
			p.Rank, p.Name, p.Role,
			stats.FormatNumber(p.BattingAverage, 2),
			stats.FormatNumber(p.BowlingAverage, 2),
			stats.FormatNumber(p.Economy, 2))
	}
}

func printLastMatch(match *stats.LastMatchInfo) {
	if match == nil {
		fmt.Println("\nNo match data available.")
		return
	}

	fmt.Printf("\nLast match (%s):\n", match.Date)
	for _, team := range match.Teams {
		fmt.Printf("  %s — %s (%s)\n", team.TeamName, team.Result, team.Score)
	}
	for _, p := range match.Players {
		if p.IsManOfMatch {
			fmt.Printf("  Man of the Match: %s\n", p.PlayerName)
		}
	}
}

func printPlayerDetails(ctx context.Context, service *cache.Service, name string) {
	details, err := service.FetchPlayerDetails(ctx, name, false)
	if err != nil {
		log.Printf("Failed to fetch player %q: %v", name, err)
		return
	}
	fmt.Printf("\n%s: %d recorded matches\n", name, len(details.Matches))
}
