// Command simulate plays headless all-AI campaigns and archives the results
// in the local SQLite store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/bot"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/config"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/sqlite"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		factionID string
		strategy  string
		numRuns   int
		workers   int
		maxTurns  int
		seed      int64
		dbPath    string
		rulesFile string
		jsonOut   bool
	)

	flag.StringVar(&factionID, "faction", "f1", "Nominal player faction")
	flag.StringVar(&strategy, "p", "", "Strategy overrides (e.g. f2=hard,*=easy)")
	flag.IntVar(&numRuns, "n", 1, "Number of campaigns to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel campaigns)")
	flag.IntVar(&maxTurns, "turns", 120, "Max turns before a draw")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.StringVar(&dbPath, "db", "", "SQLite archive path (empty skips archiving)")
	flag.StringVar(&rulesFile, "rules", "rules.yaml", "Rules file")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Rules load failed")
	}
	bot.MinAttackTroops = rules.MinAITroops

	overrides, err := parseOverrides(strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategy overrides")
	}

	// Strategies share one package-level source, so seeded runs are serial.
	if seed != 0 {
		bot.SeedBotRng(seed)
		if workers > 1 {
			log.Warn().Int("workers", workers).Msg("Seeded runs are reproducible only when serial, using 1 worker")
			workers = 1
		}
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var archive repository.SimulationArchive
	if dbPath != "" {
		store, err := sqlite.Open(dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", dbPath).Msg("Archive open failed")
		}
		defer store.Close()
		archive = store
	}

	results := make([]*bot.ArenaResult, numRuns)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numRuns; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			runSeed := seed
			if seed != 0 {
				runSeed = seed + int64(idx)
			}
			res, err := bot.RunCampaign(ctx, bot.ArenaConfig{
				FactionID: factionID,
				Rules:     rules,
				MaxTurns:  maxTurns,
				Seed:      runSeed,
				Overrides: overrides,
			}, archive)
			if err != nil {
				log.Error().Err(err).Int("run", idx+1).Msg("Campaign failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = res
			mu.Unlock()
			log.Info().Int("run", idx+1).Str("outcome", res.Outcome).Int("turns", res.Turns).Int("battles", res.Battles).Msg("Campaign completed")
		}(i)
	}
	wg.Wait()

	if jsonOut {
		printJSON(results, numRuns, errCount)
	} else {
		printSummary(results, factionID, maxTurns, errCount, archive != nil)
	}
}

// parseOverrides reads "f2=hard,*=easy" into per-faction strategies.
func parseOverrides(s string) (map[string]bot.Strategy, error) {
	out := map[string]bot.Strategy{}
	if s == "" {
		return out, nil
	}
	var fallback bot.Strategy
	for _, part := range strings.Split(s, ",") {
		id, level, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("expected faction=level, got %q", part)
		}
		strat, err := strategyByName(level)
		if err != nil {
			return nil, err
		}
		if id == "*" {
			fallback = strat
			continue
		}
		out[id] = strat
	}
	if fallback != nil {
		for _, f := range kingdoms.Factions() {
			if _, ok := out[f.ID]; !ok {
				out[f.ID] = fallback
			}
		}
	}
	return out, nil
}

func strategyByName(name string) (bot.Strategy, error) {
	switch name {
	case "hold":
		return bot.HoldStrategy{}, nil
	case "easy":
		return bot.StrategyForDifficulty(kingdoms.Easy), nil
	case "medium":
		return bot.StrategyForDifficulty(kingdoms.Medium), nil
	case "hard":
		return bot.StrategyForDifficulty(kingdoms.Hard), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

func printSummary(results []*bot.ArenaResult, factionID string, maxTurns, errCount int, archived bool) {
	outcomes := map[string]int{}
	cities := map[string]int{}
	completed, battles, duels := 0, 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		outcomes[r.Outcome]++
		battles += r.Battles
		duels += r.Duels
		for id, n := range r.Cities {
			cities[id] += n
		}
	}

	fmt.Printf("\nResults (%d campaigns as %s, max %d turns):\n", completed, factionID, maxTurns)
	if errCount > 0 {
		fmt.Printf("  (%d campaigns failed)\n", errCount)
	}
	fmt.Printf("  %d victories, %d defeats, %d draws -- %d battles, %d duels\n",
		outcomes["victory"], outcomes["defeat"], outcomes["draw"], battles, duels)

	ids := make([]string, 0, len(cities))
	for id := range cities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		avg := 0.0
		if completed > 0 {
			avg = float64(cities[id]) / float64(completed)
		}
		fmt.Printf("  %-4s avg cities: %.1f\n", id, avg)
	}
	if archived && completed > 0 {
		fmt.Println("\nRuns archived to the simulation store")
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
