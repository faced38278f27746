package bot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// ArenaConfig configures a headless campaign in which every faction,
// the nominal player's included, is driven by a strategy.
type ArenaConfig struct {
	FactionID string
	Rules     kingdoms.Rules
	MaxTurns  int
	Seed      int64 // 0 means a fresh random source
	// Overrides pins strategies to factions, e.g. "f2" to HardStrategy.
	Overrides map[string]Strategy
}

// ArenaResult summarises a finished headless campaign.
type ArenaResult struct {
	ID        string         `json:"id"`
	Seed      int64          `json:"seed"`
	FactionID string         `json:"faction_id"`
	Turns     int            `json:"turns"`
	Outcome   string         `json:"outcome"` // victory, defeat or draw
	Cities    map[string]int `json:"cities"`
	Battles   int            `json:"battles"`
	Duels     int            `json:"duels"`
}

// RunCampaign plays a campaign until it finishes or MaxTurns is reached.
// Duels are settled by simulation. A non-nil archive receives the result.
func RunCampaign(ctx context.Context, cfg ArenaConfig, archive repository.SimulationArchive) (*ArenaResult, error) {
	var rng kingdoms.Rand
	if cfg.Seed != 0 {
		rng = kingdoms.NewRand(cfg.Seed)
	} else {
		rng = kingdoms.NewSeededRand()
	}
	w, err := kingdoms.NewScenario(cfg.FactionID, rng)
	if err != nil {
		return nil, fmt.Errorf("new scenario: %w", err)
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 120
	}

	gen := NewGenerator()
	gen.PlayPlayer = true
	for id, s := range cfg.Overrides {
		gen.Overrides[id] = s
	}
	cfg.Rules.ObservationDelay = 0
	e := kingdoms.NewEngine(cfg.Rules, gen, nil, rng)

	res := &ArenaResult{ID: uuid.NewString(), Seed: cfg.Seed, FactionID: cfg.FactionID, Outcome: "draw"}
	for w.Turn <= cfg.MaxTurns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := e.Resolve(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("resolve turn %d: %w", w.Turn, err)
		}
		res.Battles += len(out.Battles)
		for w.Resolution.PendingDuel() != nil {
			d := *w.Resolution.PendingDuel()
			winner := d.AttackerID
			if a, b, ok := kingdoms.Duelists(w, d); ok {
				winner = kingdoms.SimulateDuel(rng, a, b)
			}
			res.Duels++
			if out, err = e.ResolveAfterDuel(ctx, w, winner); err != nil {
				return nil, fmt.Errorf("resolve duel on turn %d: %w", w.Turn, err)
			}
			res.Battles += len(out.Battles)
		}
		if finished, victory := w.Outcome(); finished {
			res.Outcome = model.OutcomeDefeat
			if victory {
				res.Outcome = model.OutcomeVictory
			}
			break
		}
	}

	res.Turns = w.Turn
	res.Cities = make(map[string]int, len(w.Factions))
	for _, f := range w.Factions {
		res.Cities[f.ID] = len(w.CitiesOf(f.ID))
	}
	log.Debug().Str("runId", res.ID).Str("outcome", res.Outcome).Int("turns", res.Turns).Msg("Simulated campaign finished")

	if archive != nil {
		err := archive.RecordRun(ctx, model.SimulationRun{
			ID:        res.ID,
			Seed:      res.Seed,
			FactionID: res.FactionID,
			Turns:     res.Turns,
			Outcome:   res.Outcome,
			Cities:    res.Cities[res.FactionID],
			Battles:   res.Battles,
			Duels:     res.Duels,
		})
		if err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
	}
	return res, nil
}
