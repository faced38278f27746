package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// MinAttackTroops is the garrison a city must exceed before it will attack.
var MinAttackTroops = 2000

// Generator produces orders for every faction other than the player's. It
// implements kingdoms.OrderGenerator.
type Generator struct {
	// Overrides pins a strategy to a faction regardless of its difficulty.
	Overrides map[string]Strategy
	// PlayPlayer also drives the player's faction, for headless runs.
	PlayPlayer bool
}

// NewGenerator returns a generator that picks strategies by difficulty.
func NewGenerator() *Generator {
	return &Generator{Overrides: map[string]Strategy{}}
}

// Generate runs each AI faction's strategy in roster order. Factions with no
// cities are skipped.
func (g *Generator) Generate(w *kingdoms.World) ([]kingdoms.Task, []string) {
	var tasks []kingdoms.Task
	var logs []string
	for _, f := range w.Factions {
		if (f.ID == w.PlayerFactionID && !g.PlayPlayer) || len(w.CitiesOf(f.ID)) == 0 {
			continue
		}
		s, ok := g.Overrides[f.ID]
		if !ok {
			s = StrategyForDifficulty(f.Difficulty)
		}
		t, l := s.GenerateOrders(w, f.ID)
		log.Debug().Str("faction", f.ID).Str("strategy", s.Name()).Int("orders", len(t)).Msg("Bot orders generated")
		tasks = append(tasks, t...)
		logs = append(logs, l...)
	}
	return tasks, logs
}
