package bot

import (
	"github.com/google/uuid"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// Strategy generates the orders of one AI faction for a turn. Implementations
// flag the generals they assign as busy so no general is ordered twice.
type Strategy interface {
	Name() string
	GenerateOrders(w *kingdoms.World, factionID string) ([]kingdoms.Task, []string)
}

// StrategyForDifficulty returns the strategy for a faction's difficulty.
func StrategyForDifficulty(d kingdoms.Difficulty) Strategy {
	switch d {
	case kingdoms.Medium:
		return &TacticalStrategy{}
	case kingdoms.Hard:
		return &HardStrategy{}
	default:
		return &HeuristicStrategy{}
	}
}

// --- HoldStrategy ---

// HoldStrategy issues no orders.
type HoldStrategy struct{}

func (HoldStrategy) Name() string { return "hold" }

func (HoldStrategy) GenerateOrders(*kingdoms.World, string) ([]kingdoms.Task, []string) {
	return nil, nil
}

// --- Shared helpers ---

// strength is a city's fighting weight: troops scaled by morale.
func strength(c *kingdoms.City) float64 {
	return float64(c.Troops) * float64(c.Morale) / 100
}

// defense is what an attacker has to beat to take a city.
func defense(c *kingdoms.City) float64 {
	return strength(c) + float64(c.Defense)*2
}

// idleGenerals returns the faction's idle generals standing in a city.
func idleGenerals(w *kingdoms.World, factionID, cityID string) []*kingdoms.General {
	var out []*kingdoms.General
	for _, g := range w.GeneralsIn(cityID) {
		if g.FactionID == factionID && g.State == kingdoms.StateIdle {
			out = append(out, g)
		}
	}
	return out
}

// assign binds a general to a new AI task.
func assign(g *kingdoms.General, typ kingdoms.TaskType, cityID, targetID string) kingdoms.Task {
	switch typ {
	case kingdoms.TaskAttack:
		g.State = kingdoms.StateCampaigning
	case kingdoms.TaskMove, kingdoms.TaskTransport:
		g.State = kingdoms.StateTraveling
	default:
		g.State = kingdoms.StateWorking
	}
	prefix := "ai_"
	if typ == kingdoms.TaskAttack {
		prefix = "ai_atk_"
	}
	return kingdoms.Task{
		ID:             prefix + uuid.NewString(),
		Type:           typ,
		GeneralID:      g.ID,
		CityID:         cityID,
		TargetID:       targetID,
		TurnsRemaining: 1,
		AI:             true,
	}
}

// planAttacks launches at most one attack per city against a neighbour the
// city clearly outmatches. aggression is the margin required; it drops by
// 0.2 against declared enemies.
func planAttacks(w *kingdoms.World, factionID string, aggression float64, minTroops int) ([]kingdoms.Task, []string) {
	var tasks []kingdoms.Task
	var logs []string
	name := w.FactionName(factionID, factionID)
	for i := range w.Cities {
		c := &w.Cities[i]
		if c.FactionID != factionID || c.Troops <= minTroops {
			continue
		}
		idle := idleGenerals(w, factionID, c.ID)
		if len(idle) == 0 {
			continue
		}
		for _, targetID := range c.Connections {
			target := w.City(targetID)
			if target == nil || target.FactionID == factionID || w.Relations.Allied(factionID, target.FactionID) {
				continue
			}
			aggr := aggression
			if w.Relations.AtWar(factionID, target.FactionID) {
				aggr -= 0.2
			}
			if strength(c) <= defense(target)*aggr {
				continue
			}
			tasks = append(tasks, assign(idle[0], kingdoms.TaskAttack, c.ID, target.ID))
			logs = append(logs, name+" is launching an attack from "+c.Name+" to "+target.Name+"!")
			break
		}
	}
	return tasks, logs
}
