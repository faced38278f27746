package bot

import "github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"

// HeuristicStrategy only attacks, and only with a wide margin.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "easy" }

func (HeuristicStrategy) GenerateOrders(w *kingdoms.World, factionID string) ([]kingdoms.Task, []string) {
	return planAttacks(w, factionID, 1.5, MinAttackTroops)
}
