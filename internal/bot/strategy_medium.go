package bot

import "github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"

// TacticalStrategy attacks with a moderate margin and puts about half of its
// remaining idle generals to work on the weaker of gold and food.
type TacticalStrategy struct{}

func (TacticalStrategy) Name() string { return "medium" }

func (TacticalStrategy) GenerateOrders(w *kingdoms.World, factionID string) ([]kingdoms.Task, []string) {
	tasks, logs := planAttacks(w, factionID, 1.3, MinAttackTroops)
	for i := range w.Cities {
		c := &w.Cities[i]
		if c.FactionID != factionID {
			continue
		}
		for _, g := range idleGenerals(w, factionID, c.ID) {
			if botFloat64() >= 0.5 {
				continue
			}
			typ := kingdoms.TaskDevelopGold
			if c.Income.Food < c.Income.Gold {
				typ = kingdoms.TaskDevelopFood
			}
			tasks = append(tasks, assign(g, typ, c.ID, ""))
		}
	}
	return tasks, logs
}
