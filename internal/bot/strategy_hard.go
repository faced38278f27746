package bot

import "github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"

// HardStrategy attacks with a thin margin, fortifies cities that border a
// stronger hostile neighbour and trains troops everywhere else.
type HardStrategy struct{}

func (HardStrategy) Name() string { return "hard" }

func (HardStrategy) GenerateOrders(w *kingdoms.World, factionID string) ([]kingdoms.Task, []string) {
	tasks, logs := planAttacks(w, factionID, 1.1, MinAttackTroops)

	// Visit cities in random order so the same border is not always
	// reinforced first.
	order := make([]int, len(w.Cities))
	for i := range order {
		order[i] = i
	}
	botShuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, i := range order {
		c := &w.Cities[i]
		if c.FactionID != factionID {
			continue
		}
		idle := idleGenerals(w, factionID, c.ID)
		if len(idle) == 0 {
			continue
		}
		switch {
		case threatened(w, factionID, c) && c.Defense < c.MaxDefense:
			tasks = append(tasks, assign(idle[0], kingdoms.TaskFortify, c.ID, ""))
		case c.Morale < 100:
			tasks = append(tasks, assign(idle[0], kingdoms.TaskTrain, c.ID, ""))
		}
	}
	return tasks, logs
}

// threatened reports whether any non-allied neighbour could take the city.
func threatened(w *kingdoms.World, factionID string, c *kingdoms.City) bool {
	for _, id := range c.Connections {
		n := w.City(id)
		if n == nil || n.FactionID == factionID || w.Relations.Allied(factionID, n.FactionID) {
			continue
		}
		if strength(n) > defense(c) {
			return true
		}
	}
	return false
}
