package kingdoms

import "math"

// completeTasks applies every task due this turn and returns the tasks that
// carry over plus the completed attacks, which are settled in battle.
// AI tasks never carry over: they complete in the turn they were generated.
func (e *Engine) completeTasks(w *World) (remaining, attacks []Task) {
	for _, t := range w.Tasks {
		if t.TurnsRemaining > 1 && !t.AI {
			t.TurnsRemaining--
			remaining = append(remaining, t)
			continue
		}
		if t.Type == TaskAttack {
			attacks = append(attacks, t)
			continue
		}
		applyTask(w, t)
	}
	return remaining, attacks
}

func applyTask(w *World, t Task) {
	g := w.General(t.GeneralID)
	if g == nil || g.State == StateCaptured {
		return
	}
	defer func() { g.State = StateIdle }()

	faction := w.Faction(g.FactionID)
	// Reserved convoy gold and food reach the treasury however the trip ends.
	if t.Type == TaskTransport && t.Payload != nil && faction != nil {
		faction.Treasury.Gold += t.Payload.Gold
		faction.Treasury.Food += t.Payload.Food
	}

	city := w.City(t.CityID)
	if city == nil || city.FactionID != g.FactionID {
		return
	}

	eff := Effectiveness(g.Stats.War)
	if isEconomic(t.Type) {
		eff = Effectiveness(g.Stats.Pol)
	}
	scaled := func(n int) int { return int(math.Floor(float64(n) * eff)) }

	if cost, ok := taskCosts[t.Type]; ok && faction != nil && faction.ID == w.PlayerFactionID {
		cost.charge(&faction.Treasury)
	}

	switch t.Type {
	case TaskDevelopGold:
		city.Income.Gold += scaled(5)
	case TaskDevelopFood:
		city.Income.Food += scaled(5)
	case TaskHarvestWood:
		city.Income.Wood += scaled(5)
	case TaskQuarryStone:
		city.Income.Stone += scaled(5)
	case TaskFortify:
		city.Defense = min(city.MaxDefense, city.Defense+scaled(50))
	case TaskConscript:
		city.Troops += scaled(200)
		city.Morale = max(0, city.Morale-5)
	case TaskPatrol:
		if city.Morale < 100 {
			city.Morale = min(100, city.Morale+scaled(10))
		}
	case TaskBuildSiege:
		city.Defense = min(city.MaxDefense, city.Defense+scaled(150))
		city.Troops += 50
	case TaskTrain:
		city.Morale = min(120, city.Morale+scaled(20))
		city.Troops += scaled(20)
	case TaskTransport:
		var p Payload
		if t.Payload != nil {
			p = *t.Payload
		}
		dest := w.City(t.TargetID)
		if dest == nil || dest.FactionID != g.FactionID {
			city.Troops += p.Troops
			return
		}
		dest.Troops += p.Troops
		g.CityID = dest.ID
	case TaskMove:
		if dest := w.City(t.TargetID); dest != nil && dest.FactionID == g.FactionID {
			g.CityID = dest.ID
		}
	}
}

// decayLoyalty erodes the loyalty of every captive.
func decayLoyalty(w *World) {
	for i := range w.Generals {
		g := &w.Generals[i]
		if g.State != StateCaptured {
			continue
		}
		rate := 2.0
		if HasCapability(g, TraitIronWill) {
			rate = 0.5
		}
		g.Loyalty = math.Max(0, g.Loyalty-rate)
	}
}

// collectIncome credits every faction with its holdings' yield net of upkeep.
func (e *Engine) collectIncome(w *World, chron *chronicle) {
	for i := range w.Factions {
		f := &w.Factions[i]
		var gold, food, wood, stone, upkeep int
		capital := false
		for _, c := range w.Cities {
			if c.FactionID != f.ID {
				continue
			}
			gold += c.Income.Gold
			food += c.Income.Food
			wood += c.Income.Wood
			stone += c.Income.Stone
			upkeep += c.Troops / 100
			if c.Capital {
				capital = true
			}
		}
		for _, s := range w.SubLocations {
			if s.GeneralID == "" {
				continue
			}
			if c := w.City(s.CityID); c == nil || c.FactionID != f.ID {
				continue
			}
			upkeep += 50
			if s.Type == Village {
				gold += 50
				food += 100
			}
		}
		if capital {
			gold += 100
			food += 100
		}
		for j := range w.Generals {
			g := &w.Generals[j]
			if g.FactionID == f.ID && g.State != StateCaptured && HasCapability(g, TraitWealthy) {
				gold += 50
			}
		}

		f.Treasury.Gold += gold
		f.Treasury.Wood += wood
		f.Treasury.Stone += stone
		f.Treasury.Food = max(0, f.Treasury.Food+food-upkeep)
		f.Treasury.Influence += 2

		if f.ID == w.PlayerFactionID {
			chron.add(KindGain, "Income: %+d Gold, %+d Food.", gold, food-upkeep)
		}
	}
}
