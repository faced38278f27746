package kingdoms

import (
	"fmt"
	"math"
)

type levy struct {
	origin *City
	taken  int
}

// resolveBattle settles one attack group. Every attacker's levy is pooled
// into a single force that fights under the faction of the last general to
// contribute troops. It returns a result only when the player's faction
// fought.
func (e *Engine) resolveBattle(w *World, grp *attackGroup, chron *chronicle) *BattleResult {
	city := w.City(grp.CityID)

	var (
		troops         int
		power          float64
		names          []string
		attackers      []*General
		levies         []levy
		attackerID     string
		playerAttacked bool
	)
	for _, t := range grp.Tasks {
		g := w.General(t.GeneralID)
		if g == nil || g.State == StateCaptured {
			continue
		}
		g.State = StateIdle
		origin := w.City(t.CityID)
		if city == nil || origin == nil || origin.FactionID != g.FactionID || city.FactionID == g.FactionID {
			continue
		}
		taken := min(origin.Troops, e.Rules.AttackLevy)
		if taken == 0 {
			continue
		}
		origin.Troops -= taken
		troops += taken
		power += float64(taken)*float64(origin.Morale)/100 + float64(EffectiveStats(g).War)*10
		names = append(names, g.Name)
		attackers = append(attackers, g)
		levies = append(levies, levy{origin: origin, taken: taken})
		attackerID = g.FactionID
		if g.FactionID == w.PlayerFactionID {
			playerAttacked = true
		}
	}
	if troops == 0 {
		return nil
	}

	duelMsg := ""
	if bonus, ok := w.Resolution.DuelBonus[city.ID]; ok {
		power *= bonus
		if bonus >= 1 {
			duelMsg = " (Attackers boosted by Duel victory!)"
		} else {
			duelMsg = " (Attackers demoralized by Duel loss)"
		}
	}

	defenderFaction := city.FactionID
	defenderTroops := city.Troops
	defenderName := "Rebels"
	if d := defendingGeneral(w, city); d != nil {
		defenderName = d.Name
	}
	defPower := float64(city.Troops)*float64(city.Morale)/100 + float64(city.Defense)*2

	victory := power > defPower
	attLoss := min(troops, int(math.Floor(defPower*0.15)))
	defLoss := min(city.Troops, int(math.Floor(power*0.20)))
	damage := int(math.Floor(power * 0.05))

	city.Troops -= defLoss
	city.Defense = max(0, city.Defense-damage)
	survivors := troops - attLoss

	captured := victory && (city.Troops == 0 || power > e.Rules.CaptureRatio*defPower)
	prisoners := 0
	if captured {
		city.FactionID = attackerID
		city.Troops = survivors
		city.Morale = 50
		city.Defense /= 2
		prisoners = occupy(w, city, defenderFaction, attackerID)
		for _, g := range attackers {
			if g.FactionID == attackerID {
				g.CityID = city.ID
			}
		}
	} else {
		returnSurvivors(levies, troops, survivors)
	}

	if !playerAttacked && defenderFaction != w.PlayerFactionID {
		return nil
	}

	attackerFaction := w.FactionName(attackerID, "Unknown")
	switch {
	case captured:
		chron.add(KindWar, "VICTORY! %s has been conquered by %s!%s", city.Name, attackerFaction, duelMsg)
		if prisoners > 0 {
			chron.add(KindWar, "%d enemy officers were captured!", prisoners)
		}
	case victory:
		chron.add(KindWar, "Battle at %s: The defenders were routed but the walls held.%s", city.Name, duelMsg)
	default:
		chron.add(KindWar, "Battle at %s: Attackers repelled.%s", city.Name, duelMsg)
	}

	attackerName := names[0]
	if len(names) > 1 {
		attackerName = fmt.Sprintf("%s & %d others", names[0], len(names)-1)
	}
	winner := "defender"
	if victory {
		winner = "attacker"
	}
	return &BattleResult{
		ID:                 e.newID(),
		Turn:               w.Turn,
		CityID:             city.ID,
		Location:           city.Name,
		Attacker:           attackerName,
		Defender:           defenderName,
		AttackerFactionID:  attackerID,
		DefenderFactionID:  defenderFaction,
		AttackerTroops:     troops,
		DefenderTroops:     defenderTroops,
		AttackerTroopsLost: attLoss,
		DefenderTroopsLost: defLoss,
		DefenseDamage:      damage,
		Winner:             winner,
		Captured:           captured,
		Prisoners:          prisoners,
		DuelInfo:           duelMsg,
	}
}

// occupy hands the generals in a freshly captured city to the victor:
// defenders become prisoners, the victor's own captives are freed and
// everyone else's captives change hands. It returns the new prisoner count.
func occupy(w *World, city *City, defender, victor string) int {
	prisoners := 0
	for _, g := range w.GeneralsIn(city.ID) {
		switch {
		case g.State == StateCaptured && g.FactionID == victor:
			g.State = StateIdle
			g.HeldBy = ""
		case g.State == StateCaptured:
			g.HeldBy = victor
		case g.FactionID == defender:
			if s := w.GarrisonOf(g.ID); s != nil {
				s.GeneralID = ""
			}
			g.State = StateCaptured
			g.HeldBy = victor
			prisoners++
		}
	}
	return prisoners
}

// returnSurvivors sends the surviving attackers home in proportion to what
// each origin contributed.
func returnSurvivors(levies []levy, troops, survivors int) {
	left := survivors
	for i, l := range levies {
		share := survivors * l.taken / troops
		if i == len(levies)-1 {
			share = left
		}
		l.origin.Troops += share
		left -= share
	}
}
