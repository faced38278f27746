package kingdoms

// Duelist is the presentation view of one side of a duel.
type Duelist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FactionID string `json:"faction_id"`
	War       int    `json:"war"`
	HP        int    `json:"hp"`
}

// NewDuelist derives a duelist from a general's effective stats.
func NewDuelist(g *General) Duelist {
	war := EffectiveStats(g).War
	return Duelist{ID: g.ID, Name: g.Name, FactionID: g.FactionID, War: war, HP: max(1, war*10)}
}

// Duelists resolves both sides of a pending duel. ok is false when either
// general no longer exists.
func Duelists(w *World, d DuelData) (attacker, defender Duelist, ok bool) {
	a, b := w.General(d.AttackerID), w.General(d.DefenderID)
	if a == nil || b == nil {
		return Duelist{}, Duelist{}, false
	}
	return NewDuelist(a), NewDuelist(b), true
}

// SimulateDuel plays a bout to the end without a human at the controls and
// returns the winner's ID, which is always one of the two. The attacker
// strikes first.
func SimulateDuel(rng Rand, attacker, defender Duelist) string {
	hp := [2]int{attacker.HP, defender.HP}
	war := [2]int{attacker.War, defender.War}
	ids := [2]string{attacker.ID, defender.ID}
	for turn := 0; ; turn ^= 1 {
		dmg := max(1, war[turn]/8+rng.Intn(5))
		if rng.Float64() < 0.2 {
			dmg *= 2
		}
		hp[turn^1] -= dmg
		if hp[turn^1] <= 0 {
			return ids[turn]
		}
	}
}
