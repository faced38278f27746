package kingdoms

// FormAlliance pays the alliance fee from the actor and allies both
// factions. The target's consent is not required.
func (e *Engine) FormAlliance(w *World, actorID, targetID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	actor, err := pair(w, "alliance", actorID, targetID)
	if err != nil {
		return err
	}
	switch w.Relations.Stance(actorID, targetID) {
	case Allied:
		return reject("alliance", "already allied with %s", w.FactionName(targetID, targetID))
	case AtWar:
		return reject("alliance", "cannot ally while at war with %s", w.FactionName(targetID, targetID))
	}
	if actor.Treasury.Gold < e.Rules.AllianceCost {
		return reject("alliance", "insufficient gold")
	}
	spend(&actor.Treasury.Gold, e.Rules.AllianceCost)
	w.Relations.Set(actorID, targetID, Allied)
	return nil
}

// DeclareWar breaks any alliance and sets both factions at war. There is no
// way back to peace.
func (e *Engine) DeclareWar(w *World, actorID, targetID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	if _, err := pair(w, "war", actorID, targetID); err != nil {
		return err
	}
	if w.Relations.AtWar(actorID, targetID) {
		return reject("war", "already at war with %s", w.FactionName(targetID, targetID))
	}
	w.Relations.Set(actorID, targetID, AtWar)
	return nil
}

func pair(w *World, order, actorID, targetID string) (*Faction, error) {
	actor := w.Faction(actorID)
	if actor == nil || w.Faction(targetID) == nil {
		return nil, reject(order, "unknown faction")
	}
	if actorID == targetID {
		return nil, reject(order, "a faction cannot treat with itself")
	}
	if w.Relations == nil {
		w.Relations = Relations{}
	}
	return actor, nil
}
