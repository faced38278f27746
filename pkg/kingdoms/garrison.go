package kingdoms

// AssignGarrison posts an idle general at a vacant sub-location of the city
// they stand in.
func (e *Engine) AssignGarrison(w *World, factionID, generalID, subID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	s := w.SubLocation(subID)
	if s == nil {
		return reject(TaskGarrison, "unknown site %s", subID)
	}
	if s.GeneralID != "" {
		return reject(TaskGarrison, "%s is already garrisoned", s.Name)
	}
	g, _, err := commandable(w, TaskGarrison, factionID, generalID, s.CityID)
	if err != nil {
		return err
	}
	s.GeneralID = g.ID
	g.State = StateGarrisoned
	return nil
}

// RecallGarrison releases the general posted at a sub-location.
func (e *Engine) RecallGarrison(w *World, factionID, subID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	s := w.SubLocation(subID)
	if s == nil || s.GeneralID == "" {
		return reject(TaskGarrison, "no garrison at %s", subID)
	}
	g := w.General(s.GeneralID)
	if g != nil && g.FactionID != factionID {
		return reject(TaskGarrison, "%s is not under your command", g.Name)
	}
	s.GeneralID = ""
	if g != nil && g.State == StateGarrisoned {
		g.State = StateIdle
	}
	return nil
}
