package kingdoms

// PersuasionResult reports the odds and the draw of a recruitment attempt.
type PersuasionResult struct {
	Success bool    `json:"success"`
	Chance  float64 `json:"chance"`
	Roll    float64 `json:"roll"`
}

// PersuasionChance is the percentage chance a recruiter turns a prisoner.
func PersuasionChance(recruiter, prisoner *General) float64 {
	chance := float64(EffectiveStats(recruiter).Chr) - prisoner.Loyalty + 20
	chance = max(0, min(100, chance))
	if HasCapability(recruiter, TraitCharismatic) {
		chance += 15
	}
	return chance
}

// AttemptPersuasion tries to turn a prisoner held by the recruiter's faction
// in the recruiter's city. Either way the recruiter is busy until the end
// of the turn; a failure costs the prisoner 5 loyalty.
func (e *Engine) AttemptPersuasion(w *World, factionID, recruiterID, prisonerID string) (PersuasionResult, error) {
	if !w.Resolution.Idle() {
		return PersuasionResult{}, ErrResolutionInProgress
	}
	r := w.General(recruiterID)
	if r == nil || r.FactionID != factionID || r.State != StateIdle {
		return PersuasionResult{}, reject(TaskPersuade, "no general available")
	}
	p, err := prisonerOf(w, TaskPersuade, factionID, prisonerID)
	if err != nil {
		return PersuasionResult{}, err
	}
	if p.CityID != r.CityID {
		return PersuasionResult{}, reject(TaskPersuade, "%s is not held in %s's city", p.Name, r.Name)
	}

	res := PersuasionResult{Chance: PersuasionChance(r, p), Roll: e.Rand.Float64() * 100}
	res.Success = res.Roll < res.Chance
	if res.Success {
		p.FactionID = factionID
		p.Loyalty = 80
		p.State = StateIdle
		p.HeldBy = ""
	} else {
		p.Loyalty = max(0, p.Loyalty-5)
	}
	e.bind(w, r, TaskPersuade)
	return res, nil
}

// Bribe spends gold to erode a prisoner's loyalty by 10.
func (e *Engine) Bribe(w *World, factionID, prisonerID string) error {
	if !w.Resolution.Idle() {
		return ErrResolutionInProgress
	}
	p, err := prisonerOf(w, "bribe", factionID, prisonerID)
	if err != nil {
		return err
	}
	f := w.Faction(factionID)
	if f == nil || f.Treasury.Gold < e.Rules.BribeCost {
		return reject("bribe", "insufficient gold")
	}
	spend(&f.Treasury.Gold, e.Rules.BribeCost)
	p.Loyalty = max(0, p.Loyalty-10)
	return nil
}

// Tavern hires a new general in one of the faction's capitals.
func (e *Engine) Tavern(w *World, factionID, cityID string) (*General, error) {
	if !w.Resolution.Idle() {
		return nil, ErrResolutionInProgress
	}
	city := w.City(cityID)
	if city == nil || city.FactionID != factionID {
		return nil, reject("tavern", "city is not under your control")
	}
	if !city.Capital {
		return nil, reject("tavern", "taverns are only found in capitals")
	}
	f := w.Faction(factionID)
	if f == nil || f.Treasury.Gold < e.Rules.TavernCost {
		return nil, reject("tavern", "insufficient gold")
	}

	var taken []string
	for _, g := range w.Generals {
		taken = append(taken, g.Name)
	}
	g, _ := recruitGeneral(e.Rand, taken, e.Rules.TavernHistoricalPct, 20)
	spend(&f.Treasury.Gold, e.Rules.TavernCost)
	g.ID = e.newID()
	g.FactionID = factionID
	g.CityID = cityID
	g.Loyalty = 100
	g.State = StateIdle
	w.Generals = append(w.Generals, g)
	return &w.Generals[len(w.Generals)-1], nil
}

func prisonerOf(w *World, order any, factionID, prisonerID string) (*General, error) {
	p := w.General(prisonerID)
	if p == nil || p.State != StateCaptured {
		return nil, reject(order, "%s is not a prisoner", prisonerID)
	}
	if p.HeldBy != factionID {
		return nil, reject(order, "%s is not held by your faction", p.Name)
	}
	return p, nil
}
