package kingdoms

import (
	"context"
	"slices"
)

// Search sends an idle general to scour a city. The find is applied at
// once and the general stays busy until the end of the turn.
func (e *Engine) Search(ctx context.Context, w *World, factionID, generalID, cityID string) (SearchResult, error) {
	if !w.Resolution.Idle() {
		return SearchResult{}, ErrResolutionInProgress
	}
	g, city, err := commandable(w, TaskSearch, factionID, generalID, cityID)
	if err != nil {
		return SearchResult{}, err
	}
	faction := w.Faction(factionID)
	if faction == nil {
		return SearchResult{}, reject(TaskSearch, "unknown faction %s", factionID)
	}

	q := SearchQuery{CityName: city.Name, GeneralName: g.Name}
	for _, other := range w.Generals {
		q.Taken = append(q.Taken, other.Name)
	}
	var res SearchResult
	if e.Narrator != nil {
		res = e.Narrator.DescribeSearch(ctx, q)
	} else {
		res = LocalSearch(e.Rand, e.Rules, q)
	}

	faction.Treasury.Gold += max(0, res.Gold)
	faction.Treasury.Food += max(0, res.Food)
	faction.Treasury.Wood += max(0, res.Wood)
	faction.Treasury.Stone += max(0, res.Stone)
	if res.General != nil {
		found := *res.General
		found.ID = e.newID()
		found.FactionID = factionID
		found.CityID = city.ID
		found.Loyalty = 90
		found.State = StateIdle
		found.HeldBy = ""
		w.Generals = append(w.Generals, found)
		res.General = &found
	}

	e.bind(w, w.General(generalID), TaskSearch)
	return res, nil
}

// LocalSearch is the procedural search outcome used when no narrator is
// available.
func LocalSearch(rng Rand, rules Rules, q SearchQuery) SearchResult {
	if rng.Float64() < rules.SearchGeneralChance {
		g, historical := recruitGeneral(rng, q.Taken, rules.SearchHistoricalPct, 0)
		desc := printer.Sprintf("You recruited a capable local named %s in %s.", g.Name, q.CityName)
		if historical {
			desc = printer.Sprintf("You discovered a famous talent, %s, living in seclusion within %s!", g.Name, q.CityName)
		}
		return SearchResult{Description: desc, General: &g}
	}

	sub := rng.Float64()
	switch {
	case sub < 0.3:
		return SearchResult{
			Description: printer.Sprintf("Your search in %s uncovered a hidden stash of gold!", q.CityName),
			Gold:        between(rng, 100, 300),
		}
	case sub < 0.6:
		return SearchResult{
			Description: printer.Sprintf("Merchants in %s donated food to your cause.", q.CityName),
			Food:        between(rng, 200, 500),
		}
	case sub < 0.75:
		return SearchResult{
			Description: printer.Sprintf("You found a high quality timber yard in %s.", q.CityName),
			Wood:        between(rng, 50, 150),
		}
	case sub < 0.9:
		return SearchResult{
			Description: printer.Sprintf("Masons in %s offered stone for fortifications.", q.CityName),
			Stone:       between(rng, 30, 80),
		}
	}
	return SearchResult{
		Description: printer.Sprintf("General %s patrolled %s but found nothing of value this time.", q.GeneralName, q.CityName),
	}
}

// recruitGeneral draws a historical general not yet in play with the given
// chance, otherwise a local with stats 30+bonus+U(0,50).
func recruitGeneral(rng Rand, taken []string, historicalChance float64, bonus int) (General, bool) {
	var available []int
	for i, h := range HistoricalRoster {
		if !slices.Contains(taken, h.Name) {
			available = append(available, i)
		}
	}
	if len(available) > 0 && rng.Float64() < historicalChance {
		h := HistoricalRoster[available[rng.Intn(len(available))]]
		return General{Name: h.Name, Stats: h.Stats, Bio: "A renowned officer of the age."}, true
	}

	roll := func() int { return 30 + bonus + int(rng.Float64()*50) }
	name := RandomName(rng)
	for i := 0; i < 5 && slices.Contains(taken, name); i++ {
		name = RandomName(rng)
	}
	title := titles[rng.Intn(len(titles))]
	return General{
		Name:  name,
		Stats: Stats{War: roll(), Intel: roll(), Pol: roll(), Chr: roll()},
		Bio:   printer.Sprintf("A %s recruited from the local populace.", title),
	}, false
}

// RandomName builds a filler general name from the name tables.
func RandomName(rng Rand) string {
	return surnames[rng.Intn(len(surnames))] + " " + givenNames[rng.Intn(len(givenNames))]
}
