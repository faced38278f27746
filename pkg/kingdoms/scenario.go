package kingdoms

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

var ErrUnknownFaction = errors.New("unknown faction")

// Factions returns the playable faction roster.
func Factions() []Faction {
	out := make([]Faction, len(factionSeeds))
	for i, s := range factionSeeds {
		out[i] = s.Faction
	}
	return out
}

// NewScenario builds the 184 AD start for the given player faction. City
// yields and sub-locations are rolled from rng.
func NewScenario(playerFactionID string, rng Rand) (*World, error) {
	if !slices.ContainsFunc(factionSeeds, func(s factionSeed) bool { return s.ID == playerFactionID }) {
		return nil, ErrUnknownFaction
	}
	w := &World{
		Turn:            1,
		PlayerFactionID: playerFactionID,
		Relations:       Relations{},
		Resolution:      Resolution{Status: StatusIdle},
	}

	for _, s := range factionSeeds {
		w.Factions = append(w.Factions, s.Faction)
	}
	for _, s := range factionSeeds {
		for _, a := range s.allies {
			w.Relations.Set(s.ID, a, Allied)
		}
	}
	// War is applied second so a pair listed both ways ends up at war.
	for _, s := range factionSeeds {
		for _, en := range s.enemies {
			w.Relations.Set(s.ID, en, AtWar)
		}
	}

	for _, s := range citySeeds {
		w.Cities = append(w.Cities, newCity(s, rng))
	}
	symmetrize(w.Cities)

	for _, s := range generalSeeds {
		g := General{
			ID:        s.id,
			Name:      s.name,
			FactionID: s.faction,
			CityID:    s.city,
			Stats:     s.stats,
			Loyalty:   s.loyalty,
			State:     StateIdle,
			Traits:    append([]Trait(nil), s.traits...),
		}
		for _, id := range s.items {
			if it, ok := CatalogItem(id); ok {
				g.Items = append(g.Items, it)
			}
		}
		w.Generals = append(w.Generals, g)
	}

	w.SubLocations = newSubLocations(w.Cities, rng)
	return w, nil
}

func newCity(s citySeed, rng Rand) City {
	c := City{
		ID:          s.id,
		Name:        s.name,
		FactionID:   s.faction,
		Capital:     s.capital,
		X:           s.x,
		Y:           s.y,
		Connections: append([]string(nil), s.connections...),
		Morale:      80,
		Income: Income{
			Wood:  20 + int(rng.Float64()*30),
			Stone: 10 + int(rng.Float64()*20),
		},
	}
	if s.capital {
		c.Income.Gold, c.Income.Food = 150, 200
		c.Defense, c.MaxDefense = 1500, 2000
		c.Troops = 8000
		c.Population = 80000
		return c
	}
	c.Income.Gold = 50 + int(rng.Float64()*50)
	c.Income.Food = 60 + int(rng.Float64()*60)
	c.Defense, c.MaxDefense = 500, 1000
	c.Troops = 2000
	c.Population = 20000 + int(rng.Float64()*20000)
	return c
}

// symmetrize makes every connection two-way.
func symmetrize(cities []City) {
	index := make(map[string]int, len(cities))
	for i, c := range cities {
		index[c.ID] = i
	}
	for i := range cities {
		for _, other := range cities[i].Connections {
			j, ok := index[other]
			if !ok {
				continue
			}
			if !slices.Contains(cities[j].Connections, cities[i].ID) {
				cities[j].Connections = append(cities[j].Connections, cities[i].ID)
			}
		}
	}
}

func newSubLocations(cities []City, rng Rand) []SubLocation {
	var out []SubLocation
	for _, c := range cities {
		count := 2 + rng.Intn(2)
		for i := 0; i < count; i++ {
			roll := rng.Float64()
			typ := Village
			if roll > 0.9 {
				typ = Pass
			} else if roll > 0.6 {
				typ = Fort
			}
			angle := rng.Float64() * 2 * math.Pi
			dist := 2.5 + rng.Float64()*2.5
			out = append(out, SubLocation{
				ID:      "sub_" + c.ID + "_" + strconv.Itoa(i),
				Name:    c.Name + " " + strings.ToUpper(string(typ[:1])) + string(typ[1:]),
				Type:    typ,
				CityID:  c.ID,
				OffsetX: math.Cos(angle) * dist,
				OffsetY: math.Sin(angle) * dist,
			})
		}
	}
	return out
}
