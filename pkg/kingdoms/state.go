package kingdoms

// GeneralState is the activity a general is currently bound to.
type GeneralState string

const (
	StateIdle        GeneralState = "idle"
	StateWorking     GeneralState = "working"
	StateTraveling   GeneralState = "traveling"
	StateCampaigning GeneralState = "campaigning"
	StateGarrisoned  GeneralState = "garrisoned"
	StateCaptured    GeneralState = "captured"
)

// Difficulty sets how eagerly an AI faction attacks.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Resources is a faction's pooled treasury. No field ever goes below zero.
type Resources struct {
	Gold      int `json:"gold"`
	Food      int `json:"food"`
	Wood      int `json:"wood"`
	Stone     int `json:"stone"`
	Influence int `json:"influence"`
}

// Income is the per-turn yield of a city.
type Income struct {
	Gold  int `json:"gold"`
	Food  int `json:"food"`
	Wood  int `json:"wood"`
	Stone int `json:"stone"`
}

// City is a node of the map graph.
type City struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	FactionID   string   `json:"faction_id"`
	Capital     bool     `json:"capital"`
	Income      Income   `json:"income"`
	Defense     int      `json:"defense"`
	MaxDefense  int      `json:"max_defense"`
	Troops      int      `json:"troops"`
	Morale      int      `json:"morale"` // nominally 0-100, training may push it to 120
	Population  int      `json:"population"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Connections []string `json:"connections"`
}

// ConnectedTo reports whether other is directly adjacent to c.
func (c *City) ConnectedTo(other string) bool {
	for _, id := range c.Connections {
		if id == other {
			return true
		}
	}
	return false
}

// Faction is a political entity holding cities, generals and a treasury.
type Faction struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Leader      string     `json:"leader"`
	Color       string     `json:"color"`
	Culture     string     `json:"culture"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description,omitempty"`
	Treasury    Resources  `json:"treasury"`
}

// General is a named officer. FactionID is the general's allegiance; while
// captured, HeldBy names the captor faction.
type General struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	FactionID string       `json:"faction_id"`
	CityID    string       `json:"city_id"`
	Stats     Stats        `json:"stats"`
	Loyalty   float64      `json:"loyalty"`
	State     GeneralState `json:"state"`
	HeldBy    string       `json:"held_by,omitempty"`
	Traits    []Trait      `json:"traits,omitempty"`
	Items     []Item       `json:"items,omitempty"`
	Bio       string       `json:"bio,omitempty"`
}

// SubLocationType classifies a satellite site of a city.
type SubLocationType string

const (
	Village SubLocationType = "village"
	Fort    SubLocationType = "fort"
	Pass    SubLocationType = "pass"
)

// SubLocation is a garrisonable site attached to a city.
type SubLocation struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      SubLocationType `json:"type"`
	CityID    string          `json:"city_id"`
	GeneralID string          `json:"general_id,omitempty"`
	OffsetX   float64         `json:"offset_x"`
	OffsetY   float64         `json:"offset_y"`
}

// World is the authoritative state of one campaign.
type World struct {
	Turn            int           `json:"turn"`
	PlayerFactionID string        `json:"player_faction_id"`
	Cities          []City        `json:"cities"`
	Factions        []Faction     `json:"factions"`
	Generals        []General     `json:"generals"`
	SubLocations    []SubLocation `json:"sub_locations"`
	Tasks           []Task        `json:"tasks"`
	Relations       Relations     `json:"relations"`
	FiredEvents     []string      `json:"fired_events,omitempty"`
	Resolution      Resolution    `json:"resolution"`
}

// Year returns the in-game year for the current turn.
func (w *World) Year() int {
	return 184 + w.Turn/12
}

// Month returns the in-game month (1-12) for the current turn.
func (w *World) Month() int {
	return w.Turn%12 + 1
}

// City returns the city with the given ID, or nil.
func (w *World) City(id string) *City {
	for i := range w.Cities {
		if w.Cities[i].ID == id {
			return &w.Cities[i]
		}
	}
	return nil
}

// Faction returns the faction with the given ID, or nil.
func (w *World) Faction(id string) *Faction {
	for i := range w.Factions {
		if w.Factions[i].ID == id {
			return &w.Factions[i]
		}
	}
	return nil
}

// General returns the general with the given ID, or nil.
func (w *World) General(id string) *General {
	for i := range w.Generals {
		if w.Generals[i].ID == id {
			return &w.Generals[i]
		}
	}
	return nil
}

// SubLocation returns the sub-location with the given ID, or nil.
func (w *World) SubLocation(id string) *SubLocation {
	for i := range w.SubLocations {
		if w.SubLocations[i].ID == id {
			return &w.SubLocations[i]
		}
	}
	return nil
}

// FactionName returns the display name of a faction, or fallback if unknown.
func (w *World) FactionName(id, fallback string) string {
	if f := w.Faction(id); f != nil {
		return f.Name
	}
	return fallback
}

// CitiesOf returns the IDs of all cities owned by a faction.
func (w *World) CitiesOf(factionID string) []string {
	var ids []string
	for _, c := range w.Cities {
		if c.FactionID == factionID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// GeneralsIn returns pointers to the generals located in a city.
func (w *World) GeneralsIn(cityID string) []*General {
	var out []*General
	for i := range w.Generals {
		if w.Generals[i].CityID == cityID {
			out = append(out, &w.Generals[i])
		}
	}
	return out
}

// GarrisonOf returns the sub-location a general is garrisoned at, or nil.
func (w *World) GarrisonOf(generalID string) *SubLocation {
	for i := range w.SubLocations {
		if w.SubLocations[i].GeneralID == generalID {
			return &w.SubLocations[i]
		}
	}
	return nil
}

// Outcome reports whether the campaign is decided: the player owns every
// city (victory) or none (defeat).
func (w *World) Outcome() (finished, victory bool) {
	owned := len(w.CitiesOf(w.PlayerFactionID))
	switch {
	case owned == 0:
		return true, false
	case owned == len(w.Cities):
		return true, true
	}
	return false, false
}

// Clone returns a deep copy of the world.
func (w *World) Clone() *World {
	c := &World{
		Turn:            w.Turn,
		PlayerFactionID: w.PlayerFactionID,
		Cities:          make([]City, len(w.Cities)),
		Factions:        make([]Faction, len(w.Factions)),
		Generals:        make([]General, len(w.Generals)),
		SubLocations:    make([]SubLocation, len(w.SubLocations)),
		Tasks:           make([]Task, len(w.Tasks)),
		Relations:       w.Relations.Clone(),
		FiredEvents:     append([]string(nil), w.FiredEvents...),
		Resolution:      w.Resolution.clone(),
	}
	for i, city := range w.Cities {
		city.Connections = append([]string(nil), city.Connections...)
		c.Cities[i] = city
	}
	copy(c.Factions, w.Factions)
	for i, g := range w.Generals {
		g.Traits = append([]Trait(nil), g.Traits...)
		g.Items = append([]Item(nil), g.Items...)
		c.Generals[i] = g
	}
	copy(c.SubLocations, w.SubLocations)
	for i, t := range w.Tasks {
		if t.Payload != nil {
			p := *t.Payload
			t.Payload = &p
		}
		c.Tasks[i] = t
	}
	return c
}

func spend(have *int, cost int) {
	*have -= cost
	if *have < 0 {
		*have = 0
	}
}
