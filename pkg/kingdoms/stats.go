package kingdoms

// Stats are the four core attributes of a general.
type Stats struct {
	War   int `json:"war"`
	Intel int `json:"intel"`
	Pol   int `json:"pol"`
	Chr   int `json:"chr"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		War:   s.War + o.War,
		Intel: s.Intel + o.Intel,
		Pol:   s.Pol + o.Pol,
		Chr:   s.Chr + o.Chr,
	}
}

// Trait is an immutable capability attached to a general at creation.
type Trait string

const (
	TraitValor       Trait = "valor"
	TraitMastermind  Trait = "mastermind"
	TraitIronWill    Trait = "iron_will"
	TraitGodspeed    Trait = "godspeed"
	TraitWealthy     Trait = "wealthy"
	TraitCharismatic Trait = "charismatic"
)

// Item is a piece of equipment. Grants, when set, confers a trait's
// capability while the item is equipped.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
	Stats       Stats  `json:"stats"`
	Grants      Trait  `json:"grants,omitempty"`
}

// EffectiveStats returns base stats plus the bonuses of every equipped item.
// The result is derived on demand and never stored on the general.
func EffectiveStats(g *General) Stats {
	s := g.Stats
	for _, it := range g.Items {
		s = s.Add(it.Stats)
	}
	return s
}

// HasCapability reports whether a general carries a trait, either innately
// or through an equipped item that grants it.
func HasCapability(g *General, t Trait) bool {
	for _, tr := range g.Traits {
		if tr == t {
			return true
		}
	}
	for _, it := range g.Items {
		if it.Grants == t {
			return true
		}
	}
	return false
}

// Effectiveness scales a task's yield by an attribute, floored at 0.5.
func Effectiveness(stat int) float64 {
	e := float64(stat) / 100
	if e < 0.5 {
		return 0.5
	}
	return e
}
