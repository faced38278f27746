package kingdoms

import "sort"

// Stance is the diplomatic status of an unordered pair of factions.
type Stance string

const (
	Neutral Stance = "neutral"
	Allied  Stance = "allied"
	AtWar   Stance = "war"
)

// Relations is a symmetric table of stances keyed by faction pair.
// Absent pairs are neutral.
type Relations map[string]Stance

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Stance returns the stance between a and b.
func (r Relations) Stance(a, b string) Stance {
	if a == b {
		return Allied
	}
	if s, ok := r[pairKey(a, b)]; ok {
		return s
	}
	return Neutral
}

// Set records the stance for the pair on both sides at once.
func (r Relations) Set(a, b string, s Stance) {
	if a == b {
		return
	}
	if s == Neutral {
		delete(r, pairKey(a, b))
		return
	}
	r[pairKey(a, b)] = s
}

// Allied reports whether a and b are distinct allies.
func (r Relations) Allied(a, b string) bool {
	return a != b && r.Stance(a, b) == Allied
}

// AtWar reports whether a and b are at war.
func (r Relations) AtWar(a, b string) bool {
	return r.Stance(a, b) == AtWar
}

// Allies returns the sorted IDs of every faction allied with f.
func (r Relations) Allies(f string) []string {
	return r.with(f, Allied)
}

// Enemies returns the sorted IDs of every faction at war with f.
func (r Relations) Enemies(f string) []string {
	return r.with(f, AtWar)
}

func (r Relations) with(f string, s Stance) []string {
	var out []string
	for key, st := range r {
		if st != s {
			continue
		}
		for i := 0; i < len(key); i++ {
			if key[i] != '|' {
				continue
			}
			a, b := key[:i], key[i+1:]
			if a == f {
				out = append(out, b)
			} else if b == f {
				out = append(out, a)
			}
			break
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the table.
func (r Relations) Clone() Relations {
	c := make(Relations, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
