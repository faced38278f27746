package kingdoms

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Rand is the source of every random draw the rules make.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeededRand returns a source seeded from the operating system.
func NewSeededRand() Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return NewRand(0)
	}
	return NewRand(int64(binary.LittleEndian.Uint64(b[:])))
}

// between returns a uniform integer in [lo, hi).
func between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}
