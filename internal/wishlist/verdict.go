package wishlist

import (
	"math/rand"
	"sync"
)

// DefaultNaughtyRate is the probability that a wish is marked NAUGHTY.
const DefaultNaughtyRate = 0.3

// VerdictAssigner marks each wish NICE or NAUGHTY at random with a fixed
// bias. It never looks at the wish text: the holistic judgment happens later
// in the JudgmentSession, so this is a placeholder verdict for display only.
type VerdictAssigner struct {
	mu          sync.Mutex
	rng         *rand.Rand
	naughtyRate float64
}

// NewVerdictAssigner takes ownership of rng; pass a seeded source for
// reproducible verdicts.
func NewVerdictAssigner(rng *rand.Rand, naughtyRate float64) *VerdictAssigner {
	if naughtyRate < 0 || naughtyRate > 1 {
		naughtyRate = DefaultNaughtyRate
	}
	return &VerdictAssigner{rng: rng, naughtyRate: naughtyRate}
}

// NewSeededVerdictAssigner is a convenience for NewVerdictAssigner with a
// fresh source seeded by seed.
func NewSeededVerdictAssigner(seed int64, naughtyRate float64) *VerdictAssigner {
	return NewVerdictAssigner(rand.New(rand.NewSource(seed)), naughtyRate)
}

func (a *VerdictAssigner) Assign(string) Verdict {
	a.mu.Lock()
	roll := a.rng.Float64()
	a.mu.Unlock()
	if roll < a.naughtyRate {
		return VerdictNaughty
	}
	return VerdictNice
}
