package wishlist

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is a cosmetic presentation level unlocked by the engagement metric.
type Tier struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	UnlockAt float64 `json:"unlockAt"`
}

func DefaultTiers() []Tier {
	return []Tier{
		{ID: "classic", Name: "Classic", UnlockAt: 0},
		{ID: "snow", Name: "Snow", UnlockAt: 20},
		{ID: "aurora", Name: "Aurora", UnlockAt: 60},
		{ID: "gingerbread", Name: "Gingerbread", UnlockAt: 100},
	}
}

// TierPolicy maps an engagement metric to selectable tiers. It holds no
// selection state of its own.
type TierPolicy struct {
	tiers []Tier
}

// NewTierPolicy validates the tier set: non-empty, unique ids, thresholds in
// [0,100] and at least one tier open at 0 so a selection always exists.
func NewTierPolicy(tiers []Tier) (*TierPolicy, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier set is empty")
	}
	seen := make(map[string]struct{}, len(tiers))
	hasFloor := false
	sorted := make([]Tier, 0, len(tiers))
	for _, tier := range tiers {
		tier.ID = strings.TrimSpace(tier.ID)
		if tier.ID == "" {
			return nil, fmt.Errorf("tier id is required")
		}
		if _, dup := seen[tier.ID]; dup {
			return nil, fmt.Errorf("duplicate tier %q", tier.ID)
		}
		if tier.UnlockAt < 0 || tier.UnlockAt > 100 {
			return nil, fmt.Errorf("tier %q threshold %v out of range", tier.ID, tier.UnlockAt)
		}
		if tier.UnlockAt == 0 {
			hasFloor = true
		}
		if tier.Name == "" {
			tier.Name = tier.ID
		}
		seen[tier.ID] = struct{}{}
		sorted = append(sorted, tier)
	}
	if !hasFloor {
		return nil, fmt.Errorf("tier set needs a tier unlocked at 0")
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UnlockAt < sorted[j].UnlockAt })
	return &TierPolicy{tiers: sorted}, nil
}

// Tiers returns every tier ordered by threshold.
func (p *TierPolicy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

func (p *TierPolicy) Lookup(id string) (Tier, bool) {
	for _, tier := range p.tiers {
		if tier.ID == id {
			return tier, true
		}
	}
	return Tier{}, false
}

// Lowest is the tier with the smallest threshold.
func (p *TierPolicy) Lowest() Tier {
	return p.tiers[0]
}

func (p *TierPolicy) IsSelectable(tier Tier, metric float64) bool {
	return tier.UnlockAt <= metric
}

// Unlocked returns the tiers whose threshold is at or below metric.
func (p *TierPolicy) Unlocked(metric float64) []Tier {
	out := make([]Tier, 0, len(p.tiers))
	for _, tier := range p.tiers {
		if p.IsSelectable(tier, metric) {
			out = append(out, tier)
		}
	}
	return out
}

// Select resolves id and checks it against metric. The caller owns the
// current selection and replaces it with the returned tier.
func (p *TierPolicy) Select(id string, metric float64) (Tier, error) {
	tier, ok := p.Lookup(id)
	if !ok {
		return Tier{}, fmt.Errorf("%w: %s", ErrUnknownTier, id)
	}
	if !p.IsSelectable(tier, metric) {
		return Tier{}, fmt.Errorf("%w: %s unlocks at %v", ErrLockedTier, tier.ID, tier.UnlockAt)
	}
	return tier, nil
}

// Clamp returns the tier for id if it is still unlocked at metric, otherwise
// the lowest-threshold unlocked tier.
func (p *TierPolicy) Clamp(id string, metric float64) Tier {
	if tier, ok := p.Lookup(id); ok && p.IsSelectable(tier, metric) {
		return tier
	}
	if unlocked := p.Unlocked(metric); len(unlocked) > 0 {
		return unlocked[0]
	}
	return p.Lowest()
}
