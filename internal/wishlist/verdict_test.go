package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictAssignerIsReproducibleWithSeed(t *testing.T) {
	a := NewSeededVerdictAssigner(2024, DefaultNaughtyRate)
	b := NewSeededVerdictAssigner(2024, DefaultNaughtyRate)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Assign("x"), b.Assign("y"), "draw %d", i)
	}
}

func TestVerdictAssignerNaughtyRateConverges(t *testing.T) {
	assigner := NewSeededVerdictAssigner(42, DefaultNaughtyRate)

	const draws = 10000
	naughty := 0
	for i := 0; i < draws; i++ {
		if assigner.Assign("same text") == VerdictNaughty {
			naughty++
		}
	}
	rate := float64(naughty) / draws
	assert.InDelta(t, 0.30, rate, 0.02)
}

func TestVerdictAssignerExtremes(t *testing.T) {
	always := NewSeededVerdictAssigner(1, 1)
	never := NewSeededVerdictAssigner(1, 0)
	for i := 0; i < 50; i++ {
		assert.Equal(t, VerdictNaughty, always.Assign("x"))
		assert.Equal(t, VerdictNice, never.Assign("x"))
	}
}

func TestVerdictAssignerOutOfRangeRateFallsBack(t *testing.T) {
	assigner := NewSeededVerdictAssigner(1, 7)
	assert.Equal(t, DefaultNaughtyRate, assigner.naughtyRate)
}
