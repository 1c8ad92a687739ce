package periodic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup("C")
	assert.True(t, ok)
	assert.Equal(t, 6, c.Number)
	assert.InDelta(t, 12.011, c.Mass, 1e-9)

	_, ok = Lookup("Xx")
	assert.False(t, ok)
	assert.Panics(t, func() { MustLookup("Xx") })
}

func TestTargetValence(t *testing.T) {
	s := MustLookup("S")
	assert.Equal(t, 2, s.TargetValence(1))
	assert.Equal(t, 4, s.TargetValence(3))
	assert.Equal(t, 6, s.TargetValence(6))
	assert.Equal(t, -1, s.TargetValence(7))
	assert.Equal(t, 2, s.LowestValence())
	assert.Equal(t, 0, MustLookup("*").LowestValence())
}

func TestSymbolsOrdered(t *testing.T) {
	prev := -1
	for _, s := range Symbols() {
		e := MustLookup(s)
		assert.Greater(t, e.Number, prev)
		prev = e.Number
	}
}
