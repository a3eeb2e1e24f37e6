package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeArithmeticIsExactRational(t *testing.T) {
	third := NewTime(1, 3)
	sum := third.Add(third).Add(third)
	assert.True(t, sum.Equal(Beats(1)), "1/3 + 1/3 + 1/3 should equal exactly 1 beat, got %s", sum)
}

func TestTimeCmpOrdering(t *testing.T) {
	assert.Equal(t, -1, Beats(1).Cmp(Beats(2)))
	assert.Equal(t, 0, Beats(2).Cmp(Beats(2)))
}

func TestArcContainsIsHalfOpen(t *testing.T) {
	arc := NewArc(Beats(0), Beats(4))
	assert.True(t, arc.Contains(Beats(0)), "arc should contain its start")
	assert.False(t, arc.Contains(Beats(4)), "arc should not contain its end (half-open)")
	assert.True(t, arc.Contains(NewTime(7, 2)), "arc should contain 3.5")
}

func TestArcOverlaps(t *testing.T) {
	a := NewArc(Beats(0), Beats(2))
	b := NewArc(Beats(1), Beats(3))
	d := NewArc(Beats(2), Beats(4))
	assert.True(t, a.Overlaps(b), "[0,2) and [1,3) should overlap")
	assert.False(t, a.Overlaps(d), "[0,2) and [2,4) should not overlap (half-open, touching at the boundary)")
}
