package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBjorklundPulseCountAndLength(t *testing.T) {
	mask := Bjorklund(3, 8)
	require.Len(t, mask, 8)
	count := 0
	for _, hit := range mask {
		if hit {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestBjorklundAllPulsesWhenPulsesExceedSteps(t *testing.T) {
	mask := Bjorklund(8, 4)
	for i, hit := range mask {
		assert.True(t, hit, "step %d: want true when pulses >= steps", i)
	}
}

func TestBjorklundZeroPulses(t *testing.T) {
	mask := Bjorklund(0, 4)
	for i, hit := range mask {
		assert.False(t, hit, "step %d: want false for 0 pulses", i)
	}
}

func TestParsePatternStringSimpleNotes(t *testing.T) {
	p, err := ParsePatternString("C4 E4 G4")
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())
	events, err := p.Events()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, StepNote, events[0].Kind)
	assert.Equal(t, 0, events[0].Note.PitchClass, "want a C note first")
}

func TestParsePatternStringRestAndGroup(t *testing.T) {
	p, err := ParsePatternString("C4 ~ [D4 E4]")
	require.NoError(t, err)
	events, err := p.Events()
	require.NoError(t, err)
	// C4, rest, then the grouped [D4 E4] expands to 2 events: 4 total.
	require.Len(t, events, 4)
	assert.True(t, events[1].Rest, "expected the second event to be a rest")
}

func TestParsePatternStringEuclideanModifier(t *testing.T) {
	p, err := ParsePatternString("bd(3,8)")
	require.NoError(t, err)
	events, err := p.Events()
	require.NoError(t, err)
	require.Len(t, events, 8, "euclidean expands to the step count")
	hits := 0
	for _, ev := range events {
		if !ev.Rest {
			hits++
		}
	}
	assert.Equal(t, 3, hits)
}

func TestParsePatternStringSingleWordIsRejected(t *testing.T) {
	_, err := ParsePatternString("notanote")
	assert.Error(t, err, "expected an error for a single word that is not a note/drum/rest/variable")
}

func TestPatternReverse(t *testing.T) {
	p, err := ParsePatternString("C4 D4 E4")
	require.NoError(t, err)
	reversed := p.Reverse()
	events, err := reversed.Events()
	require.NoError(t, err)
	assert.Equal(t, 4, events[0].Note.PitchClass, "want E (4) first") // E
}

func TestPatternFastDividesBeatsPerCycle(t *testing.T) {
	p, err := ParsePatternString("C4 D4")
	require.NoError(t, err)
	fast := p.Fast(2)
	assert.True(t, fast.BeatsPerCycle().Equal(p.BeatsPerCycle().Quo(Beats(2))), "fast(2) should halve beatsPerCycle")
}
