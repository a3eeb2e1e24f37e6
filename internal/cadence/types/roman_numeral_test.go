package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRomanNumeralProgression(t *testing.T) {
	p := CommonProgressions{}
	assert.True(t, p.IsRomanNumeralProgression("I-V-vi-IV"))
	assert.False(t, p.IsRomanNumeralProgression("hello-world"))
}

func TestIsNumericProgression(t *testing.T) {
	p := CommonProgressions{}
	assert.True(t, p.IsNumericProgression("251"))
	assert.False(t, p.IsNumericProgression("289"), "289 has an out-of-range digit")
}

func TestIsValidProgressionRecognizesNamedProgressions(t *testing.T) {
	p := CommonProgressions{}
	assert.True(t, p.IsValidProgression("pop-punk"))
}

func TestGetProgressionBuildsChordsInKey(t *testing.T) {
	p := CommonProgressions{}
	key, err := ParseNote("C4")
	require.NoError(t, err)
	pattern, err := p.GetProgression("I-V-vi-IV", key)
	require.NoError(t, err)
	require.Equal(t, 4, pattern.Len())
	events, err := pattern.Events()
	require.NoError(t, err)
	require.Equal(t, StepChord, events[0].Kind)
	root, ok := events[0].Chord.Root()
	require.True(t, ok)
	assert.Equal(t, key.PitchClass, root.PitchClass, "the I chord's root should match the key")
}

func TestGetProgressionNumericMatchesRoman(t *testing.T) {
	p := CommonProgressions{}
	key, err := ParseNote("C4")
	require.NoError(t, err)
	numeric, err := p.GetProgression("251", key)
	require.NoError(t, err)
	roman, err := p.GetProgression("ii-V-I", key)
	require.NoError(t, err)
	assert.Equal(t, roman.Len(), numeric.Len())
}

func TestFormatNumericProgressionName(t *testing.T) {
	assert.Equal(t, "II-V-I", FormatNumericProgressionName("251"))
}

func TestGetProgressionUnknownNameErrors(t *testing.T) {
	p := CommonProgressions{}
	key, err := ParseNote("C4")
	require.NoError(t, err)
	_, err = p.GetProgression("not-a-progression", key)
	assert.Error(t, err, "expected an error for an unrecognized progression name")
}
