package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteDefaultsToOctaveFour(t *testing.T) {
	n, err := ParseNote("C")
	require.NoError(t, err)
	assert.Equal(t, 4, n.Octave)
	assert.Equal(t, 0, n.PitchClass)
}

func TestParseNoteSharpAndFlatAccidentals(t *testing.T) {
	sharp, err := ParseNote("C#4")
	require.NoError(t, err)
	flat, err := ParseNote("Db4")
	require.NoError(t, err)
	assert.Equal(t, sharp.PitchClass, flat.PitchClass, "C#4 and Db4 should share a pitch class")
}

func TestNoteMIDIMiddleCIsSixty(t *testing.T) {
	c4, err := ParseNote("C4")
	require.NoError(t, err)
	assert.Equal(t, 60, c4.MIDI())
}

func TestNoteFromMIDIRoundtrips(t *testing.T) {
	c4, err := ParseNote("C4")
	require.NoError(t, err)
	roundtripped := NoteFromMIDI(c4.MIDI())
	assert.True(t, roundtripped.Equal(c4))
}

func TestNoteTransposeWrapsOctave(t *testing.T) {
	b4, err := ParseNote("B4")
	require.NoError(t, err)
	up := b4.Transpose(1)
	assert.Equal(t, 0, up.PitchClass)
	assert.Equal(t, 5, up.Octave)
}

func TestParseNoteRejectsInvalidLetter(t *testing.T) {
	_, err := ParseNote("H4")
	assert.Error(t, err)
}
