package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(names ...string) Chord {
	notes := make([]Note, len(names))
	for i, name := range names {
		n, err := ParseNote(name)
		if err != nil {
			panic(err)
		}
		notes[i] = n
	}
	return FromNotes(notes)
}

func mustNote(t *testing.T, s string) Note {
	t.Helper()
	n, err := ParseNote(s)
	require.NoError(t, err)
	return n
}

func TestChordMajorTriad(t *testing.T) {
	root, err := ParseNote("C4")
	require.NoError(t, err)
	chord := Major(root)
	require.Equal(t, 3, chord.Len())
	notes := chord.Notes()
	want := []int{0, 4, 7}
	for i, pc := range want {
		assert.Equal(t, pc, notes[i].PitchClass)
	}
}

func TestChordFromNotesDropsDuplicates(t *testing.T) {
	chord := c("C4", "E4", "C4", "G4")
	assert.Equal(t, 3, chord.Len(), "duplicate C4 should be dropped")
}

func TestChordIntersectionUnionDifference(t *testing.T) {
	a := c("C4", "E4", "G4")
	b := c("E4", "G4", "B4")

	assert.Equal(t, 2, a.Intersection(b).Len())
	assert.Equal(t, 4, a.Union(b).Len())
	assert.Equal(t, 2, a.Difference(b).Len(), "difference should keep C4 and B4")
}

func TestChordInvertMovesLowestNoteUpAndToEnd(t *testing.T) {
	chord := Major(mustNote(t, "C4"))
	inverted := chord.Invert()
	notes := inverted.Notes()
	assert.Equal(t, 0, notes[len(notes)-1].PitchClass, "expected the original root's pitch class at the end")
	assert.Len(t, notes, chord.Len(), "inversion should preserve note count")
}

func TestChordInvertNRoundtripsPitchClasses(t *testing.T) {
	chord := Major(mustNote(t, "C4"))
	thrice := chord.InvertN(3)
	assert.Len(t, thrice.PitchClassSet(), len(chord.PitchClassSet()), "inverting a triad 3 times should preserve the pitch-class set")
}
