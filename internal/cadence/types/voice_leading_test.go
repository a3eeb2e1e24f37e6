package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonTonesFindsSharedPitchClasses(t *testing.T) {
	a := Major(mustNote(t, "C4"))
	b := Minor(mustNote(t, "A4")) // A minor: A, C, E — shares C and E pitch classes with C major
	shared := CommonTones(a, b)
	assert.Len(t, shared, 2, "shared=%v", shared)
}

func TestVoiceLeadingVoicesWithinAnOctaveOfAnchor(t *testing.T) {
	from := c("C3", "E3", "G3")
	to := c("C5", "F5", "A5") // same chord shape, voiced far away
	result := VoiceLeading(from, to)
	for i, n := range result.Notes() {
		anchor := from.Notes()[i]
		dist := abs(n.MIDI() - anchor.MIDI())
		assert.LessOrEqual(t, dist, 6, "voice %d moved %d semitones from its anchor, want <= 6 (nearest octave)", i, dist)
	}
}

func TestAnalyzeVoiceLeadingQualityBuckets(t *testing.T) {
	same := Major(mustNote(t, "C4"))
	analysis := AnalyzeVoiceLeading(same, same)
	assert.Equal(t, 0, analysis.TotalMovement, "identical chords should have zero movement")
	assert.Equal(t, QualitySmooth, analysis.Quality, "zero movement should be classified smooth")
	assert.Equal(t, 3, analysis.CommonTones, "identical chords should share all 3 tones")
}

func TestAnalyzeVoiceLeadingLeapyForLargeJumps(t *testing.T) {
	from := c("C3", "E3", "G3")
	to := c("C5", "E5", "G5") // 24 semitones per voice
	analysis := AnalyzeVoiceLeading(from, to)
	assert.Equal(t, QualityLeapy, analysis.Quality, "want leapy for a 2-octave jump")
}
