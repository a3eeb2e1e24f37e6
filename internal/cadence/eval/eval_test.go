package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/cadence/env"
	"cadence/internal/cadence/parser"
	"cadence/internal/cadence/value"
)

// recordingSink is a Sink test double that records every Play value and
// refuses nothing, letting tests run a program end-to-end without a
// real host interpreter or audio/MIDI output.
type recordingSink struct {
	played []value.Value
	tempo  float64
}

func (s *recordingSink) Play(v value.Value) error {
	s.played = append(s.played, v)
	return nil
}
func (s *recordingSink) Tempo(bpm float64) error { s.tempo = bpm; return nil }
func (s *recordingSink) Volume(float64) error    { return nil }
func (s *recordingSink) Waveform(string) error   { return nil }
func (s *recordingSink) Stop() error             { return nil }
func (s *recordingSink) Load(string) error       { return nil }
func (s *recordingSink) Track(name string, body func() error) error {
	return body()
}
func (s *recordingSink) Use(string, []string, string) error { return nil }

func run(t *testing.T, src string) (*recordingSink, *Evaluator) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	sink := &recordingSink{}
	ev := New(env.NewShared(), sink)
	require.NoError(t, ev.Run(prog))
	return sink, ev
}

func TestEvalLetAndPlayRoundtrip(t *testing.T) {
	sink, _ := run(t, `
let bass = C2
play bass
`)
	require.Len(t, sink.played, 1)
	assert.Equal(t, value.KindNote, sink.played[0].Kind)
}

func TestEvalTransposeVsArithmeticAtRuntime(t *testing.T) {
	sink, _ := run(t, `
play C4 + 2
play 1 + 2
`)
	assert.Equal(t, value.KindNote, sink.played[0].Kind, "note + number should stay a note")
	assert.Equal(t, value.KindNumber, sink.played[1].Kind)
	assert.Equal(t, float64(3), sink.played[1].Number)
}

func TestEvalChordSetOperations(t *testing.T) {
	sink, _ := run(t, `
play [C4, E4, G4] & [E4, G4, B4]
`)
	chord, ok := sink.played[0].AsChord()
	require.True(t, ok, "expected a chord result")
	assert.Equal(t, 2, chord.Len(), "intersection should keep E4, G4")
}

func TestEvalComparisonOperators(t *testing.T) {
	sink, _ := run(t, `
play 3 < 5
play 3 == 3
play "a" == "b"
`)
	want := []bool{true, true, false}
	for i, w := range want {
		assert.Equal(t, value.KindBoolean, sink.played[i].Kind)
		assert.Equal(t, w, sink.played[i].Boolean)
	}
}

func TestEvalBreakExitsRepeat(t *testing.T) {
	sink, _ := run(t, `
repeat 5 {
	play 1
	break
}
`)
	assert.Len(t, sink.played, 1, "break should stop after the first iteration")
}

func TestEvalContinueSkipsRemainderOfIteration(t *testing.T) {
	sink, _ := run(t, `
for n in [1, 2, 3] {
	if n == 2 {
		continue
	}
	play n
}
`)
	require.Len(t, sink.played, 2, "2 should be skipped")
	assert.Equal(t, float64(1), sink.played[0].Number)
	assert.Equal(t, float64(3), sink.played[1].Number)
}

func TestEvalUserFunctionReturnValue(t *testing.T) {
	sink, _ := run(t, `
fn double(n) {
	return n * 2
}
play double(21)
`)
	assert.Equal(t, float64(42), sink.played[0].Number)
}

func TestEvalMapBuiltinAppliesFunctionToEachElement(t *testing.T) {
	sink, _ := run(t, `
fn double(n) {
	return n * 2
}
play map([1, 2, 3], double)
`)
	result := sink.played[0]
	require.Equal(t, value.KindArray, result.Kind)
	require.Len(t, result.Array, 3)
	assert.Equal(t, float64(2), result.Array[0].Number)
	assert.Equal(t, float64(6), result.Array[2].Number)
}

func TestEvalFilterBuiltinKeepsTruthyResults(t *testing.T) {
	sink, _ := run(t, `
fn isBig(n) {
	return n > 2
}
play filter([1, 2, 3, 4], isBig)
`)
	result := sink.played[0]
	assert.Len(t, result.Array, 2)
}

func TestEvalEveryBuiltinProducesEveryPattern(t *testing.T) {
	sink, _ := run(t, `
play every(3, "reverse", "C4 E4 G4")
`)
	result := sink.played[0]
	require.Equal(t, value.KindEveryPattern, result.Kind)
	assert.Equal(t, 3, result.EveryPattern.Interval)
}

func TestEvalThunkSelfReferenceIsRejected(t *testing.T) {
	prog, err := parser.Parse(`
let x = x
play x
`)
	require.NoError(t, err)
	sink := &recordingSink{}
	ev := New(env.NewShared(), sink)
	assert.Error(t, ev.Run(prog), "expected a circular reference error forcing a thunk that references itself")
}

func TestEvalAllNoteArrayCollapsesToChordAndTransposes(t *testing.T) {
	sink, _ := run(t, `
let Cmaj = [C, E, G]
play Cmaj + 2
`)
	chord, ok := sink.played[0].AsChord()
	require.True(t, ok, "a transposed all-Note array should still be a chord")
	pcs := make([]int, 0, chord.Len())
	for _, n := range chord.Notes() {
		pcs = append(pcs, n.PitchClass)
	}
	assert.Equal(t, []int{2, 6, 9}, pcs)
}

func TestEvalForLoopOverAllNoteArrayIteratesAsChordNotes(t *testing.T) {
	sink, _ := run(t, `
for n in [C4, E4, G4] {
	play n
}
`)
	require.Len(t, sink.played, 3)
	assert.Equal(t, value.KindNote, sink.played[0].Kind)
}

func TestEvalPatternVariableResolvesAgainstEnvironment(t *testing.T) {
	sink, _ := run(t, `
let bass = F3
play "$bass C D"
`)
	pattern, ok := sink.played[0].AsPattern()
	require.True(t, ok)
	events, err := pattern.Events()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 5, events[0].Note.PitchClass, "F's pitch class")
}

func TestEvalPatternUnresolvedVariableErrors(t *testing.T) {
	prog, err := parser.Parse(`play "$missing C D"`)
	require.NoError(t, err)
	sink := &recordingSink{}
	ev := New(env.NewShared(), sink)
	assert.Error(t, ev.Run(prog), "an unbound pattern variable should fail evaluation")
}

func TestEvalIndexNegativeArrayIndexWraps(t *testing.T) {
	sink, _ := run(t, `play [1, 2, 3][-1]`)
	assert.Equal(t, float64(3), sink.played[0].Number)
}

func TestEvalIndexStringReturnsSingleCharString(t *testing.T) {
	sink, _ := run(t, `play "hello"[1]`)
	assert.Equal(t, value.KindString, sink.played[0].Kind)
	assert.Equal(t, "e", sink.played[0].String)
}

func TestEvalIndexChordReturnsNoteAtPosition(t *testing.T) {
	sink, _ := run(t, `play [C4, E4, G4][1]`)
	require.Equal(t, value.KindNote, sink.played[0].Kind)
	assert.Equal(t, 4, sink.played[0].Note.PitchClass)
}

func TestEvalBlockScopeIsPoppedAfterExit(t *testing.T) {
	prog, err := parser.Parse(`
if true {
	let y = 1
}
play y
`)
	require.NoError(t, err)
	sink := &recordingSink{}
	ev := New(env.NewShared(), sink)
	assert.Error(t, ev.Run(prog), "'y' should not be visible once its if-block has exited")
}

func TestEvalAssignmentInsideRepeatPersistsAcrossIterations(t *testing.T) {
	sink, _ := run(t, `
let x = 0
repeat 3 {
	x = x + 1
}
play x
`)
	assert.Equal(t, float64(3), sink.played[0].Number, "each repeat iteration should mutate the real top-level x")
}
