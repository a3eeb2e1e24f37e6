package eval

import (
	"fmt"

	"cadence/internal/cadence/types"
	"cadence/internal/cadence/value"
)

// Builtin is one native function's implementation. Grounded on spec
// §4.7's built-ins table; registry shape modeled on the melrose DSL's
// EvalFunctions map (other_examples) — a plain name->func table rather
// than a generated dispatch tree.
type Builtin func(args []value.Value) (value.Value, error)

// Builtins is the name -> implementation table the evaluator consults
// after checking user-defined functions and before falling back to
// progression-name dispatch.
var Builtins map[string]Builtin

func init() {
	Builtins = map[string]Builtin{
		"reverse": func(args []value.Value) (value.Value, error) {
			p, ok := args[0].AsPattern()
			if !ok {
				return value.Value{}, fmt.Errorf("reverse expects a pattern")
			}
			return value.PatternValue(p.Reverse()), nil
		},
		"fast": func(args []value.Value) (value.Value, error) {
			p, ok := args[0].AsPattern()
			if !ok {
				return value.Value{}, fmt.Errorf("fast expects a pattern")
			}
			k, err := asInt(args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.PatternValue(p.Fast(k)), nil
		},
		"slow": func(args []value.Value) (value.Value, error) {
			p, ok := args[0].AsPattern()
			if !ok {
				return value.Value{}, fmt.Errorf("slow expects a pattern")
			}
			k, err := asInt(args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.PatternValue(p.Slow(k)), nil
		},
		"transpose": func(args []value.Value) (value.Value, error) {
			amount, err := asInt(args[1])
			if err != nil {
				return value.Value{}, err
			}
			return transposeValue(args[0], int8(amount))
		},
		"euclidean": func(args []value.Value) (value.Value, error) {
			pulses, err := asInt(args[0])
			if err != nil {
				return value.Value{}, err
			}
			slots, err := asInt(args[1])
			if err != nil {
				return value.Value{}, err
			}
			mask := types.Bjorklund(int(pulses), int(slots))
			steps := make([]types.PatternStep, len(mask))
			for i, hit := range mask {
				if hit {
					steps[i] = types.DrumStep(types.Kick)
				} else {
					steps[i] = types.RestStep()
				}
			}
			return value.PatternValue(types.WithSteps(steps)), nil
		},
		"invert": func(args []value.Value) (value.Value, error) {
			c, ok := args[0].AsChord()
			if !ok {
				return value.Value{}, fmt.Errorf("invert expects a chord")
			}
			n, err := asInt(args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.ChordValue(c.InvertN(int(n))), nil
		},
		"major": func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Major) },
		"minor": func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Minor) },
		"dim":   func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Dim) },
		"aug":   func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Aug) },
		"sus2":  func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Sus2) },
		"sus4":  func(args []value.Value) (value.Value, error) { return chordFromNote(args[0], types.Sus4) },
		"voice_leading": func(args []value.Value) (value.Value, error) {
			from, to, err := asChordPair(args)
			if err != nil {
				return value.Value{}, err
			}
			return value.ChordValue(types.VoiceLeading(from, to)), nil
		},
		"smooth_voice_leading": func(args []value.Value) (value.Value, error) {
			from, to, err := asChordPair(args)
			if err != nil {
				return value.Value{}, err
			}
			return value.ChordValue(types.SmoothVoiceLeading(from, to)), nil
		},
		"analyze_voice_leading": func(args []value.Value) (value.Value, error) {
			from, to, err := asChordPair(args)
			if err != nil {
				return value.Value{}, err
			}
			a := types.AnalyzeVoiceLeading(from, to)
			return value.ArrayValue([]value.Value{
				value.NumberValue(float64(a.TotalMovement)),
				value.NumberValue(float64(a.CommonTones)),
				value.StringValue(string(a.Quality)),
			}), nil
		},
		"common_tones": func(args []value.Value) (value.Value, error) {
			from, to, err := asChordPair(args)
			if err != nil {
				return value.Value{}, err
			}
			pcs := types.CommonTones(from, to)
			items := make([]value.Value, len(pcs))
			for i, pc := range pcs {
				items[i] = value.NumberValue(float64(pc))
			}
			return value.ArrayValue(items), nil
		},
		"clear": func(args []value.Value) (value.Value, error) {
			return value.Unit(), nil // the evaluator special-cases clear() to also reset env
		},
	}
}

func asInt(v value.Value) (int64, error) {
	if v.Kind != value.KindNumber {
		return 0, fmt.Errorf("expected a number, got %s", v.TypeName())
	}
	return int64(v.Number), nil
}

func asChordPair(args []value.Value) (types.Chord, types.Chord, error) {
	from, ok := args[0].AsChord()
	if !ok {
		return types.Chord{}, types.Chord{}, fmt.Errorf("expected a chord argument")
	}
	to, ok := args[1].AsChord()
	if !ok {
		return types.Chord{}, types.Chord{}, fmt.Errorf("expected a chord argument")
	}
	return from, to, nil
}

func chordFromNote(v value.Value, build func(types.Note) types.Chord) (value.Value, error) {
	if v.Kind != value.KindNote {
		return value.Value{}, fmt.Errorf("expected a note, got %s", v.TypeName())
	}
	return value.ChordValue(build(v.Note)), nil
}

func transposeValue(v value.Value, semitones int8) (value.Value, error) {
	switch v.Kind {
	case value.KindNote:
		return value.NoteValue(v.Note.Transpose(semitones)), nil
	case value.KindChord:
		return value.ChordValue(v.Chord.Transpose(semitones)), nil
	case value.KindPattern:
		return value.PatternValue(v.Pattern.Transpose(semitones)), nil
	case value.KindEveryPattern:
		return value.EveryPatternValue(v.EveryPattern.Transpose(semitones)), nil
	}
	return value.Value{}, fmt.Errorf("cannot transpose a %s", v.TypeName())
}
