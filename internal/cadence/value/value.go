// Package value holds Cadence's runtime Value: the tagged union every
// expression evaluates to. Grounded on spec §3's Value variant list and
// cadence-core/src/parser/evaluator.rs's Value enum.
package value

import (
	"fmt"
	"strings"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/types"
)

// Kind tags the variant carried by a Value.
type Kind int

const (
	KindNote Kind = iota
	KindChord
	KindPattern
	KindEveryPattern
	KindNumber
	KindBoolean
	KindString
	KindArray
	KindFunction
	KindThunk
	KindUnit
)

// Scope is the lookup surface a Thunk needs to force itself against the
// environment captured at binding time. internal/cadence/env's
// Environment implements this; value does not import env, so a Thunk
// can capture a scope without creating an import cycle.
type Scope interface {
	Lookup(name string) (Value, bool)
}

// Function is a user-defined function value: parameter names, body
// statements, and the scope it closed over at definition time.
type Function struct {
	Name    string
	Params  []string
	Body    []ast.Statement
	Closure Scope
}

// Thunk is a lazily-evaluated `let` binding: the bound expression plus
// the environment it was bound in. Forcing happens in internal/cadence/eval,
// which is also where the per-call cycle-detection set lives (spec §9's
// reentrancy hazard, model (b) from DESIGN.md's Open Question 1).
type Thunk struct {
	Expr     ast.Expression
	Captured Scope
}

// Value is Cadence's runtime value, a tagged union in the same style as
// types.PatternStep and ast.Expression: only the fields relevant to Kind
// are populated.
type Value struct {
	Kind Kind

	Note         types.Note
	Chord        types.Chord
	Pattern      types.Pattern
	EveryPattern types.EveryPattern
	Number       float64
	Boolean      bool
	String       string
	Array        []Value
	Function     *Function
	Thunk        *Thunk
}

func NoteValue(n types.Note) Value                 { return Value{Kind: KindNote, Note: n} }
func ChordValue(c types.Chord) Value               { return Value{Kind: KindChord, Chord: c} }
func PatternValue(p types.Pattern) Value           { return Value{Kind: KindPattern, Pattern: p} }
func EveryPatternValue(e types.EveryPattern) Value { return Value{Kind: KindEveryPattern, EveryPattern: e} }
func NumberValue(n float64) Value                  { return Value{Kind: KindNumber, Number: n} }
func BooleanValue(b bool) Value                    { return Value{Kind: KindBoolean, Boolean: b} }
func StringValue(s string) Value                   { return Value{Kind: KindString, String: s} }
func ArrayValue(items []Value) Value               { return Value{Kind: KindArray, Array: items} }
func FunctionValue(f *Function) Value              { return Value{Kind: KindFunction, Function: f} }
func ThunkValue(t *Thunk) Value                    { return Value{Kind: KindThunk, Thunk: t} }
func Unit() Value                                  { return Value{Kind: KindUnit} }

// AsChord coerces a Value to a Chord: Chord passes through, a Note
// becomes a one-note chord, an Array of Note/Chord values flattens into
// one chord (spec §9's Array↔Chord coercion note), anything else fails.
func (v Value) AsChord() (types.Chord, bool) {
	switch v.Kind {
	case KindChord:
		return v.Chord, true
	case KindNote:
		return types.FromNotes([]types.Note{v.Note}), true
	case KindArray:
		var notes []types.Note
		for _, item := range v.Array {
			switch item.Kind {
			case KindNote:
				notes = append(notes, item.Note)
			case KindChord:
				notes = append(notes, item.Chord.Notes()...)
			default:
				return types.Chord{}, false
			}
		}
		return types.FromNotes(notes), true
	}
	return types.Chord{}, false
}

// AsPattern coerces a Value to a Pattern: Pattern passes through, a Note
// or Chord becomes a single-step pattern, an EveryPattern resolves to
// its cycle-0 selection; anything else (including a String) fails.
func (v Value) AsPattern() (types.Pattern, bool) {
	switch v.Kind {
	case KindPattern:
		return v.Pattern, true
	case KindEveryPattern:
		return v.EveryPattern.SelectForCycle(0), true
	case KindNote:
		return types.WithSteps([]types.PatternStep{types.NoteStep(v.Note)}), true
	case KindChord:
		return types.WithSteps([]types.PatternStep{types.ChordStep(v.Chord)}), true
	}
	return types.Pattern{}, false
}

// TypeName returns a lowercase display name for error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNote:
		return "note"
	case KindChord:
		return "chord"
	case KindPattern:
		return "pattern"
	case KindEveryPattern:
		return "every-pattern"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindThunk:
		return "thunk"
	case KindUnit:
		return "unit"
	}
	return "unknown"
}

// Equal performs structural equality for Comparison expressions
// (==, !=). Functions and Thunks are never equal to anything but
// themselves by identity, matching a reference-typed-value convention.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNote:
		return v.Note.Equal(other.Note)
	case KindChord:
		return chordEqual(v.Chord, other.Chord)
	case KindNumber:
		return v.Number == other.Number
	case KindBoolean:
		return v.Boolean == other.Boolean
	case KindString:
		return v.String == other.String
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindUnit:
		return true
	case KindFunction:
		return v.Function == other.Function
	case KindThunk:
		return v.Thunk == other.Thunk
	}
	return false
}

func chordEqual(a, b types.Chord) bool {
	an, bn := a.Notes(), b.Notes()
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if !an[i].Equal(bn[i]) {
			return false
		}
	}
	return true
}

// String_ renders a Value for display. Named with a trailing underscore
// because the String Kind's payload field already occupies the name
// String on this struct, so Value can't satisfy fmt.Stringer directly.
func (v Value) String_() string {
	switch v.Kind {
	case KindNote:
		return v.Note.Name()
	case KindChord:
		names := make([]string, 0, v.Chord.Len())
		for _, n := range v.Chord.Notes() {
			names = append(names, n.Name())
		}
		return "[" + strings.Join(names, " ") + "]"
	case KindPattern:
		return fmt.Sprintf("<pattern %d steps>", v.Pattern.Len())
	case KindEveryPattern:
		return fmt.Sprintf("<every %d>", v.EveryPattern.Interval)
	case KindNumber:
		return fmt.Sprintf("%g", v.Number)
	case KindBoolean:
		if v.Boolean {
			return "true"
		}
		return "false"
	case KindString:
		return v.String
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String_()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		return fmt.Sprintf("<function %s/%d>", v.Function.Name, len(v.Function.Params))
	case KindThunk:
		return "<thunk>"
	case KindUnit:
		return "()"
	}
	return "<unknown>"
}
