// Package eval implements Cadence's tree-walking evaluator: expression
// evaluation, thunk forcing with per-call-stack cycle detection, user
// function dispatch, and statement execution (including the host-level
// effects Play/Tempo/Volume/Waveform/Stop/Load/Track/Use, which a pure
// function body is forbidden from using). Grounded on
// cadence-core/src/parser/evaluator.rs.
package eval

import (
	"fmt"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/env"
	"cadence/internal/cadence/types"
	"cadence/internal/cadence/value"
)

// Sink receives the side-effecting statements a program emits: Play,
// Tempo, Volume, Waveform changes, Stop, Load, Track, and Use. The host
// package provides the concrete implementation (interpreter + MIDI
// export); eval depends only on this interface so it stays reusable
// from a pure "just compute a value" caller (e.g. the REPL evaluating
// a single expression) without pulling in host concerns.
type Sink interface {
	Play(v value.Value) error
	Tempo(bpm float64) error
	Volume(level float64) error
	Waveform(name string) error
	Stop() error
	Load(path string) error
	Track(name string, body func() error) error
	Use(modulePath string, items []string, alias string) error
}

// sentinel control-flow signals, unwound by loop/function-call sites.
type breakSignal struct{}
type continueSignal struct{}
type returnSignal struct{ value value.Value }

func (breakSignal) Error() string    { return "break outside a loop" }
func (continueSignal) Error() string { return "continue outside a loop" }
func (returnSignal) Error() string   { return "return outside a function" }

// Evaluator walks a program against a shared environment, emitting
// effects to a Sink. inProgress is the per-evaluation cycle-detection
// set (spec §9's reentrancy hazard): it is passed down through recursive
// calls rather than stored on a goroutine-local, since a single
// Cadence evaluation never crosses goroutines (see DESIGN.md's Thunk
// model note).
type Evaluator struct {
	Env  *env.SharedEnvironment
	Sink Sink
}

// New builds an Evaluator over env and sink.
func New(e *env.SharedEnvironment, sink Sink) *Evaluator {
	return &Evaluator{Env: e, Sink: sink}
}

// Run executes every top-level statement of prog in order.
func (ev *Evaluator) Run(prog ast.Program) error {
	return ev.execStatements(prog.Statements, ev.Env, map[string]bool{}, false)
}

// --- expression evaluation ---

func (ev *Evaluator) Eval(expr ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	switch expr.Kind {
	case ast.ExprNote:
		return value.NoteValue(expr.NoteLit), nil
	case ast.ExprChord:
		return value.ChordValue(expr.ChordLit), nil
	case ast.ExprPattern:
		return ev.evalPatternLiteral(expr, scope, inProgress)
	case ast.ExprString:
		return value.StringValue(expr.StringLit), nil
	case ast.ExprNumber:
		return value.NumberValue(expr.NumberLit), nil
	case ast.ExprBoolean:
		return value.BooleanValue(expr.BoolLit), nil

	case ast.ExprArray:
		items := make([]value.Value, len(expr.Elements))
		notes := make([]types.Note, len(expr.Elements))
		allNotes := len(items) > 0
		for i, el := range expr.Elements {
			v, err := ev.Eval(el, scope, inProgress)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
			if v.Kind == value.KindNote {
				notes[i] = v.Note
			} else {
				allNotes = false
			}
		}
		// An array literal whose every element is a Note collapses to a
		// Chord (spec worked example: `let Cmaj = [C, E, G]`).
		if allNotes {
			return value.ChordValue(types.FromNotes(notes)), nil
		}
		return value.ArrayValue(items), nil

	case ast.ExprVariable:
		return ev.resolveVariable(expr.Name, scope, inProgress, expr.Span)

	case ast.ExprTranspose:
		base, err := ev.Eval(*expr.Operand, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		amount, err := ev.Eval(*expr.Amount, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		if amount.Kind != value.KindNumber {
			return value.Value{}, fmt.Errorf("transpose amount must be a number at %s", expr.Span)
		}
		// The parser builds a Transpose for any variable on the left of
		// +/-; a variable holding a number makes this plain addition.
		if base.Kind == value.KindNumber {
			return value.NumberValue(base.Number + amount.Number), nil
		}
		return transposeValue(base, int8(amount.Number))

	case ast.ExprBinaryOp:
		return ev.evalBinaryOp(expr, scope, inProgress)

	case ast.ExprIntersection, ast.ExprUnion, ast.ExprDifference:
		return ev.evalSetOp(expr, scope, inProgress)

	case ast.ExprComparison:
		return ev.evalComparison(expr, scope, inProgress)

	case ast.ExprLogicalAnd:
		left, err := ev.Eval(*expr.Left, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		if !truthy(left) {
			return value.BooleanValue(false), nil
		}
		right, err := ev.Eval(*expr.Right, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		return value.BooleanValue(truthy(right)), nil

	case ast.ExprLogicalOr:
		left, err := ev.Eval(*expr.Left, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		if truthy(left) {
			return value.BooleanValue(true), nil
		}
		right, err := ev.Eval(*expr.Right, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		return value.BooleanValue(truthy(right)), nil

	case ast.ExprLogicalNot:
		operand, err := ev.Eval(*expr.Operand, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		return value.BooleanValue(!truthy(operand)), nil

	case ast.ExprIndex:
		target, err := ev.Eval(*expr.Left, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := ev.Eval(*expr.Index, scope, inProgress)
		if err != nil {
			return value.Value{}, err
		}
		return indexValue(target, idx, expr.Span)

	case ast.ExprFunctionCall:
		return ev.EvalFunctionCall(expr, scope, inProgress)

	case ast.ExprBlock:
		local, pop := pushScope(scope)
		defer pop()
		return ev.execBlockExpr(expr.Body, local, inProgress)
	}
	return value.Value{}, fmt.Errorf("unhandled expression kind %d at %s", expr.Kind, expr.Span)
}

// evalPatternLiteral evaluates a pattern literal, resolving any Variable
// steps against scope (spec §4.7: "Pattern expression — if the pattern
// contains Variable steps, resolve each against the environment"). A
// variable-free pattern is returned unchanged without touching scope.
func (ev *Evaluator) evalPatternLiteral(expr ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	pat := expr.PatternLit
	if !pat.HasVariables() {
		return value.PatternValue(pat), nil
	}
	resolved, err := pat.ResolveVariables(func(name string) ([]types.PatternStep, bool) {
		v, verr := ev.resolveVariable(name, scope, inProgress, expr.Span)
		if verr != nil {
			return nil, false
		}
		p, ok := v.AsPattern()
		if !ok {
			return nil, false
		}
		return p.Steps(), true
	})
	if err != nil {
		return value.Value{}, fmt.Errorf("%s at %s", err, expr.Span)
	}
	return value.PatternValue(resolved), nil
}

func truthy(v value.Value) bool {
	switch v.Kind {
	case value.KindBoolean:
		return v.Boolean
	case value.KindNumber:
		return v.Number != 0
	case value.KindUnit:
		return false
	}
	return true
}

// resolveVariable looks up name in scope, forcing a Thunk if found,
// with a per-evaluation inProgress set guarding against a thunk
// referencing itself while being forced (spec §9's reentrancy hazard,
// DESIGN.md Open Question 1 model (b)).
func (ev *Evaluator) resolveVariable(name string, scope value.Scope, inProgress map[string]bool, span ast.Span) (value.Value, error) {
	v, ok := scope.Lookup(name)
	if !ok {
		return value.Value{}, fmt.Errorf("undefined variable '%s' at %s", name, span)
	}
	if v.Kind != value.KindThunk {
		return v, nil
	}
	if inProgress[name] {
		return value.Value{}, fmt.Errorf("circular reference while evaluating '%s' at %s", name, span)
	}
	inProgress[name] = true
	defer delete(inProgress, name)
	return ev.Eval(v.Thunk.Expr, v.Thunk.Captured, inProgress)
}

func (ev *Evaluator) evalBinaryOp(expr ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	left, err := ev.Eval(*expr.Left, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	right, err := ev.Eval(*expr.Right, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	// A pitched left operand the parser could not see statically (a
	// function call or array result) plus/minus a number is a transpose.
	if (expr.Op == "+" || expr.Op == "-") && right.Kind == value.KindNumber && left.Kind != value.KindNumber {
		amount := right.Number
		if expr.Op == "-" {
			amount = -amount
		}
		return transposeValue(left, int8(amount))
	}
	if left.Kind != value.KindNumber || right.Kind != value.KindNumber {
		return value.Value{}, fmt.Errorf("arithmetic operator '%s' needs numbers, got %s and %s at %s", expr.Op, left.TypeName(), right.TypeName(), expr.Span)
	}
	switch expr.Op {
	case "+":
		return value.NumberValue(left.Number + right.Number), nil
	case "-":
		return value.NumberValue(left.Number - right.Number), nil
	case "*":
		return value.NumberValue(left.Number * right.Number), nil
	case "/":
		if right.Number == 0 {
			return value.Value{}, fmt.Errorf("division by zero at %s", expr.Span)
		}
		return value.NumberValue(left.Number / right.Number), nil
	case "%":
		if right.Number == 0 {
			return value.Value{}, fmt.Errorf("modulo by zero at %s", expr.Span)
		}
		return value.NumberValue(float64(int64(left.Number) % int64(right.Number))), nil
	}
	return value.Value{}, fmt.Errorf("unknown operator '%s' at %s", expr.Op, expr.Span)
}

func (ev *Evaluator) evalSetOp(expr ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	left, err := ev.Eval(*expr.Left, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	right, err := ev.Eval(*expr.Right, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	lc, ok := left.AsChord()
	if !ok {
		return value.Value{}, fmt.Errorf("set operator needs a chord on the left at %s", expr.Span)
	}
	rc, ok := right.AsChord()
	if !ok {
		return value.Value{}, fmt.Errorf("set operator needs a chord on the right at %s", expr.Span)
	}
	switch expr.Kind {
	case ast.ExprIntersection:
		return value.ChordValue(lc.Intersection(rc)), nil
	case ast.ExprUnion:
		return value.ChordValue(lc.Union(rc)), nil
	case ast.ExprDifference:
		return value.ChordValue(lc.Difference(rc)), nil
	}
	return value.Value{}, fmt.Errorf("unknown set operator at %s", expr.Span)
}

func (ev *Evaluator) evalComparison(expr ast.Expression, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	left, err := ev.Eval(*expr.Left, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	right, err := ev.Eval(*expr.Right, scope, inProgress)
	if err != nil {
		return value.Value{}, err
	}
	switch expr.Op {
	case "==":
		return value.BooleanValue(left.Equal(right)), nil
	case "!=":
		return value.BooleanValue(!left.Equal(right)), nil
	}
	if left.Kind != value.KindNumber || right.Kind != value.KindNumber {
		return value.Value{}, fmt.Errorf("ordering operator '%s' needs numbers at %s", expr.Op, expr.Span)
	}
	switch expr.Op {
	case "<":
		return value.BooleanValue(left.Number < right.Number), nil
	case "<=":
		return value.BooleanValue(left.Number <= right.Number), nil
	case ">":
		return value.BooleanValue(left.Number > right.Number), nil
	case ">=":
		return value.BooleanValue(left.Number >= right.Number), nil
	}
	return value.Value{}, fmt.Errorf("unknown comparison operator '%s' at %s", expr.Op, expr.Span)
}

// indexValue implements the Index expression over every indexable
// target kind the language has (spec §4.7: Pattern/Chord/Array/String),
// with Python-style negative-from-end indexing on all of them.
func indexValue(target, idx value.Value, span ast.Span) (value.Value, error) {
	if idx.Kind != value.KindNumber {
		return value.Value{}, fmt.Errorf("index must be a number at %s", span)
	}
	i := int(idx.Number)

	switch target.Kind {
	case value.KindArray:
		if i < 0 {
			i += len(target.Array)
		}
		if i < 0 || i >= len(target.Array) {
			return value.Value{}, fmt.Errorf("index %d out of range (len %d) at %s", int(idx.Number), len(target.Array), span)
		}
		return target.Array[i], nil

	case value.KindChord:
		notes := target.Chord.Notes()
		if i < 0 {
			i += len(notes)
		}
		if i < 0 || i >= len(notes) {
			return value.Value{}, fmt.Errorf("index %d out of range (len %d) at %s", int(idx.Number), len(notes), span)
		}
		return value.NoteValue(notes[i]), nil

	case value.KindPattern:
		steps := target.Pattern.Steps()
		if i < 0 {
			i += len(steps)
		}
		if i < 0 || i >= len(steps) {
			return value.Value{}, fmt.Errorf("index %d out of range (len %d) at %s", int(idx.Number), len(steps), span)
		}
		return stepValue(steps[i]), nil

	case value.KindString:
		runes := []rune(target.String)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return value.Value{}, fmt.Errorf("index %d out of range (len %d) at %s", int(idx.Number), len(runes), span)
		}
		return value.StringValue(string(runes[i])), nil
	}

	return value.Value{}, fmt.Errorf("cannot index a %s at %s", target.TypeName(), span)
}

// stepValue converts a single top-level PatternStep to the Value an
// index expression into a Pattern yields.
func stepValue(s types.PatternStep) value.Value {
	switch s.Kind {
	case types.StepNote:
		return value.NoteValue(s.Note)
	case types.StepChord:
		return value.ChordValue(s.Chord)
	case types.StepDrum:
		return value.StringValue(s.Drum.String())
	}
	return value.Unit()
}

// pushScope opens a nested scope directly on the concrete Environment
// or SharedEnvironment backing scope (spec §3: "scopes are pushed at
// block entry and popped on any exit path"), returning the scope to
// execute the nested body against and a pop function the caller must
// invoke on every exit path, including break/continue/return unwinding
// through errors.
func pushScope(scope value.Scope) (value.Scope, func()) {
	switch s := scope.(type) {
	case *env.Environment:
		s.PushScope()
		return s, s.PopScope
	case *env.SharedEnvironment:
		s.PushScope()
		return s, s.PopScope
	default:
		return scope, func() {}
	}
}
