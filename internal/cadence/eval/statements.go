package eval

import (
	"fmt"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/env"
	"cadence/internal/cadence/value"
)

// execStatements runs stmts in order against scope. pureOnly forbids the
// effect statements (Play/Tempo/Volume/Waveform/Stop/Load/Track/Use),
// matching run_statements_in_local_env's rule that a user function body
// cannot reach outside its own computation (spec §4.7). Control flow
// (break/continue/return) unwinds via the sentinel errors in
// evaluator.go; callers that open a loop or function call catch them.
func (ev *Evaluator) execStatements(stmts []ast.Statement, scope value.Scope, inProgress map[string]bool, pureOnly bool) error {
	for _, stmt := range stmts {
		if err := ev.execStatement(stmt, scope, inProgress, pureOnly); err != nil {
			return err
		}
	}
	return nil
}

// execBlockExpr runs stmts as a block *expression*: the value of the
// last ExprStmt (if any) becomes the block's value, matching `{ ... }`
// used where an expression is expected.
func (ev *Evaluator) execBlockExpr(stmts []ast.Statement, scope value.Scope, inProgress map[string]bool) (value.Value, error) {
	var last value.Value
	for i, stmt := range stmts {
		if i == len(stmts)-1 && stmt.Kind == ast.StmtExpr {
			v, err := ev.Eval(*stmt.Expr, scope, inProgress)
			if err != nil {
				return value.Value{}, err
			}
			return v, nil
		}
		if err := ev.execStatement(stmt, scope, inProgress, false); err != nil {
			return value.Value{}, err
		}
	}
	return last, nil
}

func requireNotPure(pureOnly bool, what string) error {
	if pureOnly {
		return fmt.Errorf("'%s' is not supported inside pure functions", what)
	}
	return nil
}

func (ev *Evaluator) execStatement(stmt ast.Statement, scope value.Scope, inProgress map[string]bool, pureOnly bool) error {
	switch stmt.Kind {
	case ast.StmtLet:
		t := &value.Thunk{Expr: *stmt.Expr, Captured: scope}
		defineIn(scope, stmt.Name, value.ThunkValue(t))
		return nil

	case ast.StmtAssign:
		v, err := ev.Eval(*stmt.Expr, scope, inProgress)
		if err != nil {
			return err
		}
		if !setIn(scope, stmt.Name, v) {
			return fmt.Errorf("assignment to undefined variable '%s' at %s", stmt.Name, stmt.Span)
		}
		return nil

	case ast.StmtExpr:
		_, err := ev.Eval(*stmt.Expr, scope, inProgress)
		return err

	case ast.StmtReturn:
		var v value.Value
		if stmt.Expr != nil {
			var err error
			v, err = ev.Eval(*stmt.Expr, scope, inProgress)
			if err != nil {
				return err
			}
		} else {
			v = value.Unit()
		}
		return returnSignal{value: v}

	case ast.StmtBlock:
		local, pop := pushScope(scope)
		defer pop()
		return ev.execStatements(stmt.Body, local, inProgress, pureOnly)

	case ast.StmtIf:
		cond, err := ev.Eval(*stmt.Cond, scope, inProgress)
		if err != nil {
			return err
		}
		branch := stmt.Else
		if truthy(cond) {
			branch = stmt.Body
		}
		local, pop := pushScope(scope)
		defer pop()
		return ev.execStatements(branch, local, inProgress, pureOnly)

	case ast.StmtRepeat:
		countVal, err := ev.Eval(*stmt.Count, scope, inProgress)
		if err != nil {
			return err
		}
		if countVal.Kind != value.KindNumber {
			return fmt.Errorf("repeat count must be a number at %s", stmt.Span)
		}
		for i := 0; i < int(countVal.Number); i++ {
			local, pop := pushScope(scope)
			err := ev.execStatements(stmt.Body, local, inProgress, pureOnly)
			pop()
			if err != nil {
				if _, ok := err.(breakSignal); ok {
					break
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}
		return nil

	case ast.StmtLoop:
		for {
			local, pop := pushScope(scope)
			err := ev.execStatements(stmt.Body, local, inProgress, pureOnly)
			pop()
			if err != nil {
				if _, ok := err.(breakSignal); ok {
					break
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}
		return nil

	case ast.StmtFor:
		iterable, err := ev.Eval(*stmt.Target, scope, inProgress)
		if err != nil {
			return err
		}
		var items []value.Value
		switch iterable.Kind {
		case value.KindArray:
			items = iterable.Array
		case value.KindChord:
			for _, n := range iterable.Chord.Notes() {
				items = append(items, value.NoteValue(n))
			}
		default:
			return fmt.Errorf("for loop needs an array or chord at %s", stmt.Span)
		}
		for _, item := range items {
			local, pop := pushScope(scope)
			defineIn(local, stmt.LoopVar, item)
			err := ev.execStatements(stmt.Body, local, inProgress, pureOnly)
			pop()
			if err != nil {
				if _, ok := err.(breakSignal); ok {
					break
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}
		return nil

	case ast.StmtFunctionDef:
		fn := &value.Function{Name: stmt.Name, Params: stmt.Params, Body: stmt.Body, Closure: scope}
		defineIn(scope, stmt.Name, value.FunctionValue(fn))
		return nil

	case ast.StmtBreak:
		return breakSignal{}
	case ast.StmtContinue:
		return continueSignal{}
	case ast.StmtComment:
		return nil

	case ast.StmtWait:
		if pureOnly {
			return nil // Wait is a no-op inside pure function bodies (DESIGN.md Open Question 4)
		}
		_, err := ev.Eval(*stmt.Expr, scope, inProgress)
		return err

	case ast.StmtPlay:
		if err := requireNotPure(pureOnly, "play"); err != nil {
			return err
		}
		v, err := ev.Eval(*stmt.Expr, scope, inProgress)
		if err != nil {
			return err
		}
		return ev.Sink.Play(v)

	case ast.StmtTempo:
		if err := requireNotPure(pureOnly, "tempo"); err != nil {
			return err
		}
		v, err := ev.Eval(*stmt.Expr, scope, inProgress)
		if err != nil {
			return err
		}
		if v.Kind != value.KindNumber {
			return fmt.Errorf("tempo must be a number at %s", stmt.Span)
		}
		return ev.Sink.Tempo(v.Number)

	case ast.StmtVolume:
		if err := requireNotPure(pureOnly, "volume"); err != nil {
			return err
		}
		v, err := ev.Eval(*stmt.Expr, scope, inProgress)
		if err != nil {
			return err
		}
		if v.Kind != value.KindNumber {
			return fmt.Errorf("volume must be a number at %s", stmt.Span)
		}
		return ev.Sink.Volume(v.Number)

	case ast.StmtWaveform:
		if err := requireNotPure(pureOnly, "waveform"); err != nil {
			return err
		}
		return ev.Sink.Waveform(stmt.Name)

	case ast.StmtStop:
		if err := requireNotPure(pureOnly, "stop"); err != nil {
			return err
		}
		return ev.Sink.Stop()

	case ast.StmtLoad:
		if err := requireNotPure(pureOnly, "load"); err != nil {
			return err
		}
		return ev.Sink.Load(stmt.Name)

	case ast.StmtTrack:
		if err := requireNotPure(pureOnly, "track"); err != nil {
			return err
		}
		return ev.Sink.Track(stmt.Name, func() error {
			local, pop := pushScope(scope)
			defer pop()
			return ev.execStatements(stmt.Body, local, inProgress, pureOnly)
		})

	case ast.StmtUse:
		if err := requireNotPure(pureOnly, "use"); err != nil {
			return err
		}
		return ev.Sink.Use(stmt.Name, stmt.Items, stmt.Alias)
	}
	return fmt.Errorf("unhandled statement kind %d at %s", stmt.Kind, stmt.Span)
}

func defineIn(scope value.Scope, name string, v value.Value) {
	switch s := scope.(type) {
	case *env.Environment:
		s.Define(name, v)
	case *env.SharedEnvironment:
		s.Define(name, v)
	}
}

func setIn(scope value.Scope, name string, v value.Value) bool {
	switch s := scope.(type) {
	case *env.Environment:
		return s.Set(name, v)
	case *env.SharedEnvironment:
		return s.Set(name, v)
	}
	return false
}
