// Package validator performs non-short-circuiting static checks over a
// parsed program: unknown-function arity, unresolved progression names,
// and pattern-string pre-validation. Every error is collected rather
// than stopping at the first (spec §4.4), matching
// cadence-core/src/parser/validator.rs.
package validator

import (
	"fmt"
	"strings"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/binder"
	"cadence/internal/cadence/types"
)

// CadenceError is one validation or runtime diagnostic, carrying the
// span it applies to. Grounded on cadence-core/src/parser/error.rs's
// CadenceError{message, span} shape.
type CadenceError struct {
	Message string
	Span    ast.Span
}

func (e CadenceError) Error() string {
	return fmt.Sprintf("Error at %s: %s", e.Span, e.Message)
}

// builtinArities gives the expected argument count for built-ins with a
// fixed arity (spec §4.7's built-ins table); built-ins absent from this
// map are treated as variadic/unchecked (e.g. higher-order functions
// like `map` whose arity depends on usage).
var builtinArities = map[string]int{
	"transpose": 2, "reverse": 1, "fast": 2, "slow": 2, "every": 3,
	"euclidean": 2, "invert": 2, "voice_leading": 2, "smooth_voice_leading": 2,
	"analyze_voice_leading": 2, "common_tones": 2, "major": 1, "minor": 1,
	"dim": 1, "aug": 1, "sus2": 1, "sus4": 1, "clear": 0,
}

// Validate walks prog and the bound SymbolTable, returning every
// CadenceError found (possibly empty).
func Validate(prog ast.Program, table binder.SymbolTable) []CadenceError {
	v := &validatorState{table: table, progressions: types.CommonProgressions{}}
	v.validateStatements(prog.Statements, true)
	return v.errors
}

type validatorState struct {
	errors       []CadenceError
	table        binder.SymbolTable
	progressions types.CommonProgressions
}

func (v *validatorState) validateStatements(stmts []ast.Statement, topLevel bool) {
	for _, stmt := range stmts {
		v.validateStatement(stmt, topLevel)
	}
}

func (v *validatorState) validateStatement(stmt ast.Statement, topLevel bool) {
	span := stmt.Span
	switch stmt.Kind {
	case ast.StmtLet:
		v.validateExpr(*stmt.Expr, span)
	case ast.StmtAssign:
		if _, ok := v.table.Symbols[stmt.Name]; !ok {
			v.errors = append(v.errors, CadenceError{Message: fmt.Sprintf("assignment to undeclared variable '%s'", stmt.Name), Span: span})
		}
		v.validateExpr(*stmt.Expr, span)
	case ast.StmtExpr:
		v.validateExpr(*stmt.Expr, span)
	case ast.StmtReturn:
		if stmt.Expr != nil {
			v.validateExpr(*stmt.Expr, span)
		}
	case ast.StmtIf:
		v.validateExpr(*stmt.Cond, span)
		v.validateStatements(stmt.Body, false)
		v.validateStatements(stmt.Else, false)
	case ast.StmtRepeat:
		v.validateExpr(*stmt.Count, span)
		v.validateStatements(stmt.Body, false)
	case ast.StmtLoop, ast.StmtBlock, ast.StmtTrack:
		v.validateStatements(stmt.Body, false)
	case ast.StmtFor:
		v.validateExpr(*stmt.Target, span)
		v.validateStatements(stmt.Body, false)
	case ast.StmtFunctionDef:
		v.validateStatements(stmt.Body, false)
	case ast.StmtPlay, ast.StmtTempo, ast.StmtVolume, ast.StmtWait:
		v.validateExpr(*stmt.Expr, span)
	}
}

func (v *validatorState) validateExpr(expr ast.Expression, parentSpan ast.Span) {
	switch expr.Kind {
	case ast.ExprString:
		v.checkPatternString(expr)
	case ast.ExprArray:
		for _, el := range expr.Elements {
			v.validateExpr(el, parentSpan)
		}
	case ast.ExprTranspose:
		v.validateExpr(*expr.Operand, parentSpan)
		v.validateExpr(*expr.Amount, parentSpan)
	case ast.ExprBinaryOp, ast.ExprComparison, ast.ExprIntersection, ast.ExprUnion, ast.ExprDifference, ast.ExprLogicalAnd, ast.ExprLogicalOr:
		v.validateExpr(*expr.Left, parentSpan)
		v.validateExpr(*expr.Right, parentSpan)
	case ast.ExprLogicalNot:
		v.validateExpr(*expr.Operand, parentSpan)
	case ast.ExprIndex:
		v.validateExpr(*expr.Left, parentSpan)
		v.validateExpr(*expr.Index, parentSpan)
	case ast.ExprBlock:
		v.validateStatements(expr.Body, false)
	case ast.ExprFunctionCall:
		for _, arg := range expr.Elements {
			v.validateExpr(arg, parentSpan)
		}
		v.checkCallArity(expr, parentSpan)
	}
}

// checkCallArity flags a call to a fixed-arity built-in with the wrong
// number of arguments. User-defined functions are checked against the
// binder's recorded parameter count; unknown names are left to the
// evaluator's "Unknown function" error, since a name might resolve to a
// progression at call time.
func (v *validatorState) checkCallArity(call ast.Expression, span ast.Span) {
	if sym, ok := v.table.Symbols[call.Name]; ok && sym.Kind == binder.SymbolFunction {
		if len(call.Elements) != len(sym.Params) {
			v.errors = append(v.errors, CadenceError{
				Message: fmt.Sprintf("function '%s' expects %d argument(s), got %d", call.Name, len(sym.Params), len(call.Elements)),
				Span:    span,
			})
		}
		return
	}
	if expected, ok := builtinArities[call.Name]; ok {
		if len(call.Elements) != expected {
			v.errors = append(v.errors, CadenceError{
				Message: fmt.Sprintf("'%s' expects %d argument(s), got %d", call.Name, expected, len(call.Elements)),
				Span:    span,
			})
		}
	}
}

// checkPatternString re-parses a string literal that the parser already
// failed to read as mini-notation (if it had succeeded, the parser
// would have produced an ExprPattern node instead). It suppresses any
// message containing "Single word" since a bare single word is
// frequently a legitimate non-pattern argument — a waveform name, a
// progression name, a module path — not a pattern typo. See DESIGN.md's
// Open Question 5 for the full reasoning.
func (v *validatorState) checkPatternString(expr ast.Expression) {
	if v.progressions.IsValidProgression(expr.StringLit) {
		return
	}
	_, err := types.ParsePatternString(expr.StringLit)
	if err == nil {
		return
	}
	if strings.Contains(err.Error(), "Single word") {
		return
	}
	v.errors = append(v.errors, CadenceError{Message: err.Error(), Span: expr.Span})
}
