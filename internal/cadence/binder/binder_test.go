package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/parser"
)

func bindSource(t *testing.T, src string) SymbolTable {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return Bind(prog)
}

func TestBindTopLevelLetHasRealSpan(t *testing.T) {
	table := bindSource(t, `let bass = C2`)
	sym, ok := table.Symbols["bass"]
	require.True(t, ok, "expected 'bass' to be bound")
	assert.Equal(t, SymbolLet, sym.Kind)
	assert.NotEqual(t, ast.Zero, sym.Span, "top-level let should carry a real span")
}

func TestBindFunctionDefRecordsParams(t *testing.T) {
	table := bindSource(t, `
fn chord_up(root, steps) {
	return root + steps
}
`)
	sym, ok := table.Symbols["chord_up"]
	require.True(t, ok, "expected 'chord_up' to be bound")
	assert.Equal(t, SymbolFunction, sym.Kind)
	assert.Equal(t, []string{"root", "steps"}, sym.Params)
	assert.NotEqual(t, ast.Zero, sym.Span, "top-level fn should carry a real span")
}

func TestBindParamsHaveZeroSpan(t *testing.T) {
	table := bindSource(t, `
fn double(n) {
	return n * 2
}
`)
	sym, ok := table.Symbols["n"]
	require.True(t, ok, "expected param 'n' to be bound")
	assert.Equal(t, SymbolParam, sym.Kind)
	assert.Equal(t, ast.Zero, sym.Span)
}

func TestBindForLoopVarIsForKindWithZeroSpan(t *testing.T) {
	table := bindSource(t, `
for note in [C4, D4, E4] {
	play note
}
`)
	sym, ok := table.Symbols["note"]
	require.True(t, ok, "expected loop var 'note' to be bound")
	assert.Equal(t, SymbolForVar, sym.Kind)
	assert.Equal(t, ast.Zero, sym.Span)
}

func TestBindNestedLetInsideIfHasZeroSpanAndShadows(t *testing.T) {
	table := bindSource(t, `
let x = 1
if true {
	let x = 2
}
`)
	sym, ok := table.Symbols["x"]
	require.True(t, ok, "expected 'x' to be bound")
	// Last write wins: the nested let inside the if-body overwrites the
	// top-level entry, so the final span is ast.Zero even though 'x' was
	// first declared at top level.
	assert.Equal(t, ast.Zero, sym.Span, "shadowed binding should end up with ast.Zero span (last write wins)")
}

func TestBindDocCommentAttachedToLet(t *testing.T) {
	table := bindSource(t, "/// root note of the piece\nlet root = C3")
	sym, ok := table.Symbols["root"]
	require.True(t, ok, "expected 'root' to be bound")
	assert.Equal(t, " root note of the piece", sym.Doc)
}

func TestBindFunctionBodyLetIsBoundButNested(t *testing.T) {
	table := bindSource(t, `
fn build() {
	let inner = D4
	return inner
}
`)
	sym, ok := table.Symbols["inner"]
	require.True(t, ok, "expected 'inner' (bound while walking the function body) to be present")
	assert.Equal(t, ast.Zero, sym.Span)
}
