package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/cadence/ast"
)

func TestParseLetAndFunctionDef(t *testing.T) {
	prog, err := Parse(`
let x = 5
fn double(n) {
	return n * 2
}
`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	assert.Equal(t, ast.StmtLet, prog.Statements[0].Kind)
	assert.Equal(t, "x", prog.Statements[0].Name)
	assert.Equal(t, ast.StmtFunctionDef, prog.Statements[1].Kind)
	assert.Equal(t, "double", prog.Statements[1].Name)
}

func TestParseTransposeVsArithmetic(t *testing.T) {
	prog, err := Parse(`let a = C4 + 3`)
	require.NoError(t, err)
	assert.Equal(t, ast.ExprTranspose, prog.Statements[0].Expr.Kind, "note + number should parse as transpose")

	prog2, err := Parse(`let b = 1 + 3`)
	require.NoError(t, err)
	assert.Equal(t, ast.ExprBinaryOp, prog2.Statements[0].Expr.Kind, "number + number should parse as arithmetic")
}

func TestParsePatternStringLiteral(t *testing.T) {
	prog, err := Parse(`let p = "C4 E4 G4"`)
	require.NoError(t, err)
	expr := prog.Statements[0].Expr
	require.Equal(t, ast.ExprPattern, expr.Kind)
	assert.Equal(t, 3, expr.PatternLit.Len())
}

func TestParsePlainStringLiteralStaysString(t *testing.T) {
	prog, err := Parse(`let s = "hello world"`)
	require.NoError(t, err)
	expr := prog.Statements[0].Expr
	require.Equal(t, ast.ExprString, expr.Kind)
	assert.Equal(t, "hello world", expr.StringLit)
}

func TestParseFunctionCall(t *testing.T) {
	prog, err := Parse(`play reverse("C4 D4")`)
	require.NoError(t, err)
	require.Equal(t, ast.StmtPlay, prog.Statements[0].Kind)
	call := prog.Statements[0].Expr
	require.Equal(t, ast.ExprFunctionCall, call.Kind)
	assert.Equal(t, "reverse", call.Name)
	assert.Len(t, call.Elements, 1)
}

func TestParseDocCommentAttachesToLet(t *testing.T) {
	prog, err := Parse("/// the main bassline\nlet bass = C2")
	require.NoError(t, err)
	assert.Equal(t, " the main bassline", prog.Statements[0].Doc)
}

func TestParseIfElse(t *testing.T) {
	prog, err := Parse(`
if true {
	play C4
} else {
	play D4
}
`)
	require.NoError(t, err)
	stmt := prog.Statements[0]
	require.Equal(t, ast.StmtIf, stmt.Kind)
	assert.Len(t, stmt.Body, 1)
	assert.Len(t, stmt.Else, 1)
}

func TestParseUseWithSelectiveImport(t *testing.T) {
	prog, err := Parse(`use "bass.cad" { groove, fill }`)
	require.NoError(t, err)
	stmt := prog.Statements[0]
	require.Equal(t, ast.StmtUse, stmt.Kind)
	assert.Equal(t, []string{"groove", "fill"}, stmt.Items)
}
