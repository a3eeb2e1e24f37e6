package ast

// StmtKind tags the variant carried by a Statement.
type StmtKind int

const (
	StmtLet StmtKind = iota
	StmtAssign
	StmtExpr
	StmtReturn
	StmtBlock
	StmtIf
	StmtRepeat
	StmtLoop
	StmtFor
	StmtFunctionDef
	StmtPlay
	StmtTempo
	StmtVolume
	StmtWaveform
	StmtStop
	StmtLoad
	StmtTrack
	StmtUse
	StmtBreak
	StmtContinue
	StmtComment
	StmtWait
)

// Statement is Cadence's statement syntax, a tagged union in the same
// style as Expression: only fields relevant to Kind are populated. Doc
// attaches an immediately-preceding `///` doc-comment block (spec
// §4.3), joined with newlines; it is empty for statements with no doc.
type Statement struct {
	Kind StmtKind
	Span Span
	Doc  string

	Name   string // Let/FunctionDef name, Assign target, Use module path, Track name
	Expr   *Expression
	Cond   *Expression
	Count  *Expression
	Target *Expression // For's iterable

	Params []string
	Body   []Statement
	Else   []Statement

	LoopVar string // For-loop binding name

	Alias   string   // Use "as" alias
	Items   []string // Use selective import names (`use "mod" { a, b }`)
	Comment string
}

func LetStmt(name string, value Expression, span Span, doc string) Statement {
	return Statement{Kind: StmtLet, Span: span, Name: name, Expr: &value, Doc: doc}
}

func AssignStmt(name string, value Expression, span Span) Statement {
	return Statement{Kind: StmtAssign, Span: span, Name: name, Expr: &value}
}

func ExprStmt(value Expression, span Span) Statement {
	return Statement{Kind: StmtExpr, Span: span, Expr: &value}
}

func ReturnStmt(value *Expression, span Span) Statement {
	return Statement{Kind: StmtReturn, Span: span, Expr: value}
}

func BlockStmt(body []Statement, span Span) Statement {
	return Statement{Kind: StmtBlock, Span: span, Body: body}
}

func IfStmt(cond Expression, then, els []Statement, span Span) Statement {
	return Statement{Kind: StmtIf, Span: span, Cond: &cond, Body: then, Else: els}
}

func RepeatStmt(count Expression, body []Statement, span Span) Statement {
	return Statement{Kind: StmtRepeat, Span: span, Count: &count, Body: body}
}

func LoopStmt(body []Statement, span Span) Statement {
	return Statement{Kind: StmtLoop, Span: span, Body: body}
}

func ForStmt(loopVar string, iterable Expression, body []Statement, span Span) Statement {
	return Statement{Kind: StmtFor, Span: span, LoopVar: loopVar, Target: &iterable, Body: body}
}

func FunctionDefStmt(name string, params []string, body []Statement, span Span, doc string) Statement {
	return Statement{Kind: StmtFunctionDef, Span: span, Name: name, Params: params, Body: body, Doc: doc}
}

func PlayStmt(value Expression, span Span) Statement {
	return Statement{Kind: StmtPlay, Span: span, Expr: &value}
}

func TempoStmt(value Expression, span Span) Statement {
	return Statement{Kind: StmtTempo, Span: span, Expr: &value}
}

func VolumeStmt(value Expression, span Span) Statement {
	return Statement{Kind: StmtVolume, Span: span, Expr: &value}
}

func WaveformStmt(name string, span Span) Statement {
	return Statement{Kind: StmtWaveform, Span: span, Name: name}
}

func StopStmt(span Span) Statement {
	return Statement{Kind: StmtStop, Span: span}
}

func LoadStmt(path string, span Span) Statement {
	return Statement{Kind: StmtLoad, Span: span, Name: path}
}

func TrackStmt(name string, body []Statement, span Span) Statement {
	return Statement{Kind: StmtTrack, Span: span, Name: name, Body: body}
}

func UseStmt(modulePath string, items []string, alias string, span Span) Statement {
	return Statement{Kind: StmtUse, Span: span, Name: modulePath, Items: items, Alias: alias}
}

func BreakStmt(span Span) Statement    { return Statement{Kind: StmtBreak, Span: span} }
func ContinueStmt(span Span) Statement { return Statement{Kind: StmtContinue, Span: span} }

func CommentStmt(text string, span Span) Statement {
	return Statement{Kind: StmtComment, Span: span, Comment: text}
}

func WaitStmt(value Expression, span Span) Statement {
	return Statement{Kind: StmtWait, Span: span, Expr: &value}
}

// Program is a parsed, top-level unit: a sequence of statements, each
// carrying the span and doc comment the parser attached to it.
type Program struct {
	Statements []Statement
}
