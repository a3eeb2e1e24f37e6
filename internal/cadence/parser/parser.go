// Package parser implements Cadence's recursive-descent statement and
// expression parser, built over internal/cadence/lexer's token stream
// and producing internal/cadence/ast nodes. Grounded on spec §4.2's
// EBNF grammar and cadence-core/src/parser/statement_parser.rs's
// overall statement/expression split.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/lexer"
	"cadence/internal/cadence/types"
)

// Parser consumes a token slice and produces an ast.Program.
type Parser struct {
	tokens     []lexer.Token
	pos        int
	pendingDoc []string
}

// Parse tokenizes and parses src in one call.
func Parse(src string) (ast.Program, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return ast.Program{}, err
	}
	return New(toks).ParseProgram()
}

// New builds a Parser over an already-lexed token stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() lexer.Token { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool       { return p.peek().Kind == lexer.TokenEOF }

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind, text string) bool {
	t := p.peek()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *Parser) match(kind lexer.TokenKind, text string) bool {
	if p.check(kind, text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.TokenKind, text string) (lexer.Token, error) {
	if p.check(kind, text) {
		return p.advance(), nil
	}
	return lexer.Token{}, fmt.Errorf("expected %q, found %q at %s", text, p.peek().Text, p.peek().Span)
}

// collectDocAndComments skips TokenComment tokens and accumulates
// consecutive leading TokenDocComment tokens into pendingDoc, so the
// next real statement picks them up (spec §4.3's doc-attachment rule:
// an immediately-preceding `///` block, joined with newlines).
func (p *Parser) collectDocAndComments() {
	for {
		switch p.peek().Kind {
		case lexer.TokenDocComment:
			p.pendingDoc = append(p.pendingDoc, p.peek().Value)
			p.advance()
		case lexer.TokenComment:
			p.advance()
			p.pendingDoc = nil // a plain comment breaks doc-block adjacency
		default:
			return
		}
	}
}

func (p *Parser) takeDoc() string {
	doc := strings.Join(p.pendingDoc, "\n")
	p.pendingDoc = nil
	return doc
}

// ParseProgram parses a full token stream into top-level statements,
// each carrying a real span. Statements nested in blocks get real spans
// from the parser as well; it is the binder that records ast.Zero for
// nested bindings.
func (p *Parser) ParseProgram() (ast.Program, error) {
	var stmts []ast.Statement
	for {
		p.collectDocAndComments()
		if p.atEOF() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.Program{}, err
		}
		stmts = append(stmts, stmt)
	}
	return ast.Program{Statements: stmts}, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.TokenPunctuation, "{"); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for {
		p.collectDocAndComments()
		if p.check(lexer.TokenPunctuation, "}") {
			p.advance()
			return stmts, nil
		}
		if p.atEOF() {
			return nil, fmt.Errorf("unterminated block at %s", p.peek().Span)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	doc := p.takeDoc()
	start := p.peek().Span

	if p.check(lexer.TokenKeyword, "") {
		switch p.peek().Text {
		case "let":
			return p.parseLet(start, doc)
		case "fn":
			return p.parseFunctionDef(start, doc)
		case "if":
			return p.parseIf(start)
		case "repeat":
			return p.parseRepeat(start)
		case "loop":
			return p.parseLoop(start)
		case "for":
			return p.parseFor(start)
		case "return":
			return p.parseReturn(start)
		case "break":
			p.advance()
			return ast.BreakStmt(start), nil
		case "continue":
			p.advance()
			return ast.ContinueStmt(start), nil
		case "play":
			return p.parseSingleArgStmt(start, ast.PlayStmt)
		case "tempo":
			return p.parseSingleArgStmt(start, ast.TempoStmt)
		case "volume":
			return p.parseSingleArgStmt(start, ast.VolumeStmt)
		case "wait":
			return p.parseSingleArgStmt(start, ast.WaitStmt)
		case "waveform":
			return p.parseWaveform(start)
		case "stop":
			p.advance()
			return ast.StopStmt(start), nil
		case "load":
			return p.parseLoad(start)
		case "track":
			return p.parseTrack(start)
		case "use":
			return p.parseUse(start)
		}
	}

	expr, err := p.parseAssignOrExpr()
	if err != nil {
		return ast.Statement{}, err
	}
	return expr, nil
}

func (p *Parser) parseSingleArgStmt(start ast.Span, build func(ast.Expression, ast.Span) ast.Statement) (ast.Statement, error) {
	p.advance()
	expr, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	return build(expr, start.Union(expr.Span)), nil
}

func (p *Parser) parseLet(start ast.Span, doc string) (ast.Statement, error) {
	p.advance() // "let"
	name, err := p.expect(lexer.TokenIdentifier, "")
	if err != nil {
		return ast.Statement{}, err
	}
	if _, err := p.expect(lexer.TokenOperator, "="); err != nil {
		return ast.Statement{}, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.LetStmt(name.Text, value, start.Union(value.Span), doc), nil
}

func (p *Parser) parseFunctionDef(start ast.Span, doc string) (ast.Statement, error) {
	p.advance() // "fn"
	name, err := p.expect(lexer.TokenIdentifier, "")
	if err != nil {
		return ast.Statement{}, err
	}
	if _, err := p.expect(lexer.TokenPunctuation, "("); err != nil {
		return ast.Statement{}, err
	}
	var params []string
	for !p.check(lexer.TokenPunctuation, ")") {
		param, err := p.expect(lexer.TokenIdentifier, "")
		if err != nil {
			return ast.Statement{}, err
		}
		params = append(params, param.Text)
		if !p.match(lexer.TokenPunctuation, ",") {
			break
		}
	}
	if _, err := p.expect(lexer.TokenPunctuation, ")"); err != nil {
		return ast.Statement{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.FunctionDefStmt(name.Text, params, body, start, doc), nil
}

func (p *Parser) parseIf(start ast.Span) (ast.Statement, error) {
	p.advance() // "if"
	cond, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	var els []ast.Statement
	if p.match(lexer.TokenKeyword, "else") {
		if p.check(lexer.TokenKeyword, "if") {
			nested, err := p.parseIf(p.peek().Span)
			if err != nil {
				return ast.Statement{}, err
			}
			els = []ast.Statement{nested}
		} else {
			els, err = p.parseBlock()
			if err != nil {
				return ast.Statement{}, err
			}
		}
	}
	return ast.IfStmt(cond, then, els, start), nil
}

func (p *Parser) parseRepeat(start ast.Span) (ast.Statement, error) {
	p.advance() // "repeat"
	count, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.RepeatStmt(count, body, start), nil
}

func (p *Parser) parseLoop(start ast.Span) (ast.Statement, error) {
	p.advance() // "loop"
	body, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.LoopStmt(body, start), nil
}

func (p *Parser) parseFor(start ast.Span) (ast.Statement, error) {
	p.advance() // "for"
	loopVar, err := p.expect(lexer.TokenIdentifier, "")
	if err != nil {
		return ast.Statement{}, err
	}
	if _, err := p.expect(lexer.TokenKeyword, "in"); err != nil {
		return ast.Statement{}, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.ForStmt(loopVar.Text, iterable, body, start), nil
}

func (p *Parser) parseReturn(start ast.Span) (ast.Statement, error) {
	p.advance() // "return"
	if p.check(lexer.TokenPunctuation, "}") || p.atEOF() {
		return ast.ReturnStmt(nil, start), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.ReturnStmt(&value, start.Union(value.Span)), nil
}

func (p *Parser) parseWaveform(start ast.Span) (ast.Statement, error) {
	p.advance() // "waveform"
	name, err := p.expect(lexer.TokenIdentifier, "")
	if err != nil {
		// allow a quoted waveform name too
		if p.check(lexer.TokenString, "") {
			tok := p.advance()
			return ast.WaveformStmt(tok.Text, start), nil
		}
		return ast.Statement{}, err
	}
	return ast.WaveformStmt(name.Text, start), nil
}

func (p *Parser) parseLoad(start ast.Span) (ast.Statement, error) {
	p.advance() // "load"
	path, err := p.expect(lexer.TokenString, "")
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.LoadStmt(path.Text, start), nil
}

func (p *Parser) parseTrack(start ast.Span) (ast.Statement, error) {
	p.advance() // "track"
	name, err := p.expect(lexer.TokenIdentifier, "")
	if err != nil {
		return ast.Statement{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.TrackStmt(name.Text, body, start), nil
}

func (p *Parser) parseUse(start ast.Span) (ast.Statement, error) {
	p.advance() // "use"
	pathTok, err := p.expect(lexer.TokenString, "")
	if err != nil {
		return ast.Statement{}, err
	}
	var items []string
	if p.match(lexer.TokenPunctuation, "{") {
		for !p.check(lexer.TokenPunctuation, "}") {
			item, err := p.expect(lexer.TokenIdentifier, "")
			if err != nil {
				return ast.Statement{}, err
			}
			items = append(items, item.Text)
			if !p.match(lexer.TokenPunctuation, ",") {
				break
			}
		}
		if _, err := p.expect(lexer.TokenPunctuation, "}"); err != nil {
			return ast.Statement{}, err
		}
	}
	alias := ""
	if p.match(lexer.TokenKeyword, "as") {
		aliasTok, err := p.expect(lexer.TokenIdentifier, "")
		if err != nil {
			return ast.Statement{}, err
		}
		alias = aliasTok.Text
	}
	return ast.UseStmt(pathTok.Text, items, alias, start), nil
}

// parseAssignOrExpr parses either `name = expr` (Assign) or a bare
// expression statement, disambiguated by one token of lookahead.
func (p *Parser) parseAssignOrExpr() (ast.Statement, error) {
	start := p.peek().Span
	if p.check(lexer.TokenIdentifier, "") {
		save := p.pos
		name := p.advance()
		if p.check(lexer.TokenOperator, "=") {
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return ast.Statement{}, err
			}
			return ast.AssignStmt(name.Text, value, start.Union(value.Span)), nil
		}
		p.pos = save
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.ExprStmt(expr, expr.Span), nil
}

// --- expression parsing, precedence-climbing ---

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.match(lexer.TokenKeyword, "or") {
		right, err := p.parseAnd()
		if err != nil {
			return ast.Expression{}, err
		}
		left = ast.LogicalOrExpr(left, right, left.Span.Union(right.Span))
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.match(lexer.TokenKeyword, "and") {
		right, err := p.parseNot()
		if err != nil {
			return ast.Expression{}, err
		}
		left = ast.LogicalAndExpr(left, right, left.Span.Union(right.Span))
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expression, error) {
	if p.check(lexer.TokenKeyword, "not") {
		start := p.advance().Span
		operand, err := p.parseNot()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.LogicalNotExpr(operand, start.Union(operand.Span)), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseSetOps()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.peek().Kind == lexer.TokenOperator && comparisonOps[p.peek().Text] {
		op := p.advance().Text
		right, err := p.parseSetOps()
		if err != nil {
			return ast.Expression{}, err
		}
		left = ast.ComparisonExpr(op, left, right, left.Span.Union(right.Span))
	}
	return left, nil
}

// parseSetOps handles &, |, ^ (chord intersection/union/difference) one
// precedence tier below additive arithmetic (its operands are additive
// expressions), left-associative.
func (p *Parser) parseSetOps() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.peek().Kind == lexer.TokenOperator && (p.peek().Text == "&" || p.peek().Text == "|" || p.peek().Text == "^") {
		op := p.advance().Text
		right, err := p.parseAdditive()
		if err != nil {
			return ast.Expression{}, err
		}
		var kind ast.ExprKind
		switch op {
		case "&":
			kind = ast.ExprIntersection
		case "|":
			kind = ast.ExprUnion
		case "^":
			kind = ast.ExprDifference
		}
		left = ast.SetOpExpr(kind, left, right, left.Span.Union(right.Span))
	}
	return left, nil
}

// parseAdditive handles +/- with the transpose-vs-arithmetic overload
// (spec §4.2/§9): `+`/`-` between a pitched value (note/chord/pattern)
// and a number is a Transpose; between two numbers it's arithmetic. The
// parser can't always know operand types statically (a variable's type
// isn't known until evaluation), so it builds an ExprTranspose whenever
// the left side is pitched-looking (a note, chord, pattern, transpose or
// variable), whatever the right side is, and otherwise builds
// ExprBinaryOp; the evaluator makes the final type-driven decision
// whichever node shape the parser chose: a Transpose of a number adds,
// and a BinaryOp `+`/`-` with a non-number left operand transposes.
func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.peek().Kind == lexer.TokenOperator && (p.peek().Text == "+" || p.peek().Text == "-") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return ast.Expression{}, err
		}
		span := left.Span.Union(right.Span)
		if isPitchedKind(left.Kind) {
			amount := right
			if op == "-" {
				amount = ast.BinaryOpExpr("*", ast.NumberExpr(-1, right.Span), right, right.Span)
			}
			left = ast.TransposeExpr(left, amount, span)
		} else {
			left = ast.BinaryOpExpr(op, left, right, span)
		}
	}
	return left, nil
}

func isPitchedKind(k ast.ExprKind) bool {
	return k == ast.ExprNote || k == ast.ExprChord || k == ast.ExprPattern || k == ast.ExprTranspose || k == ast.ExprVariable
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return ast.Expression{}, err
	}
	for p.peek().Kind == lexer.TokenOperator && (p.peek().Text == "*" || p.peek().Text == "/" || p.peek().Text == "%") {
		op := p.advance().Text
		right, err := p.parseUnary()
		if err != nil {
			return ast.Expression{}, err
		}
		left = ast.BinaryOpExpr(op, left, right, left.Span.Union(right.Span))
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.peek().Kind == lexer.TokenOperator && p.peek().Text == "-" {
		start := p.advance().Span
		operand, err := p.parseUnary()
		if err != nil {
			return ast.Expression{}, err
		}
		if operand.Kind == ast.ExprNumber {
			return ast.NumberExpr(-operand.NumberLit, start.Union(operand.Span)), nil
		}
		return ast.BinaryOpExpr("*", ast.NumberExpr(-1, start), operand, start.Union(operand.Span)), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return ast.Expression{}, err
	}
	for {
		if p.check(lexer.TokenPunctuation, "[") {
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return ast.Expression{}, err
			}
			closeTok, err := p.expect(lexer.TokenPunctuation, "]")
			if err != nil {
				return ast.Expression{}, err
			}
			expr = ast.IndexExpr(expr, idx, expr.Span.Union(closeTok.Span))
			continue
		}
		if expr.Kind == ast.ExprVariable && p.check(lexer.TokenPunctuation, "(") {
			args, closeSpan, err := p.parseArgList()
			if err != nil {
				return ast.Expression{}, err
			}
			expr = ast.FunctionCallExpr(expr.Name, args, expr.Span.Union(closeSpan))
			continue
		}
		break
	}
	return expr, nil
}

func (p *Parser) parseArgList() ([]ast.Expression, ast.Span, error) {
	p.advance() // "("
	var args []ast.Expression
	for !p.check(lexer.TokenPunctuation, ")") {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, ast.Span{}, err
		}
		args = append(args, arg)
		if !p.match(lexer.TokenPunctuation, ",") {
			break
		}
	}
	closeTok, err := p.expect(lexer.TokenPunctuation, ")")
	if err != nil {
		return nil, ast.Span{}, err
	}
	return args, closeTok.Span, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokenNote:
		p.advance()
		n, err := types.ParseNote(tok.Text)
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.NoteExpr(n, tok.Span), nil

	case lexer.TokenNumber:
		p.advance()
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return ast.Expression{}, fmt.Errorf("invalid number %q at %s", tok.Text, tok.Span)
		}
		return ast.NumberExpr(n, tok.Span), nil

	case lexer.TokenBoolean:
		p.advance()
		return ast.BoolExpr(tok.Text == "true", tok.Span), nil

	case lexer.TokenString:
		p.advance()
		if pattern, err := types.ParsePatternString(tok.Text); err == nil {
			return ast.PatternExpr(pattern, tok.Span), nil
		}
		return ast.StringExpr(tok.Text, tok.Span), nil

	case lexer.TokenIdentifier:
		p.advance()
		return ast.VariableExpr(tok.Text, tok.Span), nil

	case lexer.TokenPunctuation:
		switch tok.Text {
		case "(":
			p.advance()
			inner, err := p.parseExpression()
			if err != nil {
				return ast.Expression{}, err
			}
			if _, err := p.expect(lexer.TokenPunctuation, ")"); err != nil {
				return ast.Expression{}, err
			}
			return inner, nil
		case "[":
			return p.parseArrayLiteral()
		case "{":
			body, err := p.parseBlock()
			if err != nil {
				return ast.Expression{}, err
			}
			return ast.BlockExpr(body, tok.Span), nil
		}
	}
	return ast.Expression{}, fmt.Errorf("unexpected token %q at %s", tok.Text, tok.Span)
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	start := p.advance().Span // "["
	var elements []ast.Expression
	for !p.check(lexer.TokenPunctuation, "]") {
		el, err := p.parseExpression()
		if err != nil {
			return ast.Expression{}, err
		}
		elements = append(elements, el)
		if !p.match(lexer.TokenPunctuation, ",") {
			break
		}
	}
	closeTok, err := p.expect(lexer.TokenPunctuation, "]")
	if err != nil {
		return ast.Expression{}, err
	}
	return ast.ArrayExpr(elements, start.Union(closeTok.Span)), nil
}
