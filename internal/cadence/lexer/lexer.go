package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"cadence/internal/cadence/ast"
)

// Lexer scans UTF-8 source text into a stream of spanned Tokens.
type Lexer struct {
	src      string
	bytePos  int
	utf16Pos int
	line     int
	col      int
}

// New builds a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) eof() bool { return l.bytePos >= len(l.src) }

func (l *Lexer) peekRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.bytePos:])
	return r, size
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	l.bytePos += size
	if r > 0xFFFF {
		l.utf16Pos += 2 // surrogate pair
	} else {
		l.utf16Pos++
	}
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) mark() ast.Span {
	return ast.Span{
		StartByte: l.bytePos, EndByte: l.bytePos,
		StartUTF16: l.utf16Pos, EndUTF16: l.utf16Pos,
		StartLine: l.line, StartColumn: l.col,
	}
}

func (l *Lexer) spanFrom(start ast.Span) ast.Span {
	start.EndByte = l.bytePos
	start.EndUTF16 = l.utf16Pos
	return start
}

// Tokenize scans the whole source into a token slice, terminated by a
// TokenEOF token. Comments are emitted as TokenComment/TokenDocComment
// tokens rather than skipped, so the parser can attach `///` doc blocks
// to the following statement (spec §4.3).
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		l.skipInsignificantWhitespace()
		if l.eof() {
			tokens = append(tokens, Token{Kind: TokenEOF, Span: l.mark()})
			return tokens, nil
		}

		start := l.mark()
		r, _ := l.peekRune()

		switch {
		case r == '/' && l.startsWith("///"):
			tok := l.lexDocComment(start)
			tokens = append(tokens, tok)
		case r == '/' && l.startsWith("//"):
			tok := l.lexLineComment(start)
			tokens = append(tokens, tok)
		case unicode.IsDigit(r):
			tok, err := l.lexNumber(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case r == '"':
			tok, err := l.lexString(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isIdentStart(r):
			tok := l.lexIdentifierOrNote(start)
			tokens = append(tokens, tok)
		case strings.ContainsRune("+-*/%&|^<>=!", r):
			tok := l.lexOperator(start)
			tokens = append(tokens, tok)
		case strings.ContainsRune("()[]{},:$", r):
			l.advance()
			tokens = append(tokens, Token{Kind: TokenPunctuation, Text: string(r), Span: l.spanFrom(start)})
		default:
			return nil, fmt.Errorf("unexpected character %q at %s", r, start)
		}
	}
}

func (l *Lexer) startsWith(prefix string) bool {
	return strings.HasPrefix(l.src[l.bytePos:], prefix)
}

func (l *Lexer) skipInsignificantWhitespace() {
	for !l.eof() {
		r, _ := l.peekRune()
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			l.advance()
			continue
		}
		break
	}
}

func (l *Lexer) lexDocComment(start ast.Span) Token {
	for !l.eof() {
		r, _ := l.peekRune()
		if r == '\n' {
			break
		}
		l.advance()
	}
	span := l.spanFrom(start)
	text := l.src[span.StartByte:span.EndByte]
	return Token{Kind: TokenDocComment, Text: text, Span: span, Value: strings.TrimPrefix(text, "///")}
}

func (l *Lexer) lexLineComment(start ast.Span) Token {
	for !l.eof() {
		r, _ := l.peekRune()
		if r == '\n' {
			break
		}
		l.advance()
	}
	span := l.spanFrom(start)
	return Token{Kind: TokenComment, Text: l.src[span.StartByte:span.EndByte], Span: span}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '#'
}

// lexIdentifierOrNote scans a word and classifies it as a keyword,
// boolean literal, note literal, or plain identifier. Note-literal
// recognition is a heuristic (spec doesn't give the lexer a grammar
// context to disambiguate): a letter A-G, zero or more trailing # or b
// accidentals, then optional unsigned octave digits, with nothing else
// in the word, lexes as a Note; anything else lexes as an Identifier,
// leaving drum names, variable names, and function names alone.
func (l *Lexer) lexIdentifierOrNote(start ast.Span) Token {
	for !l.eof() {
		r, _ := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		l.advance()
	}
	span := l.spanFrom(start)
	text := l.src[span.StartByte:span.EndByte]

	switch {
	case Keywords[text]:
		if text == "true" || text == "false" {
			return Token{Kind: TokenBoolean, Text: text, Span: span}
		}
		return Token{Kind: TokenKeyword, Text: text, Span: span}
	case looksLikeNoteLiteral(text):
		return Token{Kind: TokenNote, Text: text, Span: span}
	default:
		return Token{Kind: TokenIdentifier, Text: text, Span: span}
	}
}

func looksLikeNoteLiteral(text string) bool {
	if text == "" {
		return false
	}
	letter := text[0]
	if letter < 'A' || letter > 'G' {
		return false
	}
	i := 1
	for i < len(text) && (text[i] == '#' || text[i] == 'b') {
		i++
	}
	if i == len(text) {
		return true // bare letter, e.g. "C", defaults to octave 4
	}
	for j := i; j < len(text); j++ {
		if text[j] < '0' || text[j] > '9' {
			return false
		}
	}
	return true
}

func (l *Lexer) lexNumber(start ast.Span) (Token, error) {
	sawDot := false
	for !l.eof() {
		r, _ := l.peekRune()
		if unicode.IsDigit(r) {
			l.advance()
			continue
		}
		if r == '.' && !sawDot {
			sawDot = true
			l.advance()
			continue
		}
		break
	}
	span := l.spanFrom(start)
	return Token{Kind: TokenNumber, Text: l.src[span.StartByte:span.EndByte], Span: span}, nil
}

func (l *Lexer) lexString(start ast.Span) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.eof() {
			return Token{}, fmt.Errorf("unterminated string starting at %s", start)
		}
		r, _ := l.peekRune()
		if r == '"' {
			l.advance()
			break
		}
		if r == '\\' {
			l.advance()
			if l.eof() {
				return Token{}, fmt.Errorf("unterminated string escape at %s", start)
			}
			esc, _ := l.peekRune()
			l.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		l.advance()
		b.WriteRune(r)
	}
	span := l.spanFrom(start)
	return Token{Kind: TokenString, Text: b.String(), Span: span}, nil
}

var multiCharOperators = []string{"==", "!=", "<=", ">=", "&&", "||"}

func (l *Lexer) lexOperator(start ast.Span) Token {
	for _, op := range multiCharOperators {
		if l.startsWith(op) {
			for range op {
				l.advance()
			}
			return Token{Kind: TokenOperator, Text: op, Span: l.spanFrom(start)}
		}
	}
	r := l.advance()
	return Token{Kind: TokenOperator, Text: string(r), Span: l.spanFrom(start)}
}

// UTF16Len returns the UTF-16 code-unit length of s, used by callers
// that need to cross-check span arithmetic against raw text.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
