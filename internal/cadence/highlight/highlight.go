// Package highlight classifies tokens into the display categories an
// editor or REPL uses for syntax coloring (spec §4.8, §6). It re-lexes
// source rather than walking the AST, so it still produces a best-effort
// classification over source that doesn't parse cleanly.
package highlight

import (
	"cadence/internal/cadence/lexer"
	"cadence/internal/cadence/types"
)

// Category names the highlighter's token classes — the vocabulary an
// editor integration keys its color theme off of (spec §6).
type Category string

const (
	CategoryKeyword     Category = "keyword"
	CategoryNote        Category = "note"
	CategoryIdentifier  Category = "identifier"
	CategoryFunction    Category = "function"
	CategoryNumber      Category = "number"
	CategoryString      Category = "string"
	CategoryPattern     Category = "pattern"
	CategoryBoolean     Category = "boolean"
	CategoryOperator    Category = "operator"
	CategoryPunctuation Category = "punctuation"
	CategoryComment     Category = "comment"
	CategoryDocComment  Category = "doc-comment"
)

// Span is a classified range of source text, reusing the lexer's byte
// and UTF-16 offsets so an editor can apply either addressing scheme.
type Span struct {
	Category   Category
	StartByte  int
	EndByte    int
	StartUTF16 int
	EndUTF16   int
}

// Highlight re-lexes src and returns one Span per token (EOF omitted).
func Highlight(src string) ([]Span, error) {
	tokens, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	out := make([]Span, 0, len(tokens))
	for i, tok := range tokens {
		if tok.Kind == lexer.TokenEOF {
			continue
		}
		out = append(out, Span{
			Category:   categoryFor(tok, tokens, i),
			StartByte:  tok.Span.StartByte,
			EndByte:    tok.Span.EndByte,
			StartUTF16: tok.Span.StartUTF16,
			EndUTF16:   tok.Span.EndUTF16,
		})
	}
	return out, nil
}

func categoryFor(tok lexer.Token, tokens []lexer.Token, i int) Category {
	switch tok.Kind {
	case lexer.TokenKeyword:
		return CategoryKeyword
	case lexer.TokenNote:
		return CategoryNote
	case lexer.TokenNumber:
		return CategoryNumber
	case lexer.TokenBoolean:
		return CategoryBoolean
	case lexer.TokenString:
		if looksLikePattern(tok.Text) {
			return CategoryPattern
		}
		return CategoryString
	case lexer.TokenOperator:
		return CategoryOperator
	case lexer.TokenPunctuation:
		return CategoryPunctuation
	case lexer.TokenComment:
		return CategoryComment
	case lexer.TokenDocComment:
		return CategoryDocComment
	case lexer.TokenIdentifier:
		if i+1 < len(tokens) && tokens[i+1].Kind == lexer.TokenPunctuation && tokens[i+1].Text == "(" {
			return CategoryFunction
		}
		return CategoryIdentifier
	}
	return CategoryIdentifier
}

// looksLikePattern runs the same mini-notation probe the parser and
// validator use, so the highlighter colors pattern-literal strings
// distinctly from plain data strings.
func looksLikePattern(text string) bool {
	_, err := types.ParsePatternString(text)
	return err == nil
}
