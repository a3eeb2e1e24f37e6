// Package lexer tokenizes Cadence source into spanned tokens, tracking
// both byte and UTF-16 offsets per spec §4.1 (editor/LSP integrations
// count character offsets in UTF-16 code units, not bytes or runes).
// Grounded on spec §4.1's token categories and the older reference
// src/parser/lexer.rs for keyword/operator vocabulary.
package lexer

import "cadence/internal/cadence/ast"

// TokenKind names a lexical category. The names double as the
// highlighter's token-category vocabulary (spec §6).
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNote
	TokenIdentifier
	TokenKeyword
	TokenNumber
	TokenString
	TokenBoolean
	TokenOperator
	TokenPunctuation
	TokenComment
	TokenDocComment
)

// Keywords recognized by the lexer; everything else lexes as an
// Identifier.
var Keywords = map[string]bool{
	"let": true, "fn": true, "if": true, "else": true, "repeat": true,
	"loop": true, "for": true, "in": true, "return": true, "break": true,
	"continue": true, "play": true, "tempo": true, "volume": true,
	"waveform": true, "stop": true, "load": true, "track": true,
	"use": true, "as": true, "wait": true, "and": true, "or": true,
	"not": true, "true": true, "false": true,
}

// Token is one lexed unit of source text.
type Token struct {
	Kind  TokenKind
	Text  string
	Span  ast.Span
	Value string // doc-comment body with the `///` marker stripped
}
