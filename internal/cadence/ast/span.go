// Package ast defines Cadence's syntax tree: spanned expressions and
// statements produced by the parser and consumed by the binder,
// validator, evaluator, and highlighter. Grounded on
// cadence-core/src/parser/ast.rs and spec §3/§4.2.
package ast

import "fmt"

// Span locates a syntax node in its source text, carrying both byte
// offsets (for Go-side slicing) and UTF-16 offsets (for editor/LSP
// integration, which counts in UTF-16 code units per spec §4.1).
type Span struct {
	StartByte, EndByte     int
	StartUTF16, EndUTF16   int
	StartLine, StartColumn int
}

// Zero is the placeholder span used for nested statements the binder
// doesn't track a real source range for (spec §4.3).
var Zero = Span{}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartColumn)
}

// Union returns the smallest span covering both a and b.
func (a Span) Union(b Span) Span {
	out := a
	if b.StartByte < out.StartByte {
		out.StartByte, out.StartUTF16 = b.StartByte, b.StartUTF16
		out.StartLine, out.StartColumn = b.StartLine, b.StartColumn
	}
	if b.EndByte > out.EndByte {
		out.EndByte, out.EndUTF16 = b.EndByte, b.EndUTF16
	}
	return out
}
