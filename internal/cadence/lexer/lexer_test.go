package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeKeywordsIdentifiersAndOperators(t *testing.T) {
	toks, err := New(`let x = 1 fn`).Tokenize()
	require.NoError(t, err)
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{TokenKeyword, TokenIdentifier, TokenOperator, TokenNumber, TokenKeyword, TokenEOF}
	assert.Equal(t, want, kinds)
}

func TestTokenizeNoteLiteral(t *testing.T) {
	toks, err := New(`C#4`).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, TokenNote, toks[0].Kind)
	assert.Equal(t, "C#4", toks[0].Text)
}

func TestTokenizeIdentifierNotConfusedWithNote(t *testing.T) {
	toks, err := New(`chord`).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, TokenIdentifier, toks[0].Kind, "'chord' should lex as an identifier, not a note")
}

func TestTokenizeDocCommentIsKeptAsToken(t *testing.T) {
	toks, err := New("/// doc\nlet x = 1").Tokenize()
	require.NoError(t, err)
	require.Equal(t, TokenDocComment, toks[0].Kind)
	assert.Equal(t, " doc", toks[0].Value)
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	toks, err := New(`a == b != c && d || e`).Tokenize()
	require.NoError(t, err)
	var ops []string
	for _, tok := range toks {
		if tok.Kind == TokenOperator {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"==", "!=", "&&", "||"}, ops)
}

func TestUTF16PositionTracksSurrogatePairs(t *testing.T) {
	// U+1F3B5 (musical note emoji) is a surrogate pair in UTF-16 (2 units)
	// but a single string literal content rune; verify the lexer's UTF-16
	// offsets advance by 2 for it inside a string literal.
	toks, err := New(`"🎵x"`).Tokenize()
	require.NoError(t, err)
	str := toks[0]
	require.Equal(t, TokenString, str.Kind)
	// Span: opening quote + emoji(2 units) + 'x' + closing quote = 5 UTF-16 units
	assert.Equal(t, 5, str.Span.EndUTF16-str.Span.StartUTF16)
}
