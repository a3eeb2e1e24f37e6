package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(t *testing.T, src string) []Category {
	t.Helper()
	spans, err := Highlight(src)
	require.NoError(t, err)
	out := make([]Category, len(spans))
	for i, s := range spans {
		out[i] = s.Category
	}
	return out
}

func TestHighlightClassifiesKeywordNoteAndOperator(t *testing.T) {
	cats := categories(t, `let x = C4 + 1`)
	want := []Category{CategoryKeyword, CategoryIdentifier, CategoryOperator, CategoryNote, CategoryOperator, CategoryNumber}
	assert.Equal(t, want, cats)
}

func TestHighlightIdentifierBeforeParenIsFunction(t *testing.T) {
	cats := categories(t, `reverse(x)`)
	assert.Equal(t, CategoryFunction, cats[0], "identifier immediately followed by '(' should be a function")
}

func TestHighlightPatternStringVsPlainString(t *testing.T) {
	cats := categories(t, `"C4 E4 G4"`)
	assert.Equal(t, CategoryPattern, cats[0], "valid mini-notation should be CategoryPattern")

	plain := categories(t, `"hello world"`)
	assert.Equal(t, CategoryString, plain[0], "non-pattern text should be CategoryString")
}

func TestHighlightDocCommentCategory(t *testing.T) {
	cats := categories(t, "/// a doc comment\nlet x = 1")
	assert.Equal(t, CategoryDocComment, cats[0])
}

func TestHighlightSpansCoverSourceOffsets(t *testing.T) {
	spans, err := Highlight(`let x = 1`)
	require.NoError(t, err)
	assert.Equal(t, 0, spans[0].StartByte, "first token should start at byte 0")
	assert.Equal(t, 3, spans[0].EndByte, `"let"`)
}
