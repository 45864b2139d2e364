package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_Basic(t *testing.T) {
	tokens := Tokenize("A1+2.5*(B2-3)")

	want := []Token{
		{Kind: Var, Text: "A1"},
		{Kind: Op, Text: "+"},
		{Kind: Num, Text: "2.5"},
		{Kind: Op, Text: "*"},
		{Kind: LParen, Text: "("},
		{Kind: Var, Text: "B2"},
		{Kind: Op, Text: "-"},
		{Kind: Num, Text: "3"},
		{Kind: RParen, Text: ")"},
	}

	assert.Equal(t, want, tokens)
}

func TestTokenize_DropsWhitespace(t *testing.T) {
	tokens := Tokenize("  A1  +  2  ")
	want := []Token{
		{Kind: Var, Text: "A1"},
		{Kind: Op, Text: "+"},
		{Kind: Num, Text: "2"},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenize_AdjacentAlnumSeparatedByWhitespaceAreDistinct(t *testing.T) {
	tokens := Tokenize("x 23")
	want := []Token{
		{Kind: Var, Text: "x"},
		{Kind: Num, Text: "23"},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenize_ScientificNotation(t *testing.T) {
	tokens := Tokenize("6.6e-3")
	assert.Equal(t, []Token{{Kind: Num, Text: "6.6e-3"}}, tokens)
}

func TestTokenize_UnknownCharacter(t *testing.T) {
	tokens := Tokenize("A1 & B2")
	want := []Token{
		{Kind: Var, Text: "A1"},
		{Kind: Unknown, Text: "&"},
		{Kind: Var, Text: "B2"},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestLexer_NextExhausts(t *testing.T) {
	lex := NewLexer("1+1")
	var kinds []Kind
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Num, Op, Num}, kinds)

	_, ok := lex.Next()
	assert.False(t, ok)
}
