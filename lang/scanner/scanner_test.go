package scanner_test

import (
	"testing"

	"github.com/arlyon/fen/lang/scanner"
	"github.com/arlyon/fen/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(src string) []scanner.Token {
	s := scanner.New(src)
	var toks []scanner.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll("def while xs2 end")
	require.Len(t, toks, 5)
	assert.Equal(t, token.DEF, toks[0].Kind)
	assert.Equal(t, token.WHILE, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, "xs2", toks[2].Lexeme)
	assert.Equal(t, token.END, toks[3].Kind)
	assert.Equal(t, token.EOF, toks[4].Kind)
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll("1 2.5 10")
	assert.Equal(t, "1", toks[0].Lexeme)
	assert.Equal(t, "2.5", toks[1].Lexeme)
	assert.Equal(t, "10", toks[2].Lexeme)
}

func TestScanOperators(t *testing.T) {
	toks := scanAll("== != >= <= << >> ** //")
	want := []token.Token{token.EQ_EQ, token.BANG_EQ, token.GT_EQ, token.LT_EQ, token.LTLT, token.GTGT, token.STARSTAR, token.SLASHSLASH}
	for i, w := range want {
		assert.Equal(t, w, toks[i].Kind, "token %d", i)
	}
}

func TestScanStringNoEscapeProcessing(t *testing.T) {
	toks := scanAll(`"a\nb"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `a\nb`, toks[0].Lexeme)
}

func TestScanStringMultilineTracksLine(t *testing.T) {
	toks := scanAll("\"a\nb\" true")
	assert.Equal(t, token.Pos(1), toks[0].Line)
	assert.Equal(t, token.Pos(2), toks[1].Line)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(`"abc`)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestScanCommentsSkipped(t *testing.T) {
	toks := scanAll("1 # a comment\n2")
	assert.Equal(t, "1", toks[0].Lexeme)
	assert.Equal(t, token.Pos(2), toks[1].Line)
	assert.Equal(t, "2", toks[1].Lexeme)
}
