// Package sanitizer implements automatic semicolon insertion: a second,
// independent tokenization pass that inserts ';' between two tokens that
// span a newline, whenever the adjacent token kinds make that newline
// statement-significant. It is not called by the compiler or VM — its only
// contract is that it produces source text the scanner accepts unchanged;
// wiring it in is the CLI's job.
package sanitizer

import (
	"github.com/arlyon/fen/lang/scanner"
	"github.com/arlyon/fen/lang/token"
)

// endsStatement reports whether a token of kind k can be the last token of
// a statement, i.e. a newline right after it is potentially significant.
func endsStatement(k token.Token) bool {
	switch k {
	case token.RPAREN, token.RBRACK, token.IDENT, token.STRING, token.NUMBER,
		token.FALSE, token.NONE, token.TRUE, token.BREAK, token.CONTINUE, token.RETURN:
		return true
	}
	return false
}

// beginsStatement reports whether a token of kind k can start a new
// statement or expression, i.e. whether it's a valid continuation point for
// an inserted ';' after a statement-ending token on the previous line.
func beginsStatement(k token.Token) bool {
	switch k {
	case token.LPAREN, token.LBRACK, token.IDENT, token.STRING, token.NUMBER,
		token.BREAK, token.CONTINUE, token.DEF, token.ELIF, token.ELSE, token.END,
		token.FALSE, token.FOR, token.IF, token.NONE, token.RETURN, token.TRUE,
		token.VAR, token.WHILE:
		return true
	}
	return false
}

// requiresSemicolon reports whether a newline between a prev token of kind
// prev and a following token of kind cur needs an inserted ';' so that the
// two statements don't run together. It special-cases break/continue
// (always statement-terminal, regardless of what follows) and return
// (terminal only before another statement-starting keyword, never before a
// continuation expression like a binary operator).
func requiresSemicolon(prev, cur token.Token) bool {
	switch prev {
	case token.BREAK, token.CONTINUE:
		return true
	case token.RETURN:
		switch cur {
		case token.BREAK, token.CONTINUE, token.DEF, token.ELIF, token.ELSE,
			token.END, token.FOR, token.IF, token.RETURN, token.VAR, token.WHILE:
			return true
		}
		return false
	}
	if !endsStatement(prev) {
		return false
	}
	return beginsStatement(cur)
}

// Sanitize scans src and returns a copy with ';' inserted at every
// newline-spanning token boundary that requiresSemicolon reports as
// significant. An empty token stream (source with only whitespace/comments,
// or no source at all) returns src unchanged — unlike the addsemicolon
// routine this is grounded on, which reads an uninitialized "previous
// token" in that case.
func Sanitize(src string) string {
	sc := scanner.New(src)
	cur := sc.Scan()
	if cur.Kind == token.EOF {
		return src
	}

	var insertAt []int
	last := cur
	for {
		prev := cur
		cur = sc.Scan()
		if cur.Kind == token.EOF {
			last = prev
			break
		}
		if prev.Line != cur.Line && requiresSemicolon(prev.Kind, cur.Kind) {
			insertAt = append(insertAt, prev.End)
		}
	}
	// A statement ending at end-of-file needs its terminator too, same as
	// one ending at a newline.
	if endsStatement(last.Kind) {
		insertAt = append(insertAt, last.End)
	}

	if len(insertAt) == 0 {
		return src
	}

	out := make([]byte, 0, len(src)+len(insertAt))
	pos := 0
	for _, at := range insertAt {
		out = append(out, src[pos:at]...)
		out = append(out, ';')
		pos = at
	}
	out = append(out, src[pos:]...)
	return string(out)
}
