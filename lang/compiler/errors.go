package compiler

import (
	"fmt"
	"strings"

	"github.com/arlyon/fen/lang/token"
)

// A Error describes a single compile-time diagnostic, in the conventional
// "[line L] Error at '<lexeme>': <msg>" (or "at end") form.
type Error struct {
	Line  token.Pos
	Where string // the offending lexeme, or "" for "at end"
	Msg   string
}

func (e *Error) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Msg)
}

// ErrorList collects every diagnostic reported during a single compile. Its
// Error method joins every message with a newline; individual *Error values
// can be recovered with errors.As in a loop over ErrorList itself, since it
// implements error but is also a plain slice.
type ErrorList []*Error

func (el ErrorList) Error() string {
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
