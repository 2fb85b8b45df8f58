package maincmd

import (
	"context"
	"fmt"

	"github.com/arlyon/fen/lang/scanner"
	"github.com/arlyon/fen/lang/token"
	"github.com/mna/mainer"
)

// Tokenize prints the token stream produced by the scanner for a single
// file, one token per line, as a debugging aid.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	_ = ctx

	source, err := readSourceFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	sc := scanner.New(source)
	for {
		tok := sc.Scan()
		if tok.Kind == token.ILLEGAL {
			fmt.Fprintf(stdio.Stderr, "[line %d] %s\n", tok.Line, tok.Lexeme)
			return &exitCodeError{code: exitCompileError, err: fmt.Errorf("[line %d] %s", tok.Line, tok.Lexeme)}
		}
		fmt.Fprintf(stdio.Stdout, "%4d %-14s %q\n", tok.Line, tok.Kind, tok.Lexeme)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
