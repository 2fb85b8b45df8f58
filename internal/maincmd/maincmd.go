// Package maincmd implements the fen command-line tool: argument parsing,
// command dispatch, and the three subcommands (run, tokenize, disasm).
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "fen"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the %[1]s scripting language.

The <command> can be one of:
       run                       Sanitize, compile and execute the file.
       tokenize                  Print the token stream produced by the
                                 scanner.
       disasm                    Compile the file and print the
                                 disassembled bytecode of every function.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <run> command are:
       --no-sanitize             Skip the automatic-semicolon-insertion
                                 pass and feed the file to the compiler
                                 unchanged.
`, binName)
)

// Cmd is the fen CLI's mainer.Cmd implementation: flag-tagged fields parsed
// by mainer.Parser, commands dispatched by reflection over Cmd's own
// exported methods (see buildCmds).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	NoSanitize bool `flag:"no-sanitize"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one file path must be provided", cmdName)
	}

	if c.flags["no-sanitize"] && cmdName != "run" {
		return fmt.Errorf("%s: invalid flag '--no-sanitize'", cmdName)
	}

	return nil
}

// Main parses args, dispatches to the requested subcommand and returns the
// process exit code. Subcommands print their own errors to stdio.Stderr;
// Main only decides the numeric code, preferring the precise code carried
// by an *exitCodeError over the generic mainer.Failure.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		var ece *exitCodeError
		if errors.As(err, &ece) {
			return ece.code
		}
		return mainer.Failure
	}
	return mainer.Success
}

// exitCodeError lets a subcommand report a precise process exit code (the
// conventional 65/70/74 family this interpreter uses) through the ordinary
// error return path, instead of widening every cmdFn's signature.
type exitCodeError struct {
	code mainer.ExitCode
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

const (
	exitCompileError mainer.ExitCode = 65
	exitRuntimeError mainer.ExitCode = 70
	exitIOError      mainer.ExitCode = 74
)

// buildCmds reflects over v's exported methods and collects every one whose
// signature is func(context.Context, mainer.Stdio, []string) error into a
// map keyed by its lowercased name — that's the full set of subcommands.
func buildCmds(v any) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

// readSourceFile reads path into memory, reporting open and read failures
// distinctly (grounded on the source's own readFile: the two failure modes
// get different messages, both mapping to the conventional I/O exit code).
func readSourceFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &exitCodeError{code: exitIOError, err: fmt.Errorf("could not open file %q", path)}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &exitCodeError{code: exitIOError, err: fmt.Errorf("could not read file %q", path)}
	}
	return string(data), nil
}
