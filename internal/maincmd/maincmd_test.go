package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arlyon/fen/internal/maincmd"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.fen")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunSuccessExitsZero(t *testing.T) {
	path := writeTempSource(t, "print(1 + 2);")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{BuildVersion: "0.0.0", BuildDate: "2026-01-01"}
	code := c.Main([]string{"fen", "run", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(0), code)
	assert.Equal(t, "3", out.String())
	assert.Empty(t, errBuf.String())
}

func TestRunCompileErrorExits65(t *testing.T) {
	path := writeTempSource(t, "var = ;")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "run", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(65), code)
	assert.NotEmpty(t, errBuf.String())
}

func TestRunRuntimeErrorExits70(t *testing.T) {
	path := writeTempSource(t, "print(missing);")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "run", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(70), code)
	assert.Contains(t, errBuf.String(), "Undefined variable 'missing'.")
}

func TestUnknownCommandIsInvalidArgs(t *testing.T) {
	path := writeTempSource(t, "print(1);")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "bogus", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.InvalidArgs, code)
}

func TestMissingFileIsExit74(t *testing.T) {
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "run", "/nonexistent/path/does/not/exist.fen"}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(74), code)
}

func TestHelpFlagPrintsUsageAndExitsZero(t *testing.T) {
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "--help"}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(0), code)
	assert.Contains(t, out.String(), "usage: fen")
}

func TestDisasmPrintsFunctionHeader(t *testing.T) {
	path := writeTempSource(t, "print(1 + 2);")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "disasm", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(0), code)
	assert.Contains(t, out.String(), "function: <script>")
}

func TestTokenizePrintsEOF(t *testing.T) {
	path := writeTempSource(t, "print(1);")
	var out, errBuf bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"fen", "tokenize", path}, mainer.Stdio{Stdout: &out, Stderr: &errBuf})
	assert.Equal(t, mainer.ExitCode(0), code)
	assert.Contains(t, out.String(), "end of file")
}
