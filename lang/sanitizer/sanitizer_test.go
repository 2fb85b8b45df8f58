package sanitizer_test

import (
	"testing"

	"github.com/arlyon/fen/lang/sanitizer"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmptySourceIsUnchanged(t *testing.T) {
	assert.Equal(t, "", sanitizer.Sanitize(""))
	assert.Equal(t, "   \n  # comment\n", sanitizer.Sanitize("   \n  # comment\n"))
}

func TestSanitizeInsertsSemicolonAfterExpressionLine(t *testing.T) {
	out := sanitizer.Sanitize("var x = 1\nprint(x)\n")
	assert.Equal(t, "var x = 1;\nprint(x);\n", out)
}

func TestSanitizeDoesNotInsertBeforeBinaryContinuation(t *testing.T) {
	out := sanitizer.Sanitize("var x = 1\n  + 2;\n")
	assert.Equal(t, "var x = 1\n  + 2;\n", out)
}

func TestSanitizeInsertsAfterBreakAndContinueRegardless(t *testing.T) {
	out := sanitizer.Sanitize("while true:\n  break\nend\n")
	assert.Equal(t, "while true:\n  break;\nend\n", out)
}

func TestSanitizeReturnBeforeKeywordGetsSemicolon(t *testing.T) {
	out := sanitizer.Sanitize("def f():\n  return 1\nend\n")
	assert.Equal(t, "def f():\n  return 1;\nend\n", out)
}

func TestSanitizeReturnBeforeOperatorContinuationDoesNot(t *testing.T) {
	out := sanitizer.Sanitize("def f():\n  return 1\n    + 2;\nend\n")
	assert.Equal(t, "def f():\n  return 1\n    + 2;\nend\n", out)
}

func TestSanitizeFinalStatementAtEOFGetsSemicolon(t *testing.T) {
	out := sanitizer.Sanitize("var x = 1")
	assert.Equal(t, "var x = 1;", out)
}

func TestSanitizeIsIdempotentOnItsOwnOutput(t *testing.T) {
	out := sanitizer.Sanitize(sanitizer.Sanitize("var x = 1\nprint(x)\n"))
	assert.Equal(t, sanitizer.Sanitize("var x = 1\nprint(x)\n"), out, "sanitizing already-sanitized source is a no-op")
}
