package value

import (
	"strconv"
	"strings"
)

// FormatValue renders v the way printValue does: numbers use %g-style
// formatting (whole numbers with no trailing decimal, others to 6
// significant digits), strings are escape-processed before printing, and
// lists render as comma-space-separated elements in brackets.
func FormatValue(v Value) string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.AsNumber(), 'g', 6, 64)
	case KindObject:
		return formatObject(v.Obj)
	default:
		return "?"
	}
}

func formatObject(o Object) string {
	switch t := o.(type) {
	case *String:
		return processEscapes(t.Chars)
	case *Function:
		if t.Name == "" {
			return "<script>"
		}
		return "<fn " + t.Name + ">"
	case *Native:
		return "<native fn>"
	case *List:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// processEscapes applies backslash-escape processing to a string's raw
// source bytes at print time — strings are stored unescaped (the scanner
// never interprets them), and escapes are resolved only here, on output.
// Recognized escapes: \n \r \t \b \f \v \\ \' \", octal \0dd (three octal
// digits including the leading 0), and hex \xHH. An unrecognized escape
// prints the backslash literally and leaves the following byte untouched.
func processEscapes(raw string) string {
	n := len(raw)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		c := raw[i]
		if c != '\\' || i >= n-1 {
			b.WriteByte(c)
			continue
		}
		switch raw[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '\'':
			b.WriteByte('\'')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '0':
			if i+3 < n && isOctalDigit(raw[i+2]) && isOctalDigit(raw[i+3]) {
				val, _ := strconv.ParseUint(raw[i+1:i+4], 8, 8)
				b.WriteByte(byte(val))
				i += 3
			} else {
				b.WriteByte(c)
			}
		case 'x':
			if i+3 < n && isHexDigit(raw[i+2]) && isHexDigit(raw[i+3]) {
				val, _ := strconv.ParseUint(raw[i+2:i+4], 16, 8)
				b.WriteByte(byte(val))
				i += 3
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
