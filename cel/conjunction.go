package cel

import "strings"

// conjunctions maps the word conjunctions of normalized composite
// expressions to CEL operators. The replacements have the same length as
// the words so that positions in compile errors still match the original
// expression.
var conjunctions = []struct {
	word, op string
}{
	{"and", "&& "},
	{"or", "||"},
}

// translateConjunctions replaces the words "and" and "or", when used as
// infix operators outside string literals, with their CEL equivalents.
//
// A word is treated as an operator only when it is preceded by a space or a
// closing parenthesis and followed by a space or an opening parenthesis, so
// field selections like user.or are left alone.
func translateConjunctions(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))

	for i := 0; i < len(expr); i++ {
		c := expr[i]

		if c == '"' || c == '\'' {
			n := literalLen(expr, i)
			b.WriteString(expr[i : i+n])
			i += n - 1
			continue
		}

		if op, n := conjunctionAt(expr, i); n > 0 {
			b.WriteString(op)
			i += n - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// literalLen returns the length of the string literal whose opening quote
// is at expr[i], up to and including the closing delimiter. Triple-quoted
// literals end at the matching triple quote. Backslashes escape the next
// character except in raw literals (r or R prefix). An unterminated literal
// runs to the end of expr.
func literalLen(expr string, i int) int {
	delim := expr[i : i+1]
	if strings.HasPrefix(expr[i:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	raw := isRaw(expr, i)

	for j := i + len(delim); j < len(expr); j++ {
		switch {
		case expr[j] == '\\' && !raw:
			j++
		case strings.HasPrefix(expr[j:], delim):
			return j + len(delim) - i
		}
	}
	return len(expr) - i
}

// isRaw reports whether the literal starting at expr[i] has a raw prefix.
// CEL prefixes are r, b, or both in either order and case.
func isRaw(expr string, i int) bool {
	start := i
	for start > 0 && i-start < 2 && strings.IndexByte("rRbB", expr[start-1]) >= 0 {
		start--
	}
	if start > 0 && isIdent(expr[start-1]) {
		return false
	}
	return strings.ContainsAny(expr[start:i], "rR")
}

func isIdent(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func conjunctionAt(expr string, i int) (string, int) {
	if i == 0 || !(isSpace(expr[i-1]) || expr[i-1] == ')') {
		return "", 0
	}
	for _, c := range conjunctions {
		end := i + len(c.word)
		if !strings.HasPrefix(expr[i:], c.word) || end >= len(expr) {
			continue
		}
		if isSpace(expr[end]) || expr[end] == '(' {
			return c.op, len(c.word)
		}
	}
	return "", 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
