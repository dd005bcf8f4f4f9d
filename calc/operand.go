/*
 * calcvm - step tokenisation and operand parsing.
 */

package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// Operand is either an integer literal or a named reference of the form
// "[~]<prefix><suffix>".
type Operand struct {
	IsLiteral bool
	Literal   int64

	Prefix   string
	Suffix   string
	Inverted bool
}

// Name reconstructs the canonical field name of a named operand.
func (o Operand) Name() string { return o.Prefix + o.Suffix }

// stripComment removes everything from the first ';' to end of line.
func stripComment(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

// tokenizeStep splits a step string into an opcode and its operand tokens.
// An empty token list (after stripping comments) yields ("", nil).
func tokenizeStep(s string) (opcode string, operandTokens []string) {
	fields := strings.Fields(stripComment(s))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// parseOperand parses a single operand token: a signed integer literal if
// possible, else a named operand. Returns ok=false if the token cannot be
// parsed as either (e.g. a bare "~" or a prefix with an empty suffix).
func parseOperand(tok string) (Operand, bool) {
	if lit, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Operand{IsLiteral: true, Literal: lit}, true
	}

	rest := tok
	inverted := false
	if strings.HasPrefix(rest, "~") {
		inverted = true
		rest = rest[1:]
	}

	i := 0
	for i < len(rest) && unicode.IsLetter(rune(rest[i])) {
		i++
	}
	prefix := rest[:i]
	suffix := rest[i:]
	if suffix == "" {
		return Operand{}, false
	}
	return Operand{Prefix: prefix, Suffix: suffix, Inverted: inverted}, true
}

// parseOperands parses every token, dropping unparseable ones, matching the
// spec's "unparseable operands are dropped from the tuple" rule.
func parseOperands(tokens []string) []Operand {
	out := make([]Operand, 0, len(tokens))
	for _, tok := range tokens {
		if op, ok := parseOperand(tok); ok {
			out = append(out, op)
		}
	}
	return out
}
