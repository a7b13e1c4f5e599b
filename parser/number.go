package parser

import (
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
)

// splitNumber separates the digits of a numeric token from its unit or
// percent sign.
func splitNumber(text string) (num, unit string) {
	i := 0
	for i < len(text) && ((text[i] >= '0' && text[i] <= '9') || text[i] == '.') {
		i++
	}
	return text[:i], text[i:]
}

// canonicalNumber returns the shortest form of an unsigned decimal: leading
// zeros of the integer part and trailing zeros of the fraction are removed,
// an empty fraction is dropped, and a zero integer part is omitted before a
// fraction.
func canonicalNumber(num string) string {
	whole, frac := num, ""
	if i := strings.IndexByte(num, '.'); i >= 0 {
		whole, frac = num[:i], num[i+1:]
	}
	whole = strings.TrimLeft(whole, "0")
	frac = strings.TrimRight(frac, "0")

	switch {
	case frac == "" && whole == "":
		return "0"
	case frac == "":
		return whole
	}
	return whole + "." + frac
}

// maxIntegerDigits is the longest integer part that survives a round trip
// through a double without losing precision.
const maxIntegerDigits = 15

// appendNumber writes a numeric token in canonical form. sign is "", "-" or
// "+". Zero drops its sign, and a zero length drops its unit outside of
// calc() and its relatives, where a unitless zero is not a length.
func (p *Parser) appendNumber(sign string, tok token.Token) {
	num, unit := splitNumber(tok.Text)
	n := canonicalNumber(num)

	if whole, _, _ := strings.Cut(n, "."); len(whole) > maxIntegerDigits {
		p.report(diag.NumericOverflow, diag.SeverityWarning, "numeric value %s may overflow", tok.Text)
	}

	if n == "0" {
		sign = ""
		if tok.Kind.IsLength() && p.inMath == 0 {
			p.report(diag.UnnecessaryUnits, diag.SeverityStyle, "unnecessary unit on zero length %s", tok.Text)
			unit = ""
		}
	}

	p.append(sign + n)
	switch unit {
	case "":
	case "%":
		p.append("%")
	default:
		p.appendName("", unit)
	}
}
