package parser

import (
	"strconv"
	"strings"
)

// escapeIdent escapes the code points of name that cannot appear literally
// in an identifier. When leading is set the rules for the start of an
// identifier apply to the first code points; otherwise name continues a
// hash, at-keyword or unit.
//
// hexEnd is true if the result ends in a hex escape, in which case a
// following hex digit or whitespace must be separated from it by a space.
func escapeIdent(name string, leading bool) (s string, hexEnd bool) {
	var b strings.Builder
	for i, r := range name {
		valid := isNameRune(r)
		if leading {
			switch {
			case i == 0 && r == '-':
				valid = true
			case i == 0:
				valid = isNameStartRune(r)
			case i == 1 && name[0] == '-':
				// "--custom" and vendor prefixes like "-moz-".
				valid = isNameStartRune(r) || r == '-'
			}
		}

		if !valid {
			b.WriteByte('\\')
			b.WriteString(strconv.FormatInt(int64(r), 16))
			hexEnd = true
			continue
		}
		if hexEnd && r < 0x80 && (isHexDigit(byte(r)) || isSpace(byte(r))) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		hexEnd = false
	}
	return b.String(), hexEnd
}

func isNameStartRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r >= 0x80
}

func isNameRune(r rune) bool {
	return isNameStartRune(r) || (r >= '0' && r <= '9') || r == '-'
}

// isIdent returns true if s can be written as an identifier without any
// escapes.
func isIdent(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	escaped, _ := escapeIdent(s, true)
	return escaped == s
}
