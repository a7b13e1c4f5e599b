package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
	"golang.org/x/text/transform"
)

// eof represents an EOF file byte.
const eof rune = -1

// Scanner breaks a style sheet into tokens.
//
// Comments and whitespace are returned as tokens so the parser can decide
// what to keep. Anomalies never stop the scanner: they are reported and the
// scanner continues with a best-effort token.
type Scanner struct {
	// AllowEmbeddedAspNetBlocks makes "<% ... %>" a single raw token.
	AllowEmbeddedAspNetBlocks bool

	rd       io.RuneReader
	reporter diag.Reporter

	buf    [16]rune      // circular buffer for runes
	bufpos [16]token.Pos // circular buffer for position
	bufi   int           // circular buffer index
	bufn   int           // number of buffered characters
}

// New returns a new instance of Scanner. Diagnostics go to r, which may be nil.
func New(rd io.Reader, r diag.Reporter) *Scanner {
	if r == nil {
		r = diag.Discard
	}
	s := &Scanner{
		rd:       bufio.NewReader(transform.NewReader(rd, normalizer{})),
		reporter: r,
	}
	s.bufpos[s.bufi] = token.Pos{Line: 1}
	return s
}

// NewString returns a Scanner reading from src.
func NewString(src string, r diag.Reporter) *Scanner {
	return New(strings.NewReader(src), r)
}

// Scan returns the next token.
func (s *Scanner) Scan() token.Token {
	ch := s.read()
	pos := s.Pos()
	tok := s.scan(ch)
	tok.Pos, tok.End = pos, s.Pos()
	return tok
}

// Peek returns the next code point without consuming it.
func (s *Scanner) Peek() rune {
	ch := s.read()
	s.unread(1)
	return ch
}

// EOF returns true if the input is exhausted.
func (s *Scanner) EOF() bool {
	return s.Peek() == eof
}

func (s *Scanner) scan(ch rune) token.Token {
	switch {
	case ch == eof:
		return token.Token{Kind: token.EOF}
	case isWhitespace(ch):
		return s.scanWhitespace()
	case ch == '"' || ch == '\'':
		return s.scanString()
	case ch == '/':
		if next := s.read(); next == '*' {
			return s.scanComment()
		}
		s.unread(1)
	case ch == '#':
		return s.scanHash()
	case ch == '@':
		// This is an at-keyword token if an identifier follows.
		// Otherwise it's just a structural character.
		if s.read(); s.peekIdent() {
			name := s.scanName()
			return token.Token{Kind: token.LookupAtKeyword(name), Text: "@" + name}
		}
		s.unread(1)
	case ch == '-':
		// Scan the next two code points and unread back to the hyphen.
		ch1, ch2 := s.read(), s.read()
		s.unread(2)
		if ch1 == '-' && ch2 == '>' {
			s.read()
			s.read()
			return token.Token{Kind: token.CommentClose, Text: "-->"}
		} else if s.peekIdent() {
			return s.scanIdent()
		}
	case ch == '<':
		return s.scanLessThan()
	case ch == '!':
		return s.scanImportant()
	case ch == '~' || ch == '|' || ch == '^' || ch == '$' || ch == '*':
		if next := s.read(); next == '=' {
			return token.Token{Kind: matchKinds[ch], Text: string(ch) + "="}
		}
		s.unread(1)
	case ch == 'u' || ch == 'U':
		// Peek "+[0-9a-f]" or "+?" for a unicode-range, otherwise it's an ident.
		ch1, ch2 := s.read(), s.read()
		if ch1 == '+' && (isHexDigit(ch2) || ch2 == '?') {
			s.unread(1)
			return s.scanUnicodeRange(ch)
		}
		s.unread(2)
		return s.scanIdent()
	case isDigit(ch):
		return s.scanNumeric()
	case ch == '.':
		if next := s.read(); isDigit(next) {
			s.unread(1)
			return s.scanNumeric()
		}
		s.unread(1)
	case ch == '\\':
		if s.peekEscape() {
			return s.scanIdent()
		}
		s.report(diag.UnexpectedEscape, diag.SeverityError, s.Pos(), "unescaped \\")
	case isNameStart(ch):
		return s.scanIdent()
	}
	return token.Token{Kind: token.Char, Text: string(ch)}
}

var matchKinds = map[rune]token.Kind{
	'~': token.Includes,
	'|': token.DashMatch,
	'^': token.PrefixMatch,
	'$': token.SuffixMatch,
	'*': token.SubstringMatch,
}

// scanWhitespace consumes the current code point and all subsequent whitespace.
func (s *Scanner) scanWhitespace() token.Token {
	var buf strings.Builder
	_, _ = buf.WriteRune(s.curr())
	for {
		ch := s.read()
		if !isWhitespace(ch) {
			s.unread(1)
			break
		}
		_, _ = buf.WriteRune(ch)
	}
	return token.Token{Kind: token.Space, Text: buf.String()}
}

// scanComment consumes all characters up to "*/", inclusive.
// This function assumes that the initial "/*" have just been consumed.
func (s *Scanner) scanComment() token.Token {
	pos := s.Pos()
	var buf strings.Builder
	_, _ = buf.WriteString("/*")
	for {
		ch0 := s.read()
		if ch0 == eof {
			s.report(diag.UnterminatedComment, diag.SeverityFatal, pos, "unterminated comment")
			_, _ = buf.WriteString("*/")
			break
		}
		_, _ = buf.WriteRune(ch0)
		if ch0 == '*' {
			if ch1 := s.read(); ch1 == '/' {
				_, _ = buf.WriteRune(ch1)
				break
			}
			s.unread(1)
		}
	}
	return token.Token{Kind: token.Comment, Text: buf.String()}
}

// scanString consumes a quoted string, keeping the quotes.
//
// Hex escapes are decoded when the resulting character can appear literally
// inside the string; other escapes are kept as written. An unescaped newline
// ends the string early: the string is closed, the following whitespace is
// skipped, and scanning resumes after it.
func (s *Scanner) scanString() token.Token {
	ending := s.curr()
	var buf strings.Builder
	_, _ = buf.WriteRune(ending)
	for {
		ch := s.read()
		switch {
		case ch == eof:
			s.report(diag.UnterminatedString, diag.SeverityFatal, s.Pos(), "unterminated string")
			_, _ = buf.WriteRune(ending)
			return token.Token{Kind: token.String, Text: buf.String()}
		case ch == ending:
			_, _ = buf.WriteRune(ch)
			return token.Token{Kind: token.String, Text: buf.String()}
		case ch == '\n':
			s.report(diag.UnexpectedStringCharacter, diag.SeverityFatal, s.Pos(), "unescaped newline in string")
			for isWhitespace(s.read()) {
			}
			s.unread(1)
			_, _ = buf.WriteRune(ending)
			return token.Token{Kind: token.String, Text: buf.String()}
		case ch == '\\':
			next := s.read()
			if next == eof {
				continue
			} else if !isHexDigit(next) {
				// Line continuations and single-character escapes are kept.
				_, _ = buf.WriteRune(ch)
				_, _ = buf.WriteRune(next)
				continue
			}
			s.unread(1)
			r, raw := s.scanEscape()
			if isSafeInString(r, ending) {
				_, _ = buf.WriteRune(r)
			} else {
				_, _ = buf.WriteString(raw)
			}
		default:
			_, _ = buf.WriteRune(ch)
		}
	}
}

// scanHash consumes a hash token.
//
// This assumes the current token is a '#' code point.
// It will return a hash token if the next code points are a name or valid escape.
// It will return a structural character otherwise.
func (s *Scanner) scanHash() token.Token {
	if ch := s.read(); isName(ch) || s.peekEscape() {
		return token.Token{Kind: token.Hash, Text: "#" + s.scanName()}
	}
	s.unread(1)
	return token.Token{Kind: token.Char, Text: "#"}
}

// scanLessThan disambiguates "<!--", "<%" and a plain "<".
func (s *Scanner) scanLessThan() token.Token {
	if ch0 := s.read(); ch0 == '!' {
		if ch1 := s.read(); ch1 == '-' {
			if ch2 := s.read(); ch2 == '-' {
				return token.Token{Kind: token.CommentOpen, Text: "<!--"}
			}
			s.unread(1)
		}
		s.unread(1)
	} else if ch0 == '%' && s.AllowEmbeddedAspNetBlocks {
		return s.scanAspNetBlock()
	}
	s.unread(1)
	return token.Token{Kind: token.Char, Text: "<"}
}

// scanAspNetBlock consumes a raw "<% ... %>" block.
func (s *Scanner) scanAspNetBlock() token.Token {
	pos := s.Pos()
	var buf strings.Builder
	_, _ = buf.WriteString("<%")
	for {
		ch := s.read()
		if ch == eof {
			s.report(diag.UnexpectedEndOfFile, diag.SeverityFatal, pos, "unterminated embedded block")
			_, _ = buf.WriteString("%>")
			break
		}
		_, _ = buf.WriteRune(ch)
		if ch == '%' {
			if next := s.read(); next == '>' {
				_, _ = buf.WriteRune(next)
				break
			}
			s.unread(1)
		}
	}
	return token.Token{Kind: token.AspNetBlock, Text: buf.String()}
}

// scanImportant attempts to read "!important". Only the characters that
// spell it out are examined; on a mismatch they are returned to the stream.
func (s *Scanner) scanImportant() token.Token {
	const word = "important"
	for i := 0; i < len(word); i++ {
		if ch := s.read(); toLower(ch) != rune(word[i]) {
			s.unread(i + 1)
			return token.Token{Kind: token.Char, Text: "!"}
		}
	}
	if ch := s.read(); isName(ch) || ch == '\\' {
		s.unread(len(word) + 1)
		return token.Token{Kind: token.Char, Text: "!"}
	}
	s.unread(1)
	return token.Token{Kind: token.Important, Text: "!important"}
}

// scanNumeric consumes a number optionally followed by a percent sign or a
// unit. This assumes that the current code point is a digit or a full stop
// followed by a digit.
func (s *Scanner) scanNumeric() token.Token {
	s.unread(1)
	num := s.scanDigits()

	// Only consume a full stop if a digit follows it.
	if ch0 := s.read(); ch0 == '.' {
		if ch1 := s.read(); isDigit(ch1) {
			s.unread(1)
			num += "." + s.scanDigits()
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	if ch := s.read(); ch == '%' {
		return token.Token{Kind: token.Percentage, Text: num + "%"}
	} else if s.peekIdent() {
		unit := s.scanName()
		return token.Token{Kind: token.LookupUnit(unit), Text: num + unit}
	}
	s.unread(1)
	return token.Token{Kind: token.Number, Text: num}
}

// scanDigits consume a contiguous series of digits.
func (s *Scanner) scanDigits() string {
	var buf strings.Builder
	for {
		if ch := s.read(); isDigit(ch) {
			_, _ = buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}
	return buf.String()
}

// scanIdent consumes an ident-like token.
// This function can return an ident, function, not, progid, or url.
func (s *Scanner) scanIdent() token.Token {
	name := s.scanName()
	switch ch := s.read(); {
	case ch == '(':
		switch strings.ToLower(name) {
		case "url":
			return s.scanURL()
		case "not":
			return token.Token{Kind: token.Not, Text: name + "("}
		}
		return token.Token{Kind: token.Function, Text: name + "("}
	case ch == ':' && strings.EqualFold(name, "progid"):
		return token.Token{Kind: token.ProgID, Text: name + ":"}
	}
	s.unread(1)
	return token.Token{Kind: token.Ident, Text: name}
}

// scanName consumes contiguous name code points and escaped code points,
// starting with the current code point.
func (s *Scanner) scanName() string {
	var buf strings.Builder
	pos := s.Pos()
	underscore := false
	s.unread(1)
	for {
		if ch := s.read(); isName(ch) {
			underscore = underscore || ch == '_'
			_, _ = buf.WriteRune(ch)
		} else if s.peekEscape() {
			r, _ := s.scanEscape()
			_, _ = buf.WriteRune(r)
		} else {
			s.unread(1)
			break
		}
	}
	if underscore {
		s.report(diag.UnderscoreNotValid, diag.SeverityStyle, pos, fmt.Sprintf("underscore in %q is not valid in CSS1 or CSS2", buf.String()))
	}
	return buf.String()
}

// scanURL consumes the contents of a url( function.
// This function assumes that the "url(" has just been consumed.
// The token text is the normalized "url(...)" with surrounding whitespace removed.
func (s *Scanner) scanURL() token.Token {
	pos := s.Pos()
	s.skipWhitespace()

	var buf strings.Builder
	if ch := s.read(); ch == '"' || ch == '\'' {
		_, _ = buf.WriteString(s.scanString().Text)
	} else {
		s.unread(1)
		for {
			ch := s.read()
			if ch == ')' || ch == eof || isWhitespace(ch) {
				s.unread(1)
				break
			} else if ch == '\\' {
				// Escapes inside an unquoted url are kept as written.
				if next := s.read(); next != eof {
					_, _ = buf.WriteRune(ch)
					_, _ = buf.WriteRune(next)
				}
				continue
			}
			_, _ = buf.WriteRune(ch)
		}
	}
	s.skipWhitespace()

	if ch := s.read(); ch != ')' {
		s.unread(1)
		s.report(diag.ExpectedCloseParenthesis, diag.SeverityFatal, pos, "expected ) to close url")
	}
	return token.Token{Kind: token.URI, Text: "url(" + buf.String() + ")"}
}

// scanUnicodeRange consumes a unicode-range token. The "U" is current and
// the "+" has been consumed.
func (s *Scanner) scanUnicodeRange(u rune) token.Token {
	pos := s.Pos()
	var buf strings.Builder
	_, _ = buf.WriteRune(u)
	_, _ = buf.WriteRune('+')

	n := 0
	for {
		ch := s.read()
		if !isHexDigit(ch) && ch != '?' {
			s.unread(1)
			break
		}
		_, _ = buf.WriteRune(ch)
		n++
	}

	// The end of the range is only allowed if no wildcards were used.
	if !strings.Contains(buf.String(), "?") {
		ch1, ch2 := s.read(), s.read()
		if ch1 == '-' && isHexDigit(ch2) {
			s.unread(1)
			_, _ = buf.WriteRune('-')
			m := 0
			for {
				ch := s.read()
				if !isHexDigit(ch) {
					s.unread(1)
					break
				}
				_, _ = buf.WriteRune(ch)
				m++
			}
			if m > 6 {
				n = m
			}
		} else {
			s.unread(2)
		}
	}

	if n > 6 {
		s.report(diag.InvalidUnicodeRange, diag.SeverityError, pos, fmt.Sprintf("invalid unicode range %q", buf.String()))
	}
	return token.Token{Kind: token.UnicodeRange, Text: buf.String()}
}

// scanEscape consumes an escaped code point. The current code point is the
// backslash. It returns the decoded rune and the raw text that was consumed.
//
// High surrogates must be followed by an escaped low surrogate; the pair is
// combined into a single code point.
func (s *Scanner) scanEscape() (rune, string) {
	pos := s.Pos()
	r, raw, ok := s.scanHexEscape()
	if !ok {
		return r, raw
	}

	switch {
	case r >= 0xD800 && r <= 0xDBFF:
		// Look for the low surrogate without losing anything if it isn't there.
		if ch := s.read(); ch == '\\' {
			if next := s.read(); isHexDigit(next) {
				s.unread(1)
				low, lowRaw, _ := s.scanHexEscape()
				if low >= 0xDC00 && low <= 0xDFFF {
					return 0x10000 + (r-0xD800)<<10 + (low - 0xDC00), raw + lowRaw
				}
				s.unread(len([]rune(lowRaw)))
			} else {
				s.unread(2)
			}
		} else {
			s.unread(1)
		}
		s.report(diag.HighSurrogateNoLow, diag.SeverityError, pos, fmt.Sprintf("high surrogate %s is not followed by a low surrogate", strings.TrimSpace(raw)))
		return '\uFFFD', raw
	case r >= 0xDC00 && r <= 0xDFFF:
		s.report(diag.InvalidLowSurrogate, diag.SeverityError, pos, fmt.Sprintf("low surrogate %s without a high surrogate", strings.TrimSpace(raw)))
		return '\uFFFD', raw
	case r == 0 || r > 0x10FFFF:
		return '\uFFFD', raw
	}
	return r, raw
}

// scanHexEscape consumes a backslash and either 1-6 hex digits plus an
// optional whitespace terminator, or a single escaped code point.
// ok is false for single code point escapes.
func (s *Scanner) scanHexEscape() (r rune, raw string, ok bool) {
	ch := s.read()
	if ch == eof {
		return '\uFFFD', "\\", false
	} else if !isHexDigit(ch) {
		return ch, "\\" + string(ch), false
	}

	var buf strings.Builder
	_, _ = buf.WriteRune(ch)
	for i := 0; i < 5; i++ {
		if next := s.read(); isHexDigit(next) {
			_, _ = buf.WriteRune(next)
		} else {
			s.unread(1)
			break
		}
	}
	digits := buf.String()
	raw = "\\" + digits

	// A single whitespace character terminates the escape.
	if next := s.read(); isWhitespace(next) {
		raw += string(next)
	} else {
		s.unread(1)
	}

	v, _ := strconv.ParseInt(digits, 16, 32)
	return rune(v), raw, true
}

// skipWhitespace consumes whitespace code points.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.read()) {
	}
	s.unread(1)
}

// ReadExpression reads the raw source of an expression( argument up to the
// matching close parenthesis, which is consumed but not returned. Nested
// parentheses and quoted strings are tracked. ok is false if the input ends
// first.
func (s *Scanner) ReadExpression() (src string, ok bool) {
	var buf strings.Builder
	depth := 0
	var quote rune
	for {
		ch := s.read()
		switch {
		case ch == eof:
			return buf.String(), false
		case quote != 0:
			if ch == '\\' {
				_, _ = buf.WriteRune(ch)
				ch = s.read()
				if ch == eof {
					return buf.String(), false
				}
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth == 0 {
				return buf.String(), true
			}
			depth--
		}
		_, _ = buf.WriteRune(ch)
	}
}

// peekEscape checks if the current code point starts a valid escape.
func (s *Scanner) peekEscape() bool {
	// If the current code point is not a backslash then this is not an escape.
	if s.curr() != '\\' {
		return false
	}

	// If the next code point is a newline then this is not an escape.
	next := s.read()
	s.unread(1)
	return next != '\n' && next != eof
}

// peekIdent checks if the current code point starts an identifier.
// Both vendor prefixes ("-moz-") and custom properties ("--x") count.
func (s *Scanner) peekIdent() bool {
	switch ch := s.curr(); {
	case ch == '-':
		next := s.read()
		ok := isNameStart(next) || next == '-'
		if !ok && next == '\\' {
			ok = s.peekEscape()
		}
		s.unread(1)
		return ok
	case isNameStart(ch):
		return true
	case ch == '\\':
		return s.peekEscape()
	}
	return false
}

// read reads the next rune from the reader.
// This function will initially check for any characters that have been pushed
// back onto the lookahead buffer and return those.
func (s *Scanner) read() rune {
	// If we have runes on our internal lookahead buffer then return those.
	if s.bufn > 0 {
		s.bufi = ((s.bufi + 1) % len(s.buf))
		s.bufn--
		return s.buf[s.bufi]
	}

	// Otherwise read from the reader.
	// A newline belongs to the end of its own line.
	ch, _, err := s.rd.ReadRune()
	pos := s.Pos()
	if err != nil {
		ch = eof
	} else if s.curr() == '\n' {
		pos.Line++
		pos.Char = 1
	} else {
		pos.Char++
	}

	// Add to circular buffer.
	s.bufi = ((s.bufi + 1) % len(s.buf))
	s.buf[s.bufi] = ch
	s.bufpos[s.bufi] = pos
	return ch
}

// unread adds the previous n code points back onto the buffer.
func (s *Scanner) unread(n int) {
	if s.bufn+n >= len(s.buf) {
		panic("scanner: pushback exceeds lookahead buffer")
	}
	s.bufi = ((s.bufi + len(s.buf)*n - n) % len(s.buf))
	s.bufn += n
}

// curr reads the current code point.
func (s *Scanner) curr() rune {
	return s.buf[s.bufi]
}

// Pos reads the current position of the scanner.
func (s *Scanner) Pos() token.Pos {
	return s.bufpos[s.bufi]
}

func (s *Scanner) report(code diag.Code, sev diag.Severity, pos token.Pos, msg string) {
	s.reporter.Report(&diag.Diagnostic{Code: code, Severity: sev, Line: pos.Line, Column: pos.Char, Message: msg})
}
