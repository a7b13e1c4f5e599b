// Package parser implements a minifying CSS parser.
//
// Parsing and printing are fused: productions write the minified form of
// what they recognize directly to the output as they go. Nothing is ever
// silently discarded. Input that does not fit the grammar is reported and
// then echoed with its whitespace collapsed, so the output always carries
// everything the author wrote.
package parser

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/scanner"
	"github.com/benbjohnson/cssmin/token"
)

// result is the outcome of a production.
type result int

const (
	// notMatched means the production did not recognize the current token
	// and consumed nothing.
	notMatched result = iota

	// matched means the production consumed input and produced output.
	matched

	// matchedEmpty means the production consumed input that minified away.
	matchedEmpty
)

// InternalError is returned by Parse when the parser detects a violation of
// its own invariants. It never describes a problem with the input.
type InternalError struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted error message.
func (e *InternalError) Error() string {
	return fmt.Sprintf("internal parser error at %d:%d: %s", e.Pos.Line, e.Pos.Char, e.Message)
}

// Parser minifies style sheets. A Parser may be reused for several inputs
// but is not safe for concurrent use.
type Parser struct {
	Settings Settings

	reporter diag.Reporter
	s        *scanner.Scanner
	tok      token.Token
	peeked   *token.Token

	// capture, when set, receives every consumed token.
	capture *[]token.Token

	out         strings.Builder
	indent      int
	commentMode CommentMode

	// Output state.
	noOutput      bool    // suppress all writes
	pendingSpace  bool    // whitespace was echoed and may be needed
	escapeSpace   bool    // output ends in a hex escape
	needSemicolon bool    // last declaration is unterminated
	replacement   *string // value substituted for the next term

	property string // lowercase name of the declaration being parsed
	quirk    bool   // last simple selector was :first-letter or :first-line
	inMath   int    // calc() nesting depth

	namespaces []string
	nsIndex    map[string]bool
}

// New returns a Parser with the given settings. Diagnostics are sent to r,
// which may be nil.
func New(settings Settings, r diag.Reporter) *Parser {
	if r == nil {
		r = diag.Discard
	}
	return &Parser{Settings: settings, reporter: r}
}

// Parse minifies a complete style sheet.
func (p *Parser) Parse(src string) (out string, err error) {
	defer p.recover(&err)
	p.reset(src)
	p.parseStylesheet()
	return p.out.String(), nil
}

// ParseDeclarations minifies a bare declaration list, such as the contents
// of an HTML style attribute.
func (p *Parser) ParseDeclarations(src string) (out string, err error) {
	defer p.recover(&err)
	p.reset(src)
	p.parseDeclarationList(false, false)
	if p.Settings.TermSemicolons && p.needSemicolon {
		p.flushSemicolon()
	}
	return p.out.String(), nil
}

// recover turns an internal invariant panic into an error. Any other panic
// is propagated.
func (p *Parser) recover(err *error) {
	if r := recover(); r != nil {
		e, ok := r.(*InternalError)
		if !ok {
			panic(r)
		}
		*err = e
	}
}

// fail aborts the parse with an InternalError.
func (p *Parser) fail(format string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...), Pos: p.tok.Pos})
}

func (p *Parser) reset(src string) {
	p.commentMode = p.Settings.CommentMode
	if p.commentMode == CommentsHacks {
		src = rewriteCommentHacks(src)
		p.commentMode = CommentsImportant
	}

	p.s = scanner.NewString(src, p.reporter)
	p.s.AllowEmbeddedAspNetBlocks = p.Settings.AllowEmbeddedAspNetBlocks
	p.peeked, p.capture = nil, nil
	p.out.Reset()
	p.indent = 0
	p.noOutput, p.pendingSpace, p.escapeSpace, p.needSemicolon = false, false, false, false
	p.replacement = nil
	p.property, p.quirk, p.inMath = "", false, 0
	p.namespaces, p.nsIndex = nil, make(map[string]bool)

	p.tok = p.s.Scan()
}

// next consumes the current token and returns the one after it.
func (p *Parser) next() token.Token {
	if p.capture != nil {
		*p.capture = append(*p.capture, p.tok)
	}
	if p.peeked != nil {
		p.tok, p.peeked = *p.peeked, nil
	} else {
		p.tok = p.s.Scan()
	}
	return p.tok
}

// peek returns the token after the current one without consuming anything.
func (p *Parser) peek() token.Token {
	if p.peeked == nil {
		tok := p.s.Scan()
		p.peeked = &tok
	}
	return *p.peeked
}

// skipSpace consumes whitespace and comments. Retained comments are written
// to the output. It returns true if any whitespace or comment was skipped.
func (p *Parser) skipSpace() bool {
	skipped := false
	for {
		switch p.tok.Kind {
		case token.Space:
		case token.Comment:
			p.comment(p.tok.Text)
		default:
			return skipped
		}
		skipped = true
		p.next()
	}
}

// skipWhitespace is like skipSpace but only reports real whitespace.
// Comments are still consumed.
func (p *Parser) skipWhitespace() bool {
	space := false
	for {
		switch p.tok.Kind {
		case token.Space:
			space = true
		case token.Comment:
			p.comment(p.tok.Text)
		default:
			return space
		}
		p.next()
	}
}

func (p *Parser) report(code diag.Code, sev diag.Severity, format string, args ...interface{}) {
	p.reportAt(p.tok.Pos, code, sev, format, args...)
}

func (p *Parser) reportAt(pos token.Pos, code diag.Code, sev diag.Severity, format string, args ...interface{}) {
	p.reporter.Report(&diag.Diagnostic{
		Code:     code,
		Severity: sev,
		Line:     pos.Line,
		Column:   pos.Char,
		Message:  fmt.Sprintf(format, args...),
	})
}

// unexpected reports the current token as out of place.
func (p *Parser) unexpected(code diag.Code, want string) {
	if p.tok.Kind == token.EOF {
		p.report(diag.UnexpectedEndOfFile, diag.SeverityFatal, "unexpected end of file, expected %s", want)
		return
	}
	p.report(code, diag.SeverityFatal, "expected %s, found %q", want, p.tok.String())
}

// append writes s to the output. Every write goes through here so that
// pending separators are resolved in one place.
func (p *Parser) append(s string) {
	if p.noOutput || s == "" {
		return
	}

	switch {
	case p.needSemicolon:
		p.flushSemicolon()
	case p.escapeSpace && (isHexDigit(s[0]) || isSpace(s[0])):
		p.out.WriteByte(' ')
	case p.pendingSpace && needsSpace(p.lastByte(), s[0]):
		p.out.WriteByte(' ')
	}
	p.pendingSpace, p.escapeSpace = false, false
	p.out.WriteString(s)
}

// appendIdent writes an identifier, escaping what cannot appear literally.
func (p *Parser) appendIdent(name string) {
	s, hexEnd := escapeIdent(name, true)
	p.append(s)
	if !p.noOutput {
		p.escapeSpace = hexEnd
	}
}

// appendName writes prefix followed by the escaped name of a hash, at-keyword
// or unit.
func (p *Parser) appendName(prefix, name string) {
	s, hexEnd := escapeIdent(name, false)
	p.append(prefix + s)
	if !p.noOutput {
		p.escapeSpace = hexEnd
	}
}

// flushSemicolon terminates the previous declaration.
func (p *Parser) flushSemicolon() {
	if !p.needSemicolon {
		return
	}
	p.needSemicolon = false
	if p.noOutput {
		return
	}
	p.out.WriteByte(';')
	p.pendingSpace, p.escapeSpace = false, false
}

// newline starts a new indented line when pretty printing.
func (p *Parser) newline() {
	if p.Settings.OutputMode != MultipleLines || p.noOutput || p.out.Len() == 0 {
		return
	}
	p.out.WriteByte('\n')
	if n := p.indent * p.Settings.IndentSize; n > 0 {
		p.out.WriteString(strings.Repeat(" ", n))
	}
	p.pendingSpace, p.escapeSpace = false, false
}

// pretty returns s when pretty printing and "" otherwise.
func (p *Parser) pretty(s string) string {
	if p.Settings.OutputMode == MultipleLines {
		return s
	}
	return ""
}

func (p *Parser) lastByte() byte {
	s := p.out.String()
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// needsSpace returns true if collapsed whitespace between prev and next must
// be kept as a single space.
func needsSpace(prev, next byte) bool {
	if prev == 0 || isSpace(prev) {
		return false
	}
	return strings.IndexByte("{};,(>", prev) < 0 && strings.IndexByte("{};,)>", next) < 0
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// echo writes the current token with its whitespace collapsed and advances.
func (p *Parser) echo() {
	if p.tok.Kind == token.EOF {
		return
	}
	p.echoToken(p.tok)
	p.next()
}

// echoToken writes tok the way echo does without advancing.
func (p *Parser) echoToken(tok token.Token) {
	switch {
	case tok.Kind == token.Space:
		p.pendingSpace = true
	case tok.Kind == token.Comment:
		p.comment(tok.Text)
	case tok.Kind == token.Ident:
		p.appendIdent(tok.Text)
	case tok.Kind == token.Hash:
		p.appendName("#", tok.Text[1:])
	case tok.Kind == token.Function, tok.Kind == token.Not:
		p.appendIdent(strings.TrimSuffix(tok.Text, "("))
		p.append("(")
	case tok.Kind.IsAtKeyword():
		p.appendName("@", tok.Text[1:])
	case tok.Kind.IsNumeric():
		num, unit := splitNumber(tok.Text)
		p.append(num)
		if unit != "" && unit != "%" {
			p.appendName("", unit)
		} else {
			p.append(unit)
		}
	default:
		p.append(tok.Text)
	}
}

func isOpen(tok token.Token) bool {
	switch tok.Kind {
	case token.Function, token.Not:
		return true
	case token.Char:
		return tok.Text == "(" || tok.Text == "[" || tok.Text == "{"
	}
	return false
}

func isClose(tok token.Token) bool {
	return tok.Kind == token.Char && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}")
}

// skipToEndOfStatement echoes everything up to and including the next ";"
// or balanced block at nesting level zero. An unbalanced "}" is left for the
// enclosing block.
func (p *Parser) skipToEndOfStatement() {
	depth := 0
	for {
		switch {
		case p.tok.Kind == token.EOF:
			return
		case depth == 0 && p.tok.Is(";"):
			p.echo()
			return
		case depth == 0 && p.tok.Is("}"):
			return
		case isOpen(p.tok):
			depth++
		case isClose(p.tok) && depth > 0:
			depth--
			if depth == 0 && p.tok.Is("}") {
				p.echo()
				return
			}
		}
		p.echo()
	}
}

// skipToEndOfDeclaration echoes everything up to, but not including, the
// next ";" or "}" at nesting level zero.
func (p *Parser) skipToEndOfDeclaration() { p.skipUntil(";}") }

// skipToBlock echoes everything up to, but not including, the next "{",
// ";" or "}" at nesting level zero.
func (p *Parser) skipToBlock() { p.skipUntil("{;}") }

func (p *Parser) skipUntil(stops string) {
	depth := 0
	for {
		switch {
		case p.tok.Kind == token.EOF:
			return
		case depth == 0 && p.tok.Kind == token.Char && len(p.tok.Text) == 1 && strings.Contains(stops, p.tok.Text):
			return
		case isOpen(p.tok):
			depth++
		case isClose(p.tok) && depth > 0:
			depth--
		}
		p.echo()
	}
}

// echoUntilClose echoes everything up to and including the ")" that closes
// the function or parenthesis the parser is currently inside.
func (p *Parser) echoUntilClose() {
	depth := 0
	for {
		switch {
		case p.tok.Kind == token.EOF:
			p.unexpected(diag.ExpectedCloseParenthesis, ")")
			return
		case depth == 0 && p.tok.Is(")"):
			p.echo()
			return
		case depth == 0 && (p.tok.Is(";") || p.tok.Is("}")):
			p.unexpected(diag.ExpectedCloseParenthesis, ")")
			return
		case isOpen(p.tok):
			depth++
		case isClose(p.tok) && depth > 0:
			depth--
		}
		p.echo()
	}
}
