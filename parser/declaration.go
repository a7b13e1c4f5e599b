package parser

import (
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
	"github.com/tdewolff/parse/v2"
)

// parseDeclarationBlock parses "{ declarations }". The current token is the
// opening brace.
func (p *Parser) parseDeclarationBlock(marginBoxes bool) {
	p.openBlock()
	p.parseDeclarationList(true, marginBoxes)
	p.closeBlock()
}

// parseDeclarationList parses declarations separated by semicolons. Inside a
// block it stops at the closing brace; otherwise it runs to the end of the
// input and a stray "}" is reported and echoed.
func (p *Parser) parseDeclarationList(inBlock, marginBoxes bool) {
	for {
		p.skipSpace()
		switch {
		case p.tok.Kind == token.EOF:
			return
		case p.tok.Is("}"):
			if inBlock {
				return
			}
			p.report(diag.UnexpectedToken, diag.SeverityFatal, "unexpected token %q", p.tok.String())
			p.echo()
			continue
		case p.tok.Is(";"):
			p.next()
			continue
		case marginBoxes && p.tok.Kind.IsMarginBox():
			p.parseMarginBox()
			continue
		case p.tok.Kind == token.AspNetBlock:
			p.append(p.tok.Text)
			p.next()
			continue
		}

		if p.parseDeclaration() == notMatched {
			p.unexpected(diag.ExpectedIdentifier, "property name")
			p.flushSemicolon()
			p.newline()
			p.skipToEndOfDeclaration()
			p.needSemicolon = true
		}
	}
}

// parseDeclaration parses "[*]property : expr [!important]".
//
// A declaration that starts well but goes wrong is reported and the rest of
// it is echoed; it still counts as matched.
func (p *Parser) parseDeclaration() result {
	hack := ""
	if p.tok.Is("*") {
		if p.peek().Kind != token.Ident {
			return notMatched
		}
		p.report(diag.HackGeneratesInvalidCSS, diag.SeverityStyle, "the * property hack generates invalid CSS")
		hack = "*"
		p.next()
	}
	if p.tok.Kind != token.Ident {
		return notMatched
	}

	p.flushSemicolon()
	p.newline()
	defer p.endDeclaration()

	p.property = strings.ToLower(p.tok.Text)
	p.append(hack)
	p.appendIdent(p.tok.Text)
	p.next()

	if space := p.skipSpace(); !p.tok.Is(":") {
		p.unexpected(diag.ExpectedColon, ":")
		p.pendingSpace = space
		p.skipToEndOfDeclaration()
		return matched
	}
	p.append(":" + p.pretty(" "))
	p.next()
	p.skipSpace()

	// Custom property values are arbitrary token streams.
	if strings.HasPrefix(p.property, "--") {
		p.skipToEndOfDeclaration()
		return matched
	}

	if p.parseExpr() == notMatched {
		p.unexpected(diag.ExpectedExpression, "value")
		p.skipToEndOfDeclaration()
		return matched
	}
	space := p.skipSpace()

	if p.parsePrio() == notMatched || !p.atEndOfDeclaration() {
		p.unexpected(diag.ExpectedSemicolon, "; or }")
		p.pendingSpace = space
		p.skipToEndOfDeclaration()
	}
	return matched
}

// endDeclaration resets the per-declaration state. The declaration is left
// unterminated until something follows it.
func (p *Parser) endDeclaration() {
	p.property = ""
	p.replacement = nil
	p.noOutput = false
	p.needSemicolon = true
}

func (p *Parser) atEndOfDeclaration() bool {
	return p.tok.Is(";") || p.tok.Is("}") || p.tok.Kind == token.EOF
}

// parsePrio parses an optional "!important". It returns notMatched only if a
// "!" is not followed by "important", in which case the "!" has been written.
func (p *Parser) parsePrio() result {
	switch {
	case p.tok.Kind == token.Important:
	case p.tok.Is("!"):
		p.next()
		p.skipSpace()
		if p.tok.Kind != token.Ident || !parse.EqualFold([]byte(p.tok.Text), []byte("important")) {
			p.append("!")
			return notMatched
		}
	default:
		return matchedEmpty
	}
	p.append(p.pretty(" ") + "!important")
	p.next()
	p.skipSpace()
	return matched
}

// parseExpr parses "term [operator? term]*".
func (p *Parser) parseExpr() result {
	if p.parseTerm() == notMatched {
		return notMatched
	}

	for {
		space := p.skipSpace()

		switch {
		case p.tok.Is(",") || p.tok.Is("/") || p.tok.Is("="):
			p.append(p.tok.Text)
			p.next()
			p.skipSpace()
		case p.tok.Is("*"):
			p.append("*")
			p.next()
			p.skipSpace()
		case (p.tok.Is("+") || p.tok.Is("-")) && space && p.peek().Kind == token.Space:
			// Binary operators inside calc() need their surrounding spaces.
			p.append(" " + p.tok.Text + " ")
			p.next()
			p.skipSpace()
		case startsTerm(p.tok):
			if space {
				p.append(" ")
			}
		default:
			return matched
		}

		if p.parseTerm() == notMatched {
			p.unexpected(diag.ExpectedExpression, "value")
			return matched
		}
	}
}

// startsTerm returns true if tok can begin a term.
func startsTerm(tok token.Token) bool {
	switch tok.Kind {
	case token.String, token.Ident, token.URI, token.UnicodeRange, token.Hash,
		token.Function, token.ProgID, token.AspNetBlock:
		return true
	case token.Char:
		return tok.Text == "-" || tok.Text == "+"
	}
	return tok.Kind.IsNumeric()
}

// parseTerm parses a single value.
func (p *Parser) parseTerm() result {
	if !startsTerm(p.tok) {
		return notMatched
	}

	// A value-replacement comment swaps this term for its value.
	if p.replacement != nil {
		p.append(*p.replacement)
		p.replacement = nil
		p.noOutput = true
		defer func() { p.noOutput = false }()
	}

	switch tok := p.tok; {
	case tok.Kind.IsNumeric():
		p.appendNumber("", tok)
		p.next()
	case tok.Is("-") || tok.Is("+"):
		sign := tok.Text
		p.next()
		switch {
		case p.tok.Kind.IsNumeric():
			p.appendNumber(sign, p.tok)
			p.next()
		case p.tok.Kind == token.Function:
			p.append(sign)
			p.parseFunction()
		default:
			p.append(sign)
			p.unexpected(diag.ExpectedExpression, "number")
		}
	case tok.Kind == token.Ident:
		p.appendValueIdent(tok.Text)
		p.next()
	case tok.Kind == token.Hash:
		p.appendHashValue(tok.Text)
		p.next()
	case tok.Kind == token.Function:
		p.parseFunction()
	case tok.Kind == token.ProgID:
		p.parseProgID()
	default:
		// Strings, urls, unicode ranges and embedded blocks.
		p.append(tok.Text)
		p.next()
	}
	return matched
}

// mathFunctions are the functions whose arguments keep the units of zero.
var mathFunctions = map[string]bool{
	"calc": true, "-webkit-calc": true, "-moz-calc": true,
	"min": true, "max": true, "clamp": true,
}

// parseFunction parses "name( expr )". rgb() and expression() are handed to
// their own productions.
func (p *Parser) parseFunction() {
	name := strings.TrimSuffix(p.tok.Text, "(")
	switch b := []byte(name); {
	case parse.EqualFold(b, []byte("rgb")):
		p.parseRGB()
		return
	case parse.EqualFold(b, []byte("expression")):
		p.parseExpression()
		return
	}

	p.appendIdent(name)
	p.append("(")
	p.next()
	p.skipSpace()

	if mathFunctions[strings.ToLower(name)] {
		p.inMath++
		defer func() { p.inMath-- }()
	}

	if !p.tok.Is(")") && p.parseExpr() == notMatched {
		p.unexpected(diag.ExpectedExpression, "function argument")
		p.echoUntilClose()
		return
	}
	p.skipSpace()
	if !p.tok.Is(")") {
		p.unexpected(diag.ExpectedCloseParenthesis, ")")
		p.echoUntilClose()
		return
	}
	p.append(")")
	p.next()
}

// parseExpression handles the legacy "expression( script )" value. The
// script is read raw and minified by the configured ScriptMinifier. The
// current token is the "expression(" function.
func (p *Parser) parseExpression() {
	if p.peeked != nil {
		p.fail("lookahead pending at expression()")
	}
	name := p.tok.Text
	pos := p.tok.Pos

	src, ok := p.s.ReadExpression()
	if !ok {
		p.reportAt(pos, diag.UnexpectedEndOfFile, diag.SeverityFatal, "unterminated expression()")
	}

	out := src
	if p.Settings.MinifyExpressions && p.Settings.ScriptMinifier != nil {
		minified, err := p.Settings.ScriptMinifier.MinifyScript(src, "expression")
		if err != nil {
			p.reportAt(pos, diag.ScriptMinification, diag.SeverityWarning, "expression() not minified: %s", err)
		} else {
			out = minified
		}
	}
	p.append(name + out + ")")
	p.next()
}

// parseProgID parses a legacy Internet Explorer filter:
//
//	progid:DXImageTransform.Microsoft.Alpha(opacity=80)
//
// The arguments are echoed with their whitespace collapsed.
func (p *Parser) parseProgID() {
	p.append(p.tok.Text)
	p.next()

	for {
		switch p.tok.Kind {
		case token.Ident:
			p.appendIdent(p.tok.Text)
			p.next()
			if p.tok.Is(".") {
				p.append(".")
				p.next()
				continue
			}
			return
		case token.Function:
			p.appendIdent(strings.TrimSuffix(p.tok.Text, "("))
			p.append("(")
			p.next()
			p.skipSpace()
			p.echoUntilClose()
			return
		}
		p.unexpected(diag.ExpectedProgID, "filter name")
		return
	}
}
