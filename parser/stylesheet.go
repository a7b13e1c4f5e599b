package parser

import (
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
)

// parseStylesheet parses a complete style sheet:
//
//	[ @charset ] [ @import ]* [ @namespace ]* [ rule | at-rule ]*
func (p *Parser) parseStylesheet() {
	p.skipMarkers()
	if p.parseCharset() != notMatched {
		p.skipMarkers()
	}
	for p.parseImport() != notMatched {
		p.skipMarkers()
	}
	for p.parseNamespace() != notMatched {
		p.skipMarkers()
	}

	for p.tok.Kind != token.EOF {
		if p.parseStatement() == notMatched {
			p.report(diag.UnexpectedToken, diag.SeverityFatal, "unexpected token %q", p.tok.String())
			p.echo()
		}
		p.skipMarkers()
	}
}

// skipMarkers skips whitespace, comments and the HTML comment markers that
// may surround an embedded style sheet.
func (p *Parser) skipMarkers() {
	for {
		p.skipSpace()
		if p.tok.Kind != token.CommentOpen && p.tok.Kind != token.CommentClose {
			return
		}
		p.next()
	}
}

// parseStatement parses a top-level rule or at-rule.
func (p *Parser) parseStatement() result {
	switch p.tok.Kind {
	case token.MediaSym:
		return p.parseMedia()
	case token.PageSym:
		return p.parsePage()
	case token.FontFaceSym:
		return p.parseFontFace()
	case token.CharsetSym, token.ImportSym, token.NamespaceSym:
		p.report(diag.UnexpectedAtKeyword, diag.SeverityError, "%s is only allowed at the start of the style sheet", p.tok.Text)
		p.newStatement()
		p.skipToEndOfStatement()
		return matched
	case token.AspNetBlock:
		p.append(p.tok.Text)
		p.next()
		return matched
	}
	if p.tok.Kind.IsAtKeyword() {
		return p.parseAtRule()
	}
	return p.parseRule()
}

// newStatement starts a statement on its own line when pretty printing.
func (p *Parser) newStatement() {
	p.newline()
}

// parseCharset parses "@charset string;".
func (p *Parser) parseCharset() result {
	if p.tok.Kind != token.CharsetSym {
		return notMatched
	}
	p.append("@charset ")
	p.next()
	p.skipSpace()
	if p.tok.Kind != token.String {
		p.unexpected(diag.ExpectedCharset, "character set name")
		p.skipToEndOfStatement()
		return matched
	}
	p.append(p.tok.Text)
	p.next()
	p.skipSpace()
	p.expectSemicolon()
	return matched
}

// parseImport parses "@import (string|url) [media-query-list];".
func (p *Parser) parseImport() result {
	if p.tok.Kind != token.ImportSym {
		return notMatched
	}
	p.newStatement()
	p.append("@import")
	p.next()
	p.skipSpace()

	switch p.tok.Kind {
	case token.String:
		p.append(p.tok.Text)
	case token.URI:
		p.append(" " + p.tok.Text)
	default:
		p.unexpected(diag.ExpectedImport, "string or url()")
		p.skipToEndOfStatement()
		return matched
	}
	p.next()
	p.skipSpace()
	if !p.tok.Is(";") {
		p.append(" ")
		p.parseMediaQueryList()
	}
	p.expectSemicolon()
	return matched
}

// parseNamespace parses "@namespace [prefix] (string|url);" and records the
// prefix.
func (p *Parser) parseNamespace() result {
	if p.tok.Kind != token.NamespaceSym {
		return notMatched
	}
	p.newStatement()
	p.append("@namespace")
	p.next()
	p.skipSpace()

	prefix := ""
	if p.tok.Kind == token.Ident {
		prefix = p.tok.Text
		p.append(" ")
		p.appendIdent(prefix)
		p.next()
		p.skipSpace()
	}

	switch p.tok.Kind {
	case token.String:
		p.append(p.tok.Text)
	case token.URI:
		p.append(" " + p.tok.Text)
	default:
		p.unexpected(diag.ExpectedNamespace, "namespace string or url()")
		p.skipToEndOfStatement()
		return matched
	}
	p.next()
	p.skipSpace()
	p.declareNamespace(prefix)
	p.expectSemicolon()
	return matched
}

func (p *Parser) declareNamespace(prefix string) {
	if !p.nsIndex[prefix] {
		p.nsIndex[prefix] = true
		p.namespaces = append(p.namespaces, prefix)
	}
}

// checkNamespace reports a namespace prefix that was never declared.
func (p *Parser) checkNamespace(prefix string) {
	if !p.nsIndex[prefix] {
		p.report(diag.UndeclaredNamespace, diag.SeverityFatal, "namespace prefix %q is not declared", prefix)
	}
}

// expectSemicolon writes the ";" that ends an at-rule statement.
func (p *Parser) expectSemicolon() {
	if p.tok.Is(";") {
		p.append(";")
		p.next()
		return
	}
	p.unexpected(diag.ExpectedSemicolon, ";")
	p.skipToEndOfStatement()
}

// parseMediaQueryList parses a comma separated list of media queries.
func (p *Parser) parseMediaQueryList() {
	for {
		if !p.parseMediaQuery() {
			return
		}
		p.skipSpace()
		if !p.tok.Is(",") {
			return
		}
		p.append(",")
		p.next()
		p.skipSpace()
	}
}

// parseMediaQuery parses "[only|not] type [and (expr)]*" or
// "(expr) [and (expr)]*". It returns false if the query is malformed, in
// which case the rest of the statement has been echoed.
func (p *Parser) parseMediaQuery() bool {
	switch {
	case p.tok.Kind == token.Ident:
		lower := strings.ToLower(p.tok.Text)
		p.appendIdent(lower)
		p.next()
		if lower == "only" || lower == "not" {
			p.skipSpace()
			if p.tok.Kind == token.Ident {
				p.append(" ")
				p.appendIdent(strings.ToLower(p.tok.Text))
				p.next()
			} else if p.tok.Is("(") {
				p.append(" ")
				if !p.parseMediaExpression() {
					return false
				}
			}
		}
	case p.tok.Is("("):
		if !p.parseMediaExpression() {
			return false
		}
	default:
		p.unexpected(diag.ExpectedMediaQuery, "media query")
		p.skipToBlock()
		return false
	}

	for {
		p.skipSpace()
		if p.tok.Kind != token.Ident || !strings.EqualFold(p.tok.Text, "and") {
			return true
		}
		p.append(" and ")
		p.next()
		p.skipSpace()
		if !p.parseMediaExpression() {
			return false
		}
	}
}

// parseMediaExpression parses "( feature [: expr] )".
func (p *Parser) parseMediaExpression() bool {
	if !p.tok.Is("(") {
		p.unexpected(diag.ExpectedMediaQuery, "(")
		p.skipToBlock()
		return false
	}
	p.append("(")
	p.next()
	p.skipSpace()

	if p.tok.Kind != token.Ident {
		p.unexpected(diag.ExpectedIdentifier, "media feature")
		p.echoUntilClose()
		return true
	}
	p.appendIdent(strings.ToLower(p.tok.Text))
	p.next()
	p.skipSpace()

	if p.tok.Is(":") {
		p.append(":")
		p.next()
		p.skipSpace()
		if p.parseExpr() == notMatched {
			p.unexpected(diag.ExpectedExpression, "media feature value")
		}
		p.skipSpace()
	}

	if !p.tok.Is(")") {
		p.unexpected(diag.ExpectedCloseParenthesis, ")")
		p.echoUntilClose()
		return true
	}
	p.append(")")
	p.next()
	return true
}

// parseMedia parses "@media media-query-list { rule* }".
func (p *Parser) parseMedia() result {
	p.newStatement()
	p.append("@media")
	p.next()
	p.skipSpace()
	if !p.tok.Is("{") {
		p.append(" ")
		p.parseMediaQueryList()
		p.skipSpace()
	}
	if !p.tok.Is("{") {
		p.unexpected(diag.ExpectedOpenBrace, "{")
		p.skipToEndOfStatement()
		return matched
	}

	p.openBlock()
	for {
		p.skipMarkers()
		if p.tok.Is("}") || p.tok.Kind == token.EOF {
			break
		}
		if p.parseStatement() == notMatched {
			p.report(diag.UnexpectedToken, diag.SeverityFatal, "unexpected token %q", p.tok.String())
			p.echo()
		}
	}
	p.closeBlock()
	return matched
}

// parsePage parses "@page [name] [:pseudo] { declarations and margin boxes }".
func (p *Parser) parsePage() result {
	p.newStatement()
	p.append("@page")
	p.next()
	p.skipSpace()

	if p.tok.Kind == token.Ident {
		p.append(" ")
		p.appendIdent(p.tok.Text)
		p.next()
	}
	if p.tok.Is(":") {
		p.append(":")
		p.next()
		if p.tok.Kind != token.Ident {
			p.unexpected(diag.ExpectedIdentifier, "page pseudo-class")
			p.skipToEndOfStatement()
			return matched
		}
		p.appendIdent(strings.ToLower(p.tok.Text))
		p.next()
	}
	p.skipSpace()

	if !p.tok.Is("{") {
		p.unexpected(diag.ExpectedOpenBrace, "{")
		p.skipToEndOfStatement()
		return matched
	}
	p.parseDeclarationBlock(true)
	return matched
}

// parseMarginBox parses "@top-left { declarations }" inside @page.
func (p *Parser) parseMarginBox() {
	p.flushSemicolon()
	p.newline()
	p.append(strings.ToLower(p.tok.Text))
	p.next()
	p.skipSpace()
	if !p.tok.Is("{") {
		p.unexpected(diag.ExpectedOpenBrace, "{")
		p.skipToEndOfStatement()
		return
	}
	p.parseDeclarationBlock(false)
}

// parseFontFace parses "@font-face { declarations }".
func (p *Parser) parseFontFace() result {
	p.newStatement()
	p.append("@font-face")
	p.next()
	p.skipSpace()
	if !p.tok.Is("{") {
		p.unexpected(diag.ExpectedOpenBrace, "{")
		p.skipToEndOfStatement()
		return matched
	}
	p.parseDeclarationBlock(false)
	return matched
}

// parseAtRule echoes an at-rule the grammar has no production for, such as
// @keyframes or @supports. Vendor-prefixed at-rules are expected and are not
// reported.
func (p *Parser) parseAtRule() result {
	name := p.tok.Text
	if !strings.HasPrefix(name, "@-") {
		p.report(diag.UnexpectedAtKeyword, diag.SeverityStyle, "unknown at-rule %s", name)
	}
	p.newStatement()
	p.skipToEndOfStatement()
	return matched
}

// openBlock writes "{" and enters a block.
func (p *Parser) openBlock() {
	p.append(p.pretty(" ") + "{")
	p.next()
	p.indent++
}

// closeBlock leaves a block, writing its "}". The current token must be the
// closing brace or the end of the input.
func (p *Parser) closeBlock() {
	switch {
	case p.tok.Kind == token.EOF:
		p.unexpected(diag.ExpectedCloseBrace, "}")
	case !p.tok.Is("}"):
		p.fail("block closed at %q", p.tok.String())
	}

	if !p.Settings.TermSemicolons {
		p.needSemicolon = false
	}
	p.flushSemicolon()
	p.indent--
	p.newline()
	p.append("}")
	if p.tok.Kind != token.EOF {
		p.next()
	}
}
