package parser

import (
	"strings"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
)

// parseRule parses "selector-list { declarations }".
func (p *Parser) parseRule() result {
	if !startsSimpleSelector(p.tok) {
		return notMatched
	}
	p.newStatement()

	if !p.parseSelectorList() {
		p.skipToEndOfStatement()
		return matched
	}
	p.skipSpace()

	if !p.tok.Is("{") {
		p.unexpected(diag.ExpectedOpenBrace, "{")
		p.skipToEndOfStatement()
		return matched
	}
	if p.quirk && p.Settings.MacSafariQuirks {
		p.append(" ")
	}
	p.parseDeclarationBlock(false)
	return matched
}

// startsSimpleSelector returns true if tok can begin a simple selector
// sequence.
func startsSimpleSelector(tok token.Token) bool {
	if isNumericClass(tok) {
		return true
	}
	switch tok.Kind {
	case token.Ident, token.Hash:
		return true
	case token.Char:
		switch tok.Text {
		case "*", ".", ":", "[", "|":
			return true
		}
	}
	return false
}

// isNumericClass returns true for a number such as ".5em" where a class
// selector was probably meant.
func isNumericClass(tok token.Token) bool {
	return tok.Kind.IsNumeric() && strings.HasPrefix(tok.Text, ".")
}

// startsTypeSelector returns true if tok can begin a type or universal
// selector.
func startsTypeSelector(tok token.Token) bool {
	return tok.Kind == token.Ident || tok.Is("*") || tok.Is("|")
}

// parseSelectorList parses "selector [, selector]*". It returns false if a
// selector is malformed; the error has been reported.
func (p *Parser) parseSelectorList() bool {
	for {
		if !p.parseSelector() {
			return false
		}
		p.skipSpace()
		if !p.tok.Is(",") {
			return true
		}
		p.append(",")
		p.next()
		p.skipSpace()
		if !startsSimpleSelector(p.tok) {
			p.unexpected(diag.ExpectedSelector, "selector")
			return false
		}
	}
}

// parseSelector parses simple selector sequences joined by combinators.
func (p *Parser) parseSelector() bool {
	if !p.parseSimpleSelectorSequence() {
		return false
	}
	for {
		space := p.skipWhitespace()

		switch {
		case p.tok.Is("+") || p.tok.Is(">") || p.tok.Is("~"):
			p.append(p.tok.Text)
			p.next()
			p.skipSpace()
			if !startsSimpleSelector(p.tok) {
				p.unexpected(diag.ExpectedSelector, "selector after combinator")
				return false
			}
		case startsTypeSelector(p.tok):
			// A comment between two type selectors separates them too.
			p.append(" ")
		case startsSimpleSelector(p.tok) && space:
			p.append(" ")
		default:
			return true
		}

		if !p.parseSimpleSelectorSequence() {
			return false
		}
	}
}

// parseSimpleSelectorSequence parses an optional type selector followed by
// any number of hash, class, attribute and pseudo selectors.
func (p *Parser) parseSimpleSelectorSequence() bool {
	p.quirk = false
	if startsTypeSelector(p.tok) {
		if !p.parseTypeSelector() {
			return false
		}
	}

	for {
		switch {
		case p.tok.Kind == token.Hash:
			p.quirk = false
			p.appendName("#", p.tok.Text[1:])
			p.next()
		case p.tok.Is("."):
			p.quirk = false
			p.append(".")
			p.next()
			if p.tok.Kind != token.Ident {
				p.unexpected(diag.ExpectedIdentifier, "class name")
				return false
			}
			p.appendIdent(p.tok.Text)
			p.next()
		case isNumericClass(p.tok):
			// Written as is; escaping the digit would make it a valid class.
			p.quirk = false
			p.report(diag.PossibleInvalidClassName, diag.SeverityWarning, "%s is not a valid class name", p.tok.Text)
			p.append(p.tok.Text)
			p.next()
		case p.tok.Is("["):
			p.quirk = false
			if !p.parseAttrib() {
				return false
			}
		case p.tok.Is(":"):
			if !p.parsePseudo() {
				return false
			}
		default:
			return true
		}
	}
}

// parseTypeSelector parses "[prefix|](name|*)".
func (p *Parser) parseTypeSelector() bool {
	if !p.tok.Is("|") {
		first := p.tok
		p.next()
		if !p.tok.Is("|") {
			p.appendElement(first)
			return true
		}
		if first.Kind == token.Ident {
			p.checkNamespace(first.Text)
		}
		p.appendElement(first)
	}

	p.append("|")
	p.next()
	if p.tok.Kind != token.Ident && !p.tok.Is("*") {
		p.unexpected(diag.ExpectedIdentifier, "element name")
		return false
	}
	p.appendElement(p.tok)
	p.next()
	return true
}

func (p *Parser) appendElement(tok token.Token) {
	if tok.Kind == token.Ident {
		p.appendIdent(tok.Text)
	} else {
		p.append(tok.Text)
	}
}

// parseAttrib parses "[ [prefix|]name [op value [i|s]] ]". Quoted values
// that are valid identifiers lose their quotes.
func (p *Parser) parseAttrib() bool {
	p.append("[")
	p.next()
	p.skipSpace()

	switch {
	case p.tok.Kind == token.Ident:
		name := p.tok
		p.next()
		if p.tok.Is("|") {
			p.checkNamespace(name.Text)
			p.appendIdent(name.Text)
			p.append("|")
			p.next()
			if p.tok.Kind != token.Ident {
				p.unexpected(diag.ExpectedIdentifier, "attribute name")
				return false
			}
			p.appendIdent(p.tok.Text)
			p.next()
		} else {
			p.appendIdent(name.Text)
		}
	case p.tok.Is("*") || p.tok.Is("|"):
		if p.tok.Is("*") {
			p.append("*")
			p.next()
		}
		if !p.tok.Is("|") {
			p.unexpected(diag.ExpectedIdentifier, "|")
			return false
		}
		p.append("|")
		p.next()
		if p.tok.Kind != token.Ident {
			p.unexpected(diag.ExpectedIdentifier, "attribute name")
			return false
		}
		p.appendIdent(p.tok.Text)
		p.next()
	default:
		p.unexpected(diag.ExpectedIdentifier, "attribute name")
		return false
	}
	p.skipSpace()

	if isAttribOperator(p.tok) {
		p.append(p.tok.Text)
		p.next()
		p.skipSpace()

		switch p.tok.Kind {
		case token.Ident:
			p.appendIdent(p.tok.Text)
		case token.String:
			if v := p.tok.Text[1 : len(p.tok.Text)-1]; isIdent(v) {
				p.append(v)
			} else {
				p.append(p.tok.Text)
			}
		default:
			p.unexpected(diag.ExpectedIdentifier, "attribute value")
			return false
		}
		p.next()
		p.skipSpace()

		// Case-sensitivity flag.
		if p.tok.Kind == token.Ident {
			p.append(" ")
			p.appendIdent(p.tok.Text)
			p.next()
			p.skipSpace()
		}
	}

	if !p.tok.Is("]") {
		p.unexpected(diag.ExpectedCloseBracket, "]")
		return false
	}
	p.append("]")
	p.next()
	return true
}

func isAttribOperator(tok token.Token) bool {
	switch tok.Kind {
	case token.Includes, token.DashMatch, token.PrefixMatch, token.SuffixMatch, token.SubstringMatch:
		return true
	}
	return tok.Is("=")
}

// parsePseudo parses ":name", "::name", ":func(args)" and ":not(selector)".
func (p *Parser) parsePseudo() bool {
	p.append(":")
	p.next()
	if p.tok.Is(":") {
		p.append(":")
		p.next()
	}

	switch p.tok.Kind {
	case token.Ident:
		name := strings.ToLower(p.tok.Text)
		p.quirk = name == "first-letter" || name == "first-line"
		p.appendIdent(p.tok.Text)
		p.next()
		return true

	case token.Not:
		p.quirk = false
		p.append("not(")
		p.next()
		p.skipSpace()
		if !startsSimpleSelector(p.tok) {
			p.unexpected(diag.ExpectedSelector, "selector")
			p.echoUntilClose()
			return true
		}
		if !p.parseSelectorList() {
			p.echoUntilClose()
			return true
		}
		p.skipSpace()
		if !p.tok.Is(")") {
			p.unexpected(diag.ExpectedCloseParenthesis, ")")
			p.echoUntilClose()
			return true
		}
		p.append(")")
		p.next()
		return true

	case token.Function:
		p.quirk = false
		p.appendIdent(strings.TrimSuffix(p.tok.Text, "("))
		p.append("(")
		p.next()
		p.skipSpace()
		p.echoUntilClose()
		return true
	}

	p.unexpected(diag.ExpectedIdentifier, "pseudo-class name")
	return false
}
