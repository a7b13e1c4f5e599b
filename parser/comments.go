package parser

import (
	"regexp"
	"strings"

	"github.com/benbjohnson/cssmin/diag"
)

// replacementComment matches "/*[id]*/" and "/*![id]*/".
var replacementComment = regexp.MustCompile(`^/\*!?\s*\[([-\w.]+)\]\s*\*/$`)

// comment handles a comment token according to the comment mode. Inside a
// declaration a value-replacement comment substitutes the next term.
func (p *Parser) comment(text string) {
	if m := replacementComment.FindStringSubmatch(text); m != nil && p.property != "" {
		id := m[1]
		if p.Settings.ValueReplacements != nil {
			if v, ok := p.Settings.ValueReplacements.Lookup(id); ok {
				p.replacement = &v
				return
			}
		}
		p.report(diag.ValueReplacementNotFound, diag.SeverityNotice, "no replacement value for %q", id)
		if p.commentMode != CommentsNone {
			p.appendComment("/*[" + id + "]*/")
		}
		return
	}

	switch p.commentMode {
	case CommentsNone:
	case CommentsAll:
		p.appendComment(text)
	default:
		if strings.HasPrefix(text, "/*!") {
			p.appendComment(text)
		}
	}
}

// appendComment writes a retained comment. A pending separator survives the
// comment so "a /*!x*/ b" keeps its meaning.
func (p *Parser) appendComment(text string) {
	if p.noOutput {
		return
	}
	p.flushSemicolon()
	pending := p.pendingSpace
	if p.pendingSpace && needsSpace(p.lastByte(), '/') {
		p.out.WriteByte(' ')
		pending = false
	}
	p.out.WriteString(text)
	p.pendingSpace, p.escapeSpace = pending, false
}

// Comment hacks recognized by CommentsHacks, applied in order. Each
// rewrites a comment that some browsers interpret specially into an
// important comment so it survives minification.
var commentHacks = []struct {
	re   *regexp.Regexp
	repl string
}{
	// Mac IE hack: a comment ending in a backslash.
	{regexp.MustCompile(`/\*([^*]|\*+[^*/])*\\\*+/`), `/*!\*/`},
	{regexp.MustCompile(`/\*/\*//\*/`), `/*!/*//*/`},
	{regexp.MustCompile(`/\*/\*/`), `/*!/*/`},
	{regexp.MustCompile(`/\*\*/`), `/*!*/`},
	{regexp.MustCompile(`/\*\s+\*/`), `/*! */`},
}

// rewriteCommentHacks turns known comment hacks into important comments.
func rewriteCommentHacks(src string) string {
	for _, h := range commentHacks {
		src = h.re.ReplaceAllLiteralString(src, h.repl)
	}
	return src
}
