package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benbjohnson/cssmin/color"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/token"
)

// Properties whose identifiers are names rather than colors. "font: 12px
// red" is a font family called red.
var nonColorProperties = map[string]bool{
	"font":                        true,
	"font-family":                 true,
	"content":                     true,
	"quotes":                      true,
	"animation":                   true,
	"animation-name":              true,
	"counter-increment":           true,
	"counter-reset":               true,
	"list-style":                  true,
	"list-style-type":             true,
	"transition":                  true,
	"transition-property":         true,
	"will-change":                 true,
	"grid-area":                   true,
	"grid-template-areas":         true,
	"font-feature-settings":       true,
	"font-variation-settings":     true,
	"-webkit-transition":          true,
	"-webkit-transition-property": true,
}

// foldsColors returns true if identifiers in the current declaration may be
// color names.
func (p *Parser) foldsColors() bool {
	return p.property != "" && !nonColorProperties[p.property] && !strings.HasPrefix(p.property, "--")
}

// appendValueIdent writes an identifier in value position, replacing color
// names with their shortest allowed form.
func (p *Parser) appendValueIdent(name string) {
	if p.foldsColors() {
		if s, ok := color.FoldName(strings.ToLower(name), p.Settings.ColorNames); ok {
			p.append(s)
			return
		}
	}
	p.appendIdent(name)
}

// appendHashValue writes a hash in value position. Three and six digit hex
// colors are folded; eight digit colors with alpha are only lowercased.
func (p *Parser) appendHashValue(text string) {
	hex := text[1:]
	if !isHex(hex) {
		p.appendName("#", hex)
		return
	}

	switch lower := strings.ToLower(text); len(hex) {
	case 3, 6:
		if p.foldsColors() {
			p.append(color.FoldHex(lower, p.Settings.ColorNames))
		} else {
			p.append(lower)
		}
	case 4, 8:
		p.append(lower)
	default:
		p.report(diag.InvalidColor, diag.SeverityWarning, "%s is not a valid color", text)
		p.appendName("#", hex)
	}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

// parseRGB folds "rgb(r, g, b)" into a hex color. The current token is the
// "rgb(" function.
//
// The source text is written unchanged if a comment appears among the
// arguments, unless comments are being dropped anyway. Arguments that are not
// three numbers or percentages are reported and echoed like any other
// unparsed input.
func (p *Parser) parseRGB() {
	var raw []token.Token
	p.capture = &raw
	p.next()

	var rgb [3]int
	comment, ok := false, true
	skip := func() {
		for p.tok.Kind == token.Space || p.tok.Kind == token.Comment {
			comment = comment || p.tok.Kind == token.Comment
			p.next()
		}
	}

	for i := 0; i < 3 && ok; i++ {
		skip()
		sign := 1.0
		if p.tok.Is("-") || p.tok.Is("+") {
			if p.tok.Text == "-" {
				sign = -1
			}
			p.next()
		}

		num, unit := splitNumber(p.tok.Text)
		v, err := strconv.ParseFloat(num, 64)
		switch {
		case err != nil:
			ok = false
			continue
		case p.tok.Kind == token.Number && unit == "":
			rgb[i] = clamp(sign * v)
		case p.tok.Kind == token.Percentage:
			rgb[i] = clamp(sign * v * 2.55)
		default:
			ok = false
			continue
		}
		p.next()
		skip()

		want := ","
		if i == 2 {
			want = ")"
		}
		if !p.tok.Is(want) {
			ok = false
			continue
		}
		p.next()
	}
	p.capture = nil

	switch {
	case !ok:
		p.report(diag.ExpectedRgbArgument, diag.SeverityError, "expected three numbers or three percentages in rgb()")
		for _, tok := range raw {
			p.echoToken(tok)
		}
		p.echoUntilClose()
	case comment && p.commentMode != CommentsNone:
		var buf strings.Builder
		for _, tok := range raw {
			buf.WriteString(tok.Text)
		}
		p.append(buf.String())
	default:
		hex := fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
		if p.foldsColors() {
			hex = color.FoldHex(hex, p.Settings.ColorNames)
		} else {
			hex = color.Shorten(hex)
		}
		p.append(hex)
	}
}

func clamp(v float64) int {
	return int(math.Max(0, math.Min(255, math.Round(v))))
}
