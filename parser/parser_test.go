package parser_test

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/benbjohnson/cssmin/color"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/parser"
	"github.com/google/go-cmp/cmp"
)

// testiter sets the table test iteration to run in isolation.
var testiter = flag.Int("test.iter", -1, "table test number")

// scriptMinifierFunc adapts a function to parser.ScriptMinifier.
type scriptMinifierFunc func(src, context string) (string, error)

func (f scriptMinifierFunc) MinifyScript(src, context string) (string, error) { return f(src, context) }

// stripSpaces is a stand-in script minifier that removes all spaces.
var stripSpaces = scriptMinifierFunc(func(src, context string) (string, error) {
	return strings.ReplaceAll(src, " ", ""), nil
})

// settings returns the default settings modified by fn.
func settings(fn func(*parser.Settings)) parser.Settings {
	s := parser.DefaultSettings()
	s.ScriptMinifier = stripSpaces
	if fn != nil {
		fn(&s)
	}
	return s
}

// Ensure that style sheets are minified into the expected output.
func TestParser_Parse(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		fn  func(*parser.Settings)
	}{
		// Whitespace and semicolons.
		{s: `a { color : red ; }`, out: `a{color:red}`},
		{s: `a{color:red;margin:0;}`, out: `a{color:red;margin:0}`},
		{s: `a{;;color:red;;}`, out: `a{color:red}`},
		{s: `a{}`, out: `a{}`},
		{s: "a ,\n b > c + d ~ e  f{x:y}", out: `a,b>c+d~e f{x:y}`},
		{s: `<!-- a{b:c} -->`, out: `a{b:c}`},

		// Numbers.
		{s: `a{margin:0px 0.50em -0 +1.5px}`, out: `a{margin:0 .5em 0 +1.5px}`},
		{s: `a{width:0%;transition:0s}`, out: `a{width:0%;transition:0s}`},
		{s: `a{line-height:1.0;z-index:010}`, out: `a{line-height:1;z-index:10}`},
		{s: `a{width:calc(100% - 0px)}`, out: `a{width:calc(100% - 0px)}`},
		{s: `a{margin:-5px}`, out: `a{margin:-5px}`},

		// Colors.
		{s: `a{color:#FF0000;background:WHITE}`, out: `a{color:#f00;background:#fff}`},
		{s: `a{color:lightgoldenrodyellow}`, out: `a{color:#fafad2}`},
		{s: `a{color:tan;background:navy}`, out: `a{color:tan;background:navy}`},
		{s: `a{color:#808080}`, out: `a{color:#808080}`},
		{s: `a{color:#808080}`, out: `a{color:gray}`, fn: func(s *parser.Settings) { s.ColorNames = color.Major }},
		{s: `a{color:red}`, out: `a{color:#f00}`, fn: func(s *parser.Settings) { s.ColorNames = color.Hex }},
		{s: `a{font:12px White}`, out: `a{font:12px White}`, fn: func(s *parser.Settings) { s.ColorNames = color.Hex }},
		{s: `a{color:#AABBCCDD}`, out: `a{color:#aabbccdd}`},
		{s: `a{color:rgb(255, 0, 0)}`, out: `a{color:#f00}`},
		{s: `a{color:rgb(100%,100%,100%)}`, out: `a{color:#fff}`},
		{s: `a{color:rgb(300,-1,0)}`, out: `a{color:#f00}`},
		{s: `a{color:rgb(255,/*!x*/0,0)}`, out: `a{color:rgb(255,/*!x*/0,0)}`},
		{s: `a{color:rgb(255,/*!x*/0,0)}`, out: `a{color:#f00}`, fn: func(s *parser.Settings) { s.CommentMode = parser.CommentsNone }},

		// Comments.
		{s: `/* c */a{color:red}/*! keep */`, out: `a{color:red}/*! keep */`},
		{s: `a{color:red;/*! x */margin:0}`, out: `a{color:red;/*! x */margin:0}`},
		{s: `/*! keep */a{b:c}`, out: `a{b:c}`, fn: func(s *parser.Settings) { s.CommentMode = parser.CommentsNone }},
		{s: `/* c */a{b:c}`, out: `/* c */a{b:c}`, fn: func(s *parser.Settings) { s.CommentMode = parser.CommentsAll }},
		{s: `a{b:c}/**/`, out: `a{b:c}/*!*/`, fn: func(s *parser.Settings) { s.CommentMode = parser.CommentsHacks }},

		// Value replacement.
		{s: `a{color:/*[brand]*/red}`, out: `a{color:#123456}`, fn: func(s *parser.Settings) {
			s.ValueReplacements = parser.Replacements{"brand": "#123456"}
		}},
		{s: `a{color:/*![brand]*/red}`, out: `a{color:#123456}`, fn: func(s *parser.Settings) {
			s.ValueReplacements = parser.Replacements{"brand": "#123456"}
		}},
		{s: `a{color:/*[x]*/red}`, out: `a{color:/*[x]*/red}`},

		// Selectors.
		{s: `.a\:b{c:d}`, out: `.a\3a b{c:d}`},
		{s: `a[href="x"]{b:c}`, out: `a[href=x]{b:c}`},
		{s: `a[title="a b"]{}`, out: `a[title="a b"]{}`},
		{s: `p:first-letter{color:red}`, out: `p:first-letter {color:red}`},
		{s: `p:first-letter{color:red}`, out: `p:first-letter{color:red}`, fn: func(s *parser.Settings) { s.MacSafariQuirks = false }},
		{s: `a:not( .b ){c:d}`, out: `a:not(.b){c:d}`},
		{s: `li:nth-child( 2n + 1 ){c:d}`, out: `li:nth-child(2n + 1){c:d}`},
		{s: `@namespace svg url(http://www.w3.org/2000/svg);svg|a{b:c}`, out: `@namespace svg url(http://www.w3.org/2000/svg);svg|a{b:c}`},

		// Declarations.
		{s: `a{color:red ! IMPORTANT}`, out: `a{color:red!important}`},
		{s: `a{*zoom:1}`, out: `a{*zoom:1}`},
		{s: `a .5em, b{c:d}`, out: `a .5em,b{c:d}`},
		{s: `a{--main-color:  #FFF  }`, out: `a{--main-color:#FFF}`},
		{s: `a{font:12px/1.5 Arial,sans-serif}`, out: `a{font:12px/1.5 Arial,sans-serif}`},
		{s: `a{filter:progid:DXImageTransform.Microsoft.Alpha( opacity=80 )}`, out: `a{filter:progid:DXImageTransform.Microsoft.Alpha(opacity=80)}`},
		{s: `a{width:expression(document.body.clientWidth > 800 ? "800px" : "auto")}`, out: `a{width:expression(document.body.clientWidth>800?"800px":"auto")}`},
		{s: `a{width:expression(a + b)}`, out: `a{width:expression(a + b)}`, fn: func(s *parser.Settings) { s.MinifyExpressions = false }},
		{s: `a{color:<%= c %>}`, out: `a{color:<%= c %>}`, fn: func(s *parser.Settings) { s.AllowEmbeddedAspNetBlocks = true }},

		// At-rules.
		{s: `@charset "utf-8";`, out: `@charset "utf-8";`},
		{s: `@import url(foo.css) screen;`, out: `@import url(foo.css) screen;`},
		{s: `@import "foo.css";`, out: `@import"foo.css";`},
		{s: `@media screen and (max-width:100px){a{b:c}}`, out: `@media screen and (max-width:100px){a{b:c}}`},
		{s: `@MEDIA ONLY Screen { a { b : c } }`, out: `@media only screen{a{b:c}}`},
		{s: `@page :first{margin:1in}`, out: `@page:first{margin:1in}`},
		{s: `@page{@top-left{content:"x"}}`, out: `@page{@top-left{content:"x"}}`},
		{s: `@font-face{font-family:x;src:url(x.woff)}`, out: `@font-face{font-family:x;src:url(x.woff)}`},
		{s: `@keyframes x { from { top:0 } }`, out: `@keyframes x{from{top:0}}`},

		// Recovery.
		{s: `a{color red;margin:0}`, out: `a{color red;margin:0}`},
		{s: `a{color:red`, out: `a{color:red}`},
		{s: `}a{b:c}`, out: `}a{b:c}`},
		{s: `a{color:rgb(1,2)}`, out: `a{color:rgb(1,2)}`},
		{s: "a{color:rgb( /* x */\n\t1 ,\n  2 )}", out: `a{color:rgb(1,2)}`},
		{s: "a{color:rgb( /* x */\n\t1 ,\n  2 )}", out: `a{color:rgb(1,2)}`, fn: func(s *parser.Settings) { s.CommentMode = parser.CommentsNone }},
		{s: "a{color:rgb( /*! x */ 1 , 2 )}", out: `a{color:rgb(/*! x */ 1,2)}`},
		{s: `a{color:#abcde}`, out: `a{color:#abcde}`},

		// Output modes.
		{s: `a{b:c}`, out: `a{b:c;}`, fn: func(s *parser.Settings) { s.TermSemicolons = true }},
		{s: `a{color:red;margin:0}b{c:d}`, out: "a {\n  color: red;\n  margin: 0\n}\nb {\n  c: d\n}", fn: func(s *parser.Settings) {
			s.OutputMode = parser.MultipleLines
			s.IndentSize = 2
		}},
	}

	for i, tt := range tests {
		// Skips over tests if test.iter is set.
		if *testiter > -1 && *testiter != i {
			continue
		}

		p := parser.New(settings(tt.fn), nil)
		out, err := p.Parse(tt.s)
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
		} else if out != tt.out {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.s, tt.out, out)
		} else if again, err := p.Parse(out); err != nil || again != out {
			// Minified output must minify to itself.
			t.Errorf("%d. <%q> not stable:\n\nfirst:  %s\n\nsecond: %s (%v)", i, tt.s, out, again, err)
		}
	}
}

// Ensure that bare declaration lists can be minified.
func TestParser_ParseDeclarations(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		fn  func(*parser.Settings)
	}{
		{s: `color : red ; margin : 0px`, out: `color:red;margin:0`},
		{s: `color : red ; margin : 0px`, out: `color:red;margin:0;`, fn: func(s *parser.Settings) { s.TermSemicolons = true }},
		{s: `background: url( "a.png" ) no-repeat`, out: `background:url("a.png") no-repeat`},
		{s: ``, out: ``},
	}

	for i, tt := range tests {
		out, err := parser.New(settings(tt.fn), nil).ParseDeclarations(tt.s)
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
		} else if out != tt.out {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.s, tt.out, out)
		}
	}
}

// Ensure that the parser reports diagnostics with their position.
func TestParser_Diagnostics(t *testing.T) {
	var tests = []struct {
		s    string
		list diag.List
	}{
		{
			s:    `a{color red}`,
			list: diag.List{{Code: diag.ExpectedColon, Severity: diag.SeverityFatal, Line: 1, Column: 9, Message: `expected :, found "red"`}},
		},
		{
			s:    `a{*zoom:1}`,
			list: diag.List{{Code: diag.HackGeneratesInvalidCSS, Severity: diag.SeverityStyle, Line: 1, Column: 3, Message: `the * property hack generates invalid CSS`}},
		},
		{
			s:    `foo|a{b:c}`,
			list: diag.List{{Code: diag.UndeclaredNamespace, Severity: diag.SeverityFatal, Line: 1, Column: 4, Message: `namespace prefix "foo" is not declared`}},
		},
		{
			s:    `a{color:/*[x]*/red}`,
			list: diag.List{{Code: diag.ValueReplacementNotFound, Severity: diag.SeverityNotice, Line: 1, Column: 9, Message: `no replacement value for "x"`}},
		},
		{
			s:    "a{b:c}\n@keyframes x{}",
			list: diag.List{{Code: diag.UnexpectedAtKeyword, Severity: diag.SeverityStyle, Line: 2, Column: 1, Message: `unknown at-rule @keyframes`}},
		},
		{
			s:    `@-webkit-keyframes x{}`,
			list: nil,
		},
		{
			s:    `a{color:#abcde}`,
			list: diag.List{{Code: diag.InvalidColor, Severity: diag.SeverityWarning, Line: 1, Column: 9, Message: `#abcde is not a valid color`}},
		},
		{
			s:    `a{b:c}@import "x";`,
			list: diag.List{{Code: diag.UnexpectedAtKeyword, Severity: diag.SeverityError, Line: 1, Column: 7, Message: `@import is only allowed at the start of the style sheet`}},
		},
	}

	for i, tt := range tests {
		var list diag.List
		if _, err := parser.New(settings(nil), &list).Parse(tt.s); err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
		} else if diff := cmp.Diff(tt.list, list); diff != "" {
			t.Errorf("%d. <%q> diagnostics mismatch (-want +got):\n%s", i, tt.s, diff)
		}
	}
}

// Ensure that the codes reported for malformed input are stable.
func TestParser_DiagnosticCodes(t *testing.T) {
	var tests = []struct {
		s     string
		codes []diag.Code
	}{
		{s: `a{color:red`, codes: []diag.Code{diag.UnexpectedEndOfFile}},
		{s: `a{color:}`, codes: []diag.Code{diag.ExpectedExpression}},
		{s: `a{color:rgb(1,2)}`, codes: []diag.Code{diag.ExpectedRgbArgument}},
		{s: `}a{b:c}`, codes: []diag.Code{diag.UnexpectedToken}},
		{s: `a{z-index:1234567890123456}`, codes: []diag.Code{diag.NumericOverflow}},
		{s: `a..b{c:d}`, codes: []diag.Code{diag.ExpectedIdentifier}},
		{s: `a{color:red}}`, codes: []diag.Code{diag.UnexpectedToken}},
		{s: `a{margin:0px;width:calc(0px + 1em)}`, codes: []diag.Code{diag.UnnecessaryUnits}},
		{s: `.5em{b:c}`, codes: []diag.Code{diag.PossibleInvalidClassName}},
		{s: "a{color:rgb( /* x */\n\t1 ,\n  2 )}", codes: []diag.Code{diag.ExpectedRgbArgument}},
	}

	for i, tt := range tests {
		var list diag.List
		if _, err := parser.New(settings(nil), &list).Parse(tt.s); err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
			continue
		}
		var codes []diag.Code
		for _, d := range list {
			codes = append(codes, d.Code)
		}
		if diff := cmp.Diff(tt.codes, codes); diff != "" {
			t.Errorf("%d. <%q> codes mismatch (-want +got):\n%s", i, tt.s, diff)
		}
	}
}

// Ensure that a failing script minifier leaves expression() untouched.
func TestParser_ScriptMinifierError(t *testing.T) {
	var list diag.List
	p := parser.New(settings(func(s *parser.Settings) {
		s.ScriptMinifier = scriptMinifierFunc(func(src, context string) (string, error) {
			return "", errors.New("syntax error")
		})
	}), &list)

	out, err := p.Parse(`a{width:expression(a + b)}`)
	if err != nil {
		t.Fatal(err)
	} else if exp := `a{width:expression(a + b)}`; out != exp {
		t.Fatalf("unexpected output: %s", out)
	} else if len(list) != 1 || list[0].Code != diag.ScriptMinification {
		t.Fatalf("unexpected diagnostics: %v", list)
	}
}

// Ensure that a parser can be reused for several inputs.
func TestParser_Reuse(t *testing.T) {
	p := parser.New(settings(nil), nil)
	for _, s := range []string{`@namespace x "y";x|a{b:c}`, `a{b:c}`} {
		if _, err := p.Parse(s); err != nil {
			t.Fatal(err)
		}
	}

	// Namespaces do not leak between parses.
	var list diag.List
	p = parser.New(settings(nil), &list)
	if _, err := p.Parse(`@namespace x "y";`); err != nil {
		t.Fatal(err)
	}
	if out, err := p.Parse(`x|a{b:c}`); err != nil {
		t.Fatal(err)
	} else if out != `x|a{b:c}` {
		t.Fatalf("unexpected output: %s", out)
	} else if len(list) != 1 || list[0].Code != diag.UndeclaredNamespace {
		t.Fatalf("unexpected diagnostics: %v", list)
	}
}

func TestInternalError_Error(t *testing.T) {
	err := &parser.InternalError{Message: "boom"}
	err.Pos.Line, err.Pos.Char = 3, 4
	if s := err.Error(); s != `internal parser error at 3:4: boom` {
		t.Fatalf("unexpected error string: %s", s)
	}
}
