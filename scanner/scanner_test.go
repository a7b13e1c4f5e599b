package scanner_test

import (
	"flag"
	"testing"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/scanner"
	"github.com/benbjohnson/cssmin/token"
	"github.com/google/go-cmp/cmp"
)

// testiter sets the table test iteration to run in isolation.
var testiter = flag.Int("test.iter", -1, "table test number")

// Ensure than the scanner returns appropriate tokens and literals.
func TestScanner_Scan(t *testing.T) {
	var tests = []struct {
		s    string
		kind token.Kind
		text string
		code diag.Code
	}{
		{s: ``, kind: token.EOF},
		{s: `   `, kind: token.Space, text: `   `},
		{s: "\t\n x", kind: token.Space, text: "\t\n "},

		{s: `/* x */`, kind: token.Comment, text: `/* x */`},
		{s: `/*! x **/`, kind: token.Comment, text: `/*! x **/`},
		{s: `/* x`, kind: token.Comment, text: `/* x*/`, code: diag.UnterminatedComment},

		{s: `""`, kind: token.String, text: `""`},
		{s: `"foo"`, kind: token.String, text: `"foo"`},
		{s: `'foo'`, kind: token.String, text: `'foo'`},
		{s: `'a\62 c'`, kind: token.String, text: `'abc'`},
		{s: `"a\"b"`, kind: token.String, text: `"a\"b"`},
		{s: `"\22"`, kind: token.String, text: `"\22"`},
		{s: `'\2603'`, kind: token.String, text: `'☃'`},
		{s: "'foo\\\nbar'", kind: token.String, text: "'foo\\\nbar'"},
		{s: `"foo`, kind: token.String, text: `"foo"`, code: diag.UnterminatedString},
		{s: "\"foo\nbar", kind: token.String, text: `"foo"`, code: diag.UnexpectedStringCharacter},

		{s: `foo`, kind: token.Ident, text: `foo`},
		{s: `-moz-foo`, kind: token.Ident, text: `-moz-foo`},
		{s: `--x`, kind: token.Ident, text: `--x`},
		{s: `my\2603`, kind: token.Ident, text: `my☃`},
		{s: `a\:b`, kind: token.Ident, text: `a:b`},
		{s: `a\D83D\DE00`, kind: token.Ident, text: "a\U0001F600"},
		{s: `a\D83D b`, kind: token.Ident, text: "a\uFFFDb", code: diag.HighSurrogateNoLow},
		{s: `\DE00`, kind: token.Ident, text: "\uFFFD", code: diag.InvalidLowSurrogate},
		{s: `_foo`, kind: token.Ident, text: `_foo`, code: diag.UnderscoreNotValid},
		{s: `u`, kind: token.Ident, text: `u`},

		{s: `#fff`, kind: token.Hash, text: `#fff`},
		{s: `#a-b`, kind: token.Hash, text: `#a-b`},
		{s: `#`, kind: token.Char, text: `#`},

		{s: `@media`, kind: token.MediaSym, text: `@media`},
		{s: `@IMPORT`, kind: token.ImportSym, text: `@IMPORT`},
		{s: `@top-left`, kind: token.TopLeftSym, text: `@top-left`},
		{s: `@top-left-corner`, kind: token.TopLeftCornerSym, text: `@top-left-corner`},
		{s: `@keyframes`, kind: token.AtKeyword, text: `@keyframes`},
		{s: `@-moz-document`, kind: token.AtKeyword, text: `@-moz-document`},
		{s: `@`, kind: token.Char, text: `@`},

		{s: `12`, kind: token.Number, text: `12`},
		{s: `1.5`, kind: token.Number, text: `1.5`},
		{s: `.5`, kind: token.Number, text: `.5`},
		{s: `1.`, kind: token.Number, text: `1`},
		{s: `10%`, kind: token.Percentage, text: `10%`},
		{s: `5px`, kind: token.AbsLength, text: `5px`},
		{s: `1.5EM`, kind: token.RelLength, text: `1.5EM`},
		{s: `90deg`, kind: token.Angle, text: `90deg`},
		{s: `3s`, kind: token.Time, text: `3s`},
		{s: `2khz`, kind: token.Frequency, text: `2khz`},
		{s: `96dpi`, kind: token.Resolution, text: `96dpi`},
		{s: `5foo`, kind: token.Dimension, text: `5foo`},
		{s: `-`, kind: token.Char, text: `-`},
		{s: `-1`, kind: token.Char, text: `-`},
		{s: `.`, kind: token.Char, text: `.`},

		{s: `rgb(`, kind: token.Function, text: `rgb(`},
		{s: `not(`, kind: token.Not, text: `not(`},
		{s: `progid:`, kind: token.ProgID, text: `progid:`},
		{s: `url(a.png)`, kind: token.URI, text: `url(a.png)`},
		{s: `URL( "a.png" )`, kind: token.URI, text: `url("a.png")`},
		{s: `url(a\)b)`, kind: token.URI, text: `url(a\)b)`},
		{s: `url(a.png`, kind: token.URI, text: `url(a.png)`, code: diag.ExpectedCloseParenthesis},

		{s: `!important`, kind: token.Important, text: `!important`},
		{s: `!IMPORTANT`, kind: token.Important, text: `!important`},
		{s: `! important`, kind: token.Char, text: `!`},
		{s: `!importantx`, kind: token.Char, text: `!`},
		{s: `!imp`, kind: token.Char, text: `!`},

		{s: `U+0-7F`, kind: token.UnicodeRange, text: `U+0-7F`},
		{s: `u+4??`, kind: token.UnicodeRange, text: `u+4??`},
		{s: `U+1234567`, kind: token.UnicodeRange, text: `U+1234567`, code: diag.InvalidUnicodeRange},

		{s: `~=`, kind: token.Includes, text: `~=`},
		{s: `|=`, kind: token.DashMatch, text: `|=`},
		{s: `^=`, kind: token.PrefixMatch, text: `^=`},
		{s: `$=`, kind: token.SuffixMatch, text: `$=`},
		{s: `*=`, kind: token.SubstringMatch, text: `*=`},
		{s: `*`, kind: token.Char, text: `*`},

		{s: `<!--`, kind: token.CommentOpen, text: `<!--`},
		{s: `-->`, kind: token.CommentClose, text: `-->`},
		{s: `<!-`, kind: token.Char, text: `<`},
		{s: `<% x %>`, kind: token.Char, text: `<`},

		{s: `\`, kind: token.Char, text: `\`, code: diag.UnexpectedEscape},
		{s: "a\x00", kind: token.Ident, text: "a\uFFFD"},
	}

	for i, tt := range tests {
		// Skips over tests if test.iter is set.
		if *testiter > -1 && *testiter != i {
			continue
		}

		var list diag.List
		tok := scanner.NewString(tt.s, &list).Scan()
		if tok.Kind != tt.kind {
			t.Errorf("%d. <%q> kind: exp=%s, got=%s", i, tt.s, tt.kind, tok.Kind)
		} else if tok.Text != tt.text {
			t.Errorf("%d. <%q> text: exp=%q, got=%q", i, tt.s, tt.text, tok.Text)
		}

		var code diag.Code
		if len(list) > 0 {
			code = list[0].Code
		}
		if code != tt.code {
			t.Errorf("%d. <%q> diagnostic: exp=%d, got=%d (%v)", i, tt.s, tt.code, code, list)
		}
	}
}

// Ensure that tokens carry their positions.
func TestScanner_Pos(t *testing.T) {
	s := scanner.NewString("a {\n  b\r\n}", nil)

	var got []token.Token
	for {
		tok := s.Scan()
		if tok.Kind == token.Space {
			continue
		}
		got = append(got, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	exp := []token.Token{
		{Kind: token.Ident, Text: "a", Pos: token.Pos{Line: 1, Char: 1}, End: token.Pos{Line: 1, Char: 1}},
		{Kind: token.Char, Text: "{", Pos: token.Pos{Line: 1, Char: 3}, End: token.Pos{Line: 1, Char: 3}},
		{Kind: token.Ident, Text: "b", Pos: token.Pos{Line: 2, Char: 3}, End: token.Pos{Line: 2, Char: 3}},
		{Kind: token.Char, Text: "}", Pos: token.Pos{Line: 3, Char: 1}, End: token.Pos{Line: 3, Char: 1}},
		{Kind: token.EOF, Pos: token.Pos{Line: 3, Char: 1}, End: token.Pos{Line: 3, Char: 1}},
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

// Ensure that a newline is positioned at the end of its own line.
func TestScanner_NewlinePos(t *testing.T) {
	var list diag.List
	s := scanner.NewString("\"foo\nbar", &list)
	if tok := s.Scan(); tok.Kind != token.String {
		t.Fatalf("unexpected token: %s", tok.Kind)
	}

	exp := diag.List{{Code: diag.UnexpectedStringCharacter, Severity: diag.SeverityFatal, Line: 1, Column: 5, Message: "unescaped newline in string"}}
	if diff := cmp.Diff(exp, list); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if tok := s.Scan(); tok.Kind != token.Ident || tok.Pos != (token.Pos{Line: 2, Char: 1}) {
		t.Fatalf("unexpected token: %s at %d:%d", tok.Kind, tok.Pos.Line, tok.Pos.Char)
	}
}

// Ensure that embedded ASP.NET blocks are passed through when enabled.
func TestScanner_AspNetBlock(t *testing.T) {
	var list diag.List
	s := scanner.NewString(`<%= a %>x<% b`, &list)
	s.AllowEmbeddedAspNetBlocks = true

	if tok := s.Scan(); tok.Kind != token.AspNetBlock || tok.Text != `<%= a %>` {
		t.Fatalf("unexpected token: %s %q", tok.Kind, tok.Text)
	} else if tok := s.Scan(); tok.Kind != token.Ident || tok.Text != `x` {
		t.Fatalf("unexpected token: %s %q", tok.Kind, tok.Text)
	} else if tok := s.Scan(); tok.Kind != token.AspNetBlock || tok.Text != `<% b%>` {
		t.Fatalf("unexpected token: %s %q", tok.Kind, tok.Text)
	} else if len(list) != 1 || list[0].Code != diag.UnexpectedEndOfFile {
		t.Fatalf("unexpected diagnostics: %v", list)
	}
}

// Ensure that the raw source of expression() can be read.
func TestScanner_ReadExpression(t *testing.T) {
	var tests = []struct {
		s    string
		src  string
		ok   bool
		next string
	}{
		{s: `expression(a(b) + ")" )x`, src: `a(b) + ")" `, ok: true, next: `x`},
		{s: `expression('\'')`, src: `'\''`, ok: true},
		{s: `expression(a(`, src: `a(`, ok: false},
	}

	for i, tt := range tests {
		s := scanner.NewString(tt.s, nil)
		if tok := s.Scan(); tok.Kind != token.Function {
			t.Fatalf("%d. unexpected token: %s", i, tok.Kind)
		}
		src, ok := s.ReadExpression()
		if src != tt.src || ok != tt.ok {
			t.Errorf("%d. <%q> exp=%q,%v got=%q,%v", i, tt.s, tt.src, tt.ok, src, ok)
		} else if tok := s.Scan(); tok.Text != tt.next {
			t.Errorf("%d. <%q> next: exp=%q, got=%q", i, tt.s, tt.next, tok.Text)
		}
	}
}

func TestScanner_PeekEOF(t *testing.T) {
	s := scanner.NewString("a", nil)
	if ch := s.Peek(); ch != 'a' {
		t.Fatalf("unexpected peek: %q", ch)
	} else if s.EOF() {
		t.Fatal("unexpected EOF")
	}
	s.Scan()
	if !s.EOF() {
		t.Fatal("expected EOF")
	}
}
