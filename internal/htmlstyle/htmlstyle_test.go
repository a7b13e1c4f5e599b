package htmlstyle_test

import (
	"strings"
	"testing"

	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/internal/htmlstyle"
)

// Ensure style elements and style attributes are minified in place.
func TestMinify(t *testing.T) {
	var tests = []struct {
		in  string
		out string
	}{
		{
			in:  `<html><head><style> a { color : red ; } </style></head><body><p style="color: #FF0000; margin: 0px">x</p></body></html>`,
			out: `<html><head><style>a{color:red}</style></head><body><p style="color:#f00;margin:0">x</p></body></html>`,
		},
		{
			in:  `<html><head></head><body><div style=" width : 10.0px ">y</div></body></html>`,
			out: `<html><head></head><body><div style="width:10px">y</div></body></html>`,
		},
		{
			in:  `<html><head></head><body><p title="a { b }">z</p></body></html>`,
			out: `<html><head></head><body><p title="a { b }">z</p></body></html>`,
		},
	}

	for i, tt := range tests {
		var buf strings.Builder
		if _, err := htmlstyle.Minify(&buf, strings.NewReader(tt.in)); err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
		} else if buf.String() != tt.out {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.out, buf.String())
		}
	}
}

// Ensure diagnostics of every embedded style sheet are collected.
func TestMinify_Diagnostics(t *testing.T) {
	in := `<html><head><style>a{color red}</style></head><body><p style="b:;">x</p></body></html>`
	var buf strings.Builder
	list, err := htmlstyle.Minify(&buf, strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	codes := map[diag.Code]bool{}
	for _, d := range list {
		codes[d.Code] = true
	}
	if !codes[diag.ExpectedColon] || !codes[diag.ExpectedExpression] {
		t.Fatalf("unexpected diagnostics: %v", list)
	}
}
