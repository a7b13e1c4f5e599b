package cssmin

import (
	"github.com/benbjohnson/cssmin/color"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/parser"
)

// Option configures a minification.
type Option func(*parser.Settings)

// WithSettings replaces all settings.
func WithSettings(s parser.Settings) Option {
	return func(dst *parser.Settings) { *dst = s }
}

// WithColorNames sets the color naming policy.
func WithColorNames(p color.Policy) Option {
	return func(s *parser.Settings) { s.ColorNames = p }
}

// WithComments sets which comments are kept.
func WithComments(m parser.CommentMode) Option {
	return func(s *parser.Settings) { s.CommentMode = m }
}

// WithPrettyPrint writes one declaration per line, indented by indent spaces
// per level.
func WithPrettyPrint(indent int) Option {
	return func(s *parser.Settings) {
		s.OutputMode = parser.MultipleLines
		s.IndentSize = indent
	}
}

// WithTermSemicolons terminates the last declaration of every block.
func WithTermSemicolons() Option {
	return func(s *parser.Settings) { s.TermSemicolons = true }
}

// WithAspNetBlocks passes "<% ... %>" blocks through.
func WithAspNetBlocks() Option {
	return func(s *parser.Settings) { s.AllowEmbeddedAspNetBlocks = true }
}

// WithExpressionMinification toggles minification of expression() scripts.
func WithExpressionMinification(on bool) Option {
	return func(s *parser.Settings) { s.MinifyExpressions = on }
}

// WithMacSafariQuirks toggles the :first-letter and :first-line workaround.
func WithMacSafariQuirks(on bool) Option {
	return func(s *parser.Settings) { s.MacSafariQuirks = on }
}

// WithReplacements resolves "/*[id]*/" value-replacement comments.
func WithReplacements(l parser.Lookup) Option {
	return func(s *parser.Settings) { s.ValueReplacements = l }
}

func settings(opts []Option) parser.Settings {
	s := parser.DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Minify minifies a style sheet. Every diagnostic produced along the way is
// returned; err is only set if the parser failed internally.
func Minify(src string, opts ...Option) (string, diag.List, error) {
	var list diag.List
	out, err := parser.New(settings(opts), &list).Parse(src)
	return out, list, err
}

// MinifyDeclarations minifies a declaration list such as an HTML style
// attribute.
func MinifyDeclarations(src string, opts ...Option) (string, diag.List, error) {
	var list diag.List
	out, err := parser.New(settings(opts), &list).ParseDeclarations(src)
	return out, list, err
}
