package parser

import (
	"strings"

	"github.com/benbjohnson/cssmin/color"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/script"
)

// CommentMode decides which comments survive minification.
type CommentMode int

const (
	// CommentsImportant keeps only comments starting with "/*!".
	CommentsImportant CommentMode = iota

	// CommentsNone removes every comment.
	CommentsNone

	// CommentsAll keeps every comment.
	CommentsAll

	// CommentsHacks rewrites known browser-hack comments into important
	// comments before parsing, then behaves like CommentsImportant.
	CommentsHacks
)

var commentModes = [...]string{
	CommentsImportant: "important",
	CommentsNone:      "none",
	CommentsAll:       "all",
	CommentsHacks:     "hacks",
}

// String returns the lowercase name of the mode.
func (m CommentMode) String() string {
	if m >= 0 && int(m) < len(commentModes) {
		return commentModes[m]
	}
	return ""
}

// ParseCommentMode returns the mode for a case-insensitive name.
func ParseCommentMode(s string) (CommentMode, bool) {
	for i, name := range commentModes {
		if strings.EqualFold(s, name) {
			return CommentMode(i), true
		}
	}
	return CommentsImportant, false
}

// OutputMode selects compact or pretty-printed output.
type OutputMode int

const (
	SingleLine OutputMode = iota
	MultipleLines
)

// ScriptMinifier minifies the script embedded in legacy expression() values.
// context labels the source for error messages.
type ScriptMinifier interface {
	MinifyScript(src, context string) (string, error)
}

// Lookup resolves the ids of value-replacement comments ("/*[id]*/").
type Lookup interface {
	Lookup(id string) (string, bool)
}

// Replacements is a Lookup backed by a map.
type Replacements map[string]string

// Lookup returns the replacement for id.
func (m Replacements) Lookup(id string) (string, bool) {
	v, ok := m[id]
	return v, ok
}

// Settings controls a parse. It is read-only while a parse is running.
type Settings struct {
	ColorNames  color.Policy
	CommentMode CommentMode

	// Pretty printing. IndentSize only applies to MultipleLines.
	OutputMode OutputMode
	IndentSize int

	// TermSemicolons terminates every declaration, including the last one
	// in a block.
	TermSemicolons bool

	// AllowEmbeddedAspNetBlocks passes "<% ... %>" blocks through untouched.
	AllowEmbeddedAspNetBlocks bool

	// MinifyExpressions hands expression() sources to ScriptMinifier.
	MinifyExpressions bool
	ScriptMinifier    ScriptMinifier

	// MacSafariQuirks emits a space between a selector ending in
	// :first-letter or :first-line and the rule's opening brace.
	MacSafariQuirks bool

	// ValueReplacements resolves "/*[id]*/" comments. May be nil.
	ValueReplacements Lookup

	// WarningLevel is the highest severity a caller should treat as
	// build-breaking. The parser reports everything regardless.
	WarningLevel diag.Severity
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		ColorNames:        color.Strict,
		CommentMode:       CommentsImportant,
		OutputMode:        SingleLine,
		IndentSize:        4,
		TermSemicolons:    false,
		MinifyExpressions: true,
		ScriptMinifier:    script.New(),
		MacSafariQuirks:   true,
		WarningLevel:      diag.SeverityError,
	}
}
