// Package script minifies the JavaScript embedded in legacy CSS expression()
// values.
package script

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

const mediaType = "application/javascript"

// Minifier minifies script source. It is safe for concurrent use.
type Minifier struct {
	m *minify.M
}

// New returns a Minifier backed by the tdewolff JavaScript minifier.
func New() *Minifier {
	m := minify.New()
	m.AddFunc(mediaType, js.Minify)
	return &Minifier{m: m}
}

// MinifyScript minifies src. An expression() body is a single expression,
// so a statement terminator added by the minifier is removed. context names
// the source in errors.
func (s *Minifier) MinifyScript(src, context string) (string, error) {
	out, err := s.m.String(mediaType, src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", context, err)
	}
	return strings.TrimRight(strings.TrimSpace(out), ";"), nil
}
