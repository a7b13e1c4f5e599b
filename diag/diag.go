// Package diag defines the diagnostics reported while scanning and parsing
// style sheets.
//
// Diagnostics are values, not control flow. The scanner and parser push them
// through a Reporter and keep going; deciding which of them should break a
// build is left to the caller (see List.Split).
package diag

import (
	"fmt"
)

// Severity ranks a diagnostic from 0 (a consuming engine would fail) to 4
// (purely stylistic).
type Severity int

const (
	SeverityFatal   Severity = 0
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityNotice  Severity = 3
	SeverityStyle   Severity = 4
)

// Code is a stable numeric identifier for a kind of diagnostic.
type Code int

const (
	UnknownError Code = 1000 + iota
	UnterminatedComment
	UnterminatedString
	UnnecessaryUnits
	InvalidLowSurrogate
	HighSurrogateNoLow
	UnderscoreNotValid
	UnexpectedEscape
	UnexpectedStringCharacter
	InvalidUnicodeRange
	UnexpectedEndOfFile
	UnexpectedToken
	ExpectedCharset
	ExpectedSemicolon
	ExpectedOpenBrace
	ExpectedCloseBrace
	ExpectedCloseBracket
	ExpectedCloseParenthesis
	ExpectedColon
	ExpectedIdentifier
	ExpectedSelector
	ExpectedExpression
	ExpectedMediaQuery
	ExpectedNamespace
	ExpectedImport
	ExpectedProgID
	ExpectedRgbArgument
	UnexpectedAtKeyword
	UndeclaredNamespace
	InvalidColor
	HackGeneratesInvalidCSS
	PossibleInvalidClassName
	ScriptMinification
	ValueReplacementNotFound
	NumericOverflow
)

// Diagnostic is a single positioned error or warning.
// Line and Column are one-based.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Message  string   `json:"message"`
}

// Error returns the formatted diagnostic.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s (CSS%d, severity %d)", d.Line, d.Column, d.Message, int(d.Code), int(d.Severity))
}

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts an ordinary function to the Reporter interface.
type ReporterFunc func(d *Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d *Diagnostic) { f(d) }

// Discard is a Reporter that drops every diagnostic.
var Discard Reporter = ReporterFunc(func(*Diagnostic) {})

// List accumulates diagnostics. The zero value is ready to use.
type List []*Diagnostic

// Report appends d to the list.
func (a *List) Report(d *Diagnostic) {
	*a = append(*a, d)
}

// Error returns the formatted string error message.
func (a List) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}

// Err returns the list as an error, or nil if it is empty.
func (a List) Err() error {
	if len(a) == 0 {
		return nil
	}
	return a
}

// Split separates the diagnostics whose severity is at or below level, which
// should break a build, from the purely informational ones.
func (a List) Split(level Severity) (errs, warnings List) {
	for _, d := range a {
		if d.Severity <= level {
			errs = append(errs, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errs, warnings
}
