package token

import "strings"

// Kind represents the lexical class of a token.
type Kind int

const (
	// Special tokens
	Illegal Kind = iota
	EOF
	Space
	Comment
	CommentOpen  // <!--
	CommentClose // -->

	Ident
	Hash
	String
	URI
	Function
	Not          // not(
	ProgID       // progid:
	Important    // !important
	UnicodeRange // U+0-7F
	AspNetBlock  // <% ... %>
	Char         // any single structural character

	// Match operators
	Includes       // ~=
	DashMatch      // |=
	PrefixMatch    // ^=
	SuffixMatch    // $=
	SubstringMatch // *=

	// Numeric tokens
	numericBegin
	Number
	Percentage
	AbsLength
	RelLength
	Angle
	Time
	Frequency
	Resolution
	Dimension
	numericEnd

	// At-keywords
	atBegin
	AtKeyword
	ImportSym
	MediaSym
	PageSym
	FontFaceSym
	CharsetSym
	NamespaceSym
	TopLeftCornerSym
	TopLeftSym
	TopCenterSym
	TopRightSym
	TopRightCornerSym
	BottomLeftCornerSym
	BottomLeftSym
	BottomCenterSym
	BottomRightSym
	BottomRightCornerSym
	LeftTopSym
	LeftMiddleSym
	LeftBottomSym
	RightTopSym
	RightMiddleSym
	RightBottomSym
	atEnd
)

var kinds = [...]string{
	Illegal:      "ILLEGAL",
	EOF:          "EOF",
	Space:        "SPACE",
	Comment:      "COMMENT",
	CommentOpen:  "CDO",
	CommentClose: "CDC",

	Ident:        "IDENT",
	Hash:         "HASH",
	String:       "STRING",
	URI:          "URI",
	Function:     "FUNCTION",
	Not:          "NOT",
	ProgID:       "PROGID",
	Important:    "IMPORTANT",
	UnicodeRange: "UNICODERANGE",
	AspNetBlock:  "ASPNETBLOCK",
	Char:         "CHAR",

	Includes:       "INCLUDES",
	DashMatch:      "DASHMATCH",
	PrefixMatch:    "PREFIXMATCH",
	SuffixMatch:    "SUFFIXMATCH",
	SubstringMatch: "SUBSTRINGMATCH",

	Number:     "NUMBER",
	Percentage: "PERCENTAGE",
	AbsLength:  "ABSLENGTH",
	RelLength:  "RELLENGTH",
	Angle:      "ANGLE",
	Time:       "TIME",
	Frequency:  "FREQUENCY",
	Resolution: "RESOLUTION",
	Dimension:  "DIMENSION",

	AtKeyword:            "ATKEYWORD",
	ImportSym:            "@import",
	MediaSym:             "@media",
	PageSym:              "@page",
	FontFaceSym:          "@font-face",
	CharsetSym:           "@charset",
	NamespaceSym:         "@namespace",
	TopLeftCornerSym:     "@top-left-corner",
	TopLeftSym:           "@top-left",
	TopCenterSym:         "@top-center",
	TopRightSym:          "@top-right",
	TopRightCornerSym:    "@top-right-corner",
	BottomLeftCornerSym:  "@bottom-left-corner",
	BottomLeftSym:        "@bottom-left",
	BottomCenterSym:      "@bottom-center",
	BottomRightSym:       "@bottom-right",
	BottomRightCornerSym: "@bottom-right-corner",
	LeftTopSym:           "@left-top",
	LeftMiddleSym:        "@left-middle",
	LeftBottomSym:        "@left-bottom",
	RightTopSym:          "@right-top",
	RightMiddleSym:       "@right-middle",
	RightBottomSym:       "@right-bottom",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && k < Kind(len(kinds)) && kinds[k] != "" {
		return kinds[k]
	}
	return ""
}

// IsNumeric returns true for numbers, percentages and all dimension classes.
func (k Kind) IsNumeric() bool { return k > numericBegin && k < numericEnd }

// IsAtKeyword returns true for generic and recognized at-keywords.
func (k Kind) IsAtKeyword() bool { return k > atBegin && k < atEnd }

// IsMarginBox returns true for the @page margin-box at-keywords.
func (k Kind) IsMarginBox() bool { return k >= TopLeftCornerSym && k <= RightBottomSym }

// IsLength returns true for absolute and relative lengths.
func (k Kind) IsLength() bool { return k == AbsLength || k == RelLength }

var atKeywords = map[string]Kind{}

func init() {
	for k := AtKeyword + 1; k < atEnd; k++ {
		atKeywords[kinds[k][1:]] = k
	}
}

// LookupAtKeyword returns the at-keyword kind for a name without the "@".
// Unrecognized names return AtKeyword.
func LookupAtKeyword(name string) Kind {
	if k, ok := atKeywords[strings.ToLower(name)]; ok {
		return k
	}
	return AtKeyword
}

var units = map[string]Kind{
	"px": AbsLength, "cm": AbsLength, "mm": AbsLength, "in": AbsLength,
	"pt": AbsLength, "pc": AbsLength, "q": AbsLength,

	"em": RelLength, "ex": RelLength, "ch": RelLength, "rem": RelLength,
	"vw": RelLength, "vh": RelLength, "vm": RelLength, "vmin": RelLength,
	"vmax": RelLength,

	"deg": Angle, "rad": Angle, "grad": Angle, "turn": Angle,

	"ms": Time, "s": Time,

	"hz": Frequency, "khz": Frequency,

	"dpi": Resolution, "dpcm": Resolution, "dppx": Resolution,
}

// LookupUnit classifies a dimension suffix. Unrecognized units return Dimension.
func LookupUnit(unit string) Kind {
	if k, ok := units[strings.ToLower(unit)]; ok {
		return k
	}
	return Dimension
}

// Pos specifies the line and character position of a token.
// The Char and Line are both one-based.
type Pos struct {
	Line int
	Char int
}

// Token represents a lexical token.
//
// Text holds the token's literal representation. For identifiers, hashes and
// dimension units the escapes are already decoded; strings, comments, and
// url() tokens keep their source text.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
	End  Pos
}

// Is returns true if the token is the structural character ch.
func (t Token) Is(ch string) bool {
	return t.Kind == Char && t.Text == ch
}

// String returns a printable representation for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case Space:
		return "whitespace"
	}
	return t.Text
}
