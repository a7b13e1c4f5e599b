// Package color holds the static color-name tables used when folding color
// values.
//
// All maps are built once at package initialization and never mutated, so
// they are safe for concurrent use.
package color

import (
	"sort"
	"strings"
)

// Policy decides which color names may appear in output.
type Policy int

const (
	// Strict keeps names unless their hex form is shorter and never turns hex
	// into a name.
	Strict Policy = iota

	// Hex never emits color names.
	Hex

	// Major uses any name recognized by the major browsers whenever it is
	// shorter than the hex value.
	Major
)

var policies = [...]string{
	Strict: "strict",
	Hex:    "hex",
	Major:  "major",
}

// String returns the lowercase name of the policy.
func (p Policy) String() string {
	if p >= 0 && int(p) < len(policies) {
		return policies[p]
	}
	return ""
}

// ParsePolicy returns the policy for a case-insensitive name.
func ParsePolicy(s string) (Policy, bool) {
	for i, name := range policies {
		if strings.EqualFold(s, name) {
			return Policy(i), true
		}
	}
	return Strict, false
}

// named lists every color name with its six-digit hex value.
var named = []struct{ name, hex string }{
	{"aliceblue", "#f0f8ff"}, {"antiquewhite", "#faebd7"}, {"aqua", "#00ffff"},
	{"aquamarine", "#7fffd4"}, {"azure", "#f0ffff"}, {"beige", "#f5f5dc"},
	{"bisque", "#ffe4c4"}, {"black", "#000000"}, {"blanchedalmond", "#ffebcd"},
	{"blue", "#0000ff"}, {"blueviolet", "#8a2be2"}, {"brown", "#a52a2a"},
	{"burlywood", "#deb887"}, {"cadetblue", "#5f9ea0"}, {"chartreuse", "#7fff00"},
	{"chocolate", "#d2691e"}, {"coral", "#ff7f50"}, {"cornflowerblue", "#6495ed"},
	{"cornsilk", "#fff8dc"}, {"crimson", "#dc143c"}, {"cyan", "#00ffff"},
	{"darkblue", "#00008b"}, {"darkcyan", "#008b8b"}, {"darkgoldenrod", "#b8860b"},
	{"darkgray", "#a9a9a9"}, {"darkgreen", "#006400"}, {"darkgrey", "#a9a9a9"},
	{"darkkhaki", "#bdb76b"}, {"darkmagenta", "#8b008b"}, {"darkolivegreen", "#556b2f"},
	{"darkorange", "#ff8c00"}, {"darkorchid", "#9932cc"}, {"darkred", "#8b0000"},
	{"darksalmon", "#e9967a"}, {"darkseagreen", "#8fbc8f"}, {"darkslateblue", "#483d8b"},
	{"darkslategray", "#2f4f4f"}, {"darkslategrey", "#2f4f4f"}, {"darkturquoise", "#00ced1"},
	{"darkviolet", "#9400d3"}, {"deeppink", "#ff1493"}, {"deepskyblue", "#00bfff"},
	{"dimgray", "#696969"}, {"dimgrey", "#696969"}, {"dodgerblue", "#1e90ff"},
	{"firebrick", "#b22222"}, {"floralwhite", "#fffaf0"}, {"forestgreen", "#228b22"},
	{"fuchsia", "#ff00ff"}, {"gainsboro", "#dcdcdc"}, {"ghostwhite", "#f8f8ff"},
	{"gold", "#ffd700"}, {"goldenrod", "#daa520"}, {"gray", "#808080"},
	{"green", "#008000"}, {"greenyellow", "#adff2f"}, {"grey", "#808080"},
	{"honeydew", "#f0fff0"}, {"hotpink", "#ff69b4"}, {"indianred", "#cd5c5c"},
	{"indigo", "#4b0082"}, {"ivory", "#fffff0"}, {"khaki", "#f0e68c"},
	{"lavender", "#e6e6fa"}, {"lavenderblush", "#fff0f5"}, {"lawngreen", "#7cfc00"},
	{"lemonchiffon", "#fffacd"}, {"lightblue", "#add8e6"}, {"lightcoral", "#f08080"},
	{"lightcyan", "#e0ffff"}, {"lightgoldenrodyellow", "#fafad2"}, {"lightgray", "#d3d3d3"},
	{"lightgreen", "#90ee90"}, {"lightgrey", "#d3d3d3"}, {"lightpink", "#ffb6c1"},
	{"lightsalmon", "#ffa07a"}, {"lightseagreen", "#20b2aa"}, {"lightskyblue", "#87cefa"},
	{"lightslategray", "#778899"}, {"lightslategrey", "#778899"}, {"lightsteelblue", "#b0c4de"},
	{"lightyellow", "#ffffe0"}, {"lime", "#00ff00"}, {"limegreen", "#32cd32"},
	{"linen", "#faf0e6"}, {"magenta", "#ff00ff"}, {"maroon", "#800000"},
	{"mediumaquamarine", "#66cdaa"}, {"mediumblue", "#0000cd"}, {"mediumorchid", "#ba55d3"},
	{"mediumpurple", "#9370db"}, {"mediumseagreen", "#3cb371"}, {"mediumslateblue", "#7b68ee"},
	{"mediumspringgreen", "#00fa9a"}, {"mediumturquoise", "#48d1cc"}, {"mediumvioletred", "#c71585"},
	{"midnightblue", "#191970"}, {"mintcream", "#f5fffa"}, {"mistyrose", "#ffe4e1"},
	{"moccasin", "#ffe4b5"}, {"navajowhite", "#ffdead"}, {"navy", "#000080"},
	{"oldlace", "#fdf5e6"}, {"olive", "#808000"}, {"olivedrab", "#6b8e23"},
	{"orange", "#ffa500"}, {"orangered", "#ff4500"}, {"orchid", "#da70d6"},
	{"palegoldenrod", "#eee8aa"}, {"palegreen", "#98fb98"}, {"paleturquoise", "#afeeee"},
	{"palevioletred", "#db7093"}, {"papayawhip", "#ffefd5"}, {"peachpuff", "#ffdab9"},
	{"peru", "#cd853f"}, {"pink", "#ffc0cb"}, {"plum", "#dda0dd"},
	{"powderblue", "#b0e0e6"}, {"purple", "#800080"}, {"red", "#ff0000"},
	{"rosybrown", "#bc8f8f"}, {"royalblue", "#4169e1"}, {"saddlebrown", "#8b4513"},
	{"salmon", "#fa8072"}, {"sandybrown", "#f4a460"}, {"seagreen", "#2e8b57"},
	{"seashell", "#fff5ee"}, {"sienna", "#a0522d"}, {"silver", "#c0c0c0"},
	{"skyblue", "#87ceeb"}, {"slateblue", "#6a5acd"}, {"slategray", "#708090"},
	{"slategrey", "#708090"}, {"snow", "#fffafa"}, {"springgreen", "#00ff7f"},
	{"steelblue", "#4682b4"}, {"tan", "#d2b48c"}, {"teal", "#008080"},
	{"thistle", "#d8bfd8"}, {"tomato", "#ff6347"}, {"turquoise", "#40e0d0"},
	{"violet", "#ee82ee"}, {"wheat", "#f5deb3"}, {"white", "#ffffff"},
	{"whitesmoke", "#f5f5f5"}, {"yellow", "#ffff00"}, {"yellowgreen", "#9acd32"},
}

var (
	// Names maps every lowercase color name to its six-digit hex value.
	Names = map[string]string{}

	// HexShorterThanName maps names to their hex value where the shortest hex
	// form is strictly shorter than the name ("white" -> "#fff").
	HexShorterThanName = map[string]string{}

	// NameShorterThanHex maps six-digit hex values to the shortest name that is
	// strictly shorter than the shortest hex form ("#ff0000" -> "red").
	NameShorterThanHex = map[string]string{}
)

func init() {
	// Visit shorter names first so the shortest alias of a value wins; ties
	// go to the alphabetically first name.
	sorted := make([]int, len(named))
	for i := range sorted {
		sorted[i] = i
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(named[sorted[i]].name) < len(named[sorted[j]].name)
	})

	for _, i := range sorted {
		c := named[i]
		Names[c.name] = c.hex
		short := Shorten(c.hex)
		if len(short) < len(c.name) {
			HexShorterThanName[c.name] = c.hex
			continue
		}
		if len(c.name) < len(short) {
			if _, ok := NameShorterThanHex[c.hex]; !ok {
				NameShorterThanHex[c.hex] = c.name
			}
		}
	}
}

// Shorten collapses a lowercase "#rrggbb" value to "#rgb" when every channel
// repeats its digit. Any other input is returned unchanged.
func Shorten(hex string) string {
	if len(hex) == 7 && hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
		return string([]byte{'#', hex[1], hex[3], hex[5]})
	}
	return hex
}

// Expand turns "#rgb" into "#rrggbb". Any other input is returned unchanged.
func Expand(hex string) string {
	if len(hex) == 4 {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return hex
}

// FoldHex returns the shortest representation of a lowercase "#rgb" or
// "#rrggbb" value allowed by the policy.
func FoldHex(hex string, p Policy) string {
	short := Shorten(hex)
	if p == Major {
		if name, ok := NameShorterThanHex[Expand(hex)]; ok {
			return name
		}
	}
	return short
}

// FoldName returns the shorter of the lowercase color name and its hex form,
// or always the hex form under Hex. A name is never replaced by a longer hex
// value. ok is false if name is not a color.
func FoldName(name string, p Policy) (string, bool) {
	hex, ok := Names[name]
	if !ok {
		return "", false
	}
	switch {
	case p == Hex:
		return Shorten(hex), true
	case HexShorterThanName[name] != "":
		return Shorten(hex), true
	}
	return name, true
}
