// Package colors resolves the ANSI SGR codes used to highlight output.
package colors

import (
	"fmt"
	"strings"
)

// Category is one of the fixed highlight slots.
type Category string

const (
	SelectedMatch Category = "ms"
	ContextMatch  Category = "mc"
	SelectedLine  Category = "sl"
	ContextLine   Category = "cx"
	FileName      Category = "fn"
	LineNumber    Category = "ln"
	ByteOffset    Category = "bn"
	Separator     Category = "se"
)

// Reset closes any open SGR region.
const Reset = "\x1b[0m"

// Palette maps each highlight category to an SGR parameter string such as
// "01;33". An empty code means "terminal default" and renders no escape.
type Palette struct {
	SelectedMatch string
	ContextMatch  string
	SelectedLine  string
	ContextLine   string
	FileName      string
	LineNumber    string
	ByteOffset    string
	Separator     string
}

// Default returns the built-in palette.
func Default() Palette {
	return Palette{
		SelectedMatch: "01;33", // bold yellow
		ContextMatch:  "01;33", // bold yellow
		FileName:      "32",    // green
		LineNumber:    "31",    // red
		ByteOffset:    "36",    // cyan
		Separator:     "35",    // magenta
	}
}

// Code returns the SGR parameters for c.
func (p Palette) Code(c Category) string {
	switch c {
	case SelectedMatch:
		return p.SelectedMatch
	case ContextMatch:
		return p.ContextMatch
	case SelectedLine:
		return p.SelectedLine
	case ContextLine:
		return p.ContextLine
	case FileName:
		return p.FileName
	case LineNumber:
		return p.LineNumber
	case ByteOffset:
		return p.ByteOffset
	case Separator:
		return p.Separator
	}
	return ""
}

// Escape renders the opening sequence for code, or "" for an empty code.
func Escape(code string) string {
	if code == "" {
		return ""
	}
	return "\x1b[" + code + "m"
}

// Wrap surrounds text with the escape pair for code. An empty code leaves
// text untouched.
func Wrap(code, text string) string {
	if code == "" {
		return text
	}
	return Escape(code) + text + Reset
}

// Warner receives one message per rejected palette segment.
type Warner func(message string)

// Parse layers a GREPLINE_COLORS style specification over the defaults.
// Segments are colon separated "key=code" pairs; "mt" sets both match
// colors. A specification containing non-ASCII bytes is ignored entirely.
func Parse(spec string, warn Warner) Palette {
	return Default().Apply(spec, warn)
}

// Apply returns a copy of p with the segments of spec applied.
func (p Palette) Apply(spec string, warn Warner) Palette {
	if spec == "" {
		return p
	}
	if !isASCII(spec) {
		report(warn, "Invalid color specification: non-ASCII characters")
		return p
	}

	for _, segment := range strings.Split(spec, ":") {
		if segment == "" {
			continue
		}
		if len(segment) < 4 || segment[2] != '=' {
			report(warn, fmt.Sprintf("Invalid color option format: %q", segment))
			continue
		}

		key, code := segment[:2], segment[3:]
		if !validCode(code) {
			report(warn, fmt.Sprintf("Invalid color code for %s: %q", key, code))
			continue
		}

		switch Category(key) {
		case "mt":
			p.SelectedMatch = code
			p.ContextMatch = code
		case SelectedMatch:
			p.SelectedMatch = code
		case ContextMatch:
			p.ContextMatch = code
		case SelectedLine:
			p.SelectedLine = code
		case ContextLine:
			p.ContextLine = code
		case FileName:
			p.FileName = code
		case LineNumber:
			p.LineNumber = code
		case ByteOffset:
			p.ByteOffset = code
		case Separator:
			p.Separator = code
		default:
			report(warn, fmt.Sprintf("Unknown color option: %s", key))
		}
	}

	return p
}

// Resolve builds the run palette: defaults, then the configuration file
// specification, then the environment specification.
func Resolve(fileSpec, envSpec string, warn Warner) Palette {
	return Parse(fileSpec, warn).Apply(envSpec, warn)
}

func report(warn Warner, message string) {
	if warn != nil {
		warn(message)
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func validCode(code string) bool {
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c != ';' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
