// Package options turns GNU grep style command-line tokens into RunOptions.
//
// Preprocess splits raw arguments into source candidates and normalized
// option tokens; a Resolver then applies those tokens one at a time. Neither
// step reads the environment or aborts the process: every failure is a
// *errors.Error returned to the caller.
package options

import (
	"strings"

	"github.com/odvcencio/grepline/pkg/colors"
)

// Engine selects the regular-expression implementation.
type Engine string

const (
	EngineRE2  Engine = "re2"
	EnginePCRE Engine = "pcre"
)

// RunOptions are the settings for one invocation.
type RunOptions struct {
	Patterns []string

	ColorOutput  bool
	FilePrefix   bool
	IgnoreCase   bool
	InvertMatch  bool
	LineMatch    bool
	WordMatch    bool
	Silent       bool
	NoMessages   bool
	CountLines   bool
	FixedStrings bool

	Engine  Engine
	Palette colors.Palette

	ShowHelp    bool
	ShowVersion bool
}

// Default returns options with no patterns and the default palette.
func Default() RunOptions {
	return RunOptions{
		Engine:  EngineRE2,
		Palette: colors.Default(),
	}
}

// Clone returns a copy that shares no slices with o.
func (o RunOptions) Clone() RunOptions {
	o.Patterns = append([]string(nil), o.Patterns...)
	return o
}

// SplitPatterns interprets a pattern value: one pair of enclosing double
// quotes is removed and the remainder is split on newlines, each segment
// becoming one alternative.
func SplitPatterns(value string) []string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return strings.Split(value, "\n")
}

// SplitPatternFile returns one pattern per line of a pattern file. A single
// trailing newline does not produce an extra empty pattern.
func SplitPatternFile(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
