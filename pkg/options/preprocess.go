package options

import (
	"strings"
	"unicode/utf8"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/source"
)

// options that consume a value
var (
	shortValueOptions = map[rune]bool{'e': true, 'f': true}
	longValueOptions  = map[string]bool{"--regexp": true, "--file": true}
)

// Preprocessed is the argument list split into its two kinds.
type Preprocessed struct {
	// Sources are the remaining non-option arguments; never empty.
	Sources []string
	// Tokens are option tokens, one option per token, values attached
	// with '=' where the option takes one.
	Tokens []string
	// ExplicitPattern is true when -e/--regexp appeared.
	ExplicitPattern bool
}

// IsOption reports whether arg is an option token. A lone "-" is a source.
func IsOption(arg string) bool {
	return len(arg) > 1 && strings.HasPrefix(arg, "-")
}

// Preprocess splits args (without the program name) into sources and option
// tokens. Bundled short flags are expanded, value-taking options collect
// their value from the same or the following argument, and when no
// -e/--regexp is present the first source candidate becomes the pattern.
func Preprocess(args []string) (Preprocessed, error) {
	var (
		out          Preprocessed
		sources      []string
		endOfOptions bool
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case endOfOptions || !IsOption(arg):
			sources = append(sources, arg)
			continue
		case arg == "--":
			endOfOptions = true
			continue
		}

		if strings.HasPrefix(arg, "--") {
			name, _, hasValue := strings.Cut(arg, "=")
			if longValueOptions[name] && !hasValue {
				if i+1 >= len(args) {
					return Preprocessed{}, missingValue(name)
				}
				i++
				arg = name + "=" + args[i]
			}
			if name == "--regexp" {
				out.ExplicitPattern = true
			}
			out.Tokens = append(out.Tokens, arg)
			continue
		}

		// "-X=value" is left for the resolver to split.
		if len(arg) > 2 && arg[2] == '=' {
			if arg[1] == 'e' {
				out.ExplicitPattern = true
			}
			out.Tokens = append(out.Tokens, arg)
			continue
		}

		tokens, consumedNext, err := expandBundle(arg, args[i+1:])
		if err != nil {
			return Preprocessed{}, err
		}
		if consumedNext {
			i++
		}
		for _, tok := range tokens {
			if strings.HasPrefix(tok, "-e=") {
				out.ExplicitPattern = true
			}
		}
		out.Tokens = append(out.Tokens, tokens...)
	}

	if !out.ExplicitPattern && len(sources) > 0 {
		out.Tokens = append([]string{"--regexp=" + sources[0]}, out.Tokens...)
		sources = sources[1:]
	}

	if len(sources) == 0 {
		sources = []string{source.StdinPath}
	}
	out.Sources = sources

	return out, nil
}

// expandBundle splits "-ivx" into single-letter tokens. A value-taking
// letter ends the bundle: the rest of the argument is its value, or the next
// argument when nothing follows it.
func expandBundle(arg string, rest []string) ([]string, bool, error) {
	var tokens []string
	flags := arg[1:]

	for j, c := range flags {
		letter := "-" + string(c)
		if !shortValueOptions[c] {
			tokens = append(tokens, letter)
			continue
		}

		value := flags[j+utf8.RuneLen(c):]
		switch {
		case value == "":
			if len(rest) == 0 {
				return nil, false, missingValue(letter)
			}
			return append(tokens, letter+"="+rest[0]), true, nil
		case value[0] == '=':
			return append(tokens, letter+value), false, nil
		default:
			return append(tokens, letter+"="+value), false, nil
		}
	}

	return tokens, false, nil
}

func missingValue(option string) error {
	return gerrors.Newf(gerrors.ErrCodeMissingValue, "option %s requires a value", option)
}

// HasPatternSource reports whether any token supplies patterns, either
// directly or through a pattern file.
func (p Preprocessed) HasPatternSource() bool {
	for _, tok := range p.Tokens {
		name, _, _ := SplitToken(tok)
		switch aliases[name] {
		case "--regexp", "--file":
			return true
		}
	}
	return false
}
