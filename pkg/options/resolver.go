package options

import (
	"strings"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

// PatternLoader returns the text of a pattern file; "-" names stdin.
type PatternLoader func(path string) (string, error)

// option names are normalized to their long spelling.
var aliases = map[string]string{
	"-e":                "--regexp",
	"--regexp":          "--regexp",
	"-f":                "--file",
	"--file":            "--file",
	"-h":                "--no-filename",
	"--no-filename":     "--no-filename",
	"-H":                "--with-filename",
	"--with-filename":   "--with-filename",
	"-i":                "--ignore-case",
	"-y":                "--ignore-case",
	"--ignore-case":     "--ignore-case",
	"--no-ignore-case":  "--no-ignore-case",
	"-v":                "--invert-match",
	"--invert-match":    "--invert-match",
	"-x":                "--line-regexp",
	"--line-regexp":     "--line-regexp",
	"-w":                "--word-regexp",
	"--word-regexp":     "--word-regexp",
	"-q":                "--quiet",
	"--quiet":           "--quiet",
	"--silent":          "--quiet",
	"-s":                "--no-messages",
	"--no-messages":     "--no-messages",
	"-c":                "--count",
	"--count":           "--count",
	"--color":           "--color",
	"--colour":          "--color",
	"-F":                "--fixed-strings",
	"--fixed-strings":   "--fixed-strings",
	"-E":                "--extended-regexp",
	"--extended-regexp": "--extended-regexp",
	"-P":                "--perl-regexp",
	"--perl-regexp":     "--perl-regexp",
	"--help":            "--help",
	"-V":                "--version",
	"--version":         "--version",
}

// toggles maps boolean options to the field they set.
var toggles = map[string]func(*RunOptions){
	"--no-filename":     func(o *RunOptions) { o.FilePrefix = false },
	"--with-filename":   func(o *RunOptions) { o.FilePrefix = true },
	"--ignore-case":     func(o *RunOptions) { o.IgnoreCase = true },
	"--no-ignore-case":  func(o *RunOptions) { o.IgnoreCase = false },
	"--invert-match":    func(o *RunOptions) { o.InvertMatch = true },
	"--line-regexp":     func(o *RunOptions) { o.LineMatch = true },
	"--word-regexp":     func(o *RunOptions) { o.WordMatch = true },
	"--quiet":           func(o *RunOptions) { o.Silent, o.NoMessages = true, true },
	"--no-messages":     func(o *RunOptions) { o.NoMessages = true },
	"--count":           func(o *RunOptions) { o.CountLines = true },
	"--fixed-strings":   func(o *RunOptions) { o.FixedStrings = true },
	"--extended-regexp": func(o *RunOptions) { o.Engine = EngineRE2 },
	"--perl-regexp":     func(o *RunOptions) { o.Engine = EnginePCRE },
	"--help":            func(o *RunOptions) { o.ShowHelp = true },
	"--version":         func(o *RunOptions) { o.ShowVersion = true },
}

// Resolver accumulates option tokens into RunOptions.
type Resolver struct {
	opts      RunOptions
	load      PatternLoader
	autoColor bool
}

// NewResolver starts from base. load serves -f/--file; autoColor is the
// color decision used for --color=auto and a bare --color.
func NewResolver(base RunOptions, load PatternLoader, autoColor bool) *Resolver {
	return &Resolver{
		opts:      base.Clone(),
		load:      load,
		autoColor: autoColor,
	}
}

// Options returns a snapshot of the accumulated settings.
func (r *Resolver) Options() RunOptions {
	return r.opts.Clone()
}

// SplitToken separates an option token into name and value. The split is at
// the first '='; without one, a short option longer than two characters
// carries a bundled value after its second character ("-edew").
func SplitToken(token string) (name, value string, hasValue bool) {
	if name, value, ok := strings.Cut(token, "="); ok {
		return name, value, true
	}
	if !strings.HasPrefix(token, "--") && len(token) > 2 {
		return token[:2], token[2:], true
	}
	return token, "", false
}

// Apply applies one option token.
func (r *Resolver) Apply(token string) error {
	name, value, hasValue := SplitToken(token)

	canonical, ok := aliases[name]
	if !ok {
		return gerrors.Newf(gerrors.ErrCodeUnknownOption, "unknown option: %s", name).
			WithContext("token", token)
	}

	switch canonical {
	case "--regexp":
		if !hasValue {
			return gerrors.Newf(gerrors.ErrCodeMissingValue, "option %s requires a value", name)
		}
		r.opts.Patterns = append(r.opts.Patterns, SplitPatterns(value)...)
		return nil

	case "--file":
		if !hasValue || value == "" {
			return gerrors.Newf(gerrors.ErrCodeMissingValue, "option %s requires a value", name)
		}
		return r.applyPatternFile(value)

	case "--color":
		return r.applyColor(name, value, hasValue)
	}

	if hasValue {
		return gerrors.Newf(gerrors.ErrCodeInvalidOption, "option %s does not take a value", name).
			WithContext("value", value)
	}
	toggles[canonical](&r.opts)
	return nil
}

func (r *Resolver) applyPatternFile(path string) error {
	if r.load == nil {
		return gerrors.New(gerrors.ErrCodeConfigInvalid, "pattern files are not supported here")
	}
	text, err := r.load(path)
	if err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeConfigLoad, "reading pattern file").
			WithContext("path", path)
	}
	r.opts.Patterns = append(r.opts.Patterns, SplitPatternFile(text)...)
	return nil
}

func (r *Resolver) applyColor(name, value string, hasValue bool) error {
	if !hasValue {
		r.opts.ColorOutput = r.autoColor
		return nil
	}
	switch strings.ToLower(value) {
	case "always", "yes", "force":
		r.opts.ColorOutput = true
	case "never", "no", "none":
		r.opts.ColorOutput = false
	case "auto", "tty", "if-tty":
		r.opts.ColorOutput = r.autoColor
	default:
		return gerrors.Newf(gerrors.ErrCodeInvalidOption,
			"invalid argument %q for %s (valid: always, never, auto)", value, name)
	}
	return nil
}
