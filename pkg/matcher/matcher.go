package matcher

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/options"
)

// DefaultMatchTimeout bounds a single backtracking search.
const DefaultMatchTimeout = 10 * time.Second

// Span is a half-open byte range [Start, End) within one line.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span is zero-width.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Matcher finds every non-overlapping match in a single line, ordered by
// start offset.
type Matcher interface {
	FindLine(line string) ([]Span, error)
}

// Compile assembles opts into a composite expression and compiles it with
// the selected engine. With no patterns at all the matcher never matches.
// A rejected expression is reported as ErrCodeInvalidPattern.
func Compile(opts options.RunOptions) (Matcher, error) {
	if len(opts.Patterns) == 0 {
		return noMatch{}, nil
	}

	composite := Assemble(opts)

	switch opts.Engine {
	case options.EnginePCRE:
		re, err := regexp2.Compile(composite, regexp2.None)
		if err != nil {
			return nil, invalidPattern(err, composite, opts.Engine)
		}
		re.MatchTimeout = DefaultMatchTimeout
		return &pcreMatcher{re: re}, nil
	default:
		re, err := regexp.Compile(composite)
		if err != nil {
			return nil, invalidPattern(err, composite, options.EngineRE2)
		}
		return &re2Matcher{re: re}, nil
	}
}

func invalidPattern(err error, composite string, engine options.Engine) error {
	return gerrors.Wrap(err, gerrors.ErrCodeInvalidPattern, "invalid pattern").
		WithContext("expression", composite).
		WithContext("engine", string(engine))
}

// Lines splits content the way matching and rendering both see it.
func Lines(content string) []string {
	return strings.Split(content, "\n")
}

// SearchLines returns one span list per line of content.
func SearchLines(m Matcher, content string) ([][]Span, error) {
	lines := Lines(content)
	out := make([][]Span, len(lines))
	for i, line := range lines {
		spans, err := m.FindLine(line)
		if err != nil {
			return nil, err
		}
		out[i] = spans
	}
	return out, nil
}

type noMatch struct{}

func (noMatch) FindLine(string) ([]Span, error) { return nil, nil }

// re2Matcher uses the standard library engine.
type re2Matcher struct {
	re *regexp.Regexp
}

func (m *re2Matcher) FindLine(line string) ([]Span, error) {
	locs := m.re.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return nil, nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans, nil
}

// pcreMatcher uses regexp2 for look-around and backreferences. regexp2
// reports rune indices, which are converted back to byte offsets.
type pcreMatcher struct {
	re *regexp2.Regexp
}

func (m *pcreMatcher) FindLine(line string) ([]Span, error) {
	match, err := m.re.FindStringMatch(line)
	if err != nil {
		return nil, matchFailed(err)
	}
	if match == nil {
		return nil, nil
	}

	offsets := runeOffsets(line)
	var spans []Span
	for match != nil {
		spans = append(spans, Span{
			Start: offsets[match.Index],
			End:   offsets[match.Index+match.Length],
		})
		match, err = m.re.FindNextMatch(match)
		if err != nil {
			return nil, matchFailed(err)
		}
	}
	return spans, nil
}

func matchFailed(err error) error {
	return gerrors.Wrap(err, gerrors.ErrCodeMatchFailed, "pattern matching failed")
}

// runeOffsets maps rune index i to its byte offset; the final entry is
// len(line).
func runeOffsets(line string) []int {
	offsets := make([]int, 0, len(line)+1)
	for i := range line {
		offsets = append(offsets, i)
	}
	return append(offsets, len(line))
}
