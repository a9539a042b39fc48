// Package matcher assembles the configured patterns into one composite
// expression and adapts regular-expression engines to per-line match spans.
package matcher

import (
	"regexp"
	"strings"

	"github.com/odvcencio/grepline/pkg/options"
)

// CaseInsensitiveFlag prefixes the composite when ignore_case is set.
const CaseInsensitiveFlag = "(?i)"

// Assemble builds the composite expression for opts. Each pattern is
// wrapped as ^(p)$ under line matching, or \bp\b under word matching (line
// matching takes precedence), and the results are joined with '|'.
func Assemble(opts options.RunOptions) string {
	parts := make([]string, 0, len(opts.Patterns))
	for _, p := range opts.Patterns {
		if opts.FixedStrings {
			p = regexp.QuoteMeta(p)
		}
		parts = append(parts, wrap(p, opts.LineMatch, opts.WordMatch))
	}

	composite := strings.Join(parts, "|")
	if opts.IgnoreCase {
		composite = CaseInsensitiveFlag + composite
	}
	return composite
}

// -w has no effect when -x is also given, matching GNU grep.
func wrap(pattern string, line, word bool) string {
	switch {
	case line:
		return "^(" + pattern + ")$"
	case word:
		return `\b` + pattern + `\b`
	default:
		return pattern
	}
}
