package output

import (
	"sort"
	"strings"

	"github.com/odvcencio/grepline/pkg/colors"
	"github.com/odvcencio/grepline/pkg/matcher"
	"github.com/odvcencio/grepline/pkg/options"
	"github.com/odvcencio/grepline/pkg/source"
)

// Included reports whether a line is selected for output: it matched and
// matches are wanted, or it did not match, inversion is on, and it is not
// empty.
func Included(line string, spans []matcher.Span, invert bool) bool {
	hasMatch := len(spans) > 0
	if invert {
		return !hasMatch && line != ""
	}
	return hasMatch
}

// Highlight wraps every non-empty span of line in the selected-match color.
// When a selected-line color is set it is re-opened after each match so the
// rest of the line keeps it.
func Highlight(line string, spans []matcher.Span, palette colors.Palette) string {
	if len(spans) == 0 || palette.SelectedMatch == "" {
		return line
	}

	ordered := spans
	if !sort.SliceIsSorted(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start }) {
		ordered = append([]matcher.Span(nil), spans...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })
	}

	var sb strings.Builder
	sb.Grow(len(line) + len(ordered)*16)

	prev := 0
	for _, span := range ordered {
		span = matcher.Span{Start: clamp(span.Start, len(line)), End: clamp(span.End, len(line))}
		if span.Empty() || span.Start < prev {
			continue
		}
		sb.WriteString(line[prev:span.Start])
		sb.WriteString(colors.Wrap(palette.SelectedMatch, line[span.Start:span.End]))
		sb.WriteString(colors.Escape(palette.SelectedLine))
		prev = span.End
	}
	sb.WriteString(line[prev:])

	return sb.String()
}

// RenderLine produces the display form of one selected line, without the
// file prefix or trailing newline.
func RenderLine(opts *options.RunOptions, line string, spans []matcher.Span) string {
	if !opts.ColorOutput {
		return line
	}
	text := Highlight(line, spans, opts.Palette)
	return colors.Wrap(opts.Palette.SelectedLine, text)
}

// Prefix renders "name:\t" for src, colorized when color output is on.
func Prefix(opts *options.RunOptions, src *source.Ref) string {
	name := src.DisplayName()
	if !opts.ColorOutput {
		return name + ":\t"
	}
	p := opts.Palette
	return colors.Wrap(p.Code(colors.FileName), name) + colors.Wrap(p.Code(colors.Separator), ":\t")
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
