// Package output renders search results and buffers them on their way to
// the destination writer.
package output

import (
	"errors"
	"io"
	"strconv"
	"strings"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/matcher"
	"github.com/odvcencio/grepline/pkg/options"
	"github.com/odvcencio/grepline/pkg/source"
)

// DefaultThreshold is the buffered length that triggers a flush.
const DefaultThreshold = 4096

// ErrSilentMatch is returned instead of rendering when silent mode sees its
// first selected line. The run should stop and report success.
var ErrSilentMatch = errors.New("output: selected line found in silent mode")

// Buffer accumulates rendered output for one run and writes it to the
// destination whenever it grows past the threshold.
type Buffer struct {
	buf       strings.Builder
	dest      io.Writer
	threshold int

	// sources that have produced at least one line
	sources int
	// bytes delivered to dest
	written int
}

// NewBuffer creates a buffer for dest. A non-positive threshold selects
// DefaultThreshold.
func NewBuffer(dest io.Writer, threshold int) *Buffer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	b := &Buffer{dest: dest, threshold: threshold}
	b.buf.Grow(threshold)
	return b
}

// Written is the number of bytes delivered to the destination so far.
func (b *Buffer) Written() int {
	return b.written
}

// Render appends the results for one loaded source. lines holds the spans
// of each "\n"-separated line of the source content, in order.
func (b *Buffer) Render(opts *options.RunOptions, src *source.Ref, lines [][]matcher.Span) error {
	if opts.CountLines {
		return b.appendCount(opts, src, CountIncluded(opts, src.Content(), lines))
	}
	return b.appendMatches(opts, src, lines)
}

// CountIncluded counts the lines of content selected for output.
func CountIncluded(opts *options.RunOptions, content string, lines [][]matcher.Span) int {
	count := 0
	for i, line := range matcher.Lines(content) {
		if i >= len(lines) {
			break
		}
		if Included(line, lines[i], opts.InvertMatch) {
			count++
		}
	}
	return count
}

func (b *Buffer) appendMatches(opts *options.RunOptions, src *source.Ref, lines [][]matcher.Span) error {
	var prefix string
	if opts.FilePrefix {
		prefix = Prefix(opts, src)
	}

	emitted := false
	for i, line := range matcher.Lines(src.Content()) {
		if i >= len(lines) {
			break
		}
		spans := lines[i]
		if !Included(line, spans, opts.InvertMatch) {
			continue
		}
		if opts.Silent {
			return ErrSilentMatch
		}

		if !emitted {
			b.beginSource(opts)
		}
		emitted = true

		if err := b.appendLine(prefix, RenderLine(opts, line, spans)); err != nil {
			return err
		}
	}

	return nil
}

func (b *Buffer) appendCount(opts *options.RunOptions, src *source.Ref, count int) error {
	if opts.Silent {
		if count > 0 {
			return ErrSilentMatch
		}
		return nil
	}

	var prefix string
	if opts.FilePrefix {
		prefix = Prefix(opts, src)
	}
	b.beginSource(opts)
	return b.appendLine(prefix, strconv.Itoa(count))
}

// beginSource separates this source's output from the previous source's
// with a blank line when lines carry file prefixes.
func (b *Buffer) beginSource(opts *options.RunOptions) {
	if opts.FilePrefix && b.sources > 0 {
		b.buf.WriteString("\n")
	}
	b.sources++
}

// appendLine writes one output line, adding the newline if absent.
func (b *Buffer) appendLine(prefix, line string) error {
	b.buf.WriteString(prefix)
	b.buf.WriteString(line)
	if !strings.HasSuffix(line, "\n") {
		b.buf.WriteString("\n")
	}

	if b.buf.Len() >= b.threshold {
		return b.Flush()
	}
	return nil
}

// Flush writes everything buffered to the destination and empties the
// buffer. Write failures are fatal to the run.
func (b *Buffer) Flush() error {
	if b.buf.Len() == 0 {
		return nil
	}
	data := b.buf.String()
	b.buf.Reset()

	n, err := io.WriteString(b.dest, data)
	b.written += n
	if err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeRenderWrite, "writing output")
	}
	return nil
}
