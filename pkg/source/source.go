// Package source names the places grepline reads text from: files on disk
// and standard input. Content is loaded lazily and at most once.
package source

import (
	"errors"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

// StdinPath is the path sentinel for standard input.
const StdinPath = "-"

// StdinDisplayName is how standard input is labelled in output.
const StdinDisplayName = "(standard input)"

var errNoStdin = errors.New("standard input is not available")

// Stdin reads standard input fully on first use and replays the same text to
// every later caller, so pattern files and searched content can both name "-".
type Stdin struct {
	r    io.Reader
	data string
	err  error
	read bool
}

// NewStdin wraps r. A nil reader behaves as an unavailable stdin.
func NewStdin(r io.Reader) *Stdin {
	return &Stdin{r: r}
}

// ReadAll returns the decoded contents of standard input.
func (s *Stdin) ReadAll() (string, error) {
	if s == nil || s.r == nil {
		return "", errNoStdin
	}
	if !s.read {
		s.data, s.err = decode(s.r)
		s.read = true
	}
	return s.data, s.err
}

// Ref identifies a content origin.
type Ref struct {
	Path string

	stdin   *Stdin
	content string
	loaded  bool
}

// New creates an unloaded reference. stdin backs the "-" path.
func New(path string, stdin *Stdin) *Ref {
	return &Ref{Path: path, stdin: stdin}
}

// IsStdin reports whether the reference names standard input.
func (r *Ref) IsStdin() bool {
	return r.Path == StdinPath
}

// DisplayName is the label used for file-name prefixes.
func (r *Ref) DisplayName() string {
	if r.IsStdin() {
		return StdinDisplayName
	}
	return r.Path
}

// Content returns the loaded text, or "" before Load.
func (r *Ref) Content() string {
	return r.content
}

// Load reads the source. Subsequent calls are no-ops once a load succeeds.
// Failures carry ErrCodeSourceRead and wrap the underlying os error.
func (r *Ref) Load() error {
	if r.loaded {
		return nil
	}

	var (
		text string
		err  error
	)
	if r.IsStdin() {
		text, err = r.stdin.ReadAll()
	} else {
		text, err = readFile(r.Path)
	}
	if err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeSourceRead, "reading source").
			WithContext("path", r.Path)
	}

	r.content = text
	r.loaded = true
	return nil
}

// ReadText loads path (or stdin for "-") through a throwaway Ref.
func ReadText(path string, stdin *Stdin) (string, error) {
	ref := New(path, stdin)
	if err := ref.Load(); err != nil {
		return "", err
	}
	return ref.Content(), nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return decode(f)
}

// decode strips a UTF-8 byte order mark and transcodes BOM-marked UTF-16 to
// UTF-8. Input without a BOM passes through byte for byte.
func decode(r io.Reader) (string, error) {
	tr := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	data, err := io.ReadAll(tr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
