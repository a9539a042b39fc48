package grep

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

const usage = `Usage: grepline [OPTION]... PATTERNS [FILE]...
Search for PATTERNS in each FILE. With no FILE, or when FILE is -, read
standard input.

Pattern selection and interpretation:
  -E, --extended-regexp     PATTERNS use the default RE2 syntax
  -F, --fixed-strings       PATTERNS are strings
  -P, --perl-regexp         PATTERNS use a backtracking engine (look-around)
  -e, --regexp=PATTERNS     use PATTERNS for matching
  -f, --file=FILE           take PATTERNS from FILE
  -i, -y, --ignore-case     ignore case distinctions
      --no-ignore-case      do not ignore case distinctions (default)
  -w, --word-regexp         match only whole words
  -x, --line-regexp         match only whole lines

Output control:
  -v, --invert-match        select non-matching lines
  -c, --count               print only a count of selected lines per FILE
  -H, --with-filename       print file name with output lines
  -h, --no-filename         suppress the file name prefix on output
  -q, --quiet, --silent     suppress all normal output
  -s, --no-messages         suppress error messages about unreadable files
      --color[=WHEN],
      --colour[=WHEN]       use markers to highlight the matching strings;
                            WHEN is 'always', 'never', or 'auto'

Miscellaneous:
  -V, --version             display version information and exit
      --help                display this help text and exit

Environment:
  GREPLINE_COLORS           highlight colors, e.g. ms=01;31:fn=35
  GREPLINE_CONFIG           configuration file (default ~/.grepline/config.yaml)
  GREPLINE_LOG              write a JSON event log to this path
  GREPLINE_BUFFER_SIZE      output buffer flush threshold in bytes
  GREPLINE_ENGINE           default engine, 're2' or 'pcre'
  NO_COLOR, CLICOLOR, CLICOLOR_FORCE
                            control automatic color
`

func writeHelp(w io.Writer) error {
	return write(w, usage)
}

func writeVersion(w io.Writer, info BuildInfo) error {
	var sb strings.Builder
	version := info.Version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(&sb, "grepline %s\n", version)
	if info.Commit != "" && info.Commit != "unknown" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", info.Commit)
	}
	if info.Date != "" && info.Date != "unknown" {
		fmt.Fprintf(&sb, "  Built:      %s\n", info.Date)
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", runtime.Version())
	return write(w, sb.String())
}

func write(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeRenderWrite, "writing output")
	}
	return nil
}
