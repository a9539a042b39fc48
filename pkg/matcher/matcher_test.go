package matcher

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/options"
)

func opts(patterns ...string) options.RunOptions {
	o := options.Default()
	o.Patterns = patterns
	return o
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*options.RunOptions)
		want   string
	}{
		{"plain", func(*options.RunOptions) {}, "dew|is"},
		{"ignore case", func(o *options.RunOptions) { o.IgnoreCase = true }, "(?i)dew|is"},
		{"line", func(o *options.RunOptions) { o.LineMatch = true }, "^(dew)$|^(is)$"},
		{"word", func(o *options.RunOptions) { o.WordMatch = true }, `\bdew\b|\bis\b`},
		{"line suppresses word", func(o *options.RunOptions) { o.LineMatch, o.WordMatch = true, true }, "^(dew)$|^(is)$"},
		{"word and case", func(o *options.RunOptions) { o.WordMatch, o.IgnoreCase = true, true }, `(?i)\bdew\b|\bis\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts("dew", "is")
			tt.mutate(&o)
			assert.Equal(t, tt.want, Assemble(o))
		})
	}
}

func TestAssembleFixedStrings(t *testing.T) {
	o := opts("a.c", "x|y")
	o.FixedStrings = true
	assert.Equal(t, `a\.c|x\|y`, Assemble(o))
}

func TestLineMatchIsFullLine(t *testing.T) {
	for _, engine := range []options.Engine{options.EngineRE2, options.EnginePCRE} {
		o := opts("world of dew", "is")
		o.LineMatch = true
		o.Engine = engine
		m, err := Compile(o)
		require.NoError(t, err)

		spans, err := m.FindLine("world of dew")
		require.NoError(t, err)
		assert.Equal(t, []Span{{0, 12}}, spans, engine)

		spans, err = m.FindLine("this world of dew")
		require.NoError(t, err)
		assert.Empty(t, spans, engine)
	}
}

func TestWordMatchIsBounded(t *testing.T) {
	for _, engine := range []options.Engine{options.EngineRE2, options.EnginePCRE} {
		o := opts("dew")
		o.WordMatch = true
		o.Engine = engine
		m, err := Compile(o)
		require.NoError(t, err)

		spans, err := m.FindLine("This world of dew,")
		require.NoError(t, err)
		assert.Equal(t, []Span{{14, 17}}, spans, engine)

		spans, err = m.FindLine("dewy morning")
		require.NoError(t, err)
		assert.Empty(t, spans, engine)
	}
}

func TestIgnoreCase(t *testing.T) {
	o := opts("t")
	o.IgnoreCase = true
	m, err := Compile(o)
	require.NoError(t, err)

	spans, err := m.FindLine("This tat")
	require.NoError(t, err)
	assert.Equal(t, []Span{{0, 1}, {5, 6}, {7, 8}}, spans)
}

func TestInvalidPattern(t *testing.T) {
	for _, engine := range []options.Engine{options.EngineRE2, options.EnginePCRE} {
		o := opts("a(b")
		o.Engine = engine
		_, err := Compile(o)
		require.Error(t, err)
		assert.True(t, gerrors.IsCode(err, gerrors.ErrCodeInvalidPattern), engine)
		assert.True(t, gerrors.IsConfiguration(err))
	}
}

func TestPCRELookaround(t *testing.T) {
	o := opts(`dew(?=,)`)
	o.Engine = options.EnginePCRE
	m, err := Compile(o)
	require.NoError(t, err)

	spans, err := m.FindLine("dew dew,")
	require.NoError(t, err)
	assert.Equal(t, []Span{{4, 7}}, spans)

	_, err = Compile(opts(`dew(?=,)`))
	assert.Error(t, err, "re2 rejects look-ahead")
}

func TestPCREByteOffsetsWithMultibyteText(t *testing.T) {
	o := opts("dew")
	o.Engine = options.EnginePCRE
	m, err := Compile(o)
	require.NoError(t, err)

	line := "露 dew ≈ dew"
	spans, err := m.FindLine(line)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "dew", line[s.Start:s.End])
	}
}

func TestNoPatternsNeverMatch(t *testing.T) {
	m, err := Compile(options.Default())
	require.NoError(t, err)
	spans, err := m.FindLine("anything")
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestEmptyPatternMatchesEveryLine(t *testing.T) {
	m, err := Compile(opts(""))
	require.NoError(t, err)
	spans, err := m.FindLine("")
	require.NoError(t, err)
	require.NotEmpty(t, spans)
	assert.True(t, spans[0].Empty())
}

func TestSearchLines(t *testing.T) {
	m, err := Compile(opts("dew"))
	require.NoError(t, err)

	got, err := SearchLines(m, "This world of dew,\nis a world of dew,\nand yet, and yet.")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []Span{{14, 17}}, got[0])
	assert.Equal(t, []Span{{14, 17}}, got[1])
	assert.Empty(t, got[2])
}

func TestInvertedCharacterClassCount(t *testing.T) {
	m, err := Compile(opts("[cgCG]"))
	require.NoError(t, err)

	content := "Cold rain\n\nthe old pond\nfrog jumps\nsplash\n"
	got, err := SearchLines(m, content)
	require.NoError(t, err)

	var unmatched []int
	for i, line := range Lines(content) {
		if len(got[i]) == 0 && line != "" {
			unmatched = append(unmatched, i)
		}
	}
	assert.Equal(t, []int{2, 4}, unmatched)
}

func TestPCRETimeoutIsMatchFailed(t *testing.T) {
	o := opts(`^(a+)+$`)
	o.Engine = options.EnginePCRE
	m, err := Compile(o)
	require.NoError(t, err)
	m.(*pcreMatcher).re.MatchTimeout = 10 * time.Millisecond

	_, err = m.FindLine(strings.Repeat("a", 40) + "!")
	require.Error(t, err)
	assert.True(t, gerrors.IsCode(err, gerrors.ErrCodeMatchFailed))
	assert.False(t, gerrors.IsConfiguration(err))

	_, err = SearchLines(m, "ok\n"+strings.Repeat("a", 40)+"!")
	assert.True(t, gerrors.IsCode(err, gerrors.ErrCodeMatchFailed))
}
