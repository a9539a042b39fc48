package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(msgs *[]string) Warner {
	return func(m string) { *msgs = append(*msgs, m) }
}

func TestDefault(t *testing.T) {
	want := Palette{
		SelectedMatch: "01;33",
		ContextMatch:  "01;33",
		SelectedLine:  "",
		ContextLine:   "",
		FileName:      "32",
		LineNumber:    "31",
		ByteOffset:    "36",
		Separator:     "35",
	}
	assert.Equal(t, want, Default())
}

func TestParseValid(t *testing.T) {
	var warnings []string
	p := Parse("ms=30:mc=91:fn=93:ln=95:se=107;91", collect(&warnings))

	want := Default()
	want.SelectedMatch = "30"
	want.ContextMatch = "91"
	want.FileName = "93"
	want.LineNumber = "95"
	want.Separator = "107;91"

	assert.Equal(t, want, p)
	assert.Empty(t, warnings)
}

func TestParseMatchShorthand(t *testing.T) {
	p := Parse("mt=30", nil)
	assert.Equal(t, "30", p.SelectedMatch)
	assert.Equal(t, "30", p.ContextMatch)
	assert.Equal(t, "32", p.FileName)
}

func TestParseEmpty(t *testing.T) {
	var warnings []string
	assert.Equal(t, Default(), Parse("", collect(&warnings)))
	assert.Empty(t, warnings)
}

func TestParseNonASCII(t *testing.T) {
	var warnings []string
	assert.Equal(t, Default(), Parse("ms=30:Ã98", collect(&warnings)))
	assert.Len(t, warnings, 1)
}

func TestParseSkipsBadSegments(t *testing.T) {
	var warnings []string
	p := Parse("zz=1:ms:fn=32x:sl=1::bn=4", collect(&warnings))

	assert.Equal(t, "1", p.SelectedLine)
	assert.Equal(t, "4", p.ByteOffset)
	assert.Equal(t, "32", p.FileName, "invalid code keeps default")
	assert.Equal(t, []string{
		"Unknown color option: zz",
		`Invalid color option format: "ms"`,
		`Invalid color code for fn: "32x"`,
	}, warnings)
}

func TestResolveLayers(t *testing.T) {
	p := Resolve("ms=31:fn=34", "fn=35", nil)
	assert.Equal(t, "31", p.SelectedMatch)
	assert.Equal(t, "35", p.FileName)
}

func TestCode(t *testing.T) {
	p := Default()
	p.SelectedLine = "7"
	assert.Equal(t, "01;33", p.Code(SelectedMatch))
	assert.Equal(t, "7", p.Code(SelectedLine))
	assert.Equal(t, "35", p.Code(Separator))
	assert.Equal(t, "", p.Code(Category("zz")))
}

func TestEscapeAndWrap(t *testing.T) {
	assert.Equal(t, "\x1b[32m", Escape("32"))
	assert.Equal(t, "", Escape(""))
	assert.Equal(t, "\x1b[32mfile path\x1b[0m", Wrap("32", "file path"))
	assert.Equal(t, "plain", Wrap("", "plain"))
}
