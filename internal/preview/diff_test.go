package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_SingleChange(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Context: 1}

	require.NoError(t, p.Fprint(&buf, "cfg.py", "a\nb\nc\n", "a\nB\nc\n"))

	want := strings.Join([]string{
		"--- cfg.py",
		"+++ cfg.py",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+B",
		" c",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Insertion(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Context: 0}

	require.NoError(t, p.Fprint(&buf, "x", "X = 1\n", "X = 2\nY = 3\n"))

	out := buf.String()
	assert.Contains(t, out, "-X = 1\n")
	assert.Contains(t, out, "+X = 2\n")
	assert.Contains(t, out, "+Y = 3\n")
}

func TestPrinter_SplitsDistantChanges(t *testing.T) {
	from := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	to := "one\n2\n3\n4\n5\n6\n7\n8\n9\nten\n"
	var buf bytes.Buffer

	require.NoError(t, Printer{Context: 1}.Fprint(&buf, "n", from, to))

	assert.Equal(t, 2, strings.Count(buf.String(), "@@ -"))
	assert.NotContains(t, buf.String(), " 5\n")
}

func TestPrinter_Equal(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Printer{}.Fprint(&buf, "same", "a\n", "a\n"))
	assert.Empty(t, buf.String())
}

func TestPrinter_ShowsCarriageReturn(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Printer{}.Fprint(&buf, "crlf", "a\r\n", "b\r\n"))
	assert.Contains(t, buf.String(), `-a\r`)
	assert.Contains(t, buf.String(), `+b\r`)
}

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Printer{Color: true}.Fprint(&buf, "c", "a\n", "b\n"))
	assert.Contains(t, buf.String(), "\x1b[31m-a")
	assert.Contains(t, buf.String(), "\x1b[32m+b")
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseColorMode("rainbow")
	assert.Error(t, err)
}

func TestColorMode_Enabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ColorAlways.Enabled(&buf))
	assert.False(t, ColorNever.Enabled(&buf))
	assert.False(t, ColorAuto.Enabled(&buf), "non-file writers are never terminals")
}
