// Package preview renders the difference between a document before and
// after patching.
package preview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
	}
}

// Enabled resolves the mode for the given output.
func (m ColorMode) Enabled(out io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Line is one line of a rendered diff.
type Line struct {
	Op   diffpatch.Operation
	Text string // without trailing newline
}

// Lines computes a line-level diff between from and to.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []Line
	for _, d := range diffs {
		for _, l := range splitLines(d.Text) {
			out = append(out, Line{Op: d.Type, Text: l})
		}
	}
	return out
}

// splitLines splits on '\n' keeping any '\r' so CRLF changes stay visible.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Printer writes unified-style diffs.
type Printer struct {
	Context int
	Color   bool
}

// Fprint writes the diff between from and to, labelled with path.
// It writes nothing when the texts are equal.
func (p Printer) Fprint(w io.Writer, path, from, to string) error {
	if from == to {
		return nil
	}

	del := fmt.Sprint
	ins := fmt.Sprint
	hdr := fmt.Sprint
	if p.Color {
		del = colorize(color.FgRed)
		ins = colorize(color.FgGreen)
		hdr = colorize(color.FgCyan)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", hdr("--- "+path), hdr("+++ "+path)); err != nil {
		return err
	}

	lines := Lines(from, to)
	for _, h := range hunks(lines, p.Context) {
		if _, err := fmt.Fprintln(w, hdr(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.fromLine, h.fromCount, h.toLine, h.toCount))); err != nil {
			return err
		}
		for _, l := range lines[h.start:h.end] {
			var s string
			switch l.Op {
			case diffpatch.DiffDelete:
				s = del("-" + visible(l.Text))
			case diffpatch.DiffInsert:
				s = ins("+" + visible(l.Text))
			default:
				s = " " + visible(l.Text)
			}
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func colorize(attr color.Attribute) func(a ...interface{}) string {
	c := color.New(attr)
	c.EnableColor()
	return c.SprintFunc()
}

// visible shows a trailing carriage return, which terminals otherwise hide.
func visible(s string) string {
	if strings.HasSuffix(s, "\r") {
		return strings.TrimSuffix(s, "\r") + `\r`
	}
	return s
}

type hunk struct {
	start, end          int // range in the Line slice
	fromLine, fromCount int
	toLine, toCount     int
}

// hunks groups changed lines with up to ctx lines of surrounding context.
func hunks(lines []Line, ctx int) []hunk {
	if ctx < 0 {
		ctx = 0
	}

	var out []hunk
	i := 0
	for i < len(lines) {
		if lines[i].Op == diffpatch.DiffEqual {
			i++
			continue
		}
		start := max(i-ctx, 0)
		end := i
		// extend while the gap between changes fits in two contexts
		for end < len(lines) {
			if lines[end].Op != diffpatch.DiffEqual {
				end++
				continue
			}
			gap := end
			for gap < len(lines) && lines[gap].Op == diffpatch.DiffEqual {
				gap++
			}
			if gap == len(lines) || gap-end > 2*ctx {
				end = min(end+ctx, len(lines))
				break
			}
			end = gap
		}
		out = append(out, newHunk(lines, start, end))
		i = end
	}
	return out
}

func newHunk(lines []Line, start, end int) hunk {
	fromLine, toLine := 1, 1
	for _, l := range lines[:start] {
		if l.Op != diffpatch.DiffInsert {
			fromLine++
		}
		if l.Op != diffpatch.DiffDelete {
			toLine++
		}
	}
	h := hunk{start: start, end: end, fromLine: fromLine, toLine: toLine}
	for _, l := range lines[start:end] {
		if l.Op != diffpatch.DiffInsert {
			h.fromCount++
		}
		if l.Op != diffpatch.DiffDelete {
			h.toCount++
		}
	}
	return h
}
