package present

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/text/unicode/norm"
)

// Terminal writes colored, symbol-prefixed messages and box-drawn tables.
type Terminal struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

// NewTerminal creates a terminal presenter. Errors go to errOut.
func NewTerminal(out, errOut io.Writer, noColor bool) *Terminal {
	if errOut == nil {
		errOut = out
	}
	return &Terminal{out: out, errOut: errOut, noColor: noColor}
}

func (t *Terminal) line(w io.Writer, attr color.Attribute, symbol, msg string) {
	if t.noColor {
		fmt.Fprintf(w, "%s %s\n", symbol, msg)
		return
	}
	c := color.New(attr)
	c.EnableColor()
	c.Fprintf(w, "%s %s\n", symbol, msg)
}

// ShowSuccess prints a success message.
func (t *Terminal) ShowSuccess(msg string) {
	t.line(t.out, color.FgGreen, "✓", msg)
}

// ShowError prints an error message.
func (t *Terminal) ShowError(msg string) {
	t.line(t.errOut, color.FgRed, "✗", msg)
}

// ShowWarning prints a warning message.
func (t *Terminal) ShowWarning(msg string) {
	t.line(t.out, color.FgYellow, "⚠", msg)
}

// ShowInfo prints an info message.
func (t *Terminal) ShowInfo(msg string) {
	t.line(t.out, color.FgCyan, "ℹ", msg)
}

// Step prints a progress step.
func (t *Terminal) Step(msg string) {
	t.line(t.out, color.FgBlue, "→", msg)
}

// ShowTable prints a box-drawn table. Rows are padded or cut to the header.
func (t *Terminal) ShowTable(columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, h := range columns {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if n := displayWidth(row[i]); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	glyphs := boxGlyphs
	if t.noColor {
		glyphs = asciiGlyphs
	}
	frame := color.New(color.FgCyan, color.Bold)
	frame.EnableColor()
	paint := func(s string) string {
		if t.noColor {
			return s
		}
		return frame.Sprint(s)
	}

	rule := func(left, mid, right string) {
		var b strings.Builder
		b.WriteString(paint(left))
		for i, w := range widths {
			b.WriteString(strings.Repeat(glyphs.horizontal, w+2))
			if i < len(widths)-1 {
				b.WriteString(paint(mid))
			}
		}
		b.WriteString(paint(right))
		fmt.Fprintln(t.out, b.String())
	}

	cells := func(values []string, border string) {
		var b strings.Builder
		b.WriteString(border)
		for i, w := range widths {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			b.WriteString(" " + pad(v, w) + " ")
			b.WriteString(border)
		}
		fmt.Fprintln(t.out, b.String())
	}

	rule(glyphs.topLeft, glyphs.topMid, glyphs.topRight)
	cells(columns, paint(glyphs.vertical))
	rule(glyphs.midLeft, glyphs.cross, glyphs.midRight)
	for _, row := range rows {
		cells(row, glyphs.vertical)
	}
	rule(glyphs.bottomLeft, glyphs.bottomMid, glyphs.bottomRight)
}

// ShowList prints numbered lines.
func (t *Terminal) ShowList(items []string) {
	for i, item := range items {
		fmt.Fprintf(t.out, "  %d. %s\n", i+1, item)
	}
}

type tableGlyphs struct {
	horizontal, vertical               string
	topLeft, topMid, topRight          string
	midLeft, cross, midRight           string
	bottomLeft, bottomMid, bottomRight string
}

var (
	boxGlyphs = tableGlyphs{
		horizontal: "─", vertical: "│",
		topLeft: "┌", topMid: "┬", topRight: "┐",
		midLeft: "├", cross: "┼", midRight: "┤",
		bottomLeft: "└", bottomMid: "┴", bottomRight: "┘",
	}
	asciiGlyphs = tableGlyphs{
		horizontal: "-", vertical: "|",
		topLeft: "+", topMid: "+", topRight: "+",
		midLeft: "+", cross: "+", midRight: "+",
		bottomLeft: "+", bottomMid: "+", bottomRight: "+",
	}
)

// displayWidth counts runes after composing, so "ệ" is one column whether it
// arrived precomposed or not.
func displayWidth(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

func pad(s string, width int) string {
	s = norm.NFC.String(s)
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
