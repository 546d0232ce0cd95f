package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// palette colours severities and locations when writing to a terminal.
type palette struct {
	enabled bool
}

func newPalette(w io.Writer) palette {
	return palette{enabled: isTerminal(w)}
}

func (p palette) paint(c *color.Color, s string) string {
	if p.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (p palette) severity(name string) string {
	var c *color.Color
	switch name {
	case "Error":
		c = color.New(color.FgRed, color.Bold)
	case "Warning":
		c = color.New(color.FgYellow)
	case "Information":
		c = color.New(color.FgBlue)
	default:
		c = color.New(color.Faint)
	}
	return p.paint(c, name)
}

func (p palette) location(s string) string {
	return p.paint(color.New(color.FgCyan), s)
}

func (p palette) faint(s string) string {
	return p.paint(color.New(color.Faint), s)
}
