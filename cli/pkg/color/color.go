// Package color is a minimal ANSI terminal color helper. It covers the few
// styles the vwatch CLI needs without pulling in a full terminal library.
package color

import (
	"fmt"
	"io"
	"strconv"
)

const reset = "\033[0m"

// Foreground colors and attributes.
const (
	FgBlack   = 30
	FgRed     = 31
	FgGreen   = 32
	FgYellow  = 33
	FgBlue    = 34
	FgMagenta = 35
	FgCyan    = 36
	FgWhite   = 37

	Bold      = 1
	Dim       = 2
	Underline = 4
)

// NoColor disables all escape sequences, for piped output or tests.
var NoColor = false

// Color is a reusable set of ANSI attributes.
type Color struct {
	params []int
}

// New creates a Color from the given attributes.
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

// seq returns the ANSI escape sequence for this color, or "" when color is
// disabled or no attributes are set.
func (c *Color) seq() string {
	if NoColor || len(c.params) == 0 {
		return ""
	}
	out := "\033["
	for i, p := range c.params {
		if i > 0 {
			out += ";"
		}
		out += strconv.Itoa(p)
	}
	return out + "m"
}

func (c *Color) wrap(s string) string {
	esc := c.seq()
	if esc == "" {
		return s
	}
	return esc + s + reset
}

// Sprintf returns the formatted string wrapped in this color.
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}

// Sprint returns the concatenated arguments wrapped in this color.
func (c *Color) Sprint(a ...interface{}) string {
	return c.wrap(fmt.Sprint(a...))
}

// Fprintf writes formatted colored output to w.
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.Sprintf(format, a...))
}
