package editor

import (
	"fmt"
	"strings"

	"github.com/stackvity/memsh/internal/console"
)

const (
	gutter     = "| "
	footerRule = "----------------------------------------"
	helpLine   = "ESC: exit without saving | Ctrl+S: save | Arrows: move"
)

// Render draws s as a full screen: a title, at most rows lines of text, a
// footer rule and a help line. Lines past rows are not drawn; there is no
// scrolling. The terminal cursor is left on the editing position when it is
// inside the visible window.
func Render(s State, title string, rows int, pal console.Palette) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	for i, line := range s.Lines {
		if i >= rows {
			break
		}
		b.WriteString(pal.Muted(gutter))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(pal.Muted(footerRule))
	b.WriteString("\n")
	b.WriteString(pal.Muted(helpLine))

	if s.Line < rows {
		// Row 1 is the title; columns are 1-based after the gutter.
		fmt.Fprintf(&b, "\x1b[%d;%dH", s.Line+2, s.Col+len(gutter)+1)
	}
	return b.String()
}
