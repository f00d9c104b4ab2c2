package console

import (
	"github.com/gookit/color"
)

// Palette colors console output. The zero value prints plain text.
type Palette struct {
	Enabled bool
}

// Prompt renders the shell prompt.
func (p Palette) Prompt(s string) string {
	return p.paint(color.Blue, s)
}

// Notice renders a failure notice.
func (p Palette) Notice(s string) string {
	return p.paint(color.Red, s)
}

// Success renders a confirmation.
func (p Palette) Success(s string) string {
	return p.paint(color.Green, s)
}

// Muted renders secondary text such as the editor footer.
func (p Palette) Muted(s string) string {
	return p.paint(color.Gray, s)
}

func (p Palette) paint(c color.Color, s string) string {
	if !p.Enabled {
		return s
	}
	return c.Sprint(s)
}
