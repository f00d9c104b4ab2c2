// Package editor implements the modal full-screen line editor used by the
// "edit" command. The keystroke handling is a pure transition over State so it
// can be exercised without a terminal; Editor wraps it with rendering and the
// blocking read loop.
package editor

import (
	"strings"

	"github.com/stackvity/memsh/internal/console"
)

// LineSeparator joins the lines of a file's content.
const LineSeparator = "\n"

// State is the editor's complete state. Line and Col are zero-based; Col counts runes.
type State struct {
	Lines   []string
	Line    int
	Col     int
	Editing bool
}

// Action tells the caller what side effect a keystroke asks for.
type Action int

const (
	ActionNone Action = iota
	ActionSave
)

// NewState opens content for editing with the cursor at the top-left.
// Empty content starts as a single empty line.
func NewState(content string) State {
	return State{
		Lines:   strings.Split(content, LineSeparator),
		Editing: true,
	}
}

// Content joins the lines back into a file payload.
func (s State) Content() string {
	return strings.Join(s.Lines, LineSeparator)
}

// ApplyKey returns the state that follows s after keystroke k. It never
// mutates s. Keys arriving after Escape are ignored.
func ApplyKey(s State, k console.Key) (State, Action) {
	if !s.Editing {
		return s, ActionNone
	}

	next := s
	next.Lines = append([]string(nil), s.Lines...)
	cur := []rune(next.Lines[next.Line])

	switch k.Code {
	case console.KeyRune:
		cur = append(cur[:next.Col], append([]rune{k.Rune}, cur[next.Col:]...)...)
		next.Lines[next.Line] = string(cur)
		next.Col++

	case console.KeyEnter:
		head, tail := string(cur[:next.Col]), string(cur[next.Col:])
		next.Lines[next.Line] = head
		next.Lines = insertLine(next.Lines, next.Line+1, tail)
		next.Line++
		next.Col = 0

	case console.KeyBackspace:
		switch {
		case next.Col > 0:
			cur = append(cur[:next.Col-1], cur[next.Col:]...)
			next.Lines[next.Line] = string(cur)
			next.Col--
		case next.Line > 0:
			prev := next.Lines[next.Line-1]
			next.Col = runeLen(prev)
			next.Lines[next.Line-1] = prev + string(cur)
			next.Lines = removeLine(next.Lines, next.Line)
			next.Line--
		}

	case console.KeyLeft:
		switch {
		case next.Col > 0:
			next.Col--
		case next.Line > 0:
			next.Line--
			next.Col = runeLen(next.Lines[next.Line])
		}

	case console.KeyRight:
		switch {
		case next.Col < len(cur):
			next.Col++
		case next.Line < len(next.Lines)-1:
			next.Line++
			next.Col = 0
		}

	case console.KeyUp:
		if next.Line > 0 {
			next.Line--
			next.Col = min(next.Col, runeLen(next.Lines[next.Line]))
		}

	case console.KeyDown:
		if next.Line < len(next.Lines)-1 {
			next.Line++
			next.Col = min(next.Col, runeLen(next.Lines[next.Line]))
		}

	case console.KeyEscape:
		next.Editing = false

	case console.KeySave:
		return next, ActionSave
	}

	return next, ActionNone
}

func insertLine(lines []string, at int, line string) []string {
	lines = append(lines, "")
	copy(lines[at+1:], lines[at:])
	lines[at] = line
	return lines
}

func removeLine(lines []string, at int) []string {
	return append(lines[:at], lines[at+1:]...)
}

func runeLen(s string) int {
	return len([]rune(s))
}
