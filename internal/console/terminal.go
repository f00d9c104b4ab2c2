// Package console provides the terminal capability the shell runs on:
// reading a line, reading a single keystroke, writing text and clearing the screen.
package console

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ClearSequence moves the cursor home and erases the screen.
const ClearSequence = "\x1b[H\x1b[2J"

// Terminal is the abstract console the shell and editor consume.
type Terminal interface {
	io.Writer

	// ReadLine blocks until a full line is available and returns it without
	// the line terminator. It returns io.EOF when input is exhausted.
	ReadLine() (string, error)

	// ReadKey blocks until one keystroke is available.
	ReadKey() (Key, error)

	// Clear erases the screen.
	Clear()
}

// StdTerminal is a Terminal over a file descriptor, normally os.Stdin/os.Stdout.
// Raw mode is entered only for the duration of a single ReadKey call.
type StdTerminal struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewStdTerminal creates a terminal reading from in and writing to out.
func NewStdTerminal(in *os.File, out io.Writer) *StdTerminal {
	return &StdTerminal{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Write implements io.Writer.
func (t *StdTerminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadLine implements Terminal.
func (t *StdTerminal) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadKey implements Terminal. When the input is not a terminal the bytes are
// decoded as they come, which lets keystrokes be piped in.
func (t *StdTerminal) ReadKey() (Key, error) {
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return Key{}, err
		}
		defer term.Restore(fd, state) //nolint:errcheck
	}
	return DecodeKey(t.reader)
}

// Clear implements Terminal.
func (t *StdTerminal) Clear() {
	io.WriteString(t.out, ClearSequence) //nolint:errcheck
}

// IsInteractive reports whether in is attached to a terminal.
func IsInteractive(in *os.File) bool {
	return term.IsTerminal(int(in.Fd()))
}
