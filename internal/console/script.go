package console

import (
	"io"
)

// Script is a Terminal fed from prepared lines and keystrokes. It backs
// non-interactive runs (--exec) and tests. Reads past the prepared input
// return io.EOF.
type Script struct {
	out    io.Writer
	lines  []string
	keys   []Key
	Clears int
}

// NewScript returns a Script writing to out and answering ReadLine with lines.
func NewScript(out io.Writer, lines ...string) *Script {
	return &Script{out: out, lines: lines}
}

// AddLines queues more lines for ReadLine.
func (s *Script) AddLines(lines ...string) {
	s.lines = append(s.lines, lines...)
}

// AddKeys queues keystrokes for ReadKey.
func (s *Script) AddKeys(keys ...Key) {
	s.keys = append(s.keys, keys...)
}

// Pending returns how many lines and keys have not been consumed.
func (s *Script) Pending() (lines, keys int) {
	return len(s.lines), len(s.keys)
}

// Write implements io.Writer.
func (s *Script) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// ReadLine implements Terminal.
func (s *Script) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// ReadKey implements Terminal.
func (s *Script) ReadKey() (Key, error) {
	if len(s.keys) == 0 {
		return Key{}, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

// Clear implements Terminal.
func (s *Script) Clear() {
	s.Clears++
}

var _ Terminal = (*Script)(nil)
var _ Terminal = (*StdTerminal)(nil)
