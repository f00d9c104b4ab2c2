package console

import (
	"bufio"
	"unicode"
)

// KeyCode identifies a logical keystroke.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	KeySave
	KeyInterrupt
)

var keyNames = map[KeyCode]string{
	KeyUnknown:   "unknown",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyEscape:    "escape",
	KeySave:      "save",
	KeyInterrupt: "interrupt",
}

func (c KeyCode) String() string {
	if name, ok := keyNames[c]; ok {
		return name
	}
	return "unknown"
}

// Key is one decoded keystroke. Rune is set only for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// Rune returns the key for a printable character.
func Rune(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Special returns the key for a non-printable code.
func Special(code KeyCode) Key {
	return Key{Code: code}
}

// Type returns the keystrokes needed to type s.
func Type(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		if r == '\n' {
			keys = append(keys, Special(KeyEnter))
			continue
		}
		keys = append(keys, Rune(r))
	}
	return keys
}

// Control bytes produced by a terminal in raw mode.
const (
	byteCtrlC     = 0x03
	byteBackspace = 0x08
	byteCtrlS     = 0x13
	byteEscape    = 0x1b
	byteDelete    = 0x7f
)

// DecodeKey reads one logical keystroke from r. Escape sequences for the arrow
// keys are recognized when their bytes are already buffered; a lone escape byte
// with nothing buffered behind it is the Escape key.
func DecodeKey(r *bufio.Reader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch b {
	case '\r', '\n':
		return Special(KeyEnter), nil
	case byteBackspace, byteDelete:
		return Special(KeyBackspace), nil
	case byteCtrlS:
		return Special(KeySave), nil
	case byteCtrlC:
		return Special(KeyInterrupt), nil
	case byteEscape:
		return decodeEscape(r)
	}

	if b < 0x20 {
		return Special(KeyUnknown), nil
	}
	if err := r.UnreadByte(); err != nil {
		return Key{}, err
	}
	ch, _, err := r.ReadRune()
	if err != nil {
		return Key{}, err
	}
	if !unicode.IsPrint(ch) {
		return Special(KeyUnknown), nil
	}
	return Rune(ch), nil
}

func decodeEscape(r *bufio.Reader) (Key, error) {
	if r.Buffered() == 0 {
		return Special(KeyEscape), nil
	}
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	if b != '[' && b != 'O' {
		// Not a sequence introducer: the escape stands alone.
		if err := r.UnreadByte(); err != nil {
			return Key{}, err
		}
		return Special(KeyEscape), nil
	}
	if r.Buffered() == 0 {
		return Special(KeyUnknown), nil
	}
	final, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch final {
	case 'A':
		return Special(KeyUp), nil
	case 'B':
		return Special(KeyDown), nil
	case 'C':
		return Special(KeyRight), nil
	case 'D':
		return Special(KeyLeft), nil
	}
	// Sequences like ESC [ 3 ~ carry a numeric parameter; swallow through the '~'.
	for final >= '0' && final <= '9' && r.Buffered() > 0 {
		if final, err = r.ReadByte(); err != nil {
			return Key{}, err
		}
	}
	return Special(KeyUnknown), nil
}
