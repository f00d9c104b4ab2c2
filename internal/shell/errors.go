package shell

import (
	"errors"
	"fmt"

	"github.com/stackvity/memsh/internal/filesystem"
)

// ErrExit is returned by the exit and shutdown commands to end the session.
var ErrExit = errors.New("session ended")

// Kind classifies a recoverable command failure.
type Kind int

const (
	// KindGeneric covers failures with no specific kind, such as a malformed number.
	KindGeneric Kind = iota
	KindNotFound
	KindAlreadyExists
	KindWrongKind
	KindMalformedArgument
	KindUnknownCommand
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindWrongKind:
		return "WrongKind"
	case KindMalformedArgument:
		return "MalformedArgument"
	case KindUnknownCommand:
		return "UnknownCommand"
	default:
		return "Generic"
	}
}

// Notice is a failure reported to the user on the same interaction.
// It never ends the session.
type Notice struct {
	Kind Kind
	Msg  string
}

func (n *Notice) Error() string {
	return n.Msg
}

func noticef(kind Kind, format string, args ...any) *Notice {
	return &Notice{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// kindOf maps a store error onto a notice kind.
func kindOf(err error) Kind {
	switch {
	case errors.Is(err, filesystem.ErrNotFound):
		return KindNotFound
	case errors.Is(err, filesystem.ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, filesystem.ErrWrongKind):
		return KindWrongKind
	case errors.Is(err, filesystem.ErrInvalidPath):
		return KindMalformedArgument
	default:
		return KindGeneric
	}
}
