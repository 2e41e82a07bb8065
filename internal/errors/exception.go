package errors

import (
	"errors"
)

// Kind classifies failures so the CLI can pick an exit code without
// inspecting messages.
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindNoActiveSession
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindNoActiveSession:
		return "no active session"
	default:
		return "storage"
	}
}

type Exception struct {
	Message string
	Kind    Kind
}

func (e *Exception) Error() string {
	return e.Message
}

// KindOf reports the kind of the first Exception in err's chain. Anything
// else is treated as a storage failure.
func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindValidation:
		return 2
	case KindNotFound:
		return 3
	case KindConflict:
		return 4
	case KindNoActiveSession:
		return 5
	default:
		return 1
	}
}
