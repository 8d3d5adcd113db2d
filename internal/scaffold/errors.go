package scaffold

import (
	"errors"
	"fmt"
)

// Kind classifies a scaffolding failure.
type Kind int

const (
	// KindInvalidInput is a malformed project name or inconsistent flags.
	KindInvalidInput Kind = iota + 1
	// KindTargetExists is a destination that exists and is not an empty directory.
	KindTargetExists
	// KindVersionResolution means no compatible version was found by any path.
	KindVersionResolution
	// KindRenderingInternal is a catalog/engine mismatch: a defect in the tool.
	KindRenderingInternal
	// KindMaterialization is a filesystem failure while writing the project.
	KindMaterialization
	// KindCanceled means the run was interrupted before anything was written.
	KindCanceled
)

// Sentinels matched by errors.Is against *Error.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTargetExists      = errors.New("destination already exists")
	ErrVersionResolution = errors.New("version resolution failed")
	ErrRenderingInternal = errors.New("internal rendering error")
	ErrMaterialization   = errors.New("writing project failed")
	ErrCanceled          = errors.New("interrupted")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindTargetExists:
		return ErrTargetExists
	case KindVersionResolution:
		return ErrVersionResolution
	case KindRenderingInternal:
		return ErrRenderingInternal
	case KindMaterialization:
		return ErrMaterialization
	case KindCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ExitCode returns the process exit code for k.
func (k Kind) ExitCode() int {
	switch k {
	case KindInvalidInput:
		return 2
	case KindTargetExists:
		return 3
	case KindVersionResolution:
		return 4
	case KindRenderingInternal:
		return 70
	case KindMaterialization:
		return 74
	case KindCanceled:
		return 130
	default:
		return 1
	}
}

// Error is a classified scaffolding failure.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidInput:
		if e.Err != nil {
			return e.Err.Error()
		}
		return ErrInvalidInput.Error()
	case KindTargetExists:
		msg := fmt.Sprintf("destination %s already exists", e.Path)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	case KindVersionResolution:
		return fmt.Sprintf("resolving dependency versions: %v", e.Err)
	case KindRenderingInternal:
		return fmt.Sprintf("internal error rendering project templates (please report this bug): %v", e.Err)
	case KindMaterialization:
		return fmt.Sprintf("writing project to %s: %v", e.Path, e.Err)
	case KindCanceled:
		return fmt.Sprintf("interrupted, nothing was written: %v", e.Err)
	default:
		return fmt.Sprintf("%v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// ExitCode maps err to a process exit code: 0 for nil, the kind's code for
// *Error, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind.ExitCode()
	}
	return 1
}
