package workflow

import (
	"errors"
	"fmt"
)

// ErrNotInteractable is wrapped by Element implementations when an element is
// present but refuses the interaction (covered, detached, disabled).
var ErrNotInteractable = errors.New("element not interactable")

// Kind classifies fatal workflow errors.
type Kind string

const (
	KindConfig           Kind = "config"
	KindSessionInit      Kind = "session_init"
	KindAuthentication   Kind = "authentication"
	KindChallengeBlocked Kind = "challenge_blocked"
	KindTargetNotFound   Kind = "target_not_found"
	KindInteraction      Kind = "interaction"
	KindTextEntry        Kind = "text_entry"
	KindSaveFailed       Kind = "save_failed"

	// KindCancelled marks a run stopped by its context (signal or run timeout), whatever stage it was in.
	KindCancelled Kind = "cancelled"
)

// Error is returned by Run for every fatal outcome.
type Error struct {
	Kind  Kind
	Stage State
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s during %s", e.Kind, e.Stage)
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, &Error{Kind: k}) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Kind == e.Kind && t.Err == nil
}

func newError(kind Kind, stage State, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a workflow error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}
