package game

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid state")
	ErrAlreadyJoined        = errors.New("already joined")
	ErrAlreadyAnswered      = errors.New("already answered")
	ErrStaleQuestion        = errors.New("stale question")
	ErrInsufficientCurrency = errors.New("not enough coins")
	ErrOnCooldown           = errors.New("attack on cooldown")
	ErrSessionFull          = errors.New("game is full")
	ErrUnknownAttackKind    = errors.New("unknown attack kind")
	ErrDependencyFailure    = errors.New("dependency failure")
)

// ErrorKind is the kind string carried by an outbound error event
type ErrorKind string

const (
	KindNotFound             ErrorKind = "NotFound"
	KindInvalidState         ErrorKind = "InvalidState"
	KindAlreadyJoined        ErrorKind = "AlreadyJoined"
	KindAlreadyAnswered      ErrorKind = "AlreadyAnswered"
	KindStaleQuestion        ErrorKind = "StaleQuestion"
	KindInsufficientCurrency ErrorKind = "InsufficientCurrency"
	KindOnCooldown           ErrorKind = "OnCooldown"
	KindSessionFull          ErrorKind = "SessionFull"
	KindUnknownAttackKind    ErrorKind = "UnknownAttackKind"
	KindDependencyFailure    ErrorKind = "DependencyFailure"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotFound, KindNotFound},
	{ErrAlreadyJoined, KindAlreadyJoined},
	{ErrAlreadyAnswered, KindAlreadyAnswered},
	{ErrStaleQuestion, KindStaleQuestion},
	{ErrInsufficientCurrency, KindInsufficientCurrency},
	{ErrOnCooldown, KindOnCooldown},
	{ErrSessionFull, KindSessionFull},
	{ErrUnknownAttackKind, KindUnknownAttackKind},
	{ErrDependencyFailure, KindDependencyFailure},
	{ErrInvalidState, KindInvalidState},
}

// KindOf classifies err. Anything unrecognized is reported as InvalidState.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInvalidState
}

// Silent reports whether err is an idempotent no-op that must not be
// surfaced to the sender.
func Silent(err error) bool {
	return errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrAlreadyAnswered) ||
		errors.Is(err, ErrStaleQuestion)
}
