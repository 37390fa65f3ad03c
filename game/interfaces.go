package game

import (
	"context"
	"errors"
	"time"
)

// MessageRef identifies a sent chat message so its text can be edited
// later (the countdown progress bar).
type MessageRef struct {
	RoomID string
	ID     string
}

// Messenger is the outbound side of the chat platform. Send failures are
// surfaced; Edit is best-effort and callers swallow its errors.
type Messenger interface {
	Send(roomID, text string) (MessageRef, error)
	Edit(ref MessageRef, text string) error
}

// MoveProvider produces a candidate word for a bot turn. lastLetter is
// empty when the chain is empty. Candidates are untrusted; the engine
// re-runs them through the full submission pipeline. Providers return
// ErrNoMove (or any error) once their internal retries are exhausted.
type MoveProvider interface {
	Request(ctx context.Context, lastLetter string, recent []string) (string, error)
}

// ErrNoMove is returned by a MoveProvider that could not produce a
// candidate after its bounded retries.
var ErrNoMove = errors.New("no move available")

// Dictionary is the reloadable word oracle the engine validates against.
type Dictionary interface {
	Contains(word string) bool
	Reload() error
	Len() int
	Suggest(letter string, exclude map[string]struct{}, limit int) []string
}

// Collector receives engine metrics. Implementations must be safe for
// concurrent use; a nil collector disables reporting.
type Collector interface {
	SetActiveRooms(n int)
	WordAccepted()
	WordRejected()
	TurnSkipped()
	ObserveMoveLatency(d time.Duration)
}
