package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEvent is returned when a batch names a column the header
	// does not have. The whole batch is rejected.
	ErrUnknownEvent = errors.New("table: unknown event")

	// ErrMissingSwimmer is returned when a batch entry names a swimmer that
	// is not in the table and the decider chose to abort.
	ErrMissingSwimmer = errors.New("table: swimmer not in table")

	// ErrRejected is returned by the Reject decider.
	ErrRejected = errors.New("table: operation rejected by policy")
)

// EntryError records one batch entry or cell that could not be used. It
// never aborts the batch on its own.
type EntryError struct {
	Name  string `json:"name"`
	Event string `json:"event"`
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Name, e.Event, e.Value, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }
