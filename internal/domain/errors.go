package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidEntry is matched by every *EntryError.
var ErrInvalidEntry = errors.New("invalid time entry")

// EntryError reports a structurally invalid entry in a batch.
type EntryError struct {
	Index  int
	ID     string
	Reason string
}

func (e *EntryError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("entry %d (id %s): %s", e.Index, e.ID, e.Reason)
}

func (e *EntryError) Is(target error) bool { return target == ErrInvalidEntry }
