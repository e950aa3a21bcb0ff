package service

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both records that do not exist and records owned by
// another user. Ownership mismatches deliberately look identical to missing
// records so that probing never confirms a record's existence.
var ErrNotFound = errors.New("record not found")

// StaleAggregateError reports that a note mutation committed but the parent
// summary refresh afterwards failed. The note data is correct; the parent's
// note_count/last_note stay stale until the next successful mutation on the
// same pathology. Callers should treat this as a warning on an otherwise
// successful operation, not roll anything back.
type StaleAggregateError struct {
	PathologyID string
	Err         error
}

func (e *StaleAggregateError) Error() string {
	return fmt.Sprintf("pathology %s summary is stale: %v", e.PathologyID, e.Err)
}

func (e *StaleAggregateError) Unwrap() error {
	return e.Err
}

// CascadeError reports a cascade delete aborted before touching the parent.
// Some children may already be gone; the operation is safe to retry after
// re-listing the remaining children.
type CascadeError struct {
	ParentID string
	Failed   int
	Err      error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete of %s aborted, %d child deletes failed: %v", e.ParentID, e.Failed, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
