package repo

import "errors"

// Validation errors surfaced to the user. Missing targets are not
// errors here: an unknown id can only come from stale UI state, so
// those operations are silent no-ops.
var (
	ErrEmptyTitle         = errors.New("task title must not be empty")
	ErrEmptyCategoryTitle = errors.New("category title must not be empty")
)
