package repository

import "errors"

var (
	// ErrSubmissionNotEditable covers missing, non-owned and already-resolved
	// submissions alike so callers cannot probe for other users' proposals.
	ErrSubmissionNotEditable = errors.New("submission not found or cannot be edited")

	// ErrSubmissionResolved is returned when a terminal submission is
	// approved or rejected a second time.
	ErrSubmissionResolved = errors.New("submission already resolved")

	// ErrInvalidSubmission marks a payload that cannot be applied, for
	// example an update without an original id.
	ErrInvalidSubmission = errors.New("submission payload is invalid")
)
