package service

import "errors"

var (
	// ErrNotFound signals the requested entity or submission does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNotEditable covers missing, non-owned and resolved submissions with
	// one indistinguishable failure.
	ErrNotEditable = errors.New("submission not found or cannot be edited")

	// ErrAlreadyResolved signals an approve/reject on a terminal submission.
	ErrAlreadyResolved = errors.New("submission already resolved")

	// ErrInvalidPayload signals a submission whose shape or payload violates
	// the entity schema.
	ErrInvalidPayload = errors.New("invalid submission payload")
)
