package models

import "errors"

// Sentinel errors for the booking lifecycle. Services wrap these with
// context via fmt.Errorf("%w: ..."); handlers map them to HTTP codes
// with errors.Is.
var (
	// ErrNotFound means a booking or user id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means the requested status change is not legal
	// from the booking's current state (e.g. accepting a non-pending booking).
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrForbidden means the caller lacks the role or ownership required.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means the request carried malformed or missing fields.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate means a unique field (email, phone, id number) is taken.
	ErrDuplicate = errors.New("already exists")
)
