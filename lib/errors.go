package lib

import "errors"

// Command store errors. Every store operation reports a missing context or line with
// these instead of silently doing nothing; the store is left untouched when they are returned.
var (
	ErrCommandNotFound = errors.New("command not found")
	ErrLineNotFound    = errors.New("order line not found")
	ErrSectionRequired = errors.New("section id is required")
	ErrUnknownSection  = errors.New("unknown section")
)

// Catalog errors
var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuUnavailable    = errors.New("menu source unavailable")
)

// Reservation wizard errors
var (
	ErrWizardNotFound = errors.New("reservation wizard not found")
	ErrWizardStep     = errors.New("operation not allowed at this reservation step")
	ErrEmptyPreOrder  = errors.New("pre-order reservations need at least one item")
)

// External order submission errors
var (
	ErrExternalSubmission = errors.New("failed to create order")
	ErrNoFreeTable        = errors.New("no free table available")
	ErrNothingToSubmit    = errors.New("command has no lines to submit")
	ErrReceiptNotFound    = errors.New("order receipt not found")
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing bearer token")
)
