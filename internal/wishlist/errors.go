package wishlist

import "errors"

// Input validation errors never mutate session state.
var (
	ErrEmptyInput         = errors.New("input is empty")
	ErrEmptyLedger        = errors.New("wish list is empty")
	ErrLedgerFrozen       = errors.New("wish list has been submitted")
	ErrLockedTier         = errors.New("tier is locked")
	ErrUnknownTier        = errors.New("unknown tier")
	ErrSessionBusy        = errors.New("a question is already pending")
	ErrPanelLocked        = errors.New("advisory panel opens after the wish list is judged")
	ErrEmptyDocument      = errors.New("no text could be extracted from the document")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrSessionClosed      = errors.New("session closed")
)

// ErrAlreadySubmitted marks a repeated finalize. Finalize swallows it and
// returns the existing judgment instead.
var ErrAlreadySubmitted = errors.New("wish list already submitted")
