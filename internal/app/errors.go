package app

import (
	"errors"
	"fmt"
	"net/http"

	"wishlist/api/internal/session"
	"wishlist/api/internal/wishlist"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// errorTable maps core sentinels to HTTP responses. Order matters: the
// first match wins.
var errorTable = []struct {
	target error
	status int
	code   string
}{
	{session.ErrNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{wishlist.ErrSessionClosed, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{wishlist.ErrEmptyInput, http.StatusUnprocessableEntity, "EMPTY_INPUT"},
	{wishlist.ErrEmptyLedger, http.StatusUnprocessableEntity, "EMPTY_LEDGER"},
	{wishlist.ErrEmptyDocument, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"},
	{wishlist.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"},
	{wishlist.ErrLockedTier, http.StatusForbidden, "TIER_LOCKED"},
	{wishlist.ErrUnknownTier, http.StatusNotFound, "UNKNOWN_TIER"},
	{wishlist.ErrSessionBusy, http.StatusConflict, "SESSION_BUSY"},
	{wishlist.ErrLedgerFrozen, http.StatusConflict, "LEDGER_FROZEN"},
	{wishlist.ErrPanelLocked, http.StatusConflict, "PANEL_LOCKED"},
	{wishlist.ErrServiceUnavailable, http.StatusBadGateway, "SERVICE_UNAVAILABLE"},
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds size limit", map[string]any{"limit": tooLarge.Limit}
	}
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.status, entry.code, entry.target.Error(), nil
		}
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
