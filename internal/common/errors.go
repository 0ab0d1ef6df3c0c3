package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrAuthenticationFailed = errors.New("incorrect username & password combination")
	ErrDuplicateUsername    = errors.New("user with this username already exist")
	ErrDuplicateEmail       = errors.New("user with this email already exist")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSignature     = errors.New("token signature is invalid")
	ErrBadRequest           = errors.New("bad request")
	ErrValidation           = errors.New("validation failed")
	ErrBackendUnavailable   = errors.New("backend unavailable")
	ErrInternalServer       = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidSignature) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return http.StatusServiceUnavailable
	}

	// Unique violations that slipped past the advisory pre-checks.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// ConflictField names the offending column for duplicate-key errors, or ""
// when the error is not a uniqueness conflict.
func ConflictField(err error) string {
	if errors.Is(err, ErrDuplicateUsername) {
		return "username"
	}
	if errors.Is(err, ErrDuplicateEmail) {
		return "email"
	}
	return ""
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
