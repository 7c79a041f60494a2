package vault_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTooLarge          = errors.New("file too large")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrRateLimited       = errors.New("rate limited")
	ErrUploadInFlight    = errors.New("upload already in progress")
	ErrNoFileSelected    = errors.New("no file selected")
	ErrProvider          = errors.New("video provider request failed")
	ErrAlreadyExists     = errors.New("already exists")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
