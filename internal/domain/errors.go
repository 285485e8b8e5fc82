package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the store and service layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrInUse        = errors.New("resource is referenced by a campaign")
	ErrDuplicate    = errors.New("resource already exists")
	ErrInvalidState = errors.New("invalid status transition")
)

// AccessDeniedError names the references that failed an ownership check.
// It matches ErrAccessDenied with errors.Is.
type AccessDeniedError struct {
	Refs []string
}

func (e *AccessDeniedError) Error() string {
	if len(e.Refs) == 0 {
		return ErrAccessDenied.Error()
	}
	return "access denied: invalid " + strings.Join(e.Refs, ", ")
}

func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }
