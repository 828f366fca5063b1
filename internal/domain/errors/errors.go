package errors

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
	ErrExpired       = errors.New("expired")
	ErrQuotaExceeded = errors.New("download limit reached")
	ErrUpstream      = errors.New("upstream provider failure")
)
