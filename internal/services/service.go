package services

import "github.com/tbckr/asnmap/internal/apperr"

// ErrInvalidInput is re-exported from apperr so service callers can check
// errors.Is(err, services.ErrInvalidInput) without importing apperr.
var ErrInvalidInput = apperr.ErrInvalidInput

// ErrLookupFailed is re-exported from apperr.
var ErrLookupFailed = apperr.ErrLookupFailed

// ErrParseMiss is re-exported from apperr.
var ErrParseMiss = apperr.ErrParseMiss

// Result is the common interface every service's Run output must satisfy.
type Result interface {
	IsEmpty() bool
}
