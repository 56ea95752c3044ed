package apperr

import "errors"

// ErrInvalidInput is returned when a domain, IP address, or input row fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures uniformly.
var ErrInvalidInput = errors.New("invalid input")

// ErrLookupFailed is returned when a DNS exchange itself fails: timeout,
// refused or unreachable resolver, or a cancelled context.
var ErrLookupFailed = errors.New("dns lookup failed")

// ErrParseMiss is returned when a DNS response carried no line with the
// expected record marker, or the record payload was unusable.
var ErrParseMiss = errors.New("no matching record")

// ErrConfiguration is returned for invalid settings detected before any
// resolution starts. It is always fatal to the run.
var ErrConfiguration = errors.New("invalid configuration")

// ErrRequestFailed is returned when an HTTP fetch fails at the transport level
// or the server responds with a non-2xx status code.
var ErrRequestFailed = errors.New("request failed")
