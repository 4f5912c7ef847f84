package keyservice

import "errors"

var (
	// ErrMissingURL ...
	ErrMissingURL = errors.New("missing key service url")
	// ErrMissingOrganizationID ...
	ErrMissingOrganizationID = errors.New("missing organization id")
	// ErrNullStamper ...
	ErrNullStamper = errors.New("stamper must not be null")
	// ErrInvalidAPIKey is returned if the API private key is malformed or
	// does not match the public one.
	ErrInvalidAPIKey = errors.New("invalid api key pair")
	// ErrMissingResult is returned if a completed activity has no result of
	// the expected kind.
	ErrMissingResult = errors.New("activity completed without result")
)
