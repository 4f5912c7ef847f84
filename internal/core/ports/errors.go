package ports

import "errors"

// Adapters wrap these errors so that services can classify failures
// regardless of the transport.
var (
	// ErrCeremonyAborted is returned by authenticators when the user
	// declines or the platform can't perform the ceremony.
	ErrCeremonyAborted = errors.New("ceremony aborted")
	// ErrNoCredential is returned by authenticators when no credential
	// matches the relying party.
	ErrNoCredential = errors.New("no matching credential")
	// ErrRejected is returned when the remote service refuses the request.
	ErrRejected = errors.New("request rejected")
	// ErrUnavailable is returned when the remote service can't be reached or
	// fails to process the request.
	ErrUnavailable = errors.New("service unavailable")
)
