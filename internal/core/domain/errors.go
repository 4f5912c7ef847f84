package domain

import "errors"

var (
	// ErrCredentialCeremonyAborted is returned when the user declines or the
	// platform can't perform the passkey ceremony.
	ErrCredentialCeremonyAborted = errors.New("passkey ceremony aborted")
	// ErrInvalidAttestation is returned when the attestation of a new passkey
	// is refused, either locally or by the provisioning backend.
	ErrInvalidAttestation = errors.New("invalid passkey attestation")
	// ErrBackendUnavailable is returned when the provisioning backend can't
	// be reached or answers with a server error.
	ErrBackendUnavailable = errors.New("provisioning backend unavailable")
	// ErrInvalidWalletDetails is returned when the wallet details returned by
	// the backend or the key service are malformed.
	ErrInvalidWalletDetails = errors.New("invalid wallet details")
	// ErrInvalidOwnerSet is returned when a smart account is derived from an
	// empty, zero or duplicated owner set.
	ErrInvalidOwnerSet = errors.New("invalid owner set")

	// ErrSessionResolution is returned when an existing session can't be
	// resolved because of an unexpected failure. The session stays
	// anonymous.
	ErrSessionResolution = errors.New("session resolution failed")
	// ErrNoActiveSession is returned when an operation requires an active
	// session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrInvalidSession is returned when an active session is built from
	// inconsistent wallet details and smart account.
	ErrInvalidSession = errors.New("wallet address is not an owner of the smart account")

	// ErrInvalidIntent is returned for malformed transaction intents.
	ErrInvalidIntent = errors.New("invalid transaction intent")
	// ErrOperationBuildFailed is returned when the chain or the bundler can't
	// be queried while building a user operation.
	ErrOperationBuildFailed = errors.New("failed to build user operation")
	// ErrSponsorshipDenied is returned when the paymaster refuses to sponsor
	// the operation or returns an incomplete sponsorship.
	ErrSponsorshipDenied = errors.New("sponsorship denied")
	// ErrSponsorshipServiceUnavailable is returned when the paymaster can't be
	// reached.
	ErrSponsorshipServiceUnavailable = errors.New("sponsorship service unavailable")

	// ErrSigningRejected is returned when the user declines the passkey stamp
	// or the key service refuses the signing request.
	ErrSigningRejected = errors.New("signing rejected")
	// ErrSigningServiceUnavailable is returned when the key service can't be
	// reached.
	ErrSigningServiceUnavailable = errors.New("signing service unavailable")
	// ErrSignerMismatch is returned when the signature returned by the key
	// service doesn't recover to the expected owner.
	ErrSignerMismatch = errors.New("signature does not recover to the account owner")
	// ErrOwnerSetMismatch is returned when the session owner set doesn't
	// derive the sender of the operation.
	ErrOwnerSetMismatch = errors.New("owner set does not control the operation sender")

	// ErrSubmissionRejected is returned when the bundler refuses the user
	// operation.
	ErrSubmissionRejected = errors.New("user operation rejected by bundler")
	// ErrRelayUnavailable is returned when the bundler can't be reached.
	ErrRelayUnavailable = errors.New("bundler unavailable")
	// ErrHandleMismatch is returned when the bundler tracks the operation
	// under a hash other than the one computed locally.
	ErrHandleMismatch = errors.New("bundler handle does not match user operation hash")
	// ErrDuplicateSubmission is returned when an operation with the same hash
	// has already been submitted.
	ErrDuplicateSubmission = errors.New("user operation already submitted")
	// ErrUnknownOperation is returned when tracking a handle that was never
	// submitted.
	ErrUnknownOperation = errors.New("unknown user operation")
	// ErrAuthorizationInFlight is returned when an authorization is requested
	// while another one for the same session is still running.
	ErrAuthorizationInFlight = errors.New("another authorization is in progress")

	// ErrOperationMustBeBuilt ...
	ErrOperationMustBeBuilt = errors.New("user operation must be in built stage")
	// ErrOperationMustBeSigned ...
	ErrOperationMustBeSigned = errors.New("user operation must be signed")
	// ErrOperationSubmitted is returned when mutating an operation that has
	// already been handed to the bundler.
	ErrOperationSubmitted = errors.New("user operation is already submitted")
	// ErrEmptySignature ...
	ErrEmptySignature = errors.New("signature must not be empty")

	// ErrNullHandle ...
	ErrNullHandle = errors.New("tracking handle must not be null")
	// ErrReceiptMustBeSubmitted ...
	ErrReceiptMustBeSubmitted = errors.New("receipt must be in submitted status")
	// ErrReceiptMustBePending ...
	ErrReceiptMustBePending = errors.New("receipt must be in pending status")
	// ErrReceiptAlreadySettled is returned when changing the status of an
	// included or failed receipt.
	ErrReceiptAlreadySettled = errors.New("receipt is already settled")
	// ErrMissingTxHash is returned when marking a receipt as included without
	// the hash of the including transaction.
	ErrMissingTxHash = errors.New("included receipt requires a transaction hash")
)

var retryableErrors = []error{
	ErrBackendUnavailable,
	ErrOperationBuildFailed,
	ErrSponsorshipServiceUnavailable,
	ErrSigningServiceUnavailable,
	ErrRelayUnavailable,
	ErrCredentialCeremonyAborted,
}

// IsRetryable returns whether the caller may safely retry the failed step,
// that is whether the error is a transport or availability failure rather
// than a rejection.
func IsRetryable(err error) bool {
	for _, e := range retryableErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
