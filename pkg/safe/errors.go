package safe

import "errors"

var (
	// ErrEmptyOwners is returned if an account is derived without owners.
	ErrEmptyOwners = errors.New("owner set must not be empty")
	// ErrZeroOwner is returned if the owner set contains the zero address.
	ErrZeroOwner = errors.New("owner must not be the zero address")
	// ErrDuplicateOwner is returned if the owner set contains duplicates.
	ErrDuplicateOwner = errors.New("owner set must not contain duplicates")
	// ErrInvalidThreshold is returned if the threshold is zero or greater
	// than the number of owners.
	ErrInvalidThreshold = errors.New("threshold must be between 1 and the number of owners")
	// ErrMissingCreationCode is returned if the deriver is not given the
	// proxy creation code of the factory.
	ErrMissingCreationCode = errors.New("missing proxy creation code")
	// ErrEmptyBatch is returned if no call is given to encode.
	ErrEmptyBatch = errors.New("at least one call is required")
	// ErrUnknownSigner is returned if a signature is given for an address
	// that is not an owner of the account.
	ErrUnknownSigner = errors.New("signer is not an owner of the account")
	// ErrNotEnoughSignatures is returned if fewer signatures than the
	// threshold are given.
	ErrNotEnoughSignatures = errors.New("not enough signatures for threshold")
	// ErrInvalidSignatureLength is returned if an owner signature is not 65
	// bytes long.
	ErrInvalidSignatureLength = errors.New("signature must be 65 bytes long")
)
