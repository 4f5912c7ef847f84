package application

import "errors"

var (
	// ErrMissingLabel is returned when creating an account without a name.
	ErrMissingLabel = errors.New("account name must not be empty")
	// ErrChainIDMismatch is returned when the node is connected to a chain
	// other than the configured one.
	ErrChainIDMismatch = errors.New("rpc node is connected to another chain")
	// ErrStaleSession is returned when the stored session doesn't derive the
	// stored account anymore, usually because the account contracts changed.
	ErrStaleSession = errors.New("stored session does not match the configured account contracts")
	// ErrMissingCreationCode is returned if the proxy creation code is
	// neither configured nor retrievable from chain.
	ErrMissingCreationCode = errors.New("proxy creation code not available")
	// ErrInvalidProvisionRequest is returned by the provisioning service for
	// incomplete requests.
	ErrInvalidProvisionRequest = errors.New("invalid provisioning request")
	// ErrServiceNotConfigured is returned by Config when a port required by
	// a service is not set.
	ErrServiceNotConfigured = errors.New("service is not configured")
)
