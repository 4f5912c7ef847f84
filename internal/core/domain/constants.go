package domain

const (
	// DefaultCallGasLimit, DefaultVerificationGasLimit and
	// DefaultPreVerificationGas are the gas limits of a user operation built
	// for sponsorship. The paymaster always replaces them.
	DefaultCallGasLimit         = 100000
	DefaultVerificationGasLimit = 500000
	DefaultPreVerificationGas   = 50000

	// DefaultThreshold is the threshold of accounts owned by a single wallet.
	DefaultThreshold = 1
)
