package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionIntent is a call the user wants the smart account to perform.
type TransactionIntent struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

// Validate checks the intent is well formed. Any target is allowed, the zero
// address included.
func (i TransactionIntent) Validate() error {
	if i.Value != nil && i.Value.Sign() < 0 {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidIntent)
	}
	return nil
}

// ValidateIntents checks the given non-empty list of intents.
func ValidateIntents(intents []TransactionIntent) error {
	if len(intents) == 0 {
		return fmt.Errorf("%w: at least one intent is required", ErrInvalidIntent)
	}
	for _, i := range intents {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	return nil
}
