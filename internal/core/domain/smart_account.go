package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// SmartAccount is a counterfactual contract account. It's a plain record,
// only derivers produce it and two equal owner sets always produce the same
// Address.
type SmartAccount struct {
	Address   common.Address
	Owners    []common.Address
	Threshold uint64
}

// HasOwner returns whether the given address is an owner of the account.
func (a SmartAccount) HasOwner(addr common.Address) bool {
	for _, o := range a.Owners {
		if o == addr {
			return true
		}
	}
	return false
}

