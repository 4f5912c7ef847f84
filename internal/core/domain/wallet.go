package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// WalletDetails identifies the custody wallet backing a smart account: the
// wallet id and the sub-organization id at the key service, and the address
// of the wallet's signing key.
type WalletDetails struct {
	AccountID    string
	Address      common.Address
	SubAccountID string
}

// NewWalletDetails parses and validates wallet details as returned by the
// provisioning backend or the key service.
func NewWalletDetails(accountID, address, subAccountID string) (*WalletDetails, error) {
	if !common.IsHexAddress(address) {
		return nil, ErrInvalidWalletDetails
	}
	w := &WalletDetails{
		AccountID:    accountID,
		Address:      common.HexToAddress(address),
		SubAccountID: subAccountID,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks that ids are set and that the address is not the zero
// address.
func (w WalletDetails) Validate() error {
	if w.AccountID == "" || w.SubAccountID == "" {
		return ErrInvalidWalletDetails
	}
	if w.Address == (common.Address{}) {
		return ErrInvalidWalletDetails
	}
	return nil
}
