package smartaccount

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
)

type deriver struct {
	safe *safe.Deriver
}

// NewAccountDeriver returns an AccountDeriver computing Safe accounts with
// the 4337 module enabled.
func NewAccountDeriver(cfg safe.Config) (ports.AccountDeriver, error) {
	d, err := safe.NewDeriver(cfg)
	if err != nil {
		return nil, err
	}
	return &deriver{d}, nil
}

func (d *deriver) Derive(
	owners []common.Address, threshold uint64,
) (domain.SmartAccount, error) {
	account, err := d.safe.Derive(owners, threshold)
	if err != nil {
		return domain.SmartAccount{}, fmt.Errorf("%w: %s", domain.ErrInvalidOwnerSet, err)
	}
	return domain.SmartAccount{
		Address:   account.Address,
		Owners:    account.Owners,
		Threshold: account.Threshold,
	}, nil
}

// InitCode fails if the account address does not derive from its owner
// set.
func (d *deriver) InitCode(account domain.SmartAccount) ([]byte, error) {
	derived, err := d.Derive(account.Owners, account.Threshold)
	if err != nil {
		return nil, err
	}
	if derived.Address != account.Address {
		return nil, fmt.Errorf(
			"%w: owners derive %s, got %s",
			domain.ErrInvalidOwnerSet, derived.Address.Hex(), account.Address.Hex(),
		)
	}
	return d.safe.InitCode(account.Owners, account.Threshold)
}
