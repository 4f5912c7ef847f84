package ports

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
)

// AccountDeriver computes the smart account controlled by an owner set and
// the code deploying it. Implementations must not touch the network.
type AccountDeriver interface {
	Derive(owners []common.Address, threshold uint64) (domain.SmartAccount, error)
	InitCode(account domain.SmartAccount) ([]byte, error)
}
