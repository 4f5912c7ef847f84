package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Chain interface {
	ChainID(ctx context.Context) (*big.Int, error)
	IsDeployed(ctx context.Context, account common.Address) (bool, error)
	GetNonce(ctx context.Context, account common.Address) (*big.Int, error)
	SuggestFees(ctx context.Context) (*Fees, error)
	GetProxyCreationCode(ctx context.Context, factory common.Address) ([]byte, error)
	Close()
}

type Fees struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}
