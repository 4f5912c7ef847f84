package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

type Bundler interface {
	EstimateUserOperationGas(
		ctx context.Context, op userop.UserOperation,
	) (*GasEstimate, error)
	SendUserOperation(
		ctx context.Context, op userop.UserOperation,
	) (common.Hash, error)
	// GetUserOperationReceipt returns nil if the operation is not included
	// yet.
	GetUserOperationReceipt(
		ctx context.Context, hash common.Hash,
	) (*UserOperationReceipt, error)
	Close()
}

type GasEstimate struct {
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
}

type UserOperationReceipt struct {
	UserOpHash common.Hash
	Success    bool
	Reason     string
	TxHash     common.Hash
}
