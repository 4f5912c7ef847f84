package bundler

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/ethrpc"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

const (
	methodEstimateGas = "eth_estimateUserOperationGas"
	methodSend        = "eth_sendUserOperation"
	methodGetReceipt  = "eth_getUserOperationReceipt"
)

type gasEstimate struct {
	CallGasLimit         *hexutil.Big `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big `json:"preVerificationGas"`
}

type receipt struct {
	UserOpHash common.Hash `json:"userOpHash"`
	Success    bool        `json:"success"`
	Reason     string      `json:"reason"`
	Receipt    struct {
		TransactionHash common.Hash `json:"transactionHash"`
	} `json:"receipt"`
}

type service struct {
	client     *rpc.Client
	entryPoint common.Address
}

// NewService returns a ports.Bundler talking to the ERC-4337 bundler at
// the given endpoint.
func NewService(
	ctx context.Context, bundlerURL string, entryPoint common.Address,
) (ports.Bundler, error) {
	client, err := ethrpc.Dial(ctx, bundlerURL)
	if err != nil {
		return nil, err
	}
	return &service{client, entryPoint}, nil
}

func (s *service) EstimateUserOperationGas(
	ctx context.Context, op userop.UserOperation,
) (*ports.GasEstimate, error) {
	var res gasEstimate
	if err := s.client.CallContext(
		ctx, &res, methodEstimateGas, op, s.entryPoint,
	); err != nil {
		return nil, ethrpc.ClassifyError(err)
	}
	if res.CallGasLimit == nil || res.VerificationGasLimit == nil ||
		res.PreVerificationGas == nil {
		return nil, fmt.Errorf("%w: incomplete gas estimate", ports.ErrRejected)
	}

	return &ports.GasEstimate{
		CallGasLimit:         (*big.Int)(res.CallGasLimit),
		VerificationGasLimit: (*big.Int)(res.VerificationGasLimit),
		PreVerificationGas:   (*big.Int)(res.PreVerificationGas),
	}, nil
}

func (s *service) SendUserOperation(
	ctx context.Context, op userop.UserOperation,
) (common.Hash, error) {
	var hash common.Hash
	if err := s.client.CallContext(ctx, &hash, methodSend, op, s.entryPoint); err != nil {
		return common.Hash{}, ethrpc.ClassifyError(err)
	}
	log.Debugf("bundler accepted user operation %s", hash.Hex())
	return hash, nil
}

func (s *service) GetUserOperationReceipt(
	ctx context.Context, hash common.Hash,
) (*ports.UserOperationReceipt, error) {
	var res *receipt
	if err := s.client.CallContext(ctx, &res, methodGetReceipt, hash); err != nil {
		return nil, ethrpc.ClassifyError(err)
	}
	if res == nil {
		return nil, nil
	}

	return &ports.UserOperationReceipt{
		UserOpHash: res.UserOpHash,
		Success:    res.Success,
		Reason:     res.Reason,
		TxHash:     res.Receipt.TransactionHash,
	}, nil
}

func (s *service) Close() {
	s.client.Close()
}
