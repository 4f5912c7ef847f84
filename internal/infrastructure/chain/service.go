package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/ethrpc"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

// baseFeeMultiplier leaves room for the base fee to grow over a few blocks
// before the operation is included.
var baseFeeMultiplier = big.NewInt(2)

type service struct {
	client     *ethclient.Client
	entryPoint common.Address
}

// NewService returns a ports.Chain reading the network state from the
// given RPC endpoint.
func NewService(
	ctx context.Context, rpcURL string, entryPoint common.Address,
) (ports.Chain, error) {
	rpcClient, err := ethrpc.Dial(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &service{ethclient.NewClient(rpcClient), entryPoint}, nil
}

func (s *service) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, ethrpc.ClassifyError(err)
	}
	return chainID, nil
}

// IsDeployed returns whether there's code at the given address.
func (s *service) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	code, err := s.client.CodeAt(ctx, account, nil)
	if err != nil {
		return false, ethrpc.ClassifyError(err)
	}
	return len(code) > 0, nil
}

// GetNonce returns the entry point nonce of the account for key 0.
func (s *service) GetNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	data, err := userop.PackGetNonce(account, nil)
	if err != nil {
		return nil, err
	}
	out, err := s.call(ctx, s.entryPoint, data)
	if err != nil {
		return nil, err
	}
	return userop.UnpackGetNonce(out)
}

// SuggestFees returns a max fee of twice the latest base fee plus the
// suggested tip. Legacy networks get the gas price for both.
func (s *service) SuggestFees(ctx context.Context) (*ports.Fees, error) {
	head, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, ethrpc.ClassifyError(err)
	}

	if head.BaseFee == nil {
		gasPrice, err := s.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, ethrpc.ClassifyError(err)
		}
		return &ports.Fees{
			MaxFeePerGas:         gasPrice,
			MaxPriorityFeePerGas: new(big.Int).Set(gasPrice),
		}, nil
	}

	tip, err := s.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, ethrpc.ClassifyError(err)
	}
	maxFee := new(big.Int).Mul(head.BaseFee, baseFeeMultiplier)
	maxFee.Add(maxFee, tip)

	return &ports.Fees{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tip,
	}, nil
}

func (s *service) GetProxyCreationCode(
	ctx context.Context, factory common.Address,
) ([]byte, error) {
	data, err := safe.PackProxyCreationCode()
	if err != nil {
		return nil, err
	}
	out, err := s.call(ctx, factory, data)
	if err != nil {
		return nil, err
	}
	return safe.UnpackProxyCreationCode(out)
}

func (s *service) Close() {
	s.client.Close()
}

func (s *service) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := s.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, ethrpc.ClassifyError(err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no contract at %s", to.Hex())
	}
	return out, nil
}
