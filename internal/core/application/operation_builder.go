package application

import (
	"context"
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

// OperationBuilder turns transaction intents into an unsigned user
// operation of the given smart account.
type OperationBuilder interface {
	Build(
		ctx context.Context,
		account domain.SmartAccount,
		intents []domain.TransactionIntent,
	) (*domain.UserOperation, error)
}

type operationBuilder struct {
	chain     ports.Chain
	bundler   ports.Bundler
	deriver   ports.AccountDeriver
	contracts Contracts
	network   Network
}

func NewOperationBuilder(
	chain ports.Chain,
	bundler ports.Bundler,
	deriver ports.AccountDeriver,
	contracts Contracts,
	network Network,
) OperationBuilder {
	return &operationBuilder{chain, bundler, deriver, contracts, network}
}

// Build returns a user operation in Built stage. Sponsored operations get
// default gas limits the paymaster replaces, otherwise gas is estimated by
// the bundler against a dummy signature.
func (b *operationBuilder) Build(
	ctx context.Context,
	account domain.SmartAccount,
	intents []domain.TransactionIntent,
) (*domain.UserOperation, error) {
	if err := domain.ValidateIntents(intents); err != nil {
		return nil, err
	}

	calls := make([]safe.Call, 0, len(intents))
	for _, i := range intents {
		calls = append(calls, safe.Call{To: i.Target, Value: i.Value, Data: i.Data})
	}
	callData, err := safe.EncodeCalls(calls, b.contracts.MultiSend)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidIntent, err)
	}

	chainID, err := b.chain.ChainID(ctx)
	if err != nil {
		return nil, buildError(err)
	}
	if chainID.Cmp(b.network.ChainID) != 0 {
		return nil, fmt.Errorf(
			"%w: expected %s, got %s", ErrChainIDMismatch, b.network.ChainID, chainID,
		)
	}

	deployed, err := b.chain.IsDeployed(ctx, account.Address)
	if err != nil {
		return nil, buildError(err)
	}
	nonce, err := b.chain.GetNonce(ctx, account.Address)
	if err != nil {
		return nil, buildError(err)
	}
	var initCode []byte
	if !deployed {
		if initCode, err = b.deriver.InitCode(account); err != nil {
			return nil, err
		}
	}
	fees, err := b.chain.SuggestFees(ctx)
	if err != nil {
		return nil, buildError(err)
	}

	op := userop.UserOperation{
		Sender:               account.Address,
		Nonce:                nonce,
		InitCode:             initCode,
		CallData:             callData,
		CallGasLimit:         big.NewInt(domain.DefaultCallGasLimit),
		VerificationGasLimit: big.NewInt(domain.DefaultVerificationGasLimit),
		PreVerificationGas:   big.NewInt(domain.DefaultPreVerificationGas),
		MaxFeePerGas:         fees.MaxFeePerGas,
		MaxPriorityFeePerGas: fees.MaxPriorityFeePerGas,
		PaymasterAndData:     []byte{},
		Signature:            safe.DummySignature(toSafeAccount(account)),
	}

	if !b.network.IsSponsored() {
		estimate, err := b.bundler.EstimateUserOperationGas(ctx, op)
		if err != nil {
			return nil, buildError(err)
		}
		op.CallGasLimit = estimate.CallGasLimit
		op.VerificationGasLimit = estimate.VerificationGasLimit
		op.PreVerificationGas = estimate.PreVerificationGas
	}

	log.Debugf(
		"built user operation for %s with nonce %s (deployed: %t)",
		account.Address.Hex(), nonce, deployed,
	)
	return domain.NewUserOperation(op, intents), nil
}

func buildError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrOperationBuildFailed, err)
}
