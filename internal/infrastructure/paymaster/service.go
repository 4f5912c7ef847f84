package paymaster

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/ethrpc"
	"github.com/tdex-network/passkey-wallet/pkg/circuitbreaker"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

const methodSponsor = "pm_sponsorUserOperation"

type sponsorshipPolicy struct {
	SponsorshipPolicyID string `json:"sponsorshipPolicyId"`
}

type sponsorship struct {
	PaymasterAndData     hexutil.Bytes `json:"paymasterAndData"`
	CallGasLimit         *hexutil.Big  `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big  `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big  `json:"preVerificationGas"`
	MaxFeePerGas         *hexutil.Big  `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big  `json:"maxPriorityFeePerGas"`
}

func (s sponsorship) toDomain() *domain.Sponsorship {
	return &domain.Sponsorship{
		PaymasterAndData:     s.PaymasterAndData,
		CallGasLimit:         (*big.Int)(s.CallGasLimit),
		VerificationGasLimit: (*big.Int)(s.VerificationGasLimit),
		PreVerificationGas:   (*big.Int)(s.PreVerificationGas),
		MaxFeePerGas:         (*big.Int)(s.MaxFeePerGas),
		MaxPriorityFeePerGas: (*big.Int)(s.MaxPriorityFeePerGas),
	}
}

// rejection carries a refusal of the paymaster through the breaker without
// counting it as a failure.
type rejection struct {
	err error
}

type service struct {
	client     *rpc.Client
	entryPoint common.Address
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a ports.Paymaster talking to the paymaster at the
// given endpoint.
func NewService(
	ctx context.Context, paymasterURL string, entryPoint common.Address,
) (ports.Paymaster, error) {
	client, err := ethrpc.Dial(ctx, paymasterURL)
	if err != nil {
		return nil, err
	}
	return &service{
		client:     client,
		entryPoint: entryPoint,
		cb:         circuitbreaker.NewCircuitBreaker("paymaster"),
	}, nil
}

func (s *service) SponsorUserOperation(
	ctx context.Context, op userop.UserOperation, policyID string,
) (*domain.Sponsorship, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		var res sponsorship
		if err := s.client.CallContext(
			ctx, &res, methodSponsor, op, s.entryPoint,
			sponsorshipPolicy{policyID},
		); err != nil {
			classified := ethrpc.ClassifyError(err)
			if errors.Is(classified, ports.ErrRejected) {
				return rejection{classified}, nil
			}
			return nil, classified
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ports.ErrUnavailable, err)
		}
		return nil, err
	}

	switch r := res.(type) {
	case rejection:
		return nil, r.err
	case sponsorship:
		return r.toDomain(), nil
	default:
		return nil, fmt.Errorf("%w: unexpected paymaster result", ports.ErrUnavailable)
	}
}

func (s *service) Close() {
	s.client.Close()
}
