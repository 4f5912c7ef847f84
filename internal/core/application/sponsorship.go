package application

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// SponsorshipNegotiator asks the paymaster to cover the gas of an
// operation.
type SponsorshipNegotiator interface {
	Sponsor(ctx context.Context, op *domain.UserOperation) (*domain.UserOperation, error)
}

type sponsorshipNegotiator struct {
	paymaster ports.Paymaster
	policyID  string
}

func NewSponsorshipNegotiator(
	paymaster ports.Paymaster, policyID string,
) SponsorshipNegotiator {
	return &sponsorshipNegotiator{paymaster, policyID}
}

// Sponsor returns a copy of the operation carrying the paymaster data. The
// gas limits returned by the paymaster supersede the builder's ones.
func (n *sponsorshipNegotiator) Sponsor(
	ctx context.Context, op *domain.UserOperation,
) (*domain.UserOperation, error) {
	if op.Stage != domain.OperationStageBuilt {
		return nil, domain.ErrOperationMustBeBuilt
	}

	sponsorship, err := n.paymaster.SponsorUserOperation(ctx, op.UserOperation, n.policyID)
	if err != nil {
		if errors.Is(err, ports.ErrRejected) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSponsorshipDenied, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSponsorshipServiceUnavailable, err)
	}

	sponsored, err := op.Sponsor(*sponsorship)
	if err != nil {
		return nil, err
	}

	log.Debugf("user operation of %s sponsored", op.Sender.Hex())
	return sponsored, nil
}
