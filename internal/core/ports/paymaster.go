package ports

import (
	"context"

	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

type Paymaster interface {
	SponsorUserOperation(
		ctx context.Context, op userop.UserOperation, policyID string,
	) (*domain.Sponsorship, error)
	Close()
}
