package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// ProvisioningService is the backend side of account creation. It creates,
// on behalf of the parent organization, a sub-organization whose only root
// user is the new passkey and whose only wallet holds one Ethereum account.
type ProvisioningService interface {
	CreateSubOrganization(
		ctx context.Context, req ports.ProvisionRequest,
	) (*ports.ProvisionResult, error)
}

type provisioningService struct {
	keyService ports.SubOrganizationCreator
}

func NewProvisioningService(keyService ports.SubOrganizationCreator) ProvisioningService {
	return &provisioningService{keyService}
}

func (s *provisioningService) CreateSubOrganization(
	ctx context.Context, req ports.ProvisionRequest,
) (*ports.ProvisionResult, error) {
	if err := validateProvisionRequest(req); err != nil {
		return nil, err
	}

	result, err := s.keyService.CreateSubOrganization(ctx, ports.SubOrganization{
		Name:        req.SubOrgName,
		UserName:    req.SubOrgName,
		Challenge:   req.Challenge,
		Attestation: req.Attestation,
		WalletName:  fmt.Sprintf("wallet-%s", uuid.New().String()),
	})
	if err != nil {
		if errors.Is(err, ports.ErrRejected) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidAttestation, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	if len(result.Addresses) == 0 {
		return nil, fmt.Errorf("%w: no wallet address returned", domain.ErrInvalidWalletDetails)
	}

	wallet, err := domain.NewWalletDetails(
		result.WalletID, result.Addresses[0], result.SubOrganizationID,
	)
	if err != nil {
		return nil, err
	}

	log.Infof(
		"created sub-organization %s with wallet %s",
		wallet.SubAccountID, wallet.Address.Hex(),
	)
	return &ports.ProvisionResult{
		Address:  wallet.Address.Hex(),
		SubOrgID: wallet.SubAccountID,
		ID:       wallet.AccountID,
	}, nil
}

func validateProvisionRequest(req ports.ProvisionRequest) error {
	switch {
	case req.SubOrgName == "":
		return fmt.Errorf("%w: missing sub-organization name", ErrInvalidProvisionRequest)
	case req.Challenge == "":
		return fmt.Errorf("%w: missing challenge", ErrInvalidProvisionRequest)
	case len(req.Attestation.CredentialID) == 0:
		return fmt.Errorf("%w: missing credential id", ErrInvalidProvisionRequest)
	case len(req.Attestation.ClientDataJSON) == 0:
		return fmt.Errorf("%w: missing client data", ErrInvalidProvisionRequest)
	case len(req.Attestation.AttestationObject) == 0:
		return fmt.Errorf("%w: missing attestation object", ErrInvalidProvisionRequest)
	}
	return nil
}
