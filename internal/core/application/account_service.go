package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// AccountService creates new wallets: a passkey, the custody sub-organization
// holding the wallet key, and the smart account owned by that key.
type AccountService interface {
	CreateAccount(ctx context.Context, label string) (domain.Session, error)
}

type accountService struct {
	binder      CredentialBinder
	provisioner ports.Provisioner
	deriver     ports.AccountDeriver
	sessions    SessionManager
}

func NewAccountService(
	binder CredentialBinder,
	provisioner ports.Provisioner,
	deriver ports.AccountDeriver,
	sessions SessionManager,
) AccountService {
	return &accountService{binder, provisioner, deriver, sessions}
}

// CreateAccount either installs a new Active session or leaves the current
// one untouched. The provisioning call is never retried.
func (s *accountService) CreateAccount(
	ctx context.Context, label string,
) (domain.Session, error) {
	binding, err := s.binder.Bind(ctx, label)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("passkey: %w", err)
	}

	result, err := s.provisioner.CreateSubOrganization(ctx, ports.ProvisionRequest{
		SubOrgName:  label,
		Challenge:   binding.Challenge,
		Attestation: binding.Attestation,
	})
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("provisioning: %w", provisioningError(err))
	}

	wallet, err := domain.NewWalletDetails(result.ID, result.Address, result.SubOrgID)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("provisioning: %w", err)
	}

	account, err := s.deriver.Derive(
		[]common.Address{wallet.Address}, domain.DefaultThreshold,
	)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("derivation: %w", err)
	}

	session, err := domain.NewActiveSession(*wallet, account)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	if err := s.sessions.Replace(ctx, session); err != nil {
		return domain.AnonymousSession(), err
	}

	log.Infof(
		"created account %s owned by %s", account.Address.Hex(), wallet.Address.Hex(),
	)
	return session, nil
}

func provisioningError(err error) error {
	if errors.Is(err, ports.ErrRejected) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidAttestation, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
}
