package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// SessionResolver logs into an existing wallet with the local passkey.
type SessionResolver interface {
	// Resolve returns the resolved Active session or, if nothing could be
	// found, the anonymous session and no error. In the latter case any
	// previously stored session is cleared. Unexpected failures are
	// returned wrapped in domain.ErrSessionResolution and leave the current
	// session untouched.
	Resolve(ctx context.Context) (domain.Session, error)
}

type sessionResolver struct {
	organizationID string
	keyService     ports.KeyService
	repo           domain.SessionRepository
	deriver        ports.AccountDeriver
	sessions       SessionManager
	now            func() time.Time
}

func NewSessionResolver(
	organizationID string,
	keyService ports.KeyService,
	repo domain.SessionRepository,
	deriver ports.AccountDeriver,
	sessions SessionManager,
) SessionResolver {
	return &sessionResolver{
		organizationID, keyService, repo, deriver, sessions, time.Now,
	}
}

func (r *sessionResolver) Resolve(ctx context.Context) (domain.Session, error) {
	wallet, err := r.resolveWallet(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to resolve session")
		return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrSessionResolution, err)
	}
	if wallet == nil {
		log.Debug("no wallet found for local passkey")
		if err := r.sessions.Clear(ctx); err != nil {
			return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrSessionResolution, err)
		}
		return domain.AnonymousSession(), nil
	}

	account, err := r.deriver.Derive(
		[]common.Address{wallet.Address}, domain.DefaultThreshold,
	)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrSessionResolution, err)
	}
	session, err := domain.NewActiveSession(*wallet, account)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrSessionResolution, err)
	}
	if err := r.sessions.Replace(ctx, session); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrSessionResolution, err)
	}
	return session, nil
}

// resolveWallet returns nil without error at the first step that finds
// nothing.
func (r *sessionResolver) resolveWallet(ctx context.Context) (*domain.WalletDetails, error) {
	identity, err := r.keyService.CreateReadOnlySession(ctx, r.organizationID)
	if err != nil {
		if errors.Is(err, ports.ErrCeremonyAborted) || errors.Is(err, ports.ErrNoCredential) {
			log.WithError(err).Debug("login skipped")
			return nil, nil
		}
		return nil, err
	}
	if identity == nil || identity.OrganizationID == "" {
		return nil, nil
	}
	if err := r.repo.SaveReadOnlySession(ctx, *identity); err != nil {
		return nil, err
	}

	current, err := r.repo.GetReadOnlySession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil || current.IsExpired(r.now()) {
		return nil, nil
	}

	wallets, err := r.keyService.ListWallets(ctx, *current)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, nil
	}

	accounts, err := r.keyService.ListWalletAccounts(ctx, *current, wallets[0].ID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	return domain.NewWalletDetails(
		wallets[0].ID, accounts[0].Address, current.OrganizationID,
	)
}
