package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// SessionManager holds the current wallet session. Sessions are swapped as
// a whole, readers never observe a partially assigned one.
type SessionManager interface {
	// Current returns the current session.
	Current() domain.Session
	// Load restores the persisted session, if any, deriving again its smart
	// account.
	Load(ctx context.Context) (domain.Session, error)
	// Replace persists and installs the given session.
	Replace(ctx context.Context, session domain.Session) error
	// Clear drops the current session and the stored read-only session.
	Clear(ctx context.Context) error
}

type sessionManager struct {
	repo    domain.SessionRepository
	deriver ports.AccountDeriver

	lock    *sync.RWMutex
	current domain.Session
}

func NewSessionManager(
	repo domain.SessionRepository, deriver ports.AccountDeriver,
) SessionManager {
	return &sessionManager{
		repo:    repo,
		deriver: deriver,
		lock:    &sync.RWMutex{},
		current: domain.AnonymousSession(),
	}
}

func (m *sessionManager) Current() domain.Session {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.current
}

func (m *sessionManager) Load(ctx context.Context) (domain.Session, error) {
	record, err := m.repo.GetSession(ctx)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	if record == nil {
		return m.swap(domain.AnonymousSession()), nil
	}

	account, err := m.deriver.Derive(record.Owners, record.Threshold)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	if account.Address != record.Address {
		log.Warnf(
			"stored account %s derives to %s with current configuration",
			record.Address.Hex(), account.Address.Hex(),
		)
		return domain.AnonymousSession(), ErrStaleSession
	}

	session, err := domain.NewActiveSession(record.Wallet, account)
	if err != nil {
		return domain.AnonymousSession(), err
	}
	return m.swap(session), nil
}

func (m *sessionManager) Replace(ctx context.Context, session domain.Session) error {
	if !session.IsActive() {
		if err := m.repo.DeleteSession(ctx); err != nil {
			return err
		}
		m.swap(session)
		return nil
	}

	record := domain.SessionRecord{
		Wallet:    session.Wallet,
		Owners:    session.Account.Owners,
		Threshold: session.Account.Threshold,
		Address:   session.Account.Address,
		CreatedAt: time.Now().Unix(),
	}
	if err := m.repo.SaveSession(ctx, record); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.swap(session)
	log.Debugf("session set for account %s", session.Account.Address.Hex())
	return nil
}

func (m *sessionManager) Clear(ctx context.Context) error {
	if err := m.repo.DeleteSession(ctx); err != nil {
		return err
	}
	if err := m.repo.DeleteReadOnlySession(ctx); err != nil {
		return err
	}
	m.swap(domain.AnonymousSession())
	return nil
}

func (m *sessionManager) swap(session domain.Session) domain.Session {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.current = session
	return session
}
