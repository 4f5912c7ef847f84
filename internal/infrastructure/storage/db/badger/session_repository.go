package dbbadger

import (
	"context"

	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	sessionKey         = "session"
	readOnlySessionKey = "read_only_session"
)

type sessionRepositoryImpl struct {
	store *badgerhold.Store
}

func newSessionRepositoryImpl(store *badgerhold.Store) domain.SessionRepository {
	return sessionRepositoryImpl{store}
}

func (s sessionRepositoryImpl) GetSession(
	_ context.Context,
) (*domain.SessionRecord, error) {
	var record domain.SessionRecord
	if err := s.store.Get(sessionKey, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s sessionRepositoryImpl) SaveSession(
	_ context.Context, record domain.SessionRecord,
) error {
	return s.store.Upsert(sessionKey, &record)
}

func (s sessionRepositoryImpl) DeleteSession(_ context.Context) error {
	return s.delete(sessionKey, domain.SessionRecord{})
}

func (s sessionRepositoryImpl) GetReadOnlySession(
	_ context.Context,
) (*domain.ReadOnlySession, error) {
	var session domain.ReadOnlySession
	if err := s.store.Get(readOnlySessionKey, &session); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (s sessionRepositoryImpl) SaveReadOnlySession(
	_ context.Context, session domain.ReadOnlySession,
) error {
	return s.store.Upsert(readOnlySessionKey, &session)
}

func (s sessionRepositoryImpl) DeleteReadOnlySession(_ context.Context) error {
	return s.delete(readOnlySessionKey, domain.ReadOnlySession{})
}

func (s sessionRepositoryImpl) delete(key string, dataType interface{}) error {
	if err := s.store.Delete(key, dataType); err != nil && err != badgerhold.ErrNotFound {
		return err
	}
	return nil
}
