package dbbadger

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/authenticator/softkey"
	"github.com/timshannon/badgerhold/v4"
)

const passkeyDir = "passkeys"

type credentialStore struct {
	store *badgerhold.Store
}

// NewCredentialStore opens the passkey store in its own db under the given
// datadir, in-memory if empty.
func NewCredentialStore(
	baseDbDir string, logger badger.Logger,
) (softkey.CredentialStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, passkeyDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening passkey db: %w", err)
	}
	return &credentialStore{store}, nil
}

func (c *credentialStore) AddCredential(
	_ context.Context, credential softkey.Credential,
) error {
	return c.store.Insert(credentialKey(credential.ID), &credential)
}

func (c *credentialStore) GetCredentials(
	_ context.Context, rpID string,
) ([]softkey.Credential, error) {
	var credentials []softkey.Credential
	query := badgerhold.Where("RPID").Eq(rpID).Index("RPID").
		SortBy("CreatedAt").Reverse()
	if err := c.store.Find(&credentials, query); err != nil {
		return nil, err
	}
	return credentials, nil
}

func (c *credentialStore) UpdateSignCount(
	_ context.Context, id []byte, count uint32,
) error {
	return c.store.Badger().Update(func(txn *badger.Txn) error {
		var credential softkey.Credential
		if err := c.store.TxGet(txn, credentialKey(id), &credential); err != nil {
			return err
		}
		credential.SignCount = count
		return c.store.TxUpdate(txn, credentialKey(id), &credential)
	})
}

func (c *credentialStore) Close() {
	if err := c.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close passkey db")
	}
}

func credentialKey(id []byte) string {
	return hex.EncodeToString(id)
}
