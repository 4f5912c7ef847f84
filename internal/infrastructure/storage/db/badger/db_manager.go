package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const walletDir = "wallet"

type repoManager struct {
	store *badgerhold.Store

	sessionRepository domain.SessionRepository
	receiptRepository domain.ReceiptRepository
	cacheRepository   ports.CacheRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given datadir. An empty datadir makes the store in-memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, walletDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	return &repoManager{
		store:             store,
		sessionRepository: newSessionRepositoryImpl(store),
		receiptRepository: newReceiptRepositoryImpl(store),
		cacheRepository:   newCacheRepositoryImpl(store),
	}, nil
}

func (r *repoManager) SessionRepository() domain.SessionRepository {
	return r.sessionRepository
}

func (r *repoManager) ReceiptRepository() domain.ReceiptRepository {
	return r.receiptRepository
}

func (r *repoManager) CacheRepository() ports.CacheRepository {
	return r.cacheRepository
}

func (r *repoManager) Close() {
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close wallet db")
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for range ticker.C {
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite && err != badger.ErrRejected {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
