package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type proxyCreationCode struct {
	Factory string
	Code    []byte
}

type cacheRepositoryImpl struct {
	store *badgerhold.Store
}

func newCacheRepositoryImpl(store *badgerhold.Store) ports.CacheRepository {
	return cacheRepositoryImpl{store}
}

// GetProxyCreationCode returns nil if nothing is cached for the factory.
func (c cacheRepositoryImpl) GetProxyCreationCode(
	_ context.Context, factory common.Address,
) ([]byte, error) {
	var entry proxyCreationCode
	if err := c.store.Get(factory.Hex(), &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return entry.Code, nil
}

func (c cacheRepositoryImpl) SetProxyCreationCode(
	_ context.Context, factory common.Address, code []byte,
) error {
	return c.store.Upsert(factory.Hex(), &proxyCreationCode{
		Factory: factory.Hex(),
		Code:    code,
	})
}
