package application

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// ProxyCreationCode returns the proxy creation code of the given factory,
// taking it from the configuration, the cache or, as last resort, from the
// factory itself. Fetched code is cached.
func ProxyCreationCode(
	ctx context.Context,
	configured []byte,
	factory common.Address,
	cache ports.CacheRepository,
	chain ports.Chain,
) ([]byte, error) {
	if len(configured) > 0 {
		return configured, nil
	}

	code, err := cache.GetProxyCreationCode(ctx, factory)
	if err != nil {
		return nil, err
	}
	if len(code) > 0 {
		return code, nil
	}

	if chain == nil {
		return nil, ErrMissingCreationCode
	}
	code, err = chain.GetProxyCreationCode(ctx, factory)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, ErrMissingCreationCode
	}
	if err := cache.SetProxyCreationCode(ctx, factory, code); err != nil {
		log.WithError(err).Warn("failed to cache proxy creation code")
	}
	return code, nil
}
