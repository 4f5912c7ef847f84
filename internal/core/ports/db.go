package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
)

// RepoManager interface defines the methods for session, receipts and
// cached chain data.
type RepoManager interface {
	SessionRepository() domain.SessionRepository
	ReceiptRepository() domain.ReceiptRepository
	CacheRepository() CacheRepository

	Close()
}

// CacheRepository stores immutable data fetched from the chain.
type CacheRepository interface {
	GetProxyCreationCode(ctx context.Context, factory common.Address) ([]byte, error)
	SetProxyCreationCode(ctx context.Context, factory common.Address, code []byte) error
}
