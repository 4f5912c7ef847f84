package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	SessionStateAnonymous = iota
	SessionStateActive
)

// SessionState ...
type SessionState int

func (s SessionState) String() string {
	if s == SessionStateActive {
		return "ACTIVE"
	}
	return "ANONYMOUS"
}

// Session is the wallet session of the user. An Active session always holds
// both the wallet details and the smart account derived from them, an
// Anonymous one holds neither. Sessions are replaced as a whole.
type Session struct {
	State   SessionState
	Wallet  WalletDetails
	Account SmartAccount
}

// AnonymousSession returns a session with no wallet.
func AnonymousSession() Session {
	return Session{State: SessionStateAnonymous}
}

// NewActiveSession returns an Active session for the given wallet and smart
// account. The wallet address must be an owner of the account.
func NewActiveSession(wallet WalletDetails, account SmartAccount) (Session, error) {
	if err := wallet.Validate(); err != nil {
		return AnonymousSession(), err
	}
	if !account.HasOwner(wallet.Address) {
		return AnonymousSession(), ErrInvalidSession
	}
	return Session{
		State:   SessionStateActive,
		Wallet:  wallet,
		Account: account,
	}, nil
}

// IsActive ...
func (s Session) IsActive() bool {
	return s.State == SessionStateActive
}

// ReadOnlySession is the read-only session token issued by the key service
// to query the resources of a sub-organization.
type ReadOnlySession struct {
	OrganizationID string
	UserID         string
	Username       string
	Token          string
	ExpiresAt      int64
}

// IsExpired returns whether the token is expired at the given time.
func (s ReadOnlySession) IsExpired(now time.Time) bool {
	return s.Token == "" || (s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt)
}

// SessionRecord is the persisted form of an Active session.
type SessionRecord struct {
	Wallet    WalletDetails
	Owners    []common.Address
	Threshold uint64
	Address   common.Address
	CreatedAt int64
}
