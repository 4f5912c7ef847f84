package application_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

const parentOrgID = "parent-org-id"

func newReadOnlySession() *domain.ReadOnlySession {
	return &domain.ReadOnlySession{
		OrganizationID: "sub-org-id",
		UserID:         "user-id",
		Username:       "alice",
		Token:          "session-token",
		ExpiresAt:      time.Now().Add(time.Hour).Unix(),
	}
}

func TestResolveSession(t *testing.T) {
	owner := common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	identity := newReadOnlySession()

	keyService := &mockKeyService{}
	keyService.On("CreateReadOnlySession", mock.Anything, parentOrgID).Return(identity, nil)
	keyService.On("ListWallets", mock.Anything, *identity).Return(
		[]ports.Wallet{{ID: "wallet-id", Name: "default"}, {ID: "other-wallet"}}, nil,
	)
	keyService.On("ListWalletAccounts", mock.Anything, *identity, "wallet-id").Return(
		[]ports.WalletAccount{
			{OrganizationID: "sub-org-id", WalletID: "wallet-id", Address: owner.Hex()},
		}, nil,
	)

	repo := &inMemorySessionRepository{}
	sessions := application.NewSessionManager(repo, fakeDeriver{})
	resolver := application.NewSessionResolver(
		parentOrgID, keyService, repo, fakeDeriver{}, sessions,
	)

	session, err := resolver.Resolve(ctx)
	require.NoError(t, err)
	require.True(t, session.IsActive())
	require.Equal(t, owner, session.Wallet.Address)
	require.Equal(t, "wallet-id", session.Wallet.AccountID)
	require.Equal(t, "sub-org-id", session.Wallet.SubAccountID)
	require.Equal(t, []common.Address{owner}, session.Account.Owners)
	require.Equal(t, session, sessions.Current())
	require.Equal(t, identity, repo.readOnlySession)
	require.NotNil(t, repo.record)

	keyService.AssertNotCalled(t, "ListWalletAccounts", mock.Anything, mock.Anything, "other-wallet")
}

func TestResolveSessionFindsNothing(t *testing.T) {
	expired := newReadOnlySession()
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	tests := []struct {
		name       string
		identity   *domain.ReadOnlySession
		sessionErr error
		wallets    []ports.Wallet
		accounts   []ports.WalletAccount
	}{
		{
			name:       "with_aborted_ceremony",
			sessionErr: fmt.Errorf("%w: user declined", ports.ErrCeremonyAborted),
		},
		{
			name:       "with_no_credential",
			sessionErr: ports.ErrNoCredential,
		},
		{
			name:     "with_empty_identity",
			identity: &domain.ReadOnlySession{},
		},
		{
			name:     "with_expired_session",
			identity: expired,
		},
		{
			name:     "with_no_wallets",
			identity: newReadOnlySession(),
			wallets:  []ports.Wallet{},
		},
		{
			name:     "with_no_accounts",
			identity: newReadOnlySession(),
			wallets:  []ports.Wallet{{ID: "wallet-id"}},
			accounts: []ports.WalletAccount{},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			keyService := &mockKeyService{}
			keyService.On("CreateReadOnlySession", mock.Anything, parentOrgID).
				Return(tt.identity, tt.sessionErr)
			keyService.On("ListWallets", mock.Anything, mock.Anything).Return(tt.wallets, nil)
			keyService.On("ListWalletAccounts", mock.Anything, mock.Anything, mock.Anything).
				Return(tt.accounts, nil)

			// A login finding nothing logs out any previous account.
			owner := common.HexToAddress("0x0000000000000000000000000000000000000abc")
			repo := &inMemorySessionRepository{}
			sessions := application.NewSessionManager(repo, fakeDeriver{})
			require.NoError(t, sessions.Replace(ctx, newTestSession(t, owner)))
			require.NotNil(t, repo.record)

			resolver := application.NewSessionResolver(
				parentOrgID, keyService, repo, fakeDeriver{}, sessions,
			)

			session, err := resolver.Resolve(ctx)
			require.NoError(t, err)
			require.False(t, session.IsActive())
			require.False(t, sessions.Current().IsActive())
			require.Nil(t, repo.record)
			require.Nil(t, repo.readOnlySession)
		})
	}
}

func TestFailingResolveSession(t *testing.T) {
	identity := newReadOnlySession()

	tests := []struct {
		name        string
		sessionErr  error
		walletsErr  error
		accountsErr error
		address     string
	}{
		{
			name:       "with_key_service_down",
			sessionErr: fmt.Errorf("%w: timeout", ports.ErrUnavailable),
		},
		{
			name:       "with_list_wallets_failure",
			walletsErr: errors.New("boom"),
		},
		{
			name:        "with_list_accounts_failure",
			accountsErr: errors.New("boom"),
		},
		{
			name:    "with_invalid_account_address",
			address: "not-an-address",
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			address := tt.address
			if address == "" {
				address = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
			}

			keyService := &mockKeyService{}
			if tt.sessionErr != nil {
				keyService.On("CreateReadOnlySession", mock.Anything, parentOrgID).
					Return(nil, tt.sessionErr)
			} else {
				keyService.On("CreateReadOnlySession", mock.Anything, parentOrgID).
					Return(identity, nil)
			}
			if tt.walletsErr != nil {
				keyService.On("ListWallets", mock.Anything, mock.Anything).Return(nil, tt.walletsErr)
			} else {
				keyService.On("ListWallets", mock.Anything, mock.Anything).
					Return([]ports.Wallet{{ID: "wallet-id"}}, nil)
			}
			if tt.accountsErr != nil {
				keyService.On("ListWalletAccounts", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.accountsErr)
			} else {
				keyService.On("ListWalletAccounts", mock.Anything, mock.Anything, mock.Anything).
					Return([]ports.WalletAccount{{Address: address}}, nil)
			}

			// A previous session must survive a failed resolution.
			owner := common.HexToAddress("0x0000000000000000000000000000000000000abc")
			previous := newTestSession(t, owner)
			repo := &inMemorySessionRepository{}
			sessions := application.NewSessionManager(repo, fakeDeriver{})
			require.NoError(t, sessions.Replace(ctx, previous))

			resolver := application.NewSessionResolver(
				parentOrgID, keyService, repo, fakeDeriver{}, sessions,
			)

			session, err := resolver.Resolve(ctx)
			require.ErrorIs(t, err, domain.ErrSessionResolution)
			require.False(t, session.IsActive())
			require.Equal(t, previous, sessions.Current())
		})
	}
}
