package ports

import (
	"context"

	"github.com/tdex-network/passkey-wallet/internal/core/domain"
)

// KeyService is the remote key-management service holding the wallet keys.
// Writes are stamped with the passkey by the adapter, reads are
// authenticated with a read-only session.
type KeyService interface {
	CreateReadOnlySession(
		ctx context.Context, organizationID string,
	) (*domain.ReadOnlySession, error)
	ListWallets(
		ctx context.Context, session domain.ReadOnlySession,
	) ([]Wallet, error)
	ListWalletAccounts(
		ctx context.Context, session domain.ReadOnlySession, walletID string,
	) ([]WalletAccount, error)
	SignRawPayload(ctx context.Context, req SignRawPayload) (*RawSignature, error)
}

// SubOrganizationCreator is the privileged part of the key service used by
// the provisioning backend only.
type SubOrganizationCreator interface {
	CreateSubOrganization(
		ctx context.Context, req SubOrganization,
	) (*SubOrganizationResult, error)
}

type Wallet struct {
	ID   string
	Name string
}

type WalletAccount struct {
	OrganizationID string
	WalletID       string
	Address        string
	Path           string
}

type SignRawPayload struct {
	OrganizationID string
	SignWith       string
	Payload        []byte
}

// RawSignature is a secp256k1 signature with recovery id V in {0, 1}.
type RawSignature struct {
	R []byte
	S []byte
	V byte
}

// Bytes returns the 65 bytes r || s || v signature.
func (s RawSignature) Bytes() []byte {
	sig := make([]byte, 65)
	copy(sig[32-len(s.R):32], s.R)
	copy(sig[64-len(s.S):64], s.S)
	sig[64] = s.V
	return sig
}

type SubOrganization struct {
	Name        string
	UserName    string
	Challenge   string
	Attestation Attestation
	WalletName  string
}

type SubOrganizationResult struct {
	SubOrganizationID string
	WalletID          string
	Addresses         []string
}
