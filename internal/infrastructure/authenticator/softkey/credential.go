package softkey

import "context"

// Credential is a passkey created by the authenticator. The private key is
// PKCS#8 encoded and encrypted with the user passphrase.
type Credential struct {
	ID           []byte
	RPID         string `badgerholdIndex:"RPID"`
	UserHandle   []byte
	UserName     string
	EncryptedKey string
	SignCount    uint32
	CreatedAt    int64
}

// CredentialStore persists the credentials of the authenticator.
type CredentialStore interface {
	AddCredential(ctx context.Context, credential Credential) error
	// GetCredentials returns the credentials of the relying party, the most
	// recent first.
	GetCredentials(ctx context.Context, rpID string) ([]Credential, error)
	UpdateSignCount(ctx context.Context, id []byte, count uint32) error
	Close()
}
