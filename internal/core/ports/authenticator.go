package ports

import "context"

type Authenticator interface {
	// MakeCredential runs the registration ceremony and returns the
	// attestation of the new credential.
	MakeCredential(ctx context.Context, req CredentialCreation) (*Attestation, error)
	// GetAssertion runs the authentication ceremony with a credential of
	// the relying party over the given challenge.
	GetAssertion(ctx context.Context, req AssertionRequest) (*Assertion, error)
}

type CredentialCreation struct {
	RPID        string
	RPName      string
	Origin      string
	UserID      []byte
	UserName    string
	DisplayName string
	Challenge   []byte
}

type Attestation struct {
	CredentialID      []byte
	ClientDataJSON    []byte
	AttestationObject []byte
	Transports        []string
}

type AssertionRequest struct {
	RPID      string
	Origin    string
	Challenge []byte
}

type Assertion struct {
	CredentialID      []byte
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
	UserHandle        []byte
}
