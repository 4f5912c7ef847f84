package application

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// CredentialBinder creates a new passkey bound to the wallet relying party.
type CredentialBinder interface {
	Bind(ctx context.Context, label string) (*CredentialBinding, error)
}

type credentialBinder struct {
	rp            RelyingParty
	webAuthn      *webauthn.WebAuthn
	authenticator ports.Authenticator
}

func NewCredentialBinder(
	rp RelyingParty, authenticator ports.Authenticator,
) (CredentialBinder, error) {
	webAuthn, err := webauthn.New(&webauthn.Config{
		RPDisplayName: rp.DisplayName,
		RPID:          rp.ID,
		RPOrigins:     []string{rp.Origin},
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementRequired,
			UserVerification: protocol.VerificationPreferred,
		},
		AttestationPreference: protocol.PreferNoAttestation,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid relying party: %w", err)
	}
	return &credentialBinder{rp, webAuthn, authenticator}, nil
}

// Bind runs a registration ceremony for the given label and verifies the
// resulting attestation before handing it over.
func (b *credentialBinder) Bind(
	ctx context.Context, label string,
) (*CredentialBinding, error) {
	if label == "" {
		return nil, ErrMissingLabel
	}

	user := newPasskeyUser(label)
	creation, session, err := b.webAuthn.BeginRegistration(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCredentialCeremonyAborted, err)
	}

	attestation, err := b.authenticator.MakeCredential(ctx, ports.CredentialCreation{
		RPID:        b.rp.ID,
		RPName:      b.rp.DisplayName,
		Origin:      b.rp.Origin,
		UserID:      user.id,
		UserName:    user.name,
		DisplayName: user.name,
		Challenge:   []byte(creation.Response.Challenge),
	})
	if err != nil {
		if errors.Is(err, ports.ErrCeremonyAborted) {
			return nil, fmt.Errorf("%w: %w", domain.ErrCredentialCeremonyAborted, err)
		}
		return nil, err
	}

	body, err := json.Marshal(newCreationResponse(*attestation))
	if err != nil {
		return nil, err
	}
	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(body))
	if err != nil {
		logProtocolError(err)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAttestation, err)
	}
	if _, err := b.webAuthn.CreateCredential(user, *session, parsed); err != nil {
		logProtocolError(err)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAttestation, err)
	}

	log.Debugf("passkey %x created for %s", attestation.CredentialID, label)

	return &CredentialBinding{
		Challenge:   session.Challenge,
		Attestation: *attestation,
	}, nil
}

type passkeyUser struct {
	id   []byte
	name string
}

func newPasskeyUser(name string) *passkeyUser {
	id := uuid.New()
	return &passkeyUser{id: id[:], name: name}
}

func (u *passkeyUser) WebAuthnID() []byte                         { return u.id }
func (u *passkeyUser) WebAuthnName() string                       { return u.name }
func (u *passkeyUser) WebAuthnDisplayName() string                { return u.name }
func (u *passkeyUser) WebAuthnCredentials() []webauthn.Credential { return nil }
func (u *passkeyUser) WebAuthnIcon() string                       { return "" }

type creationResponse struct {
	ID       string                    `json:"id"`
	RawID    string                    `json:"rawId"`
	Type     string                    `json:"type"`
	Response creationResponseAttestObj `json:"response"`
}

type creationResponseAttestObj struct {
	ClientDataJSON    string   `json:"clientDataJSON"`
	AttestationObject string   `json:"attestationObject"`
	Transports        []string `json:"transports,omitempty"`
}

func newCreationResponse(a ports.Attestation) creationResponse {
	id := base64.RawURLEncoding.EncodeToString(a.CredentialID)
	return creationResponse{
		ID:    id,
		RawID: id,
		Type:  string(protocol.PublicKeyCredentialType),
		Response: creationResponseAttestObj{
			ClientDataJSON:    base64.RawURLEncoding.EncodeToString(a.ClientDataJSON),
			AttestationObject: base64.RawURLEncoding.EncodeToString(a.AttestationObject),
			Transports:        a.Transports,
		},
	}
}

func logProtocolError(err error) {
	var protoErr *protocol.Error
	if errors.As(err, &protoErr) {
		log.WithField("info", protoErr.DevInfo).Debug(protoErr.Details)
	}
}
