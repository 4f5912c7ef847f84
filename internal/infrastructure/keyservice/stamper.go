package keyservice

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

const (
	headerWebAuthnStamp = "X-Stamp-WebAuthn"
	headerAPIKeyStamp   = "X-Stamp"
	headerSession       = "X-Session"

	schemeAPIKeyP256 = "SIGNATURE_SCHEME_TK_API_P256"
)

// Stamper authenticates a request body. It returns the header carrying the
// stamp and its value.
type Stamper interface {
	Stamp(ctx context.Context, body []byte) (string, string, error)
}

type webAuthnStamp struct {
	CredentialID      string `json:"credentialId"`
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJson"`
	Signature         string `json:"signature"`
}

type webAuthnStamper struct {
	rpID          string
	origin        string
	authenticator ports.Authenticator
}

// NewWebAuthnStamper returns a Stamper asking the authenticator for a
// passkey assertion over the hex encoded sha256 of the body.
func NewWebAuthnStamper(
	rpID, origin string, authenticator ports.Authenticator,
) Stamper {
	return &webAuthnStamper{rpID, origin, authenticator}
}

// Stamp returns the errors of the authenticator as they are.
func (s *webAuthnStamper) Stamp(ctx context.Context, body []byte) (string, string, error) {
	assertion, err := s.authenticator.GetAssertion(ctx, ports.AssertionRequest{
		RPID:      s.rpID,
		Origin:    s.origin,
		Challenge: stampChallenge(body),
	})
	if err != nil {
		return "", "", err
	}

	stamp, err := json.Marshal(webAuthnStamp{
		CredentialID:      b64url(assertion.CredentialID),
		AuthenticatorData: b64url(assertion.AuthenticatorData),
		ClientDataJSON:    b64url(assertion.ClientDataJSON),
		Signature:         b64url(assertion.Signature),
	})
	if err != nil {
		return "", "", err
	}
	return headerWebAuthnStamp, string(stamp), nil
}

type apiKeyStamp struct {
	PublicKey string `json:"publicKey"`
	Scheme    string `json:"scheme"`
	Signature string `json:"signature"`
}

type apiKeyStamper struct {
	publicKey  string
	privateKey *ecdsa.PrivateKey
}

// NewAPIKeyStamper returns a Stamper signing the body with the given P-256
// API key pair. Keys are hex encoded, the public one in compressed form.
func NewAPIKeyStamper(publicKeyHex, privateKeyHex string) (Stamper, error) {
	buf, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil || len(buf) != 32 {
		return nil, ErrInvalidAPIKey
	}

	curve := elliptic.P256()
	d := new(big.Int).SetBytes(buf)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, ErrInvalidAPIKey
	}
	key := &ecdsa.PrivateKey{D: d}
	key.PublicKey.Curve = curve
	key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(buf)

	publicKey := hex.EncodeToString(
		elliptic.MarshalCompressed(curve, key.PublicKey.X, key.PublicKey.Y),
	)
	if publicKeyHex != "" && !strings.EqualFold(publicKey, publicKeyHex) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrInvalidAPIKey)
	}
	return &apiKeyStamper{publicKey, key}, nil
}

func (s *apiKeyStamper) Stamp(_ context.Context, body []byte) (string, string, error) {
	digest := sha256.Sum256(body)
	sig, err := ecdsa.SignASN1(rand.Reader, s.privateKey, digest[:])
	if err != nil {
		return "", "", err
	}

	stamp, err := json.Marshal(apiKeyStamp{
		PublicKey: s.publicKey,
		Scheme:    schemeAPIKeyP256,
		Signature: hex.EncodeToString(sig),
	})
	if err != nil {
		return "", "", err
	}
	return headerAPIKeyStamp, b64url(stamp), nil
}

// stampChallenge returns the challenge a passkey signs to stamp a body.
func stampChallenge(body []byte) []byte {
	digest := sha256.Sum256(body)
	return []byte(hex.EncodeToString(digest[:]))
}

func b64url(buf []byte) string {
	return base64.RawURLEncoding.EncodeToString(buf)
}
