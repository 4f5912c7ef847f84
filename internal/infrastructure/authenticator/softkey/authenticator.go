package softkey

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/keystore"
)

const transportInternal = "internal"

// authenticator is a platform authenticator keeping P-256 passkeys on disk,
// each encrypted with the user passphrase. Entering the passphrase is both
// user presence and user verification.
type authenticator struct {
	store    CredentialStore
	prompter Prompter
	now      func() time.Time

	lock sync.Mutex
}

// NewAuthenticator returns a ports.Authenticator backed by the given store.
func NewAuthenticator(
	store CredentialStore, prompter Prompter,
) (ports.Authenticator, error) {
	if store == nil {
		return nil, ErrNullStore
	}
	if prompter == nil {
		return nil, ErrNullPrompter
	}
	return &authenticator{
		store:    store,
		prompter: prompter,
		now:      time.Now,
	}, nil
}

func (a *authenticator) MakeCredential(
	ctx context.Context, req ports.CredentialCreation,
) (*ports.Attestation, error) {
	if err := validateCeremony(req.RPID, req.Origin, req.Challenge); err != nil {
		return nil, err
	}

	passphrase, err := a.prompter.Passphrase(
		ctx, fmt.Sprintf("create a passkey for %s on %s", req.UserName, req.RPID),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCeremonyAborted, err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	id := make([]byte, credentialIDSize)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}

	attested, err := attestedCredentialData(id, &key.PublicKey)
	if err != nil {
		return nil, err
	}
	authData := authenticatorData(
		req.RPID, flagUserPresent|flagUserVerified|flagAttestedData, 0, attested,
	)
	attestationObject, err := encodeAttestationObject(authData)
	if err != nil {
		return nil, err
	}
	clientData, err := clientDataJSON(ceremonyCreate, req.Challenge, req.Origin)
	if err != nil {
		return nil, err
	}

	encryptedKey, err := encryptKey(key, passphrase)
	if err != nil {
		return nil, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.store.AddCredential(ctx, Credential{
		ID:           id,
		RPID:         req.RPID,
		UserHandle:   req.UserID,
		UserName:     req.UserName,
		EncryptedKey: encryptedKey,
		CreatedAt:    a.now().Unix(),
	}); err != nil {
		return nil, fmt.Errorf("storing passkey: %w", err)
	}

	log.Debugf("created passkey %x for %s", id, req.RPID)

	return &ports.Attestation{
		CredentialID:      id,
		ClientDataJSON:    clientData,
		AttestationObject: attestationObject,
		Transports:        []string{transportInternal},
	}, nil
}

// GetAssertion signs with the most recent passkey of the relying party.
func (a *authenticator) GetAssertion(
	ctx context.Context, req ports.AssertionRequest,
) (*ports.Assertion, error) {
	if err := validateCeremony(req.RPID, req.Origin, req.Challenge); err != nil {
		return nil, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	credentials, err := a.store.GetCredentials(ctx, req.RPID)
	if err != nil {
		return nil, err
	}
	if len(credentials) <= 0 {
		return nil, ports.ErrNoCredential
	}
	credential := credentials[0]

	passphrase, err := a.prompter.Passphrase(
		ctx, fmt.Sprintf("sign in to %s as %s", req.RPID, credential.UserName),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCeremonyAborted, err)
	}
	key, err := decryptKey(credential.EncryptedKey, passphrase)
	if err != nil {
		if errors.Is(err, keystore.ErrInvalidPassphrase) {
			return nil, fmt.Errorf("%w: %w", ports.ErrCeremonyAborted, err)
		}
		return nil, err
	}

	signCount := credential.SignCount + 1
	authData := authenticatorData(req.RPID, flagUserPresent|flagUserVerified, signCount, nil)
	clientData, err := clientDataJSON(ceremonyGet, req.Challenge, req.Origin)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(signedData(authData, clientData))
	signature, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, err
	}

	if err := a.store.UpdateSignCount(ctx, credential.ID, signCount); err != nil {
		return nil, fmt.Errorf("updating passkey counter: %w", err)
	}

	return &ports.Assertion{
		CredentialID:      credential.ID,
		AuthenticatorData: authData,
		ClientDataJSON:    clientData,
		Signature:         signature,
		UserHandle:        credential.UserHandle,
	}, nil
}

func validateCeremony(rpID, origin string, challenge []byte) error {
	if rpID == "" {
		return ErrMissingRPID
	}
	if origin == "" {
		return ErrMissingOrigin
	}
	if len(challenge) <= 0 {
		return ErrMissingChallenge
	}
	return nil
}

func encryptKey(key *ecdsa.PrivateKey, passphrase string) (string, error) {
	buf, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	return keystore.Encrypt(keystore.EncryptOpts{
		PlainText:  buf,
		Passphrase: passphrase,
	})
}

func decryptKey(encryptedKey, passphrase string) (*ecdsa.PrivateKey, error) {
	buf, err := keystore.Decrypt(keystore.DecryptOpts{
		CypherText: encryptedKey,
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS8PrivateKey(buf)
	if err != nil {
		return nil, err
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("passkey is not an ecdsa key")
	}
	return ecKey, nil
}
