package softkey_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/authenticator/softkey"
	dbbadger "github.com/tdex-network/passkey-wallet/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/passkey-wallet/pkg/keystore"
)

var (
	ctx          = context.Background()
	relyingParty = application.RelyingParty{
		ID:          "wallet.example.com",
		Origin:      "https://wallet.example.com",
		DisplayName: "Passkey Wallet",
	}
	passphrase = "correct horse battery staple"
)

func TestMain(m *testing.M) {
	keystore.ScryptN = 1 << 10
	os.Exit(m.Run())
}

type fixedPrompter struct {
	passphrase string
	err        error
}

func (p fixedPrompter) Passphrase(context.Context, string) (string, error) {
	return p.passphrase, p.err
}

func newAuthenticator(t *testing.T, prompter softkey.Prompter) ports.Authenticator {
	store, err := dbbadger.NewCredentialStore("", nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	authenticator, err := softkey.NewAuthenticator(store, prompter)
	require.NoError(t, err)
	return authenticator
}

func TestBindCredential(t *testing.T) {
	authenticator := newAuthenticator(t, fixedPrompter{passphrase: passphrase})

	binder, err := application.NewCredentialBinder(relyingParty, authenticator)
	require.NoError(t, err)

	binding, err := binder.Bind(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, binding)
	require.NotEmpty(t, binding.Challenge)
	require.Len(t, binding.Attestation.CredentialID, 32)
	require.Equal(t, []string{"internal"}, binding.Attestation.Transports)

	var clientData map[string]interface{}
	require.NoError(t, json.Unmarshal(binding.Attestation.ClientDataJSON, &clientData))
	require.Equal(t, "webauthn.create", clientData["type"])
	require.Equal(t, binding.Challenge, clientData["challenge"])
	require.Equal(t, relyingParty.Origin, clientData["origin"])
}

func TestGetAssertion(t *testing.T) {
	authenticator := newAuthenticator(t, fixedPrompter{passphrase: passphrase})

	attestation, err := authenticator.MakeCredential(ctx, ports.CredentialCreation{
		RPID:      relyingParty.ID,
		Origin:    relyingParty.Origin,
		UserID:    []byte("user-handle"),
		UserName:  "alice",
		Challenge: []byte("registration challenge"),
	})
	require.NoError(t, err)

	publicKey := parseCredentialPublicKey(t, attestation.AttestationObject)

	for i := 1; i <= 2; i++ {
		challenge := []byte("stamp challenge")
		assertion, err := authenticator.GetAssertion(ctx, ports.AssertionRequest{
			RPID:      relyingParty.ID,
			Origin:    relyingParty.Origin,
			Challenge: challenge,
		})
		require.NoError(t, err)
		require.Equal(t, attestation.CredentialID, assertion.CredentialID)
		require.Equal(t, []byte("user-handle"), assertion.UserHandle)

		var authData protocol.AuthenticatorData
		require.NoError(t, authData.Unmarshal(assertion.AuthenticatorData))
		require.True(t, authData.Flags.UserPresent())
		require.True(t, authData.Flags.UserVerified())
		require.Equal(t, uint32(i), authData.Counter)
		rpIDHash := sha256.Sum256([]byte(relyingParty.ID))
		require.Equal(t, rpIDHash[:], authData.RPIDHash)

		var clientData map[string]interface{}
		require.NoError(t, json.Unmarshal(assertion.ClientDataJSON, &clientData))
		require.Equal(t, "webauthn.get", clientData["type"])
		require.Equal(t, base64.RawURLEncoding.EncodeToString(challenge), clientData["challenge"])

		clientDataHash := sha256.Sum256(assertion.ClientDataJSON)
		signed := append(append([]byte{}, assertion.AuthenticatorData...), clientDataHash[:]...)
		ok, err := webauthncose.VerifySignature(publicKey, signed, assertion.Signature)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestFailingGetAssertion(t *testing.T) {
	request := ports.AssertionRequest{
		RPID:      relyingParty.ID,
		Origin:    relyingParty.Origin,
		Challenge: []byte("challenge"),
	}

	t.Run("with_no_credential", func(t *testing.T) {
		authenticator := newAuthenticator(t, fixedPrompter{passphrase: passphrase})

		assertion, err := authenticator.GetAssertion(ctx, request)
		require.ErrorIs(t, err, ports.ErrNoCredential)
		require.Nil(t, assertion)
	})

	t.Run("with_declined_prompt", func(t *testing.T) {
		authenticator := newAuthenticator(t, fixedPrompter{err: softkey.ErrDeclined})

		attestation, err := authenticator.MakeCredential(ctx, ports.CredentialCreation{
			RPID: relyingParty.ID, Origin: relyingParty.Origin, Challenge: []byte("c"),
		})
		require.ErrorIs(t, err, ports.ErrCeremonyAborted)
		require.Nil(t, attestation)
	})

	t.Run("with_wrong_passphrase", func(t *testing.T) {
		store, err := dbbadger.NewCredentialStore("", nil)
		require.NoError(t, err)
		t.Cleanup(store.Close)

		creator, err := softkey.NewAuthenticator(store, fixedPrompter{passphrase: passphrase})
		require.NoError(t, err)
		_, err = creator.MakeCredential(ctx, ports.CredentialCreation{
			RPID: relyingParty.ID, Origin: relyingParty.Origin, Challenge: []byte("c"),
		})
		require.NoError(t, err)

		signer, err := softkey.NewAuthenticator(store, fixedPrompter{passphrase: "wrong"})
		require.NoError(t, err)
		assertion, err := signer.GetAssertion(ctx, request)
		require.ErrorIs(t, err, ports.ErrCeremonyAborted)
		require.ErrorIs(t, err, keystore.ErrInvalidPassphrase)
		require.Nil(t, assertion)
	})

	t.Run("with_missing_challenge", func(t *testing.T) {
		authenticator := newAuthenticator(t, fixedPrompter{passphrase: passphrase})

		_, err := authenticator.GetAssertion(ctx, ports.AssertionRequest{
			RPID: relyingParty.ID, Origin: relyingParty.Origin,
		})
		require.ErrorIs(t, err, softkey.ErrMissingChallenge)
	})
}

func parseCredentialPublicKey(t *testing.T, attestationObject []byte) interface{} {
	var obj struct {
		Format   string `cbor:"fmt"`
		AuthData []byte `cbor:"authData"`
	}
	require.NoError(t, cbor.Unmarshal(attestationObject, &obj))
	require.Equal(t, "none", obj.Format)

	var authData protocol.AuthenticatorData
	require.NoError(t, authData.Unmarshal(obj.AuthData))
	require.True(t, authData.Flags.HasAttestedCredentialData())

	key, err := webauthncose.ParsePublicKey(authData.AttData.CredentialPublicKey)
	require.NoError(t, err)
	return key
}
