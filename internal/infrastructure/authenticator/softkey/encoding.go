package softkey

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

const (
	flagUserPresent  = 0x01
	flagUserVerified = 0x04
	flagAttestedData = 0x40

	ceremonyCreate = "webauthn.create"
	ceremonyGet    = "webauthn.get"

	attestationFormatNone = "none"

	// COSE key parameters, RFC 8152.
	coseKeyType      = 1
	coseAlgorithm    = 3
	coseCurve        = -1
	coseX            = -2
	coseY            = -3
	coseKeyTypeEC2   = 2
	coseAlgES256     = -7
	coseCurveP256    = 1
	credentialIDSize = 32
)

var (
	// aaguid is all zeros, the authenticator does not attest its model.
	aaguid = make([]byte, 16)

	encMode = func() cbor.EncMode {
		mode, err := cbor.CTAP2EncOptions().EncMode()
		if err != nil {
			panic(err)
		}
		return mode
	}()
)

type clientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

func clientDataJSON(ceremony string, challenge []byte, origin string) ([]byte, error) {
	return json.Marshal(clientData{
		Type:      ceremony,
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
		Origin:    origin,
	})
}

// authenticatorData returns rpIdHash || flags || signCount, followed by the
// attested credential data if given.
func authenticatorData(rpID string, flags byte, signCount uint32, attested []byte) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	buf := make([]byte, 0, 37+len(attested))
	buf = append(buf, rpIDHash[:]...)
	buf = append(buf, flags)
	buf = binary.BigEndian.AppendUint32(buf, signCount)
	return append(buf, attested...)
}

// attestedCredentialData returns aaguid || len(id) || id || cose key.
func attestedCredentialData(id []byte, key *ecdsa.PublicKey) ([]byte, error) {
	coseKey, err := encodeCOSEKey(key)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 18+len(id)+len(coseKey))
	buf = append(buf, aaguid...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(id)))
	buf = append(buf, id...)
	return append(buf, coseKey...), nil
}

func encodeCOSEKey(key *ecdsa.PublicKey) ([]byte, error) {
	x, y := make([]byte, 32), make([]byte, 32)
	key.X.FillBytes(x)
	key.Y.FillBytes(y)

	return encMode.Marshal(map[int]interface{}{
		coseKeyType:   coseKeyTypeEC2,
		coseAlgorithm: coseAlgES256,
		coseCurve:     coseCurveP256,
		coseX:         x,
		coseY:         y,
	})
}

type attestationObject struct {
	Format    string                 `cbor:"fmt"`
	Statement map[string]interface{} `cbor:"attStmt"`
	AuthData  []byte                 `cbor:"authData"`
}

func encodeAttestationObject(authData []byte) ([]byte, error) {
	return encMode.Marshal(attestationObject{
		Format:    attestationFormatNone,
		Statement: map[string]interface{}{},
		AuthData:  authData,
	})
}

// signedData returns what an assertion signature covers:
// authenticatorData || sha256(clientDataJSON).
func signedData(authData, clientDataJSON []byte) []byte {
	clientDataHash := sha256.Sum256(clientDataJSON)
	return append(append([]byte{}, authData...), clientDataHash[:]...)
}
