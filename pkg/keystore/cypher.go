package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/scrypt"
)

const saltLen = 32

var (
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("plain text must not be empty")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be empty")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher text must not be empty")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher text must be a valid base64 string")
	// ErrInvalidPassphrase is returned if the cypher text can't be opened
	// with the given passphrase.
	ErrInvalidPassphrase = errors.New("invalid passphrase")

	// ScryptN is the scrypt cost parameter. 2^20 is the recommended value
	// for key-stretching of interactive secrets, see
	// https://godoc.org/golang.org/x/crypto/scrypt
	ScryptN = 1 << 20
)

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  []byte
	Passphrase string
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Encrypt seals the plaintext with AES-GCM under a key stretched from the
// passphrase. The result is base64(nonce || ciphertext || salt).
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, opts.PlainText, nil)
	ciphertext = append(ciphertext, salt...)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	Passphrase string
}

func (o DecryptOpts) validate() ([]byte, error) {
	if len(o.CypherText) <= 0 {
		return nil, ErrNullCypherText
	}
	data, err := base64.StdEncoding.DecodeString(o.CypherText)
	if err != nil || len(data) <= saltLen {
		return nil, ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return nil, ErrNullPassphrase
	}
	return data, nil
}

// Decrypt opens a cypher text produced by Encrypt with the given passphrase.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	data, err := opts.validate()
	if err != nil {
		return nil, err
	}

	salt, data := data[len(data)-saltLen:], data[:len(data)-saltLen]

	key, _, err := DeriveKey([]byte(opts.Passphrase), salt)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, ErrInvalidCypherText
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	return plaintext, nil
}

// DeriveKey derives a 32 byte array key from a custom passhprase
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}
