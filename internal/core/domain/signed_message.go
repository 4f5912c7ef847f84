package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// SignedMessage is the authorization produced for a user operation: the
// digest the owners signed and the encoded signature the account validates.
type SignedMessage struct {
	Description string
	Digest      common.Hash
	Signature   []byte
}
