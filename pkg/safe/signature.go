package safe

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const signatureLength = 65

// dummySignature is a well formed ECDSA signature used in place of the real
// one when estimating gas.
var dummySignature = hexutil.MustDecode(
	"0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"7aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
		"1c",
)

// OwnerSignature is the ECDSA signature of an owner over the SafeOp digest.
type OwnerSignature struct {
	Owner     common.Address
	Signature []byte
}

// EncodeSignature returns the user operation signature expected by the 4337
// module: validAfter (6) || validUntil (6) || owner signatures sorted by
// owner address. Signature v values in {0, 1} are normalized to {27, 28}.
func EncodeSignature(
	account Account, validity Validity, sigs []OwnerSignature,
) ([]byte, error) {
	if uint64(len(sigs)) < account.Threshold {
		return nil, ErrNotEnoughSignatures
	}

	owners := make(map[common.Address]struct{}, len(account.Owners))
	for _, o := range account.Owners {
		owners[o] = struct{}{}
	}

	sorted := make([]OwnerSignature, 0, len(sigs))
	for _, s := range sigs {
		if _, ok := owners[s.Owner]; !ok {
			return nil, ErrUnknownSigner
		}
		if len(s.Signature) != signatureLength {
			return nil, ErrInvalidSignatureLength
		}
		sig := common.CopyBytes(s.Signature)
		if sig[64] < 27 {
			sig[64] += 27
		}
		sorted = append(sorted, OwnerSignature{s.Owner, sig})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Owner.Bytes(), sorted[j].Owner.Bytes()) < 0
	})

	encoded := encodeValidity(validity)
	for _, s := range sorted {
		encoded = append(encoded, s.Signature...)
	}
	return encoded, nil
}

// DummySignature returns a signature of the right shape for the given
// account, to be used for gas estimation only.
func DummySignature(account Account) []byte {
	threshold := account.Threshold
	if threshold == 0 {
		threshold = 1
	}
	encoded := encodeValidity(Validity{})
	for i := uint64(0); i < threshold; i++ {
		encoded = append(encoded, dummySignature...)
	}
	return encoded
}

func encodeValidity(v Validity) []byte {
	buf := make([]byte, 12, 12+signatureLength)
	putUint48(buf[0:6], v.ValidAfter)
	putUint48(buf[6:12], v.ValidUntil)
	return buf
}

func putUint48(b []byte, v uint64) {
	for i := 5; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
