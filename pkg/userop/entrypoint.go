package userop

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EntryPointV06 is the canonical EntryPoint v0.6 deployment address.
var EntryPointV06 = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")

const entryPointABIJSON = `[
	{"type":"function","name":"getNonce","stateMutability":"view",
	 "inputs":[{"name":"sender","type":"address"},{"name":"key","type":"uint192"}],
	 "outputs":[{"name":"nonce","type":"uint256"}]}
]`

var entryPointABI = mustParseABI(entryPointABIJSON)

// PackGetNonce returns the call data of EntryPoint.getNonce(sender, key).
func PackGetNonce(sender common.Address, key *big.Int) ([]byte, error) {
	return entryPointABI.Pack("getNonce", sender, intOrZero(key))
}

// UnpackGetNonce decodes the return data of EntryPoint.getNonce.
func UnpackGetNonce(data []byte) (*big.Int, error) {
	out, err := entryPointABI.Unpack("getNonce", data)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getNonce: unexpected number of outputs %d", len(out))
	}
	nonce, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getNonce: unexpected output type %T", out[0])
	}
	return nonce, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
