package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	addressT, _ = abi.NewType("address", "", nil)
	uint256T, _ = abi.NewType("uint256", "", nil)
	bytes32T, _ = abi.NewType("bytes32", "", nil)

	packArgs = abi.Arguments{
		{Type: addressT},
		{Type: uint256T},
		{Type: bytes32T},
		{Type: bytes32T},
		{Type: uint256T},
		{Type: uint256T},
		{Type: uint256T},
		{Type: uint256T},
		{Type: uint256T},
		{Type: bytes32T},
	}
	hashArgs = abi.Arguments{
		{Type: bytes32T},
		{Type: addressT},
		{Type: uint256T},
	}
)

// Pack returns the abi encoding of the operation fields covered by the
// user operation hash. Dynamic fields are replaced by their keccak256 hash
// and the signature is excluded.
func (op UserOperation) Pack() ([]byte, error) {
	return packArgs.Pack(
		op.Sender,
		intOrZero(op.Nonce),
		crypto.Keccak256Hash(op.InitCode),
		crypto.Keccak256Hash(op.CallData),
		intOrZero(op.CallGasLimit),
		intOrZero(op.VerificationGasLimit),
		intOrZero(op.PreVerificationGas),
		intOrZero(op.MaxFeePerGas),
		intOrZero(op.MaxPriorityFeePerGas),
		crypto.Keccak256Hash(op.PaymasterAndData),
	)
}

// Hash returns the user operation hash as computed by the given EntryPoint
// on the given chain. Bundlers return the same value from
// eth_sendUserOperation and index receipts by it.
func (op UserOperation) Hash(
	entryPoint common.Address, chainID *big.Int,
) (common.Hash, error) {
	packed, err := op.Pack()
	if err != nil {
		return common.Hash{}, err
	}
	encoded, err := hashArgs.Pack(
		crypto.Keccak256Hash(packed), entryPoint, intOrZero(chainID),
	)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}
