package safe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

const safeOpPrimaryType = "SafeOp"

var safeOpTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	safeOpPrimaryType: {
		{Name: "safe", Type: "address"},
		{Name: "nonce", Type: "uint256"},
		{Name: "initCode", Type: "bytes"},
		{Name: "callData", Type: "bytes"},
		{Name: "callGasLimit", Type: "uint256"},
		{Name: "verificationGasLimit", Type: "uint256"},
		{Name: "preVerificationGas", Type: "uint256"},
		{Name: "maxFeePerGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint256"},
		{Name: "paymasterAndData", Type: "bytes"},
		{Name: "validAfter", Type: "uint48"},
		{Name: "validUntil", Type: "uint48"},
		{Name: "entryPoint", Type: "address"},
	},
}

// Validity is the time window in which a signed operation is accepted by the
// module. Zero values mean no lower and no upper bound.
type Validity struct {
	ValidAfter uint64
	ValidUntil uint64
}

// SafeOperation binds a user operation to the module and EntryPoint it is
// validated against.
type SafeOperation struct {
	Operation  userop.UserOperation
	ChainID    *big.Int
	Module     common.Address
	EntryPoint common.Address
	Validity   Validity
}

// TypedData returns the EIP-712 SafeOp typed data the account owners sign.
func (s SafeOperation) TypedData() apitypes.TypedData {
	op := s.Operation
	return apitypes.TypedData{
		Types:       safeOpTypes,
		PrimaryType: safeOpPrimaryType,
		Domain: apitypes.TypedDataDomain{
			ChainId:           (*math.HexOrDecimal256)(valueOrZero(s.ChainID)),
			VerifyingContract: s.Module.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"safe":                 op.Sender.Hex(),
			"nonce":                valueOrZero(op.Nonce).String(),
			"initCode":             dataOrEmpty(op.InitCode),
			"callData":             dataOrEmpty(op.CallData),
			"callGasLimit":         valueOrZero(op.CallGasLimit).String(),
			"verificationGasLimit": valueOrZero(op.VerificationGasLimit).String(),
			"preVerificationGas":   valueOrZero(op.PreVerificationGas).String(),
			"maxFeePerGas":         valueOrZero(op.MaxFeePerGas).String(),
			"maxPriorityFeePerGas": valueOrZero(op.MaxPriorityFeePerGas).String(),
			"paymasterAndData":     dataOrEmpty(op.PaymasterAndData),
			"validAfter":           new(big.Int).SetUint64(s.Validity.ValidAfter).String(),
			"validUntil":           new(big.Int).SetUint64(s.Validity.ValidUntil).String(),
			"entryPoint":           s.EntryPoint.Hex(),
		},
	}
}

// Hash returns the EIP-712 digest of the SafeOp.
func (s SafeOperation) Hash() (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(s.TypedData())
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(digest), nil
}
