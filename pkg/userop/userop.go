package userop

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// UserOperation is the ERC-4337 (EntryPoint v0.6) user operation record.
type UserOperation struct {
	Sender               common.Address
	Nonce                *big.Int
	InitCode             []byte
	CallData             []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
	Signature            []byte
}

type jsonUserOperation struct {
	Sender               common.Address `json:"sender"`
	Nonce                *hexutil.Big   `json:"nonce"`
	InitCode             hexutil.Bytes  `json:"initCode"`
	CallData             hexutil.Bytes  `json:"callData"`
	CallGasLimit         *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big   `json:"preVerificationGas"`
	MaxFeePerGas         *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big   `json:"maxPriorityFeePerGas"`
	PaymasterAndData     hexutil.Bytes  `json:"paymasterAndData"`
	Signature            hexutil.Bytes  `json:"signature"`
}

// MarshalJSON encodes the operation in the JSON-RPC wire format expected by
// bundlers and paymasters: quantities as hex numbers, byte fields as 0x
// prefixed hex strings. Nil quantities are encoded as 0x0.
func (op UserOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonUserOperation{
		Sender:               op.Sender,
		Nonce:                quantity(op.Nonce),
		InitCode:             bytesOrEmpty(op.InitCode),
		CallData:             bytesOrEmpty(op.CallData),
		CallGasLimit:         quantity(op.CallGasLimit),
		VerificationGasLimit: quantity(op.VerificationGasLimit),
		PreVerificationGas:   quantity(op.PreVerificationGas),
		MaxFeePerGas:         quantity(op.MaxFeePerGas),
		MaxPriorityFeePerGas: quantity(op.MaxPriorityFeePerGas),
		PaymasterAndData:     bytesOrEmpty(op.PaymasterAndData),
		Signature:            bytesOrEmpty(op.Signature),
	})
}

// UnmarshalJSON decodes an operation from the JSON-RPC wire format.
func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var dec jsonUserOperation
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	*op = UserOperation{
		Sender:               dec.Sender,
		Nonce:                dec.Nonce.ToInt(),
		InitCode:             dec.InitCode,
		CallData:             dec.CallData,
		CallGasLimit:         dec.CallGasLimit.ToInt(),
		VerificationGasLimit: dec.VerificationGasLimit.ToInt(),
		PreVerificationGas:   dec.PreVerificationGas.ToInt(),
		MaxFeePerGas:         dec.MaxFeePerGas.ToInt(),
		MaxPriorityFeePerGas: dec.MaxPriorityFeePerGas.ToInt(),
		PaymasterAndData:     dec.PaymasterAndData,
		Signature:            dec.Signature,
	}
	return nil
}

// Copy returns a deep copy of the operation.
func (op UserOperation) Copy() UserOperation {
	return UserOperation{
		Sender:               op.Sender,
		Nonce:                copyInt(op.Nonce),
		InitCode:             common.CopyBytes(op.InitCode),
		CallData:             common.CopyBytes(op.CallData),
		CallGasLimit:         copyInt(op.CallGasLimit),
		VerificationGasLimit: copyInt(op.VerificationGasLimit),
		PreVerificationGas:   copyInt(op.PreVerificationGas),
		MaxFeePerGas:         copyInt(op.MaxFeePerGas),
		MaxPriorityFeePerGas: copyInt(op.MaxPriorityFeePerGas),
		PaymasterAndData:     common.CopyBytes(op.PaymasterAndData),
		Signature:            common.CopyBytes(op.Signature),
	}
}

func quantity(v *big.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(new(big.Int))
	}
	return (*hexutil.Big)(v)
}

func bytesOrEmpty(b []byte) hexutil.Bytes {
	if b == nil {
		return hexutil.Bytes{}
	}
	return b
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func intOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
