package safe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a single call performed by the account.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// EncodeExecuteUserOp returns the 4337 module call data executing the given
// call from the account.
func EncodeExecuteUserOp(call Call, operation Operation) ([]byte, error) {
	return moduleABI.Pack(
		"executeUserOp", call.To, valueOrZero(call.Value), dataOrEmpty(call.Data),
		uint8(operation),
	)
}

// EncodeCalls returns the call data for the given calls. A single call is
// executed directly, more calls are batched through a delegate call to the
// multiSend contract.
func EncodeCalls(calls []Call, multiSend common.Address) ([]byte, error) {
	switch len(calls) {
	case 0:
		return nil, ErrEmptyBatch
	case 1:
		return EncodeExecuteUserOp(calls[0], OperationCall)
	}

	batch, err := EncodeMultiSend(calls)
	if err != nil {
		return nil, err
	}
	return EncodeExecuteUserOp(
		Call{To: multiSend, Value: new(big.Int), Data: batch}, OperationDelegateCall,
	)
}

// EncodeMultiSend returns the multiSend(bytes) call data for the given
// calls. Each call is packed as
// operation (1) || to (20) || value (32) || data length (32) || data.
func EncodeMultiSend(calls []Call) ([]byte, error) {
	if len(calls) == 0 {
		return nil, ErrEmptyBatch
	}

	packed := make([]byte, 0)
	for _, c := range calls {
		data := dataOrEmpty(c.Data)
		packed = append(packed, byte(OperationCall))
		packed = append(packed, c.To.Bytes()...)
		packed = append(packed, common.LeftPadBytes(valueOrZero(c.Value).Bytes(), 32)...)
		packed = append(packed, common.LeftPadBytes(big.NewInt(int64(len(data))).Bytes(), 32)...)
		packed = append(packed, data...)
	}
	return multiSendABI.Pack("multiSend", packed)
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func dataOrEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
