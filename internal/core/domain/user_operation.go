package domain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

const (
	OperationStageBuilt = iota
	OperationStageSponsored
	OperationStageSigned
	OperationStageSubmitted
)

var operationStages = map[int]string{
	OperationStageBuilt:     "BUILT",
	OperationStageSponsored: "SPONSORED",
	OperationStageSigned:    "SIGNED",
	OperationStageSubmitted: "SUBMITTED",
}

// OperationStage is the stage of a user operation in the authorization
// pipeline.
type OperationStage int

func (s OperationStage) String() string {
	return operationStages[int(s)]
}

func (s OperationStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OperationStage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for stage, name := range operationStages {
		if name == str {
			*s = OperationStage(stage)
			return nil
		}
	}
	return fmt.Errorf("unknown operation stage %q", str)
}

// UserOperation is a user operation moving through the authorization
// pipeline together with the intents it encodes. Every transition returns a
// new value and leaves the receiver untouched.
type UserOperation struct {
	userop.UserOperation
	Intents []TransactionIntent
	Stage   OperationStage
}

type userOperationJSON struct {
	UserOperation userop.UserOperation `json:"userOperation"`
	Intents       []TransactionIntent  `json:"intents,omitempty"`
	Stage         OperationStage       `json:"stage"`
}

// MarshalJSON nests the ERC-4337 fields so that the ones promoted from
// userop.UserOperation don't hide the intents and the stage.
func (op UserOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(userOperationJSON{op.UserOperation, op.Intents, op.Stage})
}

func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var v userOperationJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*op = UserOperation{v.UserOperation, v.Intents, v.Stage}
	return nil
}

// Sponsorship holds the fields a paymaster returns for an operation it agrees
// to sponsor. Nil fields were not returned.
type Sponsorship struct {
	PaymasterAndData     []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Validate checks that all the required sponsorship fields are set.
func (s Sponsorship) Validate() error {
	missing := ""
	switch {
	case len(s.PaymasterAndData) == 0:
		missing = "paymasterAndData"
	case s.CallGasLimit == nil:
		missing = "callGasLimit"
	case s.VerificationGasLimit == nil:
		missing = "verificationGasLimit"
	case s.PreVerificationGas == nil:
		missing = "preVerificationGas"
	}
	if missing != "" {
		return fmt.Errorf("%w: missing %s in paymaster response", ErrSponsorshipDenied, missing)
	}
	return nil
}

// NewUserOperation returns a user operation in Built stage.
func NewUserOperation(op userop.UserOperation, intents []TransactionIntent) *UserOperation {
	return &UserOperation{
		UserOperation: op.Copy(),
		Intents:       append([]TransactionIntent(nil), intents...),
		Stage:         OperationStageBuilt,
	}
}

// Sponsor returns a copy of the operation in Sponsored stage. The paymaster
// data and the gas limits always replace the ones of the builder, fees are
// replaced only if the paymaster returned them.
func (o *UserOperation) Sponsor(s Sponsorship) (*UserOperation, error) {
	if o.Stage != OperationStageBuilt {
		return nil, ErrOperationMustBeBuilt
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sponsored := o.copy()
	sponsored.PaymasterAndData = append([]byte(nil), s.PaymasterAndData...)
	sponsored.CallGasLimit = new(big.Int).Set(s.CallGasLimit)
	sponsored.VerificationGasLimit = new(big.Int).Set(s.VerificationGasLimit)
	sponsored.PreVerificationGas = new(big.Int).Set(s.PreVerificationGas)
	if s.MaxFeePerGas != nil {
		sponsored.MaxFeePerGas = new(big.Int).Set(s.MaxFeePerGas)
	}
	if s.MaxPriorityFeePerGas != nil {
		sponsored.MaxPriorityFeePerGas = new(big.Int).Set(s.MaxPriorityFeePerGas)
	}
	sponsored.Stage = OperationStageSponsored
	return sponsored, nil
}

// Sign returns a copy of the operation carrying the given signature, in
// Signed stage.
func (o *UserOperation) Sign(signature []byte) (*UserOperation, error) {
	if o.Stage >= OperationStageSubmitted {
		return nil, ErrOperationSubmitted
	}
	if len(signature) == 0 {
		return nil, ErrEmptySignature
	}

	signed := o.copy()
	signed.Signature = append([]byte(nil), signature...)
	signed.Stage = OperationStageSigned
	return signed, nil
}

// Submit brings a Signed operation to the Submitted stage. No further change
// is allowed afterwards.
func (o *UserOperation) Submit() error {
	if o.Stage == OperationStageSubmitted {
		return ErrOperationSubmitted
	}
	if o.Stage != OperationStageSigned {
		return ErrOperationMustBeSigned
	}
	o.Stage = OperationStageSubmitted
	return nil
}

// IsSponsored returns whether the operation carries paymaster data.
func (o *UserOperation) IsSponsored() bool {
	return len(o.PaymasterAndData) > 0
}

func (o *UserOperation) copy() *UserOperation {
	return &UserOperation{
		UserOperation: o.UserOperation.Copy(),
		Intents:       append([]TransactionIntent(nil), o.Intents...),
		Stage:         o.Stage,
	}
}
