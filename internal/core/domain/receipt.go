package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	ReceiptStatusUndefined = iota
	ReceiptStatusSubmitted
	ReceiptStatusPending
	ReceiptStatusIncluded
	ReceiptStatusFailed
)

var receiptStatuses = map[int]string{
	ReceiptStatusUndefined: "UNDEFINED",
	ReceiptStatusSubmitted: "SUBMITTED",
	ReceiptStatusPending:   "PENDING",
	ReceiptStatusIncluded:  "INCLUDED",
	ReceiptStatusFailed:    "FAILED",
}

// ReceiptStatus is the inclusion status of a submitted user operation.
type ReceiptStatus int

func (s ReceiptStatus) String() string {
	return receiptStatuses[int(s)]
}

// OperationReceipt tracks a submitted user operation up to its inclusion.
// Handle is the user operation hash returned by the bundler.
type OperationReceipt struct {
	Handle      common.Hash
	Sender      common.Address
	Status      ReceiptStatus
	TxHash      common.Hash
	Reason      string
	SubmittedAt int64
	SettledAt   int64
}

// NewOperationReceipt returns a receipt in Submitted status for the given
// tracking handle.
func NewOperationReceipt(handle common.Hash, sender common.Address) (*OperationReceipt, error) {
	if handle == (common.Hash{}) {
		return nil, ErrNullHandle
	}
	return &OperationReceipt{
		Handle:      handle,
		Sender:      sender,
		Status:      ReceiptStatusSubmitted,
		SubmittedAt: time.Now().Unix(),
	}, nil
}

// MarkPending brings a Submitted receipt to Pending, once the tracker starts
// waiting for it.
func (r *OperationReceipt) MarkPending() (bool, error) {
	if r.Status == ReceiptStatusPending {
		return true, nil
	}
	if r.IsSettled() {
		return false, ErrReceiptAlreadySettled
	}
	if r.Status != ReceiptStatusSubmitted {
		return false, ErrReceiptMustBeSubmitted
	}
	r.Status = ReceiptStatusPending
	return true, nil
}

// Include brings a Pending receipt to the terminal Included status. The hash
// of the including transaction is mandatory.
func (r *OperationReceipt) Include(txHash common.Hash) error {
	if r.IsSettled() {
		return ErrReceiptAlreadySettled
	}
	if r.Status != ReceiptStatusPending {
		return ErrReceiptMustBePending
	}
	if txHash == (common.Hash{}) {
		return ErrMissingTxHash
	}
	r.TxHash = txHash
	r.Status = ReceiptStatusIncluded
	r.SettledAt = time.Now().Unix()
	return nil
}

// Fail brings a Pending receipt to the terminal Failed status with the
// reason reported by the bundler. The transaction hash is optional, an
// operation can revert on chain.
func (r *OperationReceipt) Fail(txHash common.Hash, reason string) error {
	if r.IsSettled() {
		return ErrReceiptAlreadySettled
	}
	if r.Status != ReceiptStatusPending {
		return ErrReceiptMustBePending
	}
	r.TxHash = txHash
	r.Reason = reason
	r.Status = ReceiptStatusFailed
	r.SettledAt = time.Now().Unix()
	return nil
}

// IsSettled returns whether the receipt reached a terminal status.
func (r *OperationReceipt) IsSettled() bool {
	return r.Status == ReceiptStatusIncluded || r.Status == ReceiptStatusFailed
}

// IsIncluded ...
func (r *OperationReceipt) IsIncluded() bool {
	return r.Status == ReceiptStatusIncluded
}

// IsFailed ...
func (r *OperationReceipt) IsFailed() bool {
	return r.Status == ReceiptStatusFailed
}
