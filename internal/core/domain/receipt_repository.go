package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptRepository is the abstraction for any kind of database intended to
// journal the submitted user operations.
type ReceiptRepository interface {
	// AddReceipt journals a new receipt. It fails with ErrDuplicateSubmission
	// if a receipt with the same handle exists.
	AddReceipt(ctx context.Context, receipt OperationReceipt) error
	// GetReceipt returns the receipt with the given handle. It fails with
	// ErrUnknownOperation if not found.
	GetReceipt(ctx context.Context, handle common.Hash) (*OperationReceipt, error)
	// GetAllReceipts returns all the journaled receipts.
	GetAllReceipts(ctx context.Context) ([]OperationReceipt, error)
	// UpdateReceipt allows to commit multiple changes to the same receipt in
	// a transactional way.
	UpdateReceipt(
		ctx context.Context,
		handle common.Hash,
		updateFn func(r *OperationReceipt) (*OperationReceipt, error),
	) error
}
