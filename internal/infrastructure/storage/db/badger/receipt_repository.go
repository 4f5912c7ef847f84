package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type receiptRepositoryImpl struct {
	store *badgerhold.Store
}

func newReceiptRepositoryImpl(store *badgerhold.Store) domain.ReceiptRepository {
	return receiptRepositoryImpl{store}
}

func (r receiptRepositoryImpl) AddReceipt(
	_ context.Context, receipt domain.OperationReceipt,
) error {
	if err := r.store.Insert(receiptKey(receipt.Handle), &receipt); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

func (r receiptRepositoryImpl) GetReceipt(
	_ context.Context, handle common.Hash,
) (*domain.OperationReceipt, error) {
	var receipt domain.OperationReceipt
	if err := r.store.Get(receiptKey(handle), &receipt); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrUnknownOperation
		}
		return nil, err
	}
	return &receipt, nil
}

// GetAllReceipts returns the receipts sorted by submission time.
func (r receiptRepositoryImpl) GetAllReceipts(
	_ context.Context,
) ([]domain.OperationReceipt, error) {
	var receipts []domain.OperationReceipt
	if err := r.store.Find(&receipts, nil); err != nil {
		return nil, err
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].SubmittedAt < receipts[j].SubmittedAt
	})
	return receipts, nil
}

func (r receiptRepositoryImpl) UpdateReceipt(
	_ context.Context,
	handle common.Hash,
	updateFn func(r *domain.OperationReceipt) (*domain.OperationReceipt, error),
) error {
	key := receiptKey(handle)
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var receipt domain.OperationReceipt
		if err := r.store.TxGet(tx, key, &receipt); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrUnknownOperation
			}
			return err
		}

		updated, err := updateFn(&receipt)
		if err != nil {
			return err
		}
		return r.store.TxUpdate(tx, key, updated)
	})
}

func receiptKey(handle common.Hash) string {
	return handle.Hex()
}
