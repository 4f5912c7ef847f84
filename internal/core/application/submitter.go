package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"golang.org/x/time/rate"
)

// DefaultReceiptPollInterval is the interval between two receipt lookups at
// the bundler if none is configured.
const DefaultReceiptPollInterval = 2 * time.Second

// Submitter hands signed operations to the bundler and tracks them up to
// their inclusion.
type Submitter interface {
	// Submit sends the operation once and journals its receipt.
	Submit(ctx context.Context, op *domain.UserOperation) (*domain.OperationReceipt, error)
	// Wait blocks until the operation identified by the handle is included
	// or failed, the context is done or the configured timeout expires.
	Wait(ctx context.Context, handle common.Hash) (*domain.OperationReceipt, error)
	// Receipts returns the journaled receipts.
	Receipts(ctx context.Context) ([]domain.OperationReceipt, error)
}

type submitter struct {
	bundler   ports.Bundler
	repo      domain.ReceiptRepository
	contracts Contracts
	network   Network
}

func NewSubmitter(
	bundler ports.Bundler,
	repo domain.ReceiptRepository,
	contracts Contracts,
	network Network,
) Submitter {
	if network.ReceiptPollInterval <= 0 {
		network.ReceiptPollInterval = DefaultReceiptPollInterval
	}
	return &submitter{bundler, repo, contracts, network}
}

func (s *submitter) Submit(
	ctx context.Context, op *domain.UserOperation,
) (*domain.OperationReceipt, error) {
	if op.Stage != domain.OperationStageSigned {
		if op.Stage == domain.OperationStageSubmitted {
			return nil, domain.ErrOperationSubmitted
		}
		return nil, domain.ErrOperationMustBeSigned
	}

	expected, err := op.Hash(s.contracts.EntryPoint, s.network.ChainID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetReceipt(ctx, expected); err == nil {
		return nil, domain.ErrDuplicateSubmission
	} else if !errors.Is(err, domain.ErrUnknownOperation) {
		return nil, err
	}

	handle, err := s.bundler.SendUserOperation(ctx, op.UserOperation)
	if err != nil {
		if errors.Is(err, ports.ErrRejected) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSubmissionRejected, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRelayUnavailable, err)
	}
	if handle != expected {
		return nil, fmt.Errorf(
			"%w: got %s, expected %s, check entry point and chain id",
			domain.ErrHandleMismatch, handle.Hex(), expected.Hex(),
		)
	}

	if err := op.Submit(); err != nil {
		return nil, err
	}
	receipt, err := domain.NewOperationReceipt(handle, op.Sender)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddReceipt(ctx, *receipt); err != nil {
		return nil, err
	}

	log.Infof("user operation %s submitted", handle.Hex())
	return receipt, nil
}

func (s *submitter) Wait(
	ctx context.Context, handle common.Hash,
) (*domain.OperationReceipt, error) {
	receipt, err := s.repo.GetReceipt(ctx, handle)
	if err != nil {
		return nil, err
	}
	if receipt.IsSettled() {
		return receipt, nil
	}

	if err := s.repo.UpdateReceipt(
		ctx, handle, func(r *domain.OperationReceipt) (*domain.OperationReceipt, error) {
			if _, err := r.MarkPending(); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		return nil, err
	}

	if s.network.ReceiptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.network.ReceiptTimeout)
		defer cancel()
	}

	rateLimiter := rate.NewLimiter(rate.Every(s.network.ReceiptPollInterval), 1)
	for {
		if err := rateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, context.DeadlineExceeded
		}

		result, err := s.bundler.GetUserOperationReceipt(ctx, handle)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, ports.ErrUnavailable) {
				log.WithError(err).Debugf("failed to fetch receipt of %s, retrying", handle.Hex())
				continue
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrRelayUnavailable, err)
		}
		if result == nil {
			log.Debugf("user operation %s still pending", handle.Hex())
			continue
		}

		return s.settle(ctx, handle, *result)
	}
}

func (s *submitter) Receipts(ctx context.Context) ([]domain.OperationReceipt, error) {
	return s.repo.GetAllReceipts(ctx)
}

func (s *submitter) settle(
	ctx context.Context, handle common.Hash, result ports.UserOperationReceipt,
) (*domain.OperationReceipt, error) {
	var settled *domain.OperationReceipt
	if err := s.repo.UpdateReceipt(
		ctx, handle, func(r *domain.OperationReceipt) (*domain.OperationReceipt, error) {
			var err error
			if result.Success {
				err = r.Include(result.TxHash)
			} else {
				err = r.Fail(result.TxHash, result.Reason)
			}
			if err != nil {
				return nil, err
			}
			settled = r
			return r, nil
		},
	); err != nil {
		return nil, err
	}

	if settled.IsIncluded() {
		log.Infof("user operation %s included in tx %s", handle.Hex(), settled.TxHash.Hex())
	} else {
		log.Warnf("user operation %s failed: %s", handle.Hex(), settled.Reason)
	}
	return settled, nil
}
