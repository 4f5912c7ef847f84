package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
)

// AuthorizationService runs the authorization pipeline of the current
// session: build, sponsor, sign and submit. Any failure aborts the pipeline
// and nothing partially authorized is kept.
type AuthorizationService interface {
	Authorize(
		ctx context.Context, intents []domain.TransactionIntent,
	) (*AuthorizationResult, error)
}

type authorizationService struct {
	sessions   SessionManager
	builder    OperationBuilder
	negotiator SponsorshipNegotiator
	signer     AuthorizationSigner
	submitter  Submitter

	lock     *sync.Mutex
	inFlight map[common.Address]struct{}
}

// NewAuthorizationService returns the service running the pipeline. A nil
// negotiator means operations are not sponsored.
func NewAuthorizationService(
	sessions SessionManager,
	builder OperationBuilder,
	negotiator SponsorshipNegotiator,
	signer AuthorizationSigner,
	submitter Submitter,
) AuthorizationService {
	return &authorizationService{
		sessions:   sessions,
		builder:    builder,
		negotiator: negotiator,
		signer:     signer,
		submitter:  submitter,
		lock:       &sync.Mutex{},
		inFlight:   make(map[common.Address]struct{}),
	}
}

func (s *authorizationService) Authorize(
	ctx context.Context, intents []domain.TransactionIntent,
) (*AuthorizationResult, error) {
	session := s.sessions.Current()
	if !session.IsActive() {
		return nil, domain.ErrNoActiveSession
	}

	account := session.Account.Address
	if err := s.acquire(account); err != nil {
		return nil, err
	}
	defer s.release(account)

	op, err := s.builder.Build(ctx, session.Account, intents)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	log.Debugf("user operation %s", op.Stage)

	if s.negotiator != nil {
		if op, err = s.negotiator.Sponsor(ctx, op); err != nil {
			return nil, fmt.Errorf("sponsor: %w", err)
		}
		log.Debugf("user operation %s", op.Stage)
	}

	op, msg, err := s.signer.Sign(ctx, op, session)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	log.Debugf("user operation %s", op.Stage)

	receipt, err := s.submitter.Submit(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	return &AuthorizationResult{
		Operation: op,
		Message:   msg,
		Receipt:   receipt,
	}, nil
}

func (s *authorizationService) acquire(account common.Address) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.inFlight[account]; ok {
		return domain.ErrAuthorizationInFlight
	}
	s.inFlight[account] = struct{}{}
	return nil
}

func (s *authorizationService) release(account common.Address) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inFlight, account)
}
