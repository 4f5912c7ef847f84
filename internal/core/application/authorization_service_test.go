package application_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

type authorizationFixture struct {
	sessions   application.SessionManager
	chain      *mockChain
	bundler    *mockBundler
	paymaster  *mockPaymaster
	keyService *mockKeyService
	receipts   *inMemoryReceiptRepository
	submitter  application.Submitter
	session    domain.Session
}

func newAuthorizationFixture(t *testing.T) *authorizationFixture {
	key, owner := newOwnerKey(t)
	session := newTestSession(t, owner)
	sessions := application.NewSessionManager(&inMemorySessionRepository{}, fakeDeriver{})
	require.NoError(t, sessions.Replace(ctx, session))

	return &authorizationFixture{
		sessions:   sessions,
		chain:      newMockChain(false),
		bundler:    &mockBundler{},
		paymaster:  &mockPaymaster{},
		keyService: &mockKeyService{signingKey: key},
		receipts:   newInMemoryReceiptRepository(),
		session:    session,
	}
}

func (f *authorizationFixture) service(network application.Network) application.AuthorizationService {
	var negotiator application.SponsorshipNegotiator
	if network.IsSponsored() {
		negotiator = application.NewSponsorshipNegotiator(f.paymaster, network.SponsorshipPolicyID)
	}
	f.submitter = application.NewSubmitter(f.bundler, f.receipts, contracts, network)
	return application.NewAuthorizationService(
		f.sessions,
		application.NewOperationBuilder(f.chain, f.bundler, fakeDeriver{}, contracts, network),
		negotiator,
		application.NewAuthorizationSigner(f.keyService, fakeDeriver{}, contracts, network),
		f.submitter,
	)
}

func (f *authorizationFixture) expectSubmission() {
	f.bundler.On("SendUserOperation", mock.Anything, mock.Anything).Return(
		func(op userop.UserOperation) common.Hash {
			hash, _ := op.Hash(contracts.EntryPoint, chainID)
			return hash
		}, nil,
	)
}

func TestAuthorizeSponsored(t *testing.T) {
	f := newAuthorizationFixture(t)
	sponsorship := &domain.Sponsorship{
		PaymasterAndData:     []byte{0xaa, 0xbb, 0xcc},
		CallGasLimit:         big.NewInt(80000),
		VerificationGasLimit: big.NewInt(350000),
		PreVerificationGas:   big.NewInt(47000),
	}
	f.paymaster.On("SponsorUserOperation", mock.Anything, mock.Anything, "sp_test").
		Return(sponsorship, nil)
	f.keyService.On("SignRawPayload", mock.Anything, mock.Anything).Return(nil, nil)
	f.expectSubmission()

	result, err := f.service(sponsoredNetwork).Authorize(ctx, newIntents())
	require.NoError(t, err)
	require.NotNil(t, result)

	op := result.Operation
	require.Equal(t, domain.OperationStage(domain.OperationStageSubmitted), op.Stage)
	require.Equal(t, f.session.Account.Address, op.Sender)
	require.Equal(t, sponsorship.PaymasterAndData, op.PaymasterAndData)
	require.Equal(t, sponsorship.CallGasLimit, op.CallGasLimit)
	require.NotEmpty(t, op.InitCode)

	sig := append([]byte(nil), result.Message.Signature[12:]...)
	sig[64] -= 27
	pubkey, err := crypto.SigToPub(result.Message.Digest.Bytes(), sig)
	require.NoError(t, err)
	require.Equal(t, f.session.Wallet.Address, crypto.PubkeyToAddress(*pubkey))

	expectedHandle, err := op.Hash(contracts.EntryPoint, chainID)
	require.NoError(t, err)
	require.Equal(t, expectedHandle, result.Receipt.Handle)
	require.Equal(t, domain.ReceiptStatus(domain.ReceiptStatusSubmitted), result.Receipt.Status)

	f.bundler.AssertNotCalled(t, "EstimateUserOperationGas", mock.Anything, mock.Anything)
}

func TestAuthorizeAndWaitForInclusion(t *testing.T) {
	f := newAuthorizationFixture(t)
	f.paymaster.On("SponsorUserOperation", mock.Anything, mock.Anything, "sp_test").
		Return(&domain.Sponsorship{
			PaymasterAndData:     []byte{0xaa, 0xbb},
			CallGasLimit:         big.NewInt(60000),
			VerificationGasLimit: big.NewInt(300000),
			PreVerificationGas:   big.NewInt(45000),
		}, nil)
	f.keyService.On("SignRawPayload", mock.Anything, mock.Anything).Return(nil, nil)
	f.expectSubmission()
	f.bundler.On("GetUserOperationReceipt", mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	f.bundler.On("GetUserOperationReceipt", mock.Anything, mock.Anything).
		Return(&ports.UserOperationReceipt{Success: true, TxHash: txHash}, nil)

	svc := f.service(sponsoredNetwork)
	intents := []domain.TransactionIntent{
		{Target: common.Address{}, Value: big.NewInt(0), Data: []byte{}},
	}
	result, err := svc.Authorize(ctx, intents)
	require.NoError(t, err)

	handle := result.Receipt.Handle
	require.NotEqual(t, common.Hash{}, handle)
	require.Equal(t, domain.ReceiptStatus(domain.ReceiptStatusSubmitted), result.Receipt.Status)
	f.bundler.AssertNotCalled(t, "GetUserOperationReceipt", mock.Anything, mock.Anything)

	receipt, err := f.submitter.Wait(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, handle, receipt.Handle)
	require.Equal(t, domain.ReceiptStatus(domain.ReceiptStatusIncluded), receipt.Status)
	require.NotEqual(t, common.Hash{}, receipt.TxHash)

	stored, err := f.receipts.GetReceipt(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, domain.ReceiptStatus(domain.ReceiptStatusIncluded), stored.Status)
}

func TestAuthorizeUnsponsored(t *testing.T) {
	f := newAuthorizationFixture(t)
	f.bundler.On("EstimateUserOperationGas", mock.Anything, mock.Anything).Return(
		&ports.GasEstimate{
			CallGasLimit:         big.NewInt(61000),
			VerificationGasLimit: big.NewInt(420000),
			PreVerificationGas:   big.NewInt(48000),
		}, nil,
	)
	f.keyService.On("SignRawPayload", mock.Anything, mock.Anything).Return(nil, nil)
	f.expectSubmission()

	result, err := f.service(unsponsoredNetwork).Authorize(ctx, newIntents())
	require.NoError(t, err)
	require.Empty(t, result.Operation.PaymasterAndData)
	require.Equal(t, big.NewInt(61000), result.Operation.CallGasLimit)

	f.paymaster.AssertNotCalled(t, "SponsorUserOperation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFailingAuthorize(t *testing.T) {
	t.Run("with_denied_sponsorship", func(t *testing.T) {
		f := newAuthorizationFixture(t)
		f.paymaster.On("SponsorUserOperation", mock.Anything, mock.Anything, "sp_test").
			Return(nil, fmt.Errorf("%w: out of budget", ports.ErrRejected))

		result, err := f.service(sponsoredNetwork).Authorize(ctx, newIntents())
		require.ErrorIs(t, err, domain.ErrSponsorshipDenied)
		require.Nil(t, result)

		f.keyService.AssertNotCalled(t, "SignRawPayload", mock.Anything, mock.Anything)
		f.bundler.AssertNotCalled(t, "SendUserOperation", mock.Anything, mock.Anything)
		receipts, _ := f.receipts.GetAllReceipts(ctx)
		require.Empty(t, receipts)
	})

	t.Run("with_declined_signature", func(t *testing.T) {
		f := newAuthorizationFixture(t)
		f.paymaster.On("SponsorUserOperation", mock.Anything, mock.Anything, "sp_test").
			Return(&domain.Sponsorship{
				PaymasterAndData:     []byte{0xaa},
				CallGasLimit:         big.NewInt(1),
				VerificationGasLimit: big.NewInt(1),
				PreVerificationGas:   big.NewInt(1),
			}, nil)
		f.keyService.On("SignRawPayload", mock.Anything, mock.Anything).
			Return(nil, ports.ErrCeremonyAborted)

		_, err := f.service(sponsoredNetwork).Authorize(ctx, newIntents())
		require.ErrorIs(t, err, domain.ErrSigningRejected)
		f.bundler.AssertNotCalled(t, "SendUserOperation", mock.Anything, mock.Anything)
	})

	t.Run("with_anonymous_session", func(t *testing.T) {
		f := newAuthorizationFixture(t)
		require.NoError(t, f.sessions.Replace(ctx, domain.AnonymousSession()))

		_, err := f.service(sponsoredNetwork).Authorize(ctx, newIntents())
		require.ErrorIs(t, err, domain.ErrNoActiveSession)
		f.chain.AssertNotCalled(t, "ChainID", mock.Anything)
	})
}

// blockingBuilder holds the first build until released.
type blockingBuilder struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingBuilder) Build(
	context.Context, domain.SmartAccount, []domain.TransactionIntent,
) (*domain.UserOperation, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil, domain.ErrOperationBuildFailed
}

func TestAuthorizeInFlight(t *testing.T) {
	f := newAuthorizationFixture(t)
	builder := &blockingBuilder{started: make(chan struct{}), release: make(chan struct{})}
	svc := application.NewAuthorizationService(
		f.sessions, builder, nil,
		application.NewAuthorizationSigner(f.keyService, fakeDeriver{}, contracts, unsponsoredNetwork),
		application.NewSubmitter(f.bundler, f.receipts, contracts, unsponsoredNetwork),
	)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Authorize(ctx, newIntents())
		errc <- err
	}()
	<-builder.started

	_, err := svc.Authorize(ctx, newIntents())
	require.ErrorIs(t, err, domain.ErrAuthorizationInFlight)

	close(builder.release)
	require.ErrorIs(t, <-errc, domain.ErrOperationBuildFailed)

	// Once the first run is over the account is free again.
	_, err = svc.Authorize(ctx, newIntents())
	require.ErrorIs(t, err, domain.ErrOperationBuildFailed)
}
