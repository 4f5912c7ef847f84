package application_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

// **** Authenticator ****

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) MakeCredential(
	ctx context.Context, req ports.CredentialCreation,
) (*ports.Attestation, error) {
	args := m.Called(ctx, req)

	var res *ports.Attestation
	if a := args.Get(0); a != nil {
		res = a.(*ports.Attestation)
	}
	return res, args.Error(1)
}

func (m *mockAuthenticator) GetAssertion(
	ctx context.Context, req ports.AssertionRequest,
) (*ports.Assertion, error) {
	args := m.Called(ctx, req)

	var res *ports.Assertion
	if a := args.Get(0); a != nil {
		res = a.(*ports.Assertion)
	}
	return res, args.Error(1)
}

// **** Credential binder ****

type mockCredentialBinder struct {
	mock.Mock
}

func (m *mockCredentialBinder) Bind(
	ctx context.Context, label string,
) (*application.CredentialBinding, error) {
	args := m.Called(ctx, label)

	var res *application.CredentialBinding
	if a := args.Get(0); a != nil {
		res = a.(*application.CredentialBinding)
	}
	return res, args.Error(1)
}

// **** Provisioner ****

type mockProvisioner struct {
	mock.Mock
}

func (m *mockProvisioner) CreateSubOrganization(
	ctx context.Context, req ports.ProvisionRequest,
) (*ports.ProvisionResult, error) {
	args := m.Called(ctx, req)

	var res *ports.ProvisionResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.ProvisionResult)
	}
	return res, args.Error(1)
}

// **** Key service ****

// mockKeyService signs raw payloads for real with signingKey, if set,
// unless the mocked call returns an error.
type mockKeyService struct {
	mock.Mock
	signingKey *ecdsa.PrivateKey
}

func (m *mockKeyService) CreateReadOnlySession(
	ctx context.Context, organizationID string,
) (*domain.ReadOnlySession, error) {
	args := m.Called(ctx, organizationID)

	var res *domain.ReadOnlySession
	if a := args.Get(0); a != nil {
		res = a.(*domain.ReadOnlySession)
	}
	return res, args.Error(1)
}

func (m *mockKeyService) ListWallets(
	ctx context.Context, session domain.ReadOnlySession,
) ([]ports.Wallet, error) {
	args := m.Called(ctx, session)

	var res []ports.Wallet
	if a := args.Get(0); a != nil {
		res = a.([]ports.Wallet)
	}
	return res, args.Error(1)
}

func (m *mockKeyService) ListWalletAccounts(
	ctx context.Context, session domain.ReadOnlySession, walletID string,
) ([]ports.WalletAccount, error) {
	args := m.Called(ctx, session, walletID)

	var res []ports.WalletAccount
	if a := args.Get(0); a != nil {
		res = a.([]ports.WalletAccount)
	}
	return res, args.Error(1)
}

func (m *mockKeyService) SignRawPayload(
	ctx context.Context, req ports.SignRawPayload,
) (*ports.RawSignature, error) {
	args := m.Called(ctx, req)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if m.signingKey == nil {
		return args.Get(0).(*ports.RawSignature), nil
	}

	sig, err := crypto.Sign(req.Payload, m.signingKey)
	if err != nil {
		return nil, err
	}
	return &ports.RawSignature{R: sig[:32], S: sig[32:64], V: sig[64]}, nil
}

// **** Chain ****

type mockChain struct {
	mock.Mock
}

func (m *mockChain) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockChain) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func (m *mockChain) GetNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	args := m.Called(ctx, account)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockChain) SuggestFees(ctx context.Context) (*ports.Fees, error) {
	args := m.Called(ctx)

	var res *ports.Fees
	if a := args.Get(0); a != nil {
		res = a.(*ports.Fees)
	}
	return res, args.Error(1)
}

func (m *mockChain) GetProxyCreationCode(
	ctx context.Context, factory common.Address,
) ([]byte, error) {
	args := m.Called(ctx, factory)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func (m *mockChain) Close() {}

// **** Bundler ****

type mockBundler struct {
	mock.Mock
}

func (m *mockBundler) EstimateUserOperationGas(
	ctx context.Context, op userop.UserOperation,
) (*ports.GasEstimate, error) {
	args := m.Called(ctx, op)

	var res *ports.GasEstimate
	if a := args.Get(0); a != nil {
		res = a.(*ports.GasEstimate)
	}
	return res, args.Error(1)
}

func (m *mockBundler) SendUserOperation(
	ctx context.Context, op userop.UserOperation,
) (common.Hash, error) {
	args := m.Called(ctx, op)

	var res common.Hash
	switch a := args.Get(0).(type) {
	case common.Hash:
		res = a
	case func(userop.UserOperation) common.Hash:
		res = a(op)
	}
	return res, args.Error(1)
}

func (m *mockBundler) GetUserOperationReceipt(
	ctx context.Context, hash common.Hash,
) (*ports.UserOperationReceipt, error) {
	args := m.Called(ctx, hash)

	var res *ports.UserOperationReceipt
	if a := args.Get(0); a != nil {
		res = a.(*ports.UserOperationReceipt)
	}
	return res, args.Error(1)
}

func (m *mockBundler) Close() {}

// **** Paymaster ****

type mockPaymaster struct {
	mock.Mock
}

func (m *mockPaymaster) SponsorUserOperation(
	ctx context.Context, op userop.UserOperation, policyID string,
) (*domain.Sponsorship, error) {
	args := m.Called(ctx, op, policyID)

	var res *domain.Sponsorship
	if a := args.Get(0); a != nil {
		res = a.(*domain.Sponsorship)
	}
	return res, args.Error(1)
}

func (m *mockPaymaster) Close() {}

// **** Deriver ****

// fakeDeriver derives addresses from the hash of the ordered owner set.
type fakeDeriver struct{}

func (fakeDeriver) Derive(owners []common.Address, threshold uint64) (domain.SmartAccount, error) {
	if len(owners) == 0 {
		return domain.SmartAccount{}, domain.ErrInvalidOwnerSet
	}
	buf := make([]byte, 0, 20*len(owners)+8)
	for _, o := range owners {
		buf = append(buf, o.Bytes()...)
	}
	buf = append(buf, new(big.Int).SetUint64(threshold).Bytes()...)
	return domain.SmartAccount{
		Address:   common.BytesToAddress(crypto.Keccak256(buf)[12:]),
		Owners:    append([]common.Address(nil), owners...),
		Threshold: threshold,
	}, nil
}

func (fakeDeriver) InitCode(account domain.SmartAccount) ([]byte, error) {
	return append([]byte{0xfa, 0xc7}, account.Address.Bytes()...), nil
}

// **** Repositories ****

type inMemorySessionRepository struct {
	lock            sync.Mutex
	record          *domain.SessionRecord
	readOnlySession *domain.ReadOnlySession
	saveErr         error
}

func (r *inMemorySessionRepository) GetSession(context.Context) (*domain.SessionRecord, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.record, nil
}

func (r *inMemorySessionRepository) SaveSession(_ context.Context, record domain.SessionRecord) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.record = &record
	return nil
}

func (r *inMemorySessionRepository) DeleteSession(context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.record = nil
	return nil
}

func (r *inMemorySessionRepository) GetReadOnlySession(context.Context) (*domain.ReadOnlySession, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.readOnlySession, nil
}

func (r *inMemorySessionRepository) SaveReadOnlySession(_ context.Context, s domain.ReadOnlySession) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.readOnlySession = &s
	return nil
}

func (r *inMemorySessionRepository) DeleteReadOnlySession(context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.readOnlySession = nil
	return nil
}

type inMemoryReceiptRepository struct {
	lock     sync.Mutex
	receipts map[common.Hash]domain.OperationReceipt
}

func newInMemoryReceiptRepository() *inMemoryReceiptRepository {
	return &inMemoryReceiptRepository{receipts: make(map[common.Hash]domain.OperationReceipt)}
}

func (r *inMemoryReceiptRepository) AddReceipt(_ context.Context, receipt domain.OperationReceipt) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.receipts[receipt.Handle]; ok {
		return domain.ErrDuplicateSubmission
	}
	r.receipts[receipt.Handle] = receipt
	return nil
}

func (r *inMemoryReceiptRepository) GetReceipt(_ context.Context, handle common.Hash) (*domain.OperationReceipt, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	receipt, ok := r.receipts[handle]
	if !ok {
		return nil, domain.ErrUnknownOperation
	}
	return &receipt, nil
}

func (r *inMemoryReceiptRepository) GetAllReceipts(context.Context) ([]domain.OperationReceipt, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	list := make([]domain.OperationReceipt, 0, len(r.receipts))
	for _, receipt := range r.receipts {
		list = append(list, receipt)
	}
	return list, nil
}

func (r *inMemoryReceiptRepository) UpdateReceipt(
	_ context.Context,
	handle common.Hash,
	updateFn func(r *domain.OperationReceipt) (*domain.OperationReceipt, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	receipt, ok := r.receipts[handle]
	if !ok {
		return domain.ErrUnknownOperation
	}
	updated, err := updateFn(&receipt)
	if err != nil {
		return err
	}
	r.receipts[handle] = *updated
	return nil
}
