package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
)

// AuthorizationSigner obtains the owner signature of an operation from the
// key service and encodes it the way the smart account validates it.
type AuthorizationSigner interface {
	Sign(
		ctx context.Context, op *domain.UserOperation, session domain.Session,
	) (*domain.UserOperation, *domain.SignedMessage, error)
}

type authorizationSigner struct {
	keyService ports.KeyService
	deriver    ports.AccountDeriver
	contracts  Contracts
	network    Network
}

func NewAuthorizationSigner(
	keyService ports.KeyService,
	deriver ports.AccountDeriver,
	contracts Contracts,
	network Network,
) AuthorizationSigner {
	return &authorizationSigner{keyService, deriver, contracts, network}
}

// Sign returns a copy of the operation in Signed stage together with the
// signed message. The session owner set must derive the operation sender,
// and the key service signature must recover to the session wallet.
func (s *authorizationSigner) Sign(
	ctx context.Context, op *domain.UserOperation, session domain.Session,
) (*domain.UserOperation, *domain.SignedMessage, error) {
	if !session.IsActive() {
		return nil, nil, domain.ErrNoActiveSession
	}
	if op.Stage == domain.OperationStageSubmitted {
		return nil, nil, domain.ErrOperationSubmitted
	}

	wallet, account := session.Wallet, session.Account
	if err := s.checkOwnerSet(op, account, wallet.Address); err != nil {
		return nil, nil, err
	}

	safeOp := safe.SafeOperation{
		Operation:  op.UserOperation,
		ChainID:    s.network.ChainID,
		Module:     s.contracts.Module,
		EntryPoint: s.contracts.EntryPoint,
	}
	digest, err := safeOp.Hash()
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.keyService.SignRawPayload(ctx, ports.SignRawPayload{
		OrganizationID: wallet.SubAccountID,
		SignWith:       wallet.Address.Hex(),
		Payload:        digest.Bytes(),
	})
	if err != nil {
		return nil, nil, signingError(err)
	}

	sig := raw.Bytes()
	if err := verifySigner(digest, sig, wallet.Address); err != nil {
		return nil, nil, err
	}

	encoded, err := safe.EncodeSignature(
		toSafeAccount(account),
		safeOp.Validity,
		[]safe.OwnerSignature{{Owner: wallet.Address, Signature: sig}},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrOwnerSetMismatch, err)
	}

	signed, err := op.Sign(encoded)
	if err != nil {
		return nil, nil, err
	}

	log.Debugf("user operation of %s signed by %s", op.Sender.Hex(), wallet.Address.Hex())

	return signed, &domain.SignedMessage{
		Description: fmt.Sprintf(
			"SafeOp nonce %s of %s on chain %s", op.Nonce, op.Sender.Hex(), s.network.ChainID,
		),
		Digest:    digest,
		Signature: encoded,
	}, nil
}

// checkOwnerSet makes sure the signer is an owner of the account and that
// the owner set controls the sender of the operation.
func (s *authorizationSigner) checkOwnerSet(
	op *domain.UserOperation, account domain.SmartAccount, signer common.Address,
) error {
	if !account.HasOwner(signer) {
		return domain.ErrOwnerSetMismatch
	}
	derived, err := s.deriver.Derive(account.Owners, account.Threshold)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOwnerSetMismatch, err)
	}
	if derived.Address != op.Sender || account.Address != op.Sender {
		return domain.ErrOwnerSetMismatch
	}
	return nil
}

func verifySigner(digest common.Hash, sig []byte, expected common.Address) error {
	recoverable := common.CopyBytes(sig)
	if recoverable[64] >= 27 {
		recoverable[64] -= 27
	}
	pubkey, err := crypto.SigToPub(digest.Bytes(), recoverable)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrSignerMismatch, err)
	}
	if crypto.PubkeyToAddress(*pubkey) != expected {
		return domain.ErrSignerMismatch
	}
	return nil
}

func signingError(err error) error {
	if errors.Is(err, ports.ErrRejected) || errors.Is(err, ports.ErrCeremonyAborted) ||
		errors.Is(err, ports.ErrNoCredential) {
		return fmt.Errorf("%w: %w", domain.ErrSigningRejected, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrSigningServiceUnavailable, err)
}

func toSafeAccount(a domain.SmartAccount) safe.Account {
	return safe.Account{Address: a.Address, Owners: a.Owners, Threshold: a.Threshold}
}
