package application

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// RelyingParty identifies the passkey relying party of the wallet.
type RelyingParty struct {
	ID          string
	Origin      string
	DisplayName string
}

// Contracts are the on-chain contracts the pipeline interacts with.
type Contracts struct {
	EntryPoint common.Address
	Module     common.Address
	MultiSend  common.Address
}

// Network holds the chain parameters of the pipeline.
type Network struct {
	ChainID             *big.Int
	SponsorshipPolicyID string
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
}

// IsSponsored returns whether operations are meant to be sponsored by a
// paymaster.
func (n Network) IsSponsored() bool {
	return n.SponsorshipPolicyID != ""
}

// CredentialBinding is the passkey registration forwarded to the
// provisioning backend.
type CredentialBinding struct {
	Challenge   string
	Attestation ports.Attestation
}

// AuthorizationResult is the outcome of a successful authorization.
type AuthorizationResult struct {
	Operation *domain.UserOperation
	Message   *domain.SignedMessage
	Receipt   *domain.OperationReceipt
}
