package application_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

var (
	ctx     = context.Background()
	chainID = big.NewInt(11155111)
	target  = common.HexToAddress("0x2222222222222222222222222222222222222222")

	contracts = application.Contracts{
		EntryPoint: userop.EntryPointV06,
		Module:     safe.Module4337Address,
		MultiSend:  safe.MultiSendAddress,
	}
	sponsoredNetwork = application.Network{
		ChainID:             chainID,
		SponsorshipPolicyID: "sp_test",
		ReceiptPollInterval: time.Millisecond,
	}
	unsponsoredNetwork = application.Network{
		ChainID:             chainID,
		ReceiptPollInterval: time.Millisecond,
	}

	fees = struct{ maxFee, tip *big.Int }{big.NewInt(3000000000), big.NewInt(1000000000)}
)

func newOwnerKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func newTestSession(t *testing.T, owner common.Address) domain.Session {
	account, err := fakeDeriver{}.Derive([]common.Address{owner}, domain.DefaultThreshold)
	require.NoError(t, err)
	session, err := domain.NewActiveSession(domain.WalletDetails{
		AccountID:    "wallet-id",
		Address:      owner,
		SubAccountID: "sub-org-id",
	}, account)
	require.NoError(t, err)
	return session
}

func newIntents() []domain.TransactionIntent {
	return []domain.TransactionIntent{
		{Target: target, Value: big.NewInt(1000), Data: []byte{0xca, 0xfe}},
	}
}

func newBuiltOperation(account domain.SmartAccount) *domain.UserOperation {
	return domain.NewUserOperation(userop.UserOperation{
		Sender:               account.Address,
		Nonce:                big.NewInt(0),
		InitCode:             []byte{0x01},
		CallData:             []byte{0x02},
		CallGasLimit:         big.NewInt(domain.DefaultCallGasLimit),
		VerificationGasLimit: big.NewInt(domain.DefaultVerificationGasLimit),
		PreVerificationGas:   big.NewInt(domain.DefaultPreVerificationGas),
		MaxFeePerGas:         fees.maxFee,
		MaxPriorityFeePerGas: fees.tip,
		PaymasterAndData:     []byte{},
	}, newIntents())
}
