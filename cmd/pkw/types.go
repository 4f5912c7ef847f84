package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
)

type walletInfo struct {
	WalletID string         `json:"walletId"`
	SubOrgID string         `json:"subOrgId"`
	Address  common.Address `json:"address"`
}

type sessionInfo struct {
	State     string           `json:"state"`
	Account   *common.Address  `json:"account,omitempty"`
	Owners    []common.Address `json:"owners,omitempty"`
	Threshold uint64           `json:"threshold,omitempty"`
	Wallet    *walletInfo      `json:"wallet,omitempty"`
}

func newSessionInfo(s domain.Session) sessionInfo {
	info := sessionInfo{State: s.State.String()}
	if !s.IsActive() {
		return info
	}
	account := s.Account.Address
	info.Account = &account
	info.Owners = s.Account.Owners
	info.Threshold = s.Account.Threshold
	info.Wallet = &walletInfo{
		WalletID: s.Wallet.AccountID,
		SubOrgID: s.Wallet.SubAccountID,
		Address:  s.Wallet.Address,
	}
	return info
}

type receiptInfo struct {
	Handle      common.Hash    `json:"handle"`
	Sender      common.Address `json:"sender"`
	Status      string         `json:"status"`
	TxHash      *common.Hash   `json:"txHash,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	SubmittedAt int64          `json:"submittedAt"`
	SettledAt   int64          `json:"settledAt,omitempty"`
}

func newReceiptInfo(r domain.OperationReceipt) receiptInfo {
	info := receiptInfo{
		Handle:      r.Handle,
		Sender:      r.Sender,
		Status:      r.Status.String(),
		Reason:      r.Reason,
		SubmittedAt: r.SubmittedAt,
		SettledAt:   r.SettledAt,
	}
	if r.TxHash != (common.Hash{}) {
		txHash := r.TxHash
		info.TxHash = &txHash
	}
	return info
}

type authorizationInfo struct {
	Sender    common.Address `json:"sender"`
	Nonce     *hexutil.Big   `json:"nonce"`
	Sponsored bool           `json:"sponsored"`
	Digest    common.Hash    `json:"digest"`
	Receipt   receiptInfo    `json:"receipt"`
}

func newAuthorizationInfo(res application.AuthorizationResult) authorizationInfo {
	return authorizationInfo{
		Sender:    res.Operation.Sender,
		Nonce:     (*hexutil.Big)(res.Operation.Nonce),
		Sponsored: res.Operation.IsSponsored(),
		Digest:    res.Message.Digest,
		Receipt:   newReceiptInfo(*res.Receipt),
	}
}
