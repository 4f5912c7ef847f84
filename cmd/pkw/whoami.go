package main

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var whoami = cli.Command{
	Name:   "whoami",
	Usage:  "show the current session, the account status and its operations",
	Action: whoamiAction,
}

type whoamiInfo struct {
	sessionInfo
	Deployed   *bool         `json:"deployed,omitempty"`
	Nonce      *hexutil.Big  `json:"nonce,omitempty"`
	Operations []receiptInfo `json:"operations"`
}

func whoamiAction(ctx *cli.Context) error {
	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	session := svc.SessionManager().Current()
	info := whoamiInfo{sessionInfo: newSessionInfo(session), Operations: []receiptInfo{}}

	g, gctx := errgroup.WithContext(ctx.Context)
	if session.IsActive() && svc.Chain != nil {
		g.Go(func() error {
			deployed, err := svc.Chain.IsDeployed(gctx, session.Account.Address)
			if err != nil {
				return err
			}
			info.Deployed = &deployed
			return nil
		})
		g.Go(func() error {
			nonce, err := svc.Chain.GetNonce(gctx, session.Account.Address)
			if err != nil {
				return err
			}
			info.Nonce = (*hexutil.Big)(nonce)
			return nil
		})
	}
	g.Go(func() error {
		receipts, err := svc.RepoManager.ReceiptRepository().GetAllReceipts(gctx)
		if err != nil {
			return err
		}
		for _, r := range receipts {
			if session.IsActive() && r.Sender != session.Account.Address {
				continue
			}
			info.Operations = append(info.Operations, newReceiptInfo(r))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(info)
}

