package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var track = cli.Command{
	Name:      "track",
	Usage:     "wait for a submitted operation to be included, or list them all",
	ArgsUsage: "[handle]",
	Action:    trackAction,
}

func trackAction(ctx *cli.Context) error {
	if ctx.NArg() > 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	submitter, err := svc.Submitter()
	if err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		receipts, err := submitter.Receipts(ctx.Context)
		if err != nil {
			return err
		}
		infos := make([]receiptInfo, 0, len(receipts))
		for _, r := range receipts {
			infos = append(infos, newReceiptInfo(r))
		}
		return printJSON(infos)
	}

	handle := ctx.Args().First()
	if len(common.FromHex(handle)) != common.HashLength {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	receipt, err := submitter.Wait(ctx.Context, common.HexToHash(handle))
	if err != nil {
		return err
	}
	return printJSON(newReceiptInfo(*receipt))
}
