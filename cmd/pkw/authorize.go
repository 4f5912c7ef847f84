package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var authorize = cli.Command{
	Name:  "authorize",
	Usage: "authorize and submit one or more calls from the smart account",
	Description: "Repeat --to, --value and --data to batch calls, values and " +
		"data are matched to targets by position.",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "to",
			Usage:    "the target address of the call",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "value",
			Usage: "the amount of wei sent with the call, use the eth suffix for ether amounts (0.1eth)",
		},
		&cli.StringSliceFlag{
			Name:  "data",
			Usage: "the hex encoded call data",
		},
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "wait for the operation to be included",
		},
	},
	Action: authorizeAction,
}

func authorizeAction(ctx *cli.Context) error {
	intents, err := parseIntents(
		ctx.StringSlice("to"), ctx.StringSlice("value"), ctx.StringSlice("data"),
	)
	if err != nil {
		return err
	}

	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	authorizationSvc, err := svc.AuthorizationService()
	if err != nil {
		return err
	}
	result, err := authorizationSvc.Authorize(ctx.Context, intents)
	if err != nil {
		return err
	}

	info := newAuthorizationInfo(*result)
	if ctx.Bool("wait") {
		submitter, err := svc.Submitter()
		if err != nil {
			return err
		}
		receipt, err := submitter.Wait(ctx.Context, result.Receipt.Handle)
		if err != nil {
			// The operation is already at the bundler, show what can be
			// tracked later.
			if printErr := printJSON(info); printErr != nil {
				log.WithError(printErr).Warn("failed to print submission")
			}
			return trackingError(result.Receipt.Handle, err)
		}
		info.Receipt = newReceiptInfo(*receipt)
	}
	return printJSON(info)
}

// trackingError keeps the handle of a submitted operation in the error so it
// can be resumed with the track command.
func trackingError(handle common.Hash, err error) error {
	return fmt.Errorf("%w: resume with 'pkw track %s'", err, handle.Hex())
}

func parseIntents(targets, values, data []string) ([]domain.TransactionIntent, error) {
	if len(values) > len(targets) || len(data) > len(targets) {
		return nil, fmt.Errorf("got more values or data than targets")
	}

	intents := make([]domain.TransactionIntent, 0, len(targets))
	for i, target := range targets {
		if !common.IsHexAddress(target) {
			return nil, fmt.Errorf("invalid target address %s", target)
		}
		intent := domain.TransactionIntent{
			Target: common.HexToAddress(target),
			Value:  new(big.Int),
		}
		if i < len(values) && values[i] != "" {
			value, err := parseValue(values[i])
			if err != nil {
				return nil, err
			}
			intent.Value = value
		}
		if i < len(data) && data[i] != "" {
			buf, err := hexutil.Decode(data[i])
			if err != nil {
				return nil, fmt.Errorf("invalid data %s: %w", data[i], err)
			}
			intent.Data = buf
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

const etherSuffix = "eth"

var weiPerEther = decimal.New(1, 18)

// parseValue accepts an integer amount of wei, or a decimal amount of ether
// when suffixed with eth.
func parseValue(str string) (*big.Int, error) {
	if amount, ok := strings.CutSuffix(strings.ToLower(str), etherSuffix); ok {
		ether, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("invalid value %s", str)
		}
		wei := ether.Mul(weiPerEther)
		if ether.IsNegative() || !wei.Equal(wei.Truncate(0)) {
			return nil, fmt.Errorf("invalid value %s", str)
		}
		return wei.BigInt(), nil
	}

	value, ok := new(big.Int).SetString(str, 0)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %s", str)
	}
	return value, nil
}
