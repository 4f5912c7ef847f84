package main

import (
	"github.com/tdex-network/passkey-wallet/internal/config"
	"github.com/urfave/cli/v2"
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "print the effective configuration",
	Action: configAction,
}

func configAction(_ *cli.Context) error {
	return printJSON(config.AllSettings())
}
