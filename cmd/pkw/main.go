package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/config"
	"github.com/urfave/cli/v2"
)

// nolint
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cli.NewApp()

	app.Version = formatVersion()
	app.Name = "pkw"
	app.Usage = "Passkey secured smart account wallet"
	app.Before = func(*cli.Context) error {
		log.SetOutput(os.Stderr)
		return config.InitConfig()
	}
	app.Commands = append(
		app.Commands,
		&account,
		&login,
		&whoami,
		&authorize,
		&track,
		&logout,
		&configCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		fatal(err)
	}
}

func formatVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func printJSON(resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Println(string(buf))
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[pkw] %v\n", err)
	}
	os.Exit(1)
}
