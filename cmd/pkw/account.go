package main

import (
	"github.com/urfave/cli/v2"
)

var account = cli.Command{
	Name:  "account",
	Usage: "manage the passkey secured account",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a passkey and a new smart account controlled by it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Usage:    "the name of the account, used as passkey label",
					Required: true,
				},
			},
			Action: createAccountAction,
		},
	},
}

func createAccountAction(ctx *cli.Context) error {
	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	accountSvc, err := svc.AccountService()
	if err != nil {
		return err
	}
	session, err := accountSvc.CreateAccount(ctx.Context, ctx.String("name"))
	if err != nil {
		return err
	}
	return printJSON(newSessionInfo(session))
}
