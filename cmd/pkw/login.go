package main

import (
	"github.com/urfave/cli/v2"
)

var login = cli.Command{
	Name:   "login",
	Usage:  "restore the account of an existing passkey",
	Action: loginAction,
}

// loginAction prints the anonymous session if no account could be found
// for the passkey.
func loginAction(ctx *cli.Context) error {
	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	resolver, err := svc.SessionResolver()
	if err != nil {
		return err
	}
	session, err := resolver.Resolve(ctx.Context)
	if err != nil {
		return err
	}
	return printJSON(newSessionInfo(session))
}
