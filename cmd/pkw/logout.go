package main

import (
	"github.com/urfave/cli/v2"
)

var logout = cli.Command{
	Name:   "logout",
	Usage:  "forget the current session, passkeys are kept",
	Action: logoutAction,
}

func logoutAction(ctx *cli.Context) error {
	svc, err := newServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	if err := svc.SessionManager().Clear(ctx.Context); err != nil {
		return err
	}
	return printJSON(newSessionInfo(svc.SessionManager().Current()))
}
