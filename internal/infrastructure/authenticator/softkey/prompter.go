package softkey

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Prompter asks the user to approve a ceremony by entering the passphrase
// protecting the passkeys.
type Prompter interface {
	Passphrase(ctx context.Context, reason string) (string, error)
}

type terminalPrompter struct {
	passphrase string
	in         *os.File
	out        io.Writer
}

// NewTerminalPrompter returns a Prompter reading the passphrase from the
// terminal without echo. A non empty passphrase is returned as is without
// prompting, useful for non interactive sessions.
func NewTerminalPrompter(passphrase string) Prompter {
	return &terminalPrompter{passphrase, os.Stdin, os.Stderr}
}

func (p *terminalPrompter) Passphrase(ctx context.Context, reason string) (string, error) {
	if p.passphrase != "" {
		return p.passphrase, nil
	}

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprintf(p.out, "%s\npasskey passphrase: ", reason)

	type result struct {
		buf []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		buf, err := term.ReadPassword(fd)
		ch <- result{buf, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		fmt.Fprintln(p.out)
		if res.err != nil {
			return "", res.err
		}
		if len(res.buf) == 0 {
			return "", ErrDeclined
		}
		return string(res.buf), nil
	}
}
