package softkey

import "errors"

var (
	// ErrNullStore ...
	ErrNullStore = errors.New("credential store must not be null")
	// ErrNullPrompter ...
	ErrNullPrompter = errors.New("prompter must not be null")
	// ErrMissingRPID ...
	ErrMissingRPID = errors.New("missing relying party id")
	// ErrMissingOrigin ...
	ErrMissingOrigin = errors.New("missing relying party origin")
	// ErrMissingChallenge ...
	ErrMissingChallenge = errors.New("missing challenge")
	// ErrNoTerminal is returned by the terminal prompter if no passphrase is
	// configured and stdin is not a terminal.
	ErrNoTerminal = errors.New("stdin is not a terminal")
	// ErrDeclined is returned by prompters when the user refuses the
	// ceremony.
	ErrDeclined = errors.New("declined by user")
)
