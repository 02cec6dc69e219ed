package ssh

import (
	"errors"
	"fmt"
	"strings"
)

// Connection and negotiation errors
var (
	ErrSSHConnectionNotEstablished = errors.New("SSH connection not established")
	ErrFailedToCreateAuth          = errors.New("failed to create auth")
	ErrFailedToCreateSSHClient     = errors.New("failed to create SSH client")
	ErrNoStrategies                = errors.New("no authentication strategies provided")
	ErrStrategyNotApplicable       = errors.New("authentication strategy not applicable")
)

// Command execution errors
var (
	ErrFailedToBuildCommand = errors.New("failed to build remote command")
	ErrFailedToOpenStream   = errors.New("failed to open execution stream")
)

const authFailedHeader = "authentication failed with every configured method:"

// AuthenticationError aggregates the recoverable failure text of every
// attempted strategy, in attempt order.
type AuthenticationError struct {
	Attempts []string
}

func (e *AuthenticationError) Error() string {
	return authFailedHeader + "\n- " + strings.Join(e.Attempts, "\n- ")
}

// KeyParseError marks a private key file that could not be parsed. The
// negotiator rewrites it into an actionable hint instead of surfacing the
// raw parser message.
type KeyParseError struct {
	Path string
	Err  error
}

func (e *KeyParseError) Error() string {
	return fmt.Sprintf("cannot parse private key %s: %v", e.Path, e.Err)
}

func (e *KeyParseError) Unwrap() error {
	return e.Err
}
