package ssh

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"strings"

	"scopeport/internal/logger"
)

// Negotiator tries an ordered list of credential strategies until one
// yields a live connection. Strategies run strictly sequentially; a
// recoverable failure moves on to the next entry, an unexpected transport
// failure aborts negotiation entirely.
type Negotiator struct {
	Base Credentials

	// Dial overrides the transport handshake; nil means Dial.
	Dial DialFunc

	conn     *Connection
	identity string
}

// Connect attempts every strategy in order and returns the first live
// connection. If all strategies fail recoverably, the returned error
// aggregates each failure text in attempt order.
func (n *Negotiator) Connect(strategies []Strategy) (*Connection, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}

	dial := n.Dial

	if dial == nil {
		dial = Dial
	}

	var attempts []string

	for _, strategy := range strategies {
		creds, err := strategy.Prepare(n.Base)

		if err != nil {
			attempts = append(attempts, n.classifyPrepareFailure(strategy, err))
			continue
		}

		conn, err := dial(creds)

		if err == nil {
			logger.Debug("authenticated to %s as %s via %s", creds.Host, creds.Username, strategy.Name())
			n.conn = conn
			n.identity = creds.Username
			return conn, nil
		}

		if isHostResolutionFailure(err) {
			// An unreachable host makes the remaining strategies
			// pointless; surface the error unchanged.
			return nil, err
		}

		logger.Debug("strategy %s failed: %v", strategy.Name(), err)
		attempts = append(attempts, fmt.Sprintf("%s: %v", strategy.Hint(), err))
	}

	return nil, &AuthenticationError{Attempts: attempts}
}

// Identity reports the username the winning strategy authenticated as;
// empty until a Connect succeeds.
func (n *Negotiator) Identity() string {
	return n.identity
}

// Connection returns the live connection from the last successful Connect.
func (n *Negotiator) Connection() *Connection {
	return n.conn
}

func (n *Negotiator) classifyPrepareFailure(strategy Strategy, err error) string {
	var keyParse *KeyParseError

	if errors.As(err, &keyParse) {
		return keyParseHint(keyParse)
	}

	if errors.Is(err, ErrStrategyNotApplicable) {
		return fmt.Sprintf("%s: %v", strategy.Name(), err)
	}

	return fmt.Sprintf("%s: %v", strategy.Hint(), err)
}

// keyParseHint rewrites an unparsable-key failure into an actionable hint
// suggesting the agent-based strategy instead of the raw parser message.
func keyParseHint(e *KeyParseError) string {
	hint := fmt.Sprintf(
		"cannot parse the private key at %s; add it to your SSH agent (ssh-add %s) and retry",
		e.Path, e.Path,
	)

	if runtime.GOOS == "darwin" {
		hint += "; on macOS, keys in the newer OpenSSH format need re-exporting in PEM format: ssh-keygen -p -m PEM -f " + e.Path
	}

	return hint
}

func isHostResolutionFailure(err error) bool {
	var dnsErr *net.DNSError

	if errors.As(err, &dnsErr) {
		return true
	}

	return strings.Contains(err.Error(), "no such host")
}
