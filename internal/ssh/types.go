package ssh

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// Credentials describe one connection attempt against a remote scope host.
// A fresh value is built per strategy attempt by merging the base address
// fields with strategy-specific credential fields; it is never persisted.
type Credentials struct {
	Host     string
	Port     uint
	Username string
	// Password authentication; also carries the registry token, which the
	// remote scope daemon accepts on the password channel
	Password string
	// Key-based authentication
	PrivateKeyPath string
	Passphrase     string
	// Agent-based authentication
	AgentSocket string

	HandshakeTimeout time.Duration

	// signer is set by the key strategy once the key file parses
	signer ssh.Signer
}

func (c *Credentials) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", port))
}

func (c *Credentials) timeout() time.Duration {
	if c.HandshakeTimeout == 0 {
		return 10 * time.Second
	}
	return c.HandshakeTimeout
}
