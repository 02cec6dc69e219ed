package ssh

import (
	"fmt"
	"net"

	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// Connection is one live SSH session to a remote scope host. At most one
// exists per client instance; it is created only by a successful handshake
// and closed explicitly by the caller. It is never closed automatically
// between commands: tearing it down while other calls may be in flight has
// broken concurrently open connections before, so teardown stays with the
// owner.
type Connection struct {
	client   *goph.Client
	username string
}

// Username reports the identity the winning strategy authenticated as.
func (c *Connection) Username() string {
	return c.username
}

func (c *Connection) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *Connection) newSession() (execSession, error) {
	sess, err := c.client.NewSession()

	if err != nil {
		return nil, err
	}

	return sess, nil
}

// DialFunc attempts one transport handshake with the given credentials.
type DialFunc func(creds *Credentials) (*Connection, error)

// Dial performs a timed TCP dial plus SSH handshake using whichever
// credential fields are populated: agent socket, parsed private key, or
// password (which also carries tokens and the empty anonymous password).
func Dial(creds *Credentials) (*Connection, error) {
	authMethods, err := authMethodsFor(creds)

	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         creds.timeout(),
	}

	hostPort := creds.addr()

	conn, err := net.DialTimeout("tcp", hostPort, sshConfig.Timeout)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateSSHClient, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, hostPort, sshConfig)

	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateSSHClient, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	return &Connection{
		client:   &goph.Client{Client: client},
		username: creds.Username,
	}, nil
}

func authMethodsFor(creds *Credentials) ([]ssh.AuthMethod, error) {
	switch {
	case creds.AgentSocket != "":
		conn, err := net.Dial("unix", creds.AgentSocket)

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateAuth, err)
		}

		return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, nil
	case creds.signer != nil:
		return []ssh.AuthMethod{ssh.PublicKeys(creds.signer)}, nil
	default:
		return []ssh.AuthMethod{ssh.Password(creds.Password)}, nil
	}
}
