package ssh

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

// Strategy is one credential-acquisition method tried during negotiation.
// Prepare builds the attempt's credentials from the base; it may fail
// before any network attempt (wrapping ErrStrategyNotApplicable) when its
// preconditions are missing.
type Strategy interface {
	Name() string

	// Hint is the failure text used when the handshake fails for a reason
	// the negotiator does not specially recognize.
	Hint() string

	Prepare(base Credentials) (*Credentials, error)
}

// TokenSource resolves a persisted registry token for a host.
type TokenSource interface {
	TokenFor(host string) (username, token string, err error)
}

// CredentialPrompter asks the user for interactive credentials. Reads block
// on external input indefinitely.
type CredentialPrompter interface {
	ReadUsername(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

// TokenStrategy authenticates with a persisted registry token sent over the
// password channel.
type TokenStrategy struct {
	Source TokenSource
}

func (s *TokenStrategy) Name() string { return "token" }

func (s *TokenStrategy) Hint() string {
	return "token authentication rejected by the remote scope (run 'scopeport login' to refresh it)"
}

func (s *TokenStrategy) Prepare(base Credentials) (*Credentials, error) {
	if s.Source == nil {
		return nil, fmt.Errorf("%w: no token store configured", ErrStrategyNotApplicable)
	}

	username, token, err := s.Source.TokenFor(base.Host)

	if err != nil || token == "" {
		return nil, fmt.Errorf("%w: no token configured for %s", ErrStrategyNotApplicable, base.Host)
	}

	creds := base
	creds.Password = token

	if creds.Username == "" {
		creds.Username = username
	}

	return &creds, nil
}

// AgentStrategy authenticates with keys held by a running SSH agent.
type AgentStrategy struct {
	// Socket overrides the SSH_AUTH_SOCK environment reference.
	Socket string
}

func (s *AgentStrategy) Name() string { return "ssh-agent" }

func (s *AgentStrategy) Hint() string {
	return "ssh-agent authentication failed (no agent key accepted by the remote scope)"
}

func (s *AgentStrategy) Prepare(base Credentials) (*Credentials, error) {
	socket := s.Socket

	if socket == "" {
		socket = os.Getenv("SSH_AUTH_SOCK")
	}

	if socket == "" {
		return nil, fmt.Errorf("%w: no SSH agent socket present", ErrStrategyNotApplicable)
	}

	if _, err := os.Stat(socket); err != nil {
		return nil, fmt.Errorf("%w: SSH agent socket %s is not accessible", ErrStrategyNotApplicable, socket)
	}

	creds := base
	creds.AgentSocket = socket

	return &creds, nil
}

// KeyStrategy authenticates with a private key file, parsed locally before
// any network attempt so parse failures surface as KeyParseError.
type KeyStrategy struct {
	Path       string
	Passphrase string
}

func (s *KeyStrategy) Name() string { return "ssh-key" }

func (s *KeyStrategy) Hint() string {
	return "private key authentication rejected by the remote scope"
}

func (s *KeyStrategy) Prepare(base Credentials) (*Credentials, error) {
	path, err := s.keyPath()

	if err != nil {
		return nil, err
	}

	keyBytes, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("%w: cannot read private key %s", ErrStrategyNotApplicable, path)
	}

	var signer ssh.Signer

	if s.Passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(s.Passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(keyBytes)
	}

	if err != nil {
		return nil, &KeyParseError{Path: path, Err: err}
	}

	creds := base
	creds.PrivateKeyPath = path
	creds.signer = signer

	return &creds, nil
}

func (s *KeyStrategy) keyPath() (string, error) {
	if s.Path != "" {
		if _, err := os.Stat(s.Path); err != nil {
			return "", fmt.Errorf("%w: private key file %s not found", ErrStrategyNotApplicable, s.Path)
		}
		return s.Path, nil
	}

	homeDir, err := os.UserHomeDir()

	if err != nil {
		return "", fmt.Errorf("%w: cannot determine home directory", ErrStrategyNotApplicable)
	}

	for _, name := range []string{"id_ed25519", "id_rsa"} {
		candidate := filepath.Join(homeDir, ".ssh", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: no private key file found in %s", ErrStrategyNotApplicable, filepath.Join(homeDir, ".ssh"))
}

// AnonymousStrategy attempts unauthenticated access; remote scopes accept
// it for read operations on public scopes.
type AnonymousStrategy struct{}

func (s *AnonymousStrategy) Name() string { return "anonymous" }

func (s *AnonymousStrategy) Hint() string {
	return "anonymous access rejected by the remote scope"
}

func (s *AnonymousStrategy) Prepare(base Credentials) (*Credentials, error) {
	creds := base
	creds.Username = "anonymous"
	creds.Password = ""

	return &creds, nil
}

// PasswordStrategy asks the user for credentials interactively.
type PasswordStrategy struct {
	Prompt CredentialPrompter
}

func (s *PasswordStrategy) Name() string { return "user-password" }

func (s *PasswordStrategy) Hint() string {
	return "username/password authentication rejected by the remote scope"
}

func (s *PasswordStrategy) Prepare(base Credentials) (*Credentials, error) {
	if s.Prompt == nil {
		return nil, fmt.Errorf("%w: no interactive prompt available", ErrStrategyNotApplicable)
	}

	creds := base

	if creds.Username == "" {
		username, err := s.Prompt.ReadUsername(fmt.Sprintf("username for %s: ", base.Host))

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStrategyNotApplicable, err)
		}

		creds.Username = username
	}

	password, err := s.Prompt.ReadPassword(fmt.Sprintf("password for %s@%s: ", creds.Username, base.Host))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStrategyNotApplicable, err)
	}

	creds.Password = password

	return &creds, nil
}

// DefaultStrategies returns the fixed priority order: token, ssh-agent,
// ssh-key, user-password. Read operations additionally allow anonymous
// access before falling back to the interactive prompt.
func DefaultStrategies(readOnly bool, tokens TokenSource, prompt CredentialPrompter, keyPath, passphrase string) []Strategy {
	strategies := []Strategy{
		&TokenStrategy{Source: tokens},
		&AgentStrategy{},
		&KeyStrategy{Path: keyPath, Passphrase: passphrase},
	}

	if readOnly {
		strategies = append(strategies, &AnonymousStrategy{})
	}

	return append(strategies, &PasswordStrategy{Prompt: prompt})
}
