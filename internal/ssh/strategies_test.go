package ssh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type staticTokens struct {
	username string
	token    string
}

func (s *staticTokens) TokenFor(host string) (string, string, error) {
	return s.username, s.token, nil
}

type staticPrompt struct {
	username string
	password string
}

func (p *staticPrompt) ReadUsername(prompt string) (string, error) { return p.username, nil }
func (p *staticPrompt) ReadPassword(prompt string) (string, error) { return p.password, nil }

func TestTokenStrategyPrepare(t *testing.T) {
	strategy := &TokenStrategy{Source: &staticTokens{username: "dev", token: "t0k3n"}}

	creds, err := strategy.Prepare(Credentials{Host: "hub.example.com"})

	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}

	if creds.Username != "dev" || creds.Password != "t0k3n" {
		t.Errorf("unexpected credentials: %s / %s", creds.Username, creds.Password)
	}
}

func TestTokenStrategyShortCircuitsWithoutToken(t *testing.T) {
	strategy := &TokenStrategy{Source: &staticTokens{}}

	_, err := strategy.Prepare(Credentials{Host: "hub.example.com"})

	if !errors.Is(err, ErrStrategyNotApplicable) {
		t.Fatalf("expected ErrStrategyNotApplicable, got %v", err)
	}
}

func TestTokenStrategyKeepsExplicitUsername(t *testing.T) {
	strategy := &TokenStrategy{Source: &staticTokens{username: "stored", token: "t"}}

	creds, err := strategy.Prepare(Credentials{Host: "h", Username: "explicit"})

	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}

	if creds.Username != "explicit" {
		t.Errorf("expected explicit username to win, got %s", creds.Username)
	}
}

func TestAgentStrategyShortCircuitsWithoutSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	strategy := &AgentStrategy{}

	_, err := strategy.Prepare(Credentials{Host: "h"})

	if !errors.Is(err, ErrStrategyNotApplicable) {
		t.Fatalf("expected ErrStrategyNotApplicable, got %v", err)
	}
}

func TestKeyStrategyShortCircuitsOnMissingFile(t *testing.T) {
	strategy := &KeyStrategy{Path: filepath.Join(t.TempDir(), "absent")}

	_, err := strategy.Prepare(Credentials{Host: "h"})

	if !errors.Is(err, ErrStrategyNotApplicable) {
		t.Fatalf("expected ErrStrategyNotApplicable, got %v", err)
	}
}

func TestKeyStrategyReportsUnparsableKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id_rsa")

	if err := os.WriteFile(path, []byte("not a key"), 0600); err != nil {
		t.Fatal(err)
	}

	strategy := &KeyStrategy{Path: path}

	_, err := strategy.Prepare(Credentials{Host: "h"})

	var keyParse *KeyParseError

	if !errors.As(err, &keyParse) {
		t.Fatalf("expected KeyParseError, got %v", err)
	}

	if keyParse.Path != path {
		t.Errorf("expected key path in error, got %s", keyParse.Path)
	}
}

func TestAnonymousStrategyPrepare(t *testing.T) {
	creds, err := (&AnonymousStrategy{}).Prepare(Credentials{Host: "h", Username: "dev", Password: "x"})

	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}

	if creds.Username != "anonymous" || creds.Password != "" {
		t.Errorf("unexpected credentials: %s / %q", creds.Username, creds.Password)
	}
}

func TestPasswordStrategyPrompts(t *testing.T) {
	strategy := &PasswordStrategy{Prompt: &staticPrompt{username: "dev", password: "secret"}}

	creds, err := strategy.Prepare(Credentials{Host: "h"})

	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}

	if creds.Username != "dev" || creds.Password != "secret" {
		t.Errorf("unexpected credentials: %s / %s", creds.Username, creds.Password)
	}
}

func TestDefaultStrategiesOrder(t *testing.T) {
	names := func(strategies []Strategy) []string {
		out := make([]string, len(strategies))
		for i, s := range strategies {
			out[i] = s.Name()
		}
		return out
	}

	write := names(DefaultStrategies(false, nil, nil, "", ""))
	expectedWrite := []string{"token", "ssh-agent", "ssh-key", "user-password"}

	for i, name := range expectedWrite {
		if write[i] != name {
			t.Fatalf("write order mismatch: %v", write)
		}
	}

	read := names(DefaultStrategies(true, nil, nil, "", ""))
	expectedRead := []string{"token", "ssh-agent", "ssh-key", "anonymous", "user-password"}

	for i, name := range expectedRead {
		if read[i] != name {
			t.Fatalf("read order mismatch: %v", read)
		}
	}
}
