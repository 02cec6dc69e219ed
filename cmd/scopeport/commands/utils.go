package commands

import (
	"fmt"
	"strconv"
	"strings"

	"scopeport/cmd/scopeport/config"
	"scopeport/internal/envelope"
	"scopeport/internal/scope"
	"scopeport/internal/ssh"
	"scopeport/internal/terminal"
)

// ScopeAddress is one parsed remote scope location.
type ScopeAddress struct {
	Username string
	Host     string
	Port     uint
	Path     string
}

// parseScopeAddress parses [ssh://][username@]hostname[:port]/path.
func parseScopeAddress(raw string) (*ScopeAddress, error) {
	addr := &ScopeAddress{Port: 22}

	rest := strings.TrimPrefix(raw, "ssh://")

	slash := strings.Index(rest, "/")

	if slash < 0 {
		return nil, fmt.Errorf("invalid scope address %q: missing remote path (expected [ssh://][username@]hostname[:port]/path)", raw)
	}

	authority := rest[:slash]
	addr.Path = rest[slash:]

	if strings.Contains(authority, "@") {
		parts := strings.Split(authority, "@")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid scope address %q", raw)
		}
		addr.Username = parts[0]
		authority = parts[1]
	}

	if strings.Contains(authority, ":") {
		parts := strings.Split(authority, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid scope address %q", raw)
		}

		parsedPort, err := strconv.ParseUint(parts[1], 10, 32)

		if err != nil || parsedPort > 65535 {
			return nil, fmt.Errorf("invalid port number in scope address %q", raw)
		}

		addr.Port = uint(parsedPort)
		authority = parts[0]
	}

	addr.Host = authority

	if addr.Host == "" {
		return nil, fmt.Errorf("invalid scope address %q: hostname cannot be empty", raw)
	}

	return addr, nil
}

// remoteSession bundles one negotiated connection with the operations
// bound to it.
type remoteSession struct {
	session *scope.Session
	conn    *ssh.Connection
}

func (r *remoteSession) Close() {
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// openSession negotiates authentication against the scope address and
// returns a live operations session. readOnly additionally allows the
// anonymous strategy before the interactive password prompt.
func openSession(address string, readOnly bool) (*remoteSession, error) {
	addr, err := parseScopeAddress(address)

	if err != nil {
		return nil, err
	}

	negotiator := &ssh.Negotiator{
		Base: ssh.Credentials{
			Host:             addr.Host,
			Port:             addr.Port,
			Username:         addr.Username,
			HandshakeTimeout: config.Config.HandshakeTimeout,
		},
	}

	strategies := ssh.DefaultStrategies(
		readOnly,
		tokensRepository,
		terminal.NewPrompt(),
		sshKeyPath,
		"",
	)

	conn, err := negotiator.Connect(strategies)

	if err != nil {
		return nil, err
	}

	compress := !config.Config.DisableCompression
	translator := scope.NewTranslator(envelope.NewCodec(compress), addr.Host, addr.Path)

	client := ssh.NewClient(conn, ssh.Options{
		RemoteProgram:   config.Config.RemoteProgram,
		RemotePath:      addr.Path,
		ProtocolVersion: scope.ProtocolVersion,
		Compress:        compress,
		ExitGraceDelay:  config.Config.ExitGraceDelay,
		TranslateExit:   translator.Translate,
	})

	return &remoteSession{
		session: scope.NewSession(client, envelope.NewCodec(compress), addr.Path),
		conn:    conn,
	}, nil
}

func splitIDs(raw string) []string {
	var ids []string

	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}
