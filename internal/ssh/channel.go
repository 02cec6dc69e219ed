package ssh

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"scopeport/internal/envelope"
	"scopeport/internal/logger"
)

// DefaultExitGraceDelay is how long a process-exit signal waits for the
// stream-close signal before settling with whatever output has accumulated.
// The value is inherited protocol behavior with no tighter derivation, so
// it stays configurable.
const DefaultExitGraceDelay = 2 * time.Second

// Options configure the command channel layered on one connection.
type Options struct {
	// RemoteProgram is the fixed program token of the scope-side binary.
	RemoteProgram string

	// RemotePath addresses the scope on the remote host.
	RemotePath string

	// ProtocolVersion is stamped into every outgoing envelope header.
	ProtocolVersion string

	// Compress toggles zlib compression of packed envelopes.
	Compress bool

	ExitGraceDelay time.Duration

	// Clock drives the exit-grace timer; tests substitute a mock.
	Clock clock.Clock

	// TranslateExit maps a non-zero exit code plus stderr text to a typed
	// error. When nil, a generic error carries the raw text.
	TranslateExit func(exitCode int, stderr string) error
}

// execSession is the per-call execution stream: input, output, error text
// and a final exit status multiplexed over the established connection.
// *ssh.Session satisfies it; tests use fakes to drive signal orderings.
type execSession interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.Reader, error)
	StderrPipe() (io.Reader, error)
	Start(cmd string) error
	Wait() error
	Close() error
}

// Client executes registry verbs as remote command invocations over an
// established connection. One execution stream is open at a time per call;
// there is no pooling and no retry.
//
// A Client is not safe for concurrent use; see scope.Session.
type Client struct {
	opts       Options
	conn       *Connection
	identity   string
	codec      *envelope.Codec
	clk        clock.Clock
	newSession func() (execSession, error)
}

func NewClient(conn *Connection, opts Options) *Client {
	if opts.ExitGraceDelay == 0 {
		opts.ExitGraceDelay = DefaultExitGraceDelay
	}

	clk := opts.Clock

	if clk == nil {
		clk = clock.New()
	}

	c := &Client{
		opts:  opts,
		conn:  conn,
		codec: envelope.NewCodec(opts.Compress),
		clk:   clk,
	}

	if conn != nil {
		c.identity = conn.Username()
		c.newSession = conn.newSession
	}

	return c
}

// Exec runs one verb with its payload packed into the command line and
// returns the remote stdout text.
func (c *Client) Exec(verb string, payload interface{}) (string, error) {
	cmdLine, err := c.buildCommand(verb, payload)

	if err != nil {
		return "", err
	}

	return c.execute(cmdLine, nil, nil)
}

// ExecStdin runs one verb whose body is written to the execution stream's
// input after it opens; the command line carries only the context envelope.
// Used for bulk uploads whose payload is large pre-serialized object data.
func (c *Client) ExecStdin(verb string, body []byte) (string, error) {
	cmdLine, err := c.buildCommand(verb, nil)

	if err != nil {
		return "", err
	}

	return c.execute(cmdLine, body, body)
}

// buildCommand produces the single remote command-line string:
// <program> <verb> <base64(remotePath)> <packedEnvelope>
func (c *Client) buildCommand(verb string, payload interface{}) (string, error) {
	var raw json.RawMessage

	if payload != nil {
		encoded, err := json.Marshal(payload)

		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFailedToBuildCommand, err)
		}

		raw = encoded
	}

	packed, err := c.codec.Pack(envelope.New(c.opts.ProtocolVersion, raw, c.commandContext()))

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToBuildCommand, err)
	}

	encodedPath := base64.StdEncoding.EncodeToString([]byte(c.opts.RemotePath))

	return fmt.Sprintf("%s %s %s %s", c.opts.RemoteProgram, verb, encodedPath, packed), nil
}

func (c *Client) commandContext() map[string]string {
	context := map[string]string{
		"requestId": uuid.NewString(),
	}

	if c.identity != "" {
		context["username"] = c.identity
	}

	return context
}

// execResult is scoped to one invocation and discarded after resolution.
type execResult struct {
	exitCode int
}

// execute opens one execution stream, feeds stdin if given, accumulates
// stdout/stderr, and reconciles the two completion signals. stripEcho, when
// non-nil, is removed from stdout before the exit code is evaluated (the
// remote process may echo its input into the output stream).
func (c *Client) execute(cmdLine string, stdin, stripEcho []byte) (string, error) {
	if c.conn == nil || c.newSession == nil {
		return "", ErrSSHConnectionNotEstablished
	}

	sess, err := c.newSession()

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenStream, err)
	}

	defer sess.Close()

	stdinPipe, err := sess.StdinPipe()

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenStream, err)
	}

	stdoutPipe, err := sess.StdoutPipe()

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenStream, err)
	}

	stderrPipe, err := sess.StderrPipe()

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenStream, err)
	}

	if err := sess.Start(cmdLine); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenStream, err)
	}

	go func() {
		if len(stdin) > 0 {
			if _, err := stdinPipe.Write(stdin); err != nil {
				logger.Debug("failed to write command input: %v", err)
			}
		}
		_ = stdinPipe.Close()
	}()

	var bufMu sync.Mutex
	var stdout, stderr strings.Builder

	var streams sync.WaitGroup
	streams.Add(2)

	go accumulate(stdoutPipe, &stdout, &bufMu, &streams)
	go accumulate(stderrPipe, &stderr, &bufMu, &streams)

	settle := newSettlement(c.clk, c.opts.ExitGraceDelay)

	exited := make(chan int, 1)

	// Process-exit signal: the status is known but buffered stream data
	// may still be in flight, so settlement is deferred by the grace delay.
	go func() {
		code := exitCodeOf(sess.Wait())
		exited <- code
		settle.onExit(code)
	}()

	// Stream-close signal: both streams are fully drained, settle now.
	go func() {
		streams.Wait()
		settle.onClose(<-exited)
	}()

	result := settle.wait()

	bufMu.Lock()
	outText := stdout.String()
	errText := stderr.String()
	bufMu.Unlock()

	if stripEcho != nil {
		outText = strings.ReplaceAll(outText, string(stripEcho), "")
	}

	outText = strings.TrimRight(outText, "\n")

	if result.exitCode == 0 {
		return outText, nil
	}

	if c.opts.TranslateExit != nil {
		return "", c.opts.TranslateExit(result.exitCode, errText)
	}

	return "", fmt.Errorf("remote command failed with exit code %d: %s", result.exitCode, errText)
}

func accumulate(r io.Reader, buf *strings.Builder, mu *sync.Mutex, wg *sync.WaitGroup) {
	defer wg.Done()

	chunk := make([]byte, 32*1024)

	for {
		n, err := r.Read(chunk)

		if n > 0 {
			mu.Lock()
			buf.Write(chunk[:n])
			mu.Unlock()
		}

		if err != nil {
			return
		}
	}
}

func exitCodeOf(waitErr error) int {
	if waitErr == nil {
		return 0
	}

	if exitErr, ok := waitErr.(interface{ ExitStatus() int }); ok {
		return exitErr.ExitStatus()
	}

	return -1
}

// settlement is the single completion slot written by whichever of the two
// completion callbacks fires first. The second callback is a no-op.
type settlement struct {
	mu    sync.Mutex
	clk   clock.Clock
	grace time.Duration
	timer *clock.Timer
	done  bool
	ch    chan execResult
}

func newSettlement(clk clock.Clock, grace time.Duration) *settlement {
	return &settlement{
		clk:   clk,
		grace: grace,
		ch:    make(chan execResult, 1),
	}
}

// onExit schedules settlement after the grace delay; if the close signal
// arrives first, the pending timer is cancelled.
func (s *settlement) onExit(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || s.timer != nil {
		return
	}

	s.timer = s.clk.AfterFunc(s.grace, func() {
		s.finish(code)
	})
}

// onClose settles immediately with the fully-drained buffers.
func (s *settlement) onClose(code int) {
	s.finish(code)
}

func (s *settlement) finish(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}

	s.done = true

	if s.timer != nil {
		s.timer.Stop()
	}

	s.ch <- execResult{exitCode: code}
}

func (s *settlement) wait() execResult {
	return <-s.ch
}
