package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Prompt reads interactive credentials from the controlling terminal.
// Reads block on user input indefinitely; there is no timeout.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func NewPrompt() *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stderr}
}

func (p *Prompt) ReadUsername(prompt string) (string, error) {
	fmt.Fprintf(p.Out, "%s", prompt)

	line, err := bufio.NewReader(p.In).ReadString('\n')

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// ReadPassword reads without echoing when stdin is a terminal; otherwise it
// falls back to a plain line read so piped input still works.
func (p *Prompt) ReadPassword(prompt string) (string, error) {
	fmt.Fprintf(p.Out, "%s", prompt)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))

		fmt.Fprintf(p.Out, "\n")

		if err != nil {
			return "", err
		}

		return string(bytePassword), nil
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')

	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimRight(line, "\n"), nil
}
