package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrNotInteractive indicates confirmation was requested without a terminal
// attached to stdin.
var ErrNotInteractive = errors.New("stdin is not interactive")

// Confirmer asks the operator a yes/no question. Implementations block until
// an answer arrives; tests inject scripted stubs.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Terminal is the interactive Confirmer used by the CLI. Any answer other
// than yes declines.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewTerminal builds a Confirmer over stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  os.Stdin,
		out: os.Stdout,
		interactive: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// NewTerminalWith builds a Confirmer over explicit streams (used in tests).
func NewTerminalWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, interactive: func() bool { return true }}
}

// Confirm renders the question and blocks for a y/n answer. There is no
// timeout: walking away keeps the process waiting, which is the operator's
// call to interrupt.
func (t *Terminal) Confirm(question string) (bool, error) {
	if t.interactive != nil && !t.interactive() {
		return false, fmt.Errorf("%w: re-run with --force to skip confirmation", ErrNotInteractive)
	}

	fmt.Fprintf(t.out, "%s [y/N] ", question)

	reader := bufio.NewReader(t.in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

var _ Confirmer = (*Terminal)(nil)
