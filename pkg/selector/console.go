package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// LineIO reads prompted lines and accepts output.
type LineIO interface {
	io.Writer
	ReadLine(prompt string) (string, error)
}

// Console is a LineIO over an input and output stream. When the input is a
// terminal it switches to raw mode and provides line editing and history.
type Console struct {
	mu sync.Mutex

	terminal *term.Terminal
	reader   *bufio.Reader
	out      io.Writer

	fd    int
	state *term.State
}

// NewConsole creates a console. Call Close to restore the terminal.
func NewConsole(in io.Reader, out io.Writer) (*Console, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		rw := struct {
			io.Reader
			io.Writer
		}{in, out}
		return &Console{
			terminal: term.NewTerminal(rw, ""),
			out:      out,
			fd:       fd,
			state:    state,
		}, nil
	}

	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
	}, nil
}

// ReadLine implements LineIO.ReadLine. It returns io.EOF when input ends
// without a partial line.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.terminal != nil {
		c.terminal.SetPrompt(prompt)
		return c.terminal.ReadLine()
	}

	if _, err := io.WriteString(c.out, prompt); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Write implements io.Writer. Output goes through the terminal in raw mode
// so newlines are translated.
func (c *Console) Write(p []byte) (int, error) {
	if c.terminal != nil {
		return c.terminal.Write(p)
	}
	return c.out.Write(p)
}

// Interactive reports whether the console drives a terminal.
func (c *Console) Interactive() bool {
	return c.terminal != nil
}

// Close restores the terminal state.
func (c *Console) Close() error {
	if c.state == nil {
		return nil
	}
	err := term.Restore(c.fd, c.state)
	c.state = nil
	return err
}
