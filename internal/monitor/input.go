package monitor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrQuit is returned by the input loops when the user ends the session.
var ErrQuit = errors.New("monitor: quit")

// LineSender is the part of a Session the input loops use.
type LineSender interface {
	Send(line string) error
}

// RunPrompt reads lines from an interactive readline prompt and sends
// them. Ctrl-C, Ctrl-D or ctx ending the session return ErrQuit.
func RunPrompt(ctx context.Context, rl *readline.Instance, s LineSender) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			rl.Close()
		case <-done:
		}
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			// readline.ErrInterrupt, io.EOF, or closed by ctx.
			return ErrQuit
		}
		if err := s.Send(line); err != nil {
			return err
		}
	}
}

// RunScript sends every line read from r, for piped input. Reaching EOF
// is not an error: the session keeps receiving. RunScript returns as soon
// as ctx is done even while r blocks; the reading goroutine then exits
// with the next line or when r is closed.
func RunScript(ctx context.Context, r io.Reader, s LineSender) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSuffix(scanner.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if err := s.Send(line); err != nil {
				return err
			}
		}
	}
}
