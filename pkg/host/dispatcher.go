package host

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/endfix/pkg/errors"
)

// Dispatcher runs textual commands
type Dispatcher interface {
	Dispatch(command string) error
}

// CommandSyntaxError is returned for a command that cannot be parsed
type CommandSyntaxError struct {
	Command string
	Reason  string
}

func (e *CommandSyntaxError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Command, e.Reason)
}

// LineDispatcher writes each accepted command as one line to w. When verbs
// are given, only commands starting with one of them are accepted.
type LineDispatcher struct {
	mu    sync.Mutex
	w     io.Writer
	verbs map[string]bool
}

// NewLineDispatcher creates a dispatcher writing to w
func NewLineDispatcher(w io.Writer, verbs ...string) *LineDispatcher {
	d := &LineDispatcher{w: w}
	if len(verbs) > 0 {
		d.verbs = make(map[string]bool, len(verbs))
		for _, v := range verbs {
			d.verbs[v] = true
		}
	}
	return d
}

// Dispatch validates command and writes it. A leading slash is dropped.
func (d *LineDispatcher) Dispatch(command string) error {
	line := strings.TrimPrefix(strings.TrimSpace(command), "/")
	if line == "" {
		return &CommandSyntaxError{Command: command, Reason: "empty command"}
	}
	if strings.ContainsAny(line, "\r\n") {
		return &CommandSyntaxError{Command: command, Reason: "command spans more than one line"}
	}
	if d.verbs != nil {
		verb := strings.Fields(line)[0]
		if !d.verbs[verb] {
			return &CommandSyntaxError{Command: command, Reason: fmt.Sprintf("unknown command %q", verb)}
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := io.WriteString(d.w, line+"\n"); err != nil {
		return errors.Wrap(err, errors.ErrCommandDispatch, "failed to write command")
	}
	return nil
}
