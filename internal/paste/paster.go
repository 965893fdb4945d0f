// Package paste simulates the paste keystroke in the focused application.
package paste

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when no paste tool works on this system
var ErrUnavailable = errors.New("paste simulation unavailable")

// DefaultCommands are tried in order
var DefaultCommands = [][]string{
	{"xdotool", "key", "ctrl+v"},
	{"ydotool", "key", "ctrl+v"},
}

// Paster sends a paste keystroke to whatever window has focus
type Paster interface {
	Paste(ctx context.Context) error
}

// runFunc executes one command line
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// CommandPaster runs external keystroke tools such as xdotool
type CommandPaster struct {
	commands [][]string
	logger   *zap.Logger
	run      runFunc
	warnOnce sync.Once
}

// NewCommandPaster creates a paster trying commands in order. Nil or empty
// commands means DefaultCommands.
func NewCommandPaster(commands [][]string, logger *zap.Logger) *CommandPaster {
	valid := make([][]string, 0, len(commands))
	for _, c := range commands {
		if len(c) > 0 && c[0] != "" {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		valid = DefaultCommands
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPaster{commands: valid, logger: logger, run: runCommand}
}

// Paste returns nil as soon as one command succeeds
func (p *CommandPaster) Paste(ctx context.Context) error {
	var errs []error
	for _, c := range p.commands {
		err := p.run(ctx, c[0], c[1:]...)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errs = append(errs, err)
	}

	err := fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	p.warnOnce.Do(func() {
		p.logger.Warn("Auto-paste not available, install xdotool or ydotool", zap.Error(err))
	})
	return err
}

// NopPaster does nothing; the entry stays on the clipboard for a manual paste
type NopPaster struct{}

func (NopPaster) Paste(context.Context) error { return nil }
