package npm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"claude-yolo/internal/logging"
)

// Runner executes external commands.
type Runner interface {
	// Output runs the command and returns its trimmed stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
	// Run runs the command attached to the runner's standard streams.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner is the os/exec Runner. Zero-value streams fall back to the
// process's own.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = pick[io.Reader](r.Stdin, os.Stdin)
	cmd.Stdout = pick[io.Writer](r.Stdout, os.Stdout)
	cmd.Stderr = pick[io.Writer](r.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
