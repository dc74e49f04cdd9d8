// Package launch runs the wrapped CLI under node with the argument vector
// shaped for the selected mode.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/model"
	"claude-yolo/internal/tui"
)

// Invocation is a fully resolved child command.
type Invocation struct {
	Script   string
	NodeArgs []string
	Args     []string
}

// Argv returns the interpreter arguments in order.
func (inv Invocation) Argv() []string {
	argv := append([]string{}, inv.NodeArgs...)
	argv = append(argv, inv.Script)
	return append(argv, inv.Args...)
}

// Launcher starts the wrapped CLI.
type Launcher struct {
	NodeBin string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	// IsRoot reports whether the identity override is needed.
	IsRoot func() bool
}

// New returns a Launcher attached to the process's standard streams.
func New(nodeBin string) *Launcher {
	return &Launcher{
		NodeBin: nodeBin,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		IsRoot:  func() bool { return os.Getuid() == 0 },
	}
}

// Plan builds the invocation for mode without side effects.
func Plan(inst model.Installation, mode model.Mode, args []string) Invocation {
	args = StripFlags(args, SafeFlags...)
	if mode == model.ModeSAFE {
		return Invocation{Script: inst.Entry, Args: args}
	}
	return Invocation{Script: inst.Patched, Args: EnsureLeadingFlag(args, SkipPermissionsFlag)}
}

// Run executes the wrapped CLI and returns its exit code. The error is only
// set when the child could not be started.
func (l *Launcher) Run(ctx context.Context, inst model.Installation, mode model.Mode, args []string) (int, error) {
	logger := logging.GetLogger("launch")
	inv := Plan(inst, mode, args)

	if mode == model.ModeYOLO && l.IsRoot != nil && l.IsRoot() {
		fmt.Fprintln(l.Stdout, tui.WarnStyle.Render(model.IconWarning+" Running as root - applying YOLO bypass..."))
		scope, err := BeginIdentityOverride(inst.Dir, FakeUID, OverrideWindow)
		if err != nil {
			// Best effort: the text patches still cover later checks.
			logger.Warn().Err(err).Msg("Identity override unavailable")
		} else {
			defer func() {
				if err := scope.Release(); err != nil {
					logger.Debug().Err(err).Msg("Error removing identity shim")
				}
			}()
			inv.NodeArgs = scope.NodeArgs()
		}
	}

	return l.exec(ctx, inv)
}

func (l *Launcher) exec(ctx context.Context, inv Invocation) (int, error) {
	logger := logging.GetLogger("launch")
	argv := inv.Argv()
	logging.LogCommand(l.NodeBin, argv)

	cmd := exec.CommandContext(ctx, l.NodeBin, argv...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return 1, apperr.Wrapf(err, apperr.ErrLaunch, "start %s", l.NodeBin)
	}

	// The child shares the terminal's process group, so a Ctrl+C already
	// reaches it. SIGINT is only held here to keep the wrapper alive until
	// the child exits. SIGTERM is usually aimed at the wrapper alone and is
	// passed on.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigs)
		close(done)
	}()
	go func() {
		for {
			select {
			case sig := <-sigs:
				if !forwarded(sig) {
					logger.Debug().Str("signal", sig.String()).Msg("Ignoring signal while child runs")
					continue
				}
				logger.Debug().Str("signal", sig.String()).Msg("Forwarding signal")
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by a signal.
			code = 1
		}
		logger.Debug().Int("code", code).Msg("Wrapped CLI exited")
		return code, nil
	}
	return 1, apperr.Wrap(err, apperr.ErrLaunch, "wait for wrapped CLI")
}

// forwarded reports whether sig is relayed to the child.
func forwarded(sig os.Signal) bool {
	return sig == syscall.SIGTERM
}
