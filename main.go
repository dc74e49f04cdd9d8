package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/config"
	"claude-yolo/internal/consent"
	"claude-yolo/internal/install"
	"claude-yolo/internal/launch"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/mode"
	"claude-yolo/internal/model"
	"claude-yolo/internal/npm"
	"claude-yolo/internal/patch"
	"claude-yolo/internal/tui"
	"claude-yolo/internal/update"
)

// wrapperFlags are the options claude-yolo interprets itself. Everything
// else on the command line belongs to the wrapped CLI.
type wrapperFlags struct {
	safe    bool
	noYolo  bool
	version bool
	help    bool
}

// Stripped before delegation, in addition to launch.SafeFlags.
var ownFlags = []string{"--yolo-version", "--yolo-help"}

func parseFlags(args []string) wrapperFlags {
	var f wrapperFlags
	fs := pflag.NewFlagSet("claude-yolo", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = true

	fs.BoolVar(&f.safe, "safe", false, "Run the unmodified CLI for this invocation")
	fs.BoolVar(&f.noYolo, "no-yolo", false, "Alias for --safe")
	fs.BoolVar(&f.version, "yolo-version", false, "Print claude-yolo version information")
	fs.BoolVar(&f.help, "yolo-help", false, "Show claude-yolo help")
	// -h/--help belong to the wrapped CLI. Registering them keeps pflag
	// from treating them as its own help request.
	fs.BoolP("help", "h", false, "")
	_ = fs.MarkHidden("help")

	if err := fs.Parse(args); err != nil {
		log.Debug().Err(err).Msg("Ignoring unparsable arguments")
	}
	return f
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: claude-yolo [wrapper options] [claude options]\n")
	fmt.Fprintf(w, "       claude-yolo mode [yolo|safe]\n\n")
	fmt.Fprintf(w, "claude-yolo runs the Claude CLI with permission prompts disabled (YOLO mode)\n")
	fmt.Fprintf(w, "or unmodified (SAFE mode). All other arguments are passed to the Claude CLI.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprintf(w, "      --safe           Run in SAFE mode for this invocation\n")
	fmt.Fprintf(w, "      --no-yolo        Same as --safe\n")
	fmt.Fprintf(w, "      --yolo-version   Print claude-yolo version\n")
	fmt.Fprintf(w, "      --yolo-help      Show this help message\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  claude-yolo                 # Start Claude in the persisted mode\n")
	fmt.Fprintf(w, "  claude-yolo --safe -c       # Continue the last session in SAFE mode\n")
	fmt.Fprintf(w, "  claude-yolo mode safe       # Make SAFE the default\n")
	fmt.Fprintf(w, "\nEnvironment:\n")
	fmt.Fprintf(w, "  DEBUG                       Print diagnostic logs\n")
	fmt.Fprintf(w, "  %-27s Skip the update check (true/false)\n", config.EnvSkipUpdate)
	fmt.Fprintf(w, "  %-27s Install root holding package.json\n", config.EnvInstallRoot)
}

// app wires the pipeline together. Fields are swapped out in tests.
type app struct {
	cfg      *config.Config
	store    *mode.Store
	locator  *install.Locator
	npm      *npm.Client
	source   latest.Source
	prompter consent.Prompter
	launcher *launch.Launcher
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(cfg *config.Config) *app {
	client := npm.NewClient(cfg.NpmBin)

	start := ""
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		start = filepath.Dir(exe)
	}

	var source latest.Source = &update.NPMView{Client: client, Package: cfg.Package}
	if cfg.RegistryURL != "" {
		source = update.RegistrySource(cfg.RegistryURL, cfg.Package)
	}

	return &app{
		cfg:   cfg,
		store: mode.NewStore(mode.DefaultPath()),
		locator: &install.Locator{
			Package:  cfg.Package,
			Root:     cfg.InstallRoot,
			Start:    start,
			Fallback: config.DataDir(),
			Global:   client,
		},
		npm:      client,
		source:   source,
		prompter: consent.NewPrompter(os.Stdin, os.Stdout),
		launcher: launch.New(cfg.NodeBin),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

func main() {
	logging.SetupLogger(logging.Enabled())

	cfg, err := config.Load()
	if err != nil {
		fatal(os.Stderr, err)
		os.Exit(apperr.ExitCode(err))
	}
	log.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	code, err := newApp(cfg).run(context.Background(), os.Args[1:])
	if err != nil {
		fatal(os.Stderr, err)
		os.Exit(apperr.ExitCode(err))
	}
	os.Exit(code)
}

func fatal(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	log.Debug().Msgf("%+v", err)
}

// run executes one invocation and returns the exit code to use when no
// error occurred.
func (a *app) run(ctx context.Context, args []string) (int, error) {
	if len(args) > 0 && args[0] == "mode" {
		return 0, a.runModeCommand(args[1:])
	}

	flags := parseFlags(args)
	if flags.help {
		printUsage(a.stdout)
		return 0, nil
	}
	if flags.version {
		fmt.Fprintf(a.stdout, "claude-yolo version %s\n", model.Version)
		return 0, nil
	}
	args = launch.StripFlags(args, ownFlags...)

	current := a.store.Get()
	if flags.safe || flags.noYolo {
		current = model.ModeSAFE
	}
	log.Debug().Str("mode", current.String()).Msg("Mode selected")

	root, err := a.locator.ResolveRoot()
	if err != nil {
		return 1, err
	}

	if current == model.ModeSAFE {
		return a.runSafe(ctx, root, args)
	}
	return a.runYOLO(ctx, root, args)
}

func (a *app) runModeCommand(args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "yolo":
		fmt.Fprintln(a.stdout, tui.WarnStyle.Render(model.IconFire+" Switching to YOLO mode..."))
		fmt.Fprintln(a.stdout, tui.DangerStyle.Render(model.IconWarning+" WARNING: All safety checks will be DISABLED!"))
		if err := a.store.Set(model.ModeYOLO); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, tui.WarnStyle.Render(model.IconCheck+" YOLO mode activated"))
	case "safe":
		fmt.Fprintln(a.stdout, tui.InfoStyle.Render(model.IconShield+" Switching to SAFE mode..."))
		fmt.Fprintln(a.stdout, tui.OKStyle.Render(model.IconCheck+" Safety checks will be enabled"))
		if err := a.store.Set(model.ModeSAFE); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, tui.InfoStyle.Render(model.IconCheck+" SAFE mode activated"))
	default:
		current := a.store.Get()
		style := tui.WarnStyle
		if current == model.ModeSAFE {
			style = tui.InfoStyle
		}
		fmt.Fprintf(a.stdout, "Current mode: %s\n", style.Render(current.String()))
	}
	return nil
}

func (a *app) checkForUpdates(ctx context.Context, root string) {
	if a.cfg.SkipUpdate {
		log.Debug().Msg("Update check disabled")
		return
	}
	checker := &update.Checker{
		Package:   a.cfg.Package,
		Root:      root,
		GlobalDir: a.locator.GlobalDir(ctx),
		Source:    a.source,
		Installer: a.npm,
		Out:       a.stdout,
		ErrOut:    a.stderr,
	}
	res := checker.Check(ctx)
	log.Debug().
		Str("action", res.Action.String()).
		Str("pinned", res.Pinned).
		Str("latest", res.Latest).
		Msg("Update check finished")
}

func (a *app) runSafe(ctx context.Context, root string, args []string) (int, error) {
	fmt.Fprintln(a.stdout, tui.InfoStyle.Render("[SAFE] Running Claude in SAFE mode"))

	a.checkForUpdates(ctx, root)

	inst, err := a.locator.Locate(root)
	if err != nil {
		return 1, err
	}
	return a.launcher.Run(ctx, inst, model.ModeSAFE, args)
}

func (a *app) runYOLO(ctx context.Context, root string, args []string) (int, error) {
	fmt.Fprintln(a.stdout, tui.WarnStyle.Render("[YOLO] Running Claude in YOLO mode"))

	a.checkForUpdates(ctx, root)

	inst, err := a.locator.Locate(root)
	if err != nil {
		return 1, err
	}

	gate := &consent.Gate{Prompter: a.prompter, Out: a.stdout}
	if err := gate.Ensure(inst); err != nil {
		return 1, err
	}

	engine := patch.NewEngine(inst.Local)
	if _, err := engine.WriteFile(inst); err != nil {
		return 1, err
	}
	fmt.Fprintln(a.stdout, tui.WarnStyle.Render(model.IconFire+" YOLO MODE ACTIVATED "+model.IconFire))

	return a.launcher.Run(ctx, inst, model.ModeYOLO, args)
}
