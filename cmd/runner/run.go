package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/goodbot/internal/config"
	"github.com/GriffinCanCode/goodbot/internal/expect"
	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/monitoring"
	"github.com/GriffinCanCode/goodbot/internal/procwatch"
	"github.com/GriffinCanCode/goodbot/internal/runner"
	"github.com/GriffinCanCode/goodbot/internal/terminal"
	"github.com/GriffinCanCode/goodbot/internal/typing"
)

type runFlags struct {
	dataDir     dataDirSelection
	timeout     time.Duration
	shell       string
	seed        int64
	noTypos     bool
	metricsFile string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script in a new shell session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			return runScript(cmd.Context(), cmd.OutOrStdout(), cfg, f, args[0])
		},
	}

	addDataDirFlags(cmd, &f.dataDir)
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-step expectation timeout (overrides RUNNER_STEP_TIMEOUT)")
	cmd.Flags().StringVar(&f.shell, "shell", "", "Shell to run (overrides RUNNER_SHELL)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for reproducible typing (overrides TYPING_SEED)")
	cmd.Flags().BoolVar(&f.noTypos, "no-typos", false, "Type without mistakes")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")

	return cmd
}

// apply overrides environment configuration with flags the user set.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Session.StepTimeout = f.timeout
	}
	if flags.Changed("shell") {
		cfg.Session.Shell = f.shell
	}
	if flags.Changed("seed") {
		cfg.Typing.Seed = f.seed
	}
	if f.noTypos {
		cfg.Typing.Typos = false
	}
}

func runScript(ctx context.Context, out io.Writer, cfg *config.Config, f runFlags, file string) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	dataDir := f.dataDir.resolve(cfg.Session.DataDir, runningInContainer)
	sc, path, err := loadScript(dataDir, file)
	if err != nil {
		return err
	}
	log.Info("Loaded script", zap.String("path", path), zap.Int("steps", sc.Len()))

	metrics := monitoring.NewMetrics()
	driver := newDriver(cfg, out, metrics, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := driver.Run(ctx, sc)
	fmt.Fprintln(out)

	if f.metricsFile != "" {
		if err := metrics.WriteToTextfile(f.metricsFile); err != nil {
			log.Warn("Failed to write metrics", zap.String("path", f.metricsFile), zap.Error(err))
		}
	}

	return runErr
}

func newDriver(cfg *config.Config, mirror io.Writer, metrics *monitoring.Metrics, log *logging.Logger) *runner.Driver {
	typingOpts := []typing.Option{
		typing.WithTypos(cfg.Typing.Typos),
		typing.WithPause(cfg.Typing.Pause),
		typing.WithDelayFloor(cfg.Typing.DelayFloor),
		typing.WithObserver(metrics),
	}
	if cfg.Typing.Seed != 0 {
		typingOpts = append(typingOpts, typing.WithSeed(cfg.Typing.Seed))
	}

	tracker := procwatch.New(procwatch.PSQuery{},
		procwatch.WithPollInterval(cfg.Tracker.PollInterval),
		procwatch.WithFindWindow(cfg.Tracker.FindWindow),
		procwatch.WithLogger(log),
	)

	cols, rows := terminalSize(cfg.Session.Cols, cfg.Session.Rows)

	return runner.New(
		runner.Options{
			Session: terminal.Options{
				Shell:  cfg.Session.Shell,
				Args:   cfg.Session.ShellArgs,
				Cols:   cols,
				Rows:   rows,
				Mirror: mirror,
				Logger: log,
			},
			ReadyTimeout: cfg.Session.ReadyTimeout,
			StepTimeout:  cfg.Session.StepTimeout,
		},
		typing.New(typingOpts...),
		expect.NewMatcher(tracker, log),
		runner.WithSpawner(newSpawner(log, followsTerminal(cfg.Session.Cols, cfg.Session.Rows))),
		runner.WithMetrics(metrics),
		runner.WithLogger(log),
	)
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// terminalSize fills unset dimensions from the controlling terminal. Zero
// values left over fall back to the session defaults.
func terminalSize(cols, rows int) (int, int) {
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return cols, rows
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return cols, rows
	}
	if cols <= 0 {
		cols = w
	}
	if rows <= 0 {
		rows = h
	}
	return cols, rows
}
