// Timeward is a small time-travel adventure played on a tile map.
// Usage: timeward [--version] [--plain] [--script <file>] [--trace] [world_dir]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/cli"
	"github.com/nathoo/timeward/config"
	"github.com/nathoo/timeward/engine"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/loader"
	"github.com/nathoo/timeward/logging"
	"github.com/nathoo/timeward/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: timeward [--version] [--plain] [--script <file>] [--trace] [world_dir]"

type options struct {
	plain      bool
	trace      bool
	scriptFile string
	worldDir   string
}

func main() {
	opts, exit := parseArgs(os.Args[1:])
	if exit >= 0 {
		os.Exit(exit)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs reads the command line. exit is the status to stop with right
// away, or -1 to carry on.
func parseArgs(args []string) (opts options, exit int) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("timeward %s (commit %s, built %s)\n", version, commit, date)
			return opts, 0
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				return opts, 1
			}
			i++
			opts.scriptFile = args[i]
		case "-h", "--help":
			fmt.Println(usage)
			return opts, 0
		default:
			if opts.worldDir != "" {
				fmt.Fprintln(os.Stderr, usage)
				return opts, 1
			}
			opts.worldDir = args[i]
		}
	}
	return opts, -1
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.worldDir == "" {
		opts.worldDir = cfg.WorldDir
	}

	log, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.WithFields(logrus.Fields{"version": version, "commit": commit}).Info("starting")

	defs, err := loadWorld(opts.worldDir, log)
	if err != nil {
		log.WithError(err).Error("world failed to load")
		return fmt.Errorf("loading world: %w", err)
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	eng, err := engine.New(defs, log, store)
	if err != nil {
		return err
	}

	err = play(ctx, eng, opts)
	if err != nil {
		log.WithError(err).Error("session ended with an error")
		return err
	}
	log.Info("session ended")
	return nil
}

func loadWorld(dir string, log logrus.FieldLogger) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadDefault(log)
	}
	return loader.Load(dir, log)
}

// openStore returns the configured save store and, for SQLite, the handle to
// close on exit.
func openStore(cfg config.Config) (save.Store, io.Closer, error) {
	if cfg.SaveBackend == config.BackendSQLite {
		s, err := save.OpenSQLite(cfg.SavePath, cfg.SaveSlot)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return save.NewFileStore(cfg.SavePath), nil, nil
}

func play(ctx context.Context, eng *engine.Engine, opts options) error {
	// Script mode: read commands from the file and echo them.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = opts.trace
		return c.Run(ctx)
	}

	// Use the plain CLI if asked to or stdout is not a terminal.
	if opts.plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = opts.trace
		return c.Run(ctx)
	}

	return tui.Run(ctx, eng)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
