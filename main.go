// Command trigon is an interactive shell and batch runner for validated
// integer triangles.
//
// Without flags it starts the menu shell on stdin/stdout. With -script it
// evaluates a trigon Lisp file, prints one line per triangle, and with -stl
// also writes the triangles to an STL file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/trigon/pkg/config"
	"github.com/chazu/trigon/pkg/shell"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("trigon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "YAML config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	script := fs.String("script", "", "evaluate this script instead of starting the shell")
	stl := fs.String("stl", "", "with -script, write the triangles to this STL file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *stl != "" && *script == "" {
		return fmt.Errorf("-stl requires -script")
	}

	// Load config
	path := config.ResolvePath(*cfgPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Configure slog
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)
	slog.Debug("config loaded", "path", path, "eval_timeout", cfg.EvalTimeout, "export_dir", cfg.ExportDir)

	if *script != "" {
		app := NewApp(cfg)
		app.startup(ctx)
		return app.RunScript(*script, *stl, stdout)
	}

	sh := shell.New(stdin, stdout, shell.Options{Config: cfg, Logger: logger})
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
