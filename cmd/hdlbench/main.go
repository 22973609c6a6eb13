package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"hdlbench/internal/app"
	"hdlbench/internal/config"
	"hdlbench/internal/watcher"
)

var (
	configPath = flag.String("config", "./hdlbench.toml", "Path to project config file")
	ciMode     = flag.Bool("ci-mode", false, "Enable special settings used by the CI")
	lenient    = flag.Bool("lenient", false, "Skip glob patterns with zero matches instead of failing")
	watch      = flag.Bool("watch", false, "Watch HDL sources and regenerate the editor config on change")
	noSim      = flag.Bool("no-sim", false, "Build the project and emit the editor config without simulating")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("hdlbench v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	opts := app.Options{
		CIMode:  *ciMode,
		Lenient: *lenient,
		BaseDir: filepath.Dir(*configPath),
	}

	a := app.New(cfg, opts)
	if err := a.Build(); err != nil {
		slog.Error("project build failed", "error", err)
		os.Exit(1)
	}
	if err := a.EmitEditorConfig(); err != nil {
		slog.Error("failed to write editor config", "error", err)
		os.Exit(1)
	}
	fmt.Print(a.Summary())

	if !*noSim {
		if err := a.RunSimulation(context.Background()); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
	}

	if !*watch {
		return
	}

	w, err := watcher.New(cfg.Watch.Debounce, cfg.Watch.Dirs, func(paths []string) {
		slog.Info("sources changed, rebuilding", "files", len(paths))
		fresh := app.New(cfg, opts)
		if err := fresh.Build(); err != nil {
			slog.Error("rebuild failed", "error", err)
			return
		}
		if err := fresh.EmitEditorConfig(); err != nil {
			slog.Error("failed to rewrite editor config", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch(a.Root()); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	slog.Info("watching for source changes", "root", a.Root())

	// Block forever
	select {}
}
