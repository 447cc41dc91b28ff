// Package main is the entry point for the glyphgrid demo runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/glyphgrid/internal/app"
	"github.com/dshills/glyphgrid/internal/config"
	"github.com/dshills/glyphgrid/internal/demo"
	"github.com/dshills/glyphgrid/internal/event"
	"github.com/dshills/glyphgrid/internal/plugin/lua"
	"github.com/dshills/glyphgrid/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	demo       string
	script     string
	watch      bool
	renderer   string
	frames     uint64
	capture    string
	logLevel   string
	logFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, opts, setFlags())

	application, err := newApplication(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Signals become a close request so the application still quits
	// through the frame loop.
	signals := event.NewQueue(1, event.WithReleases(false))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		if _, ok := <-sigCh; ok {
			_ = signals.Push(event.CloseRequest())
		}
	}()

	if err := app.Run(context.Background(), cfg, application, app.WithSource(signals)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, backend.ErrScreenTooSmall) {
			fmt.Fprintf(os.Stderr, "Enlarge the terminal, set width and height in a config file, or use -renderer raster.\n")
		}
		return 1
	}
	return 0
}

func newApplication(cfg *config.Config, opts options) (app.Application, error) {
	path := opts.script
	if path == "" && opts.demo == "" && cfg.Script.Path != "" {
		path = cfg.Resolve(cfg.Script.Path)
	}
	if path != "" {
		return lua.Load(path, lua.WithWatch(opts.watch || cfg.Script.Watch))
	}

	name := opts.demo
	if name == "" {
		name = "hello"
	}
	return demo.New(name)
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFlags overrides configuration with explicitly set flags. A capture
// without an explicit renderer switches the terminal renderer to raster.
func applyFlags(cfg *config.Config, opts options, set map[string]bool) {
	if set["renderer"] {
		cfg.Renderer = opts.renderer
	}
	if set["frames"] {
		cfg.MaxFrames = opts.frames
	}
	if set["capture"] {
		cfg.Raster.CapturePath = opts.capture
		if !set["renderer"] && cfg.Renderer == config.RendererTerminal {
			cfg.Renderer = config.RendererRaster
		}
	}
	if set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if set["log-file"] {
		cfg.Log.File = opts.logFile
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.demo, "demo", "", "Built-in demo to run ("+strings.Join(demo.Names(), ", ")+")")
	flag.StringVar(&opts.script, "script", "", "Lua script to run instead of a demo")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the script when it changes")
	flag.StringVar(&opts.renderer, "renderer", config.RendererTerminal, "Renderer (terminal, raster, headless)")
	flag.Uint64Var(&opts.frames, "frames", 0, "Stop after this many frames (0 runs until quit)")
	flag.StringVar(&opts.capture, "capture", "", "Write the last raster frame to this PNG file")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glyphgrid - character grid demo runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glyphgrid [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glyphgrid -demo keyboard              Type '@' with Space\n")
		fmt.Fprintf(os.Stderr, "  glyphgrid -script game.lua -watch     Run a script, reload on save\n")
		fmt.Fprintf(os.Stderr, "  glyphgrid -frames 1 -capture out.png  Render one frame to a PNG\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("glyphgrid %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
