package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dshills/glyphgrid/internal/config"
	"github.com/dshills/glyphgrid/internal/demo"
	"github.com/dshills/glyphgrid/internal/plugin/lua"
)

func TestApplyFlags(t *testing.T) {
	opts := options{
		renderer: config.RendererHeadless,
		frames:   5,
		capture:  "out.png",
		logLevel: "debug",
		logFile:  "run.log",
	}

	cfg := config.Default()
	applyFlags(cfg, opts, map[string]bool{})
	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Error("expected unset flags to leave config unchanged")
	}

	applyFlags(cfg, opts, map[string]bool{"frames": true, "capture": true, "log-level": true, "log-file": true})
	if cfg.MaxFrames != 5 {
		t.Errorf("expected 5 frames, got %d", cfg.MaxFrames)
	}
	if cfg.Renderer != config.RendererRaster {
		t.Errorf("expected capture to select raster, got %q", cfg.Renderer)
	}
	if cfg.Raster.CapturePath != "out.png" || cfg.Log.Level != "debug" || cfg.Log.File != "run.log" {
		t.Errorf("unexpected config %+v", cfg)
	}

	cfg = config.Default()
	applyFlags(cfg, opts, map[string]bool{"renderer": true, "capture": true})
	if cfg.Renderer != config.RendererHeadless {
		t.Errorf("expected explicit renderer to win, got %q", cfg.Renderer)
	}
}

func TestNewApplication(t *testing.T) {
	cfg := config.Default()

	a, err := newApplication(cfg, options{})
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	if _, ok := a.(demo.Hello); !ok {
		t.Errorf("expected hello demo by default, got %T", a)
	}

	a, err = newApplication(cfg, options{demo: "mouse"})
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	if _, ok := a.(*demo.Mouse); !ok {
		t.Errorf("expected mouse demo, got %T", a)
	}

	if _, err := newApplication(cfg, options{demo: "nope"}); !errors.Is(err, demo.ErrUnknownDemo) {
		t.Errorf("expected ErrUnknownDemo, got %v", err)
	}
}

func TestNewApplicationScriptFromConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.lua"), []byte("function draw() end"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Dir = dir
	cfg.Script.Path = "app.lua"

	a, err := newApplication(cfg, options{})
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	script, ok := a.(*lua.App)
	if !ok {
		t.Fatalf("expected script app, got %T", a)
	}
	script.Quit()

	// An explicit demo overrides the configured script.
	a, err = newApplication(cfg, options{demo: "empty"})
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	if _, ok := a.(demo.Empty); !ok {
		t.Errorf("expected empty demo, got %T", a)
	}
}
