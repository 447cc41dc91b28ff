// Package config provides the run configuration for glyphgrid.
//
// A Config is built in layers: built-in defaults, then an optional TOML or
// YAML file (chosen by extension), then GLYPHGRID_* environment variables.
// The merged result is decoded strictly, so unknown keys are reported, and
// validated before use:
//
//	cfg, err := config.Load("glyphgrid.toml")
//	if err != nil {
//	    return err
//	}
//	font, err := cfg.LoadFont()
//
// Environment variables map onto config paths by section and camel-cased
// setting name: GLYPHGRID_RASTER_CAPTURE_PATH sets raster.capturePath,
// GLYPHGRID_INPUT_PRESS_POLICY sets input.pressPolicy. Top-level settings
// with compound names have explicit mappings (GLYPHGRID_FRAME_RATE,
// GLYPHGRID_FONT_PATH, GLYPHGRID_FONT_CHARSET, GLYPHGRID_MAX_FRAMES).
package config
