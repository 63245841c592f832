package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSections   = flag.Int("sections", 0, "Sections per side")
	flagGrid       = flag.Int("grid", 0, "Quads per section side")
	flagNoBatch    = flag.Bool("no-batch", false, "Disable batched section updates")
	flagAsync      = flag.Bool("async-cook", false, "Cook collision on a worker")
	flagFrames     = flag.Int("frames", 0, "Frames to run in the stress tool")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagSections > 0 {
		cfg.Mesh.Sections = *flagSections
	}
	if *flagGrid > 0 {
		cfg.Mesh.GridSize = *flagGrid
	}
	if *flagNoBatch {
		cfg.Mesh.Batch = false
	}
	if *flagAsync {
		cfg.Collision.Async = true
	}
	if *flagFrames > 0 {
		cfg.Stress.Frames = *flagFrames
	}
}
