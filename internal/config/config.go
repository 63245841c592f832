// Package config handles configuration loading for the mesh tools.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

// Config holds all settings.
type Config struct {
	Mesh      MeshConfig      `yaml:"mesh" toml:"mesh"`
	Collision CollisionConfig `yaml:"collision" toml:"collision"`
	Graphics  GraphicsConfig  `yaml:"graphics" toml:"graphics"`
	Stress    StressConfig    `yaml:"stress" toml:"stress"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// MeshConfig holds the layout of the streamed heightfield.
type MeshConfig struct {
	Sections        int                         `yaml:"sections" toml:"sections"`   // sections per side
	GridSize        int                         `yaml:"grid_size" toml:"grid_size"` // quads per section side
	CellSize        float32                     `yaml:"cell_size" toml:"cell_size"`
	DualBuffer      bool                        `yaml:"dual_buffer" toml:"dual_buffer"`
	Batch           bool                        `yaml:"batch" toml:"batch"`
	UpdateFrequency runtimemesh.UpdateFrequency `yaml:"update_frequency" toml:"update_frequency"`
}

// CollisionConfig holds collision cooking settings.
type CollisionConfig struct {
	Enabled            bool `yaml:"enabled" toml:"enabled"`
	Async              bool `yaml:"async" toml:"async"`
	Workers            int  `yaml:"workers" toml:"workers"`
	QueueSize          int  `yaml:"queue_size" toml:"queue_size"`
	UseComplexAsSimple bool `yaml:"use_complex_as_simple" toml:"use_complex_as_simple"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width        int     `yaml:"width" toml:"width"`
	Height       int     `yaml:"height" toml:"height"`
	Fullscreen   bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync        bool    `yaml:"vsync" toml:"vsync"`
	FPSLimit     int     `yaml:"fps_limit" toml:"fps_limit"`
	Wireframe    bool    `yaml:"wireframe" toml:"wireframe"`
	ShowBounds   bool    `yaml:"show_bounds" toml:"show_bounds"`
	SunAzimuth   float32 `yaml:"sun_azimuth" toml:"sun_azimuth"`     // degrees
	SunElevation float32 `yaml:"sun_elevation" toml:"sun_elevation"` // degrees above the horizon
}

// StressConfig holds settings for the headless stress run.
type StressConfig struct {
	Frames        int   `yaml:"frames" toml:"frames"`
	EditsPerFrame int   `yaml:"edits_per_frame" toml:"edits_per_frame"`
	Seed          int64 `yaml:"seed" toml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Sections:        4,
			GridSize:        32,
			CellSize:        0.25,
			DualBuffer:      true,
			Batch:           true,
			UpdateFrequency: runtimemesh.FrequencyFrequent,
		},
		Collision: CollisionConfig{
			Enabled:   true,
			Async:     false,
			Workers:   runtimemesh.DefaultCookWorkers,
			QueueSize: runtimemesh.DefaultCookQueueSize,
		},
		Graphics: GraphicsConfig{
			Width:        1280,
			Height:       720,
			Fullscreen:   false,
			VSync:        true,
			FPSLimit:     0,
			ShowBounds:   true,
			SunAzimuth:   200,
			SunElevation: 55,
		},
		Stress: StressConfig{
			Frames:        600,
			EditsPerFrame: 64,
			Seed:          1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Mesh.Sections <= 0 {
		err = multierr.Append(err, fmt.Errorf("mesh.sections must be positive, got %d", c.Mesh.Sections))
	}
	if c.Mesh.GridSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("mesh.grid_size must be positive, got %d", c.Mesh.GridSize))
	}
	if (c.Mesh.GridSize+1)*(c.Mesh.GridSize+1) > 1<<20 {
		err = multierr.Append(err, fmt.Errorf("mesh.grid_size %d is too large", c.Mesh.GridSize))
	}
	if c.Mesh.CellSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("mesh.cell_size must be positive, got %v", c.Mesh.CellSize))
	}
	if c.Collision.Async && c.Collision.Workers <= 0 {
		err = multierr.Append(err, fmt.Errorf("collision.workers must be positive, got %d", c.Collision.Workers))
	}
	if c.Collision.Async && c.Collision.QueueSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("collision.queue_size must be positive, got %d", c.Collision.QueueSize))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics size %dx%d is invalid", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.SunElevation < 0 || c.Graphics.SunElevation > 90 {
		err = multierr.Append(err, fmt.Errorf("graphics.sun_elevation must be within 0..90, got %v", c.Graphics.SunElevation))
	}
	if c.Stress.Frames < 0 || c.Stress.EditsPerFrame < 0 {
		err = multierr.Append(err, fmt.Errorf("stress frames and edits_per_frame must not be negative"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return err
}

// MeshOptions maps the collision settings onto mesh options. The caller
// supplies the render proxy.
func (c *Config) MeshOptions(proxy runtimemesh.RenderProxy) runtimemesh.Options {
	return runtimemesh.Options{
		Proxy:                       proxy,
		AsyncCooking:                c.Collision.Async,
		CookWorkers:                 c.Collision.Workers,
		CookQueueSize:               c.Collision.QueueSize,
		UseComplexAsSimpleCollision: c.Collision.UseComplexAsSimple,
	}
}
