// Package main runs a headless edit workload against a runtime mesh and
// reports what the render and collision paths had to do.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/config"
	"github.com/Faultbox/runtimemesh/internal/engine/upload"
	"github.com/Faultbox/runtimemesh/internal/heightfield"
	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	queue := upload.NewQueue()
	mesh := runtimemesh.New(cfg.MeshOptions(queue))
	defer mesh.Close()

	layout := heightfield.LayoutFrom(cfg)
	logger.Info("building field",
		zap.Int("sections", layout.NumSections()),
		zap.Int("vertices_per_section", layout.VerticesPerSection()),
		zap.Bool("dual_buffer", layout.DualBuffer),
		zap.Bool("batch", layout.Batch),
		zap.Bool("async_cook", cfg.Collision.Async),
	)
	stress := heightfield.NewStress(mesh, queue, layout, cfg.Stress.Seed)

	rep, err := stress.Run(ctx, cfg.Stress.Frames, cfg.Stress.EditsPerFrame)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stress run failed", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Collision.Async {
		// Submit the bake armed by the last frame before waiting.
		mesh.OnFrameStart()
		if err := mesh.WaitCollision(ctx); err != nil {
			logger.Warn("collision did not settle", zap.Error(err))
		}
		rep.Mesh = mesh.Stats()
	}

	logger.Info("stress run finished",
		zap.Int("frames", rep.Frames),
		zap.Int("edits", rep.Edits),
		zap.Int("notifications", rep.Notifications),
		zap.Int("bounds_updates", rep.Mesh.BoundsUpdates),
		zap.Int("cooks", rep.Mesh.Cooks),
		zap.Int("cook_failures", rep.Mesh.CookFailures),
		zap.Int("dropped_cooks", rep.Mesh.DroppedCooks),
		zap.Int("stale_cooks", rep.Mesh.StaleCooks),
		zap.Int("patches", rep.Patches),
		zap.Int("recreates", rep.Recreates),
		zap.Duration("elapsed", rep.Elapsed),
	)
}
