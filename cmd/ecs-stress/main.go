package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/plus3/runic/ecs"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Flags override its values.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "The initial number of entities to create.")
	systemCount := flag.Int("systems", 0, "The number of read-only load systems to register.")
	profileMode := flag.String("profile", "", "Enable profiling: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	if *duration > 0 {
		cfg.Duration.Duration = *duration
	}
	if *entityCount > 0 {
		cfg.Entities = *entityCount
	}
	if *systemCount > 0 {
		cfg.Systems = *systemCount
	}
	if *profileMode != "" {
		cfg.Profile = *profileMode
	}
	if *gcPauseMetrics {
		cfg.GCMetrics = true
	}

	switch cfg.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		logger.Fatal("unknown profile mode", zap.String("mode", cfg.Profile))
	}

	logger.Info("starting stress test",
		zap.Duration("duration", cfg.Duration.Duration),
		zap.Int("entities", cfg.Entities),
		zap.Int("load_systems", cfg.Systems),
	)

	// 1. Build the app. Load systems are registered under distinct names so
	// the report's per-system table stays readable.
	app := ecs.New()
	app.AddNamedSystem(ecs.Update, "movement", movementSystem)
	app.AddNamedSystem(ecs.Update, "lifetime", lifetimeSystem)
	app.AddNamedSystem(ecs.PostUpdate, "churn", churnSystem)
	for i := 0; i < cfg.Systems; i++ {
		app.AddNamedSystem(ecs.Update, fmt.Sprintf("load-%02d", i), loadSystem())
	}

	// 2. Populate through the command buffer; Init flushes it.
	app.AddNamedSystem(ecs.Startup, "populate", func(frame *ecs.Frame) error {
		for i := 0; i < cfg.Entities; i++ {
			spawnRandomEntity(frame.Commands)
		}
		return nil
	})
	app.Init()
	logger.Info("population complete", zap.Int("live", app.Registry().Len()))

	// 3. Run the frame loop.
	report := &Report{
		Duration:       cfg.Duration.Duration,
		Entities:       cfg.Entities,
		GCPauseMetrics: cfg.GCMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration.Duration)
	defer cancel()

	startTime := time.Now()
	var totalFrames int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			app.Update(deltaTime.Seconds())
			frameDuration := time.Since(frameStart)

			report.FrameTime.Samples = append(report.FrameTime.Samples, frameDuration)
			totalFrames++
		}
	}

	app.Shutdown()

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = totalFrames
	report.FrameTime.Finalize()
	report.StoreStats = app.Store().CollectStats()
	report.SchedulerStats = app.Stats()
	report.Systems = report.SchedulerStats.SystemCount
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("frames", totalFrames),
		zap.Int("live", app.Registry().Len()),
	)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}
