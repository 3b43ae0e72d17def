package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/cuberun/internal/logging"
	"github.com/plus3/cuberun/runner"
	"github.com/rs/zerolog"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Upper bound on the total run time.")
	sessions := flag.Int("sessions", 20, "Number of headless sessions to play.")
	maxFrames := flag.Int64("max-frames", 36000, "Frame cap per session (0 for none).")
	seed := flag.Uint64("seed", 1, "Seed of the first session; session i uses seed+i.")
	autopilot := flag.Bool("autopilot", false, "Sidestep enemies instead of standing still.")
	configPath := flag.String("config", "", "Optional YAML tuning file.")
	logLevel := flag.String("log-level", "info", "zerolog level (trace, debug, info, warn, error).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log, session, err := logging.New(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := runner.DefaultConfig()
	if *configPath != "" {
		if cfg, err = runner.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}

	report := &Report{
		Session:        session,
		Duration:       *duration,
		Sessions:       *sessions,
		MaxFrames:      *maxFrames,
		Seed:           *seed,
		Autopilot:      *autopilot,
		CollisionMode:  string(cfg.Collision.Mode),
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info().Int("sessions", *sessions).Dur("duration", *duration).Msg("starting soak run")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	for i := 0; i < *sessions && ctx.Err() == nil; i++ {
		result, err := play(ctx, cfg, *seed+uint64(i), *maxFrames, *autopilot, &report.UpdateTime, log)
		if err != nil {
			log.Fatal().Err(err).Int("session", i).Msg("session failed")
		}
		report.Results = append(report.Results, result)
	}

	report.TotalTime = time.Since(startTime)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info().Int("played", len(report.Results)).Dur("elapsed", report.TotalTime).Msg("soak run finished")

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("generate report")
	}
}

// play runs one session until the game ends, the frame cap is hit or ctx expires.
func play(ctx context.Context, cfg runner.Config, seed uint64, maxFrames int64, autopilot bool, updates *Stats, log zerolog.Logger) (SessionResult, error) {
	sessionLog := log.With().Uint64("seed", seed).Logger()
	world, err := runner.NewWorld(cfg, runner.Options{Seed: seed, Logger: &sessionLog})
	if err != nil {
		return SessionResult{}, err
	}
	loop := runner.NewLoop(world)

	var pilot *Autopilot
	if autopilot {
		pilot = NewAutopilot(world)
	}

	for ctx.Err() == nil && (maxFrames == 0 || world.Frames() < maxFrames) {
		if pilot != nil {
			pilot.Steer()
		}

		start := time.Now()
		running := loop.Tick()
		updates.Add(time.Since(start))

		if !running {
			break
		}
	}

	status := world.Status()
	result := SessionResult{
		Seed:   seed,
		Frames: world.Frames(),
		Ended:  status.State == runner.Ended,
		Spawns: world.Spawner().Spawned,
	}
	sessionLog.Debug().Int64("frames", result.Frames).Bool("ended", result.Ended).Msg("session finished")
	return result, nil
}
