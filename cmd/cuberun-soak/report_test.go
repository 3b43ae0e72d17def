package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/plus3/cuberun/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)

	for _, d := range []time.Duration{4, 1, 3, 2} {
		s.Add(d * time.Millisecond)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 4*time.Millisecond, s.Max)
	assert.Equal(t, 2500*time.Microsecond, s.Avg)
	assert.Equal(t, 3*time.Millisecond, s.P99)
}

func TestReport(t *testing.T) {
	r := &Report{
		Session:       "test",
		Sessions:      2,
		CollisionMode: "center",
		Results: []SessionResult{
			{Seed: 1, Frames: 300, Ended: true, Spawns: 2},
			{Seed: 2, Frames: 900, Spawns: 9},
		},
	}
	r.Finalize()

	assert.Equal(t, 1, r.Collisions)
	assert.Equal(t, int64(1200), r.TotalFrames)
	assert.Equal(t, FrameStats{Min: 300, Max: 900, Avg: 600}, r.Survival)

	var out strings.Builder
	require.NoError(t, r.Generate(&out))
	assert.Contains(t, out.String(), "| 1 | 300 | 5.0 | 2 | collision |")
	assert.Contains(t, out.String(), "| 2 | 900 | 15.0 | 9 | survived |")
	assert.Contains(t, out.String(), "**Frame Cap:** none")
}

func TestPlay(t *testing.T) {
	cfg := runner.DefaultConfig()
	var updates Stats

	capped, err := play(context.Background(), cfg, 3, 100, false, &updates, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(100), capped.Frames)
	assert.False(t, capped.Ended)
	assert.Len(t, updates.Samples, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stopped, err := play(ctx, cfg, 3, 0, false, &updates, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, stopped.Frames)
}

func TestAutopilotDodges(t *testing.T) {
	world, err := runner.NewWorld(runner.DefaultConfig(), runner.Options{
		Random: func() float64 { return 0.5 },
	})
	require.NoError(t, err)

	loop := runner.NewLoop(world)
	pilot := NewAutopilot(world)
	for range 2000 {
		pilot.Steer()
		require.True(t, loop.Tick(), "collision at frame %d", world.Frames())
	}
}
