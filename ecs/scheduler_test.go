package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/cuberun/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type HealthSystem struct {
	Entities     ecs.Query[struct{ *Health }]
	ExecuteCount int
	TotalHealth  float64
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for item := range s.Entities.Iter() {
		s.TotalHealth += float64(item.Health.Current)
	}
}

type ScoreSystem struct {
	Score ecs.Singleton[Score]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Score.Get() += 10
}

func TestScheduler(t *testing.T) {
	t.Run("system execution order and query initialization", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		health := &HealthSystem{}

		scheduler.Register(movement)
		scheduler.Register(health)

		storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 2})
		storage.Spawn(Health{Current: 100, Max: 100})

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
		assert.Equal(t, int64(2), scheduler.Frames())
		assert.Same(t, storage, scheduler.Storage())
	})

	t.Run("custom state persistence", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		storage.Spawn(Health{Current: 50, Max: 100})
		storage.Spawn(Health{Current: 75, Max: 100})

		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(1.0)
		assert.Equal(t, 125.0, health.TotalHealth)

		storage.Spawn(Health{Current: 25, Max: 100})

		scheduler.Once(1.0)
		assert.Equal(t, 150.0, health.TotalHealth)
	})

	t.Run("singleton fields", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		ecs.NewSingleton(storage, Score(5))

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&ScoreSystem{})
		scheduler.Once(0)
		scheduler.Once(0)

		var score *Score
		require.True(t, storage.ReadSingleton(&score))
		assert.Equal(t, Score(25), *score)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() {
			scheduler.Run(ctx, 1*time.Millisecond)
			done <- true
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		assert.Positive(t, movement.ExecuteCount)
	})

	t.Run("delta time calculation", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		id := storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 10, DY: 20})

		scheduler.Register(&MovementSystem{})
		scheduler.Once(0.5)

		pos := ecs.ReadComponent[Position](storage, id)
		assert.Equal(t, float32(5), pos.X)
		assert.Equal(t, float32(10), pos.Y)
	})

	t.Run("stats", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&MovementSystem{})
		scheduler.Register(&HealthSystem{})

		stats := scheduler.GetStats()
		assert.Equal(t, 2, stats.SystemCount)
		assert.Zero(t, stats.Systems[0].MinDuration)

		for range 3 {
			scheduler.Once(0)
		}

		stats = scheduler.GetStats()
		assert.Equal(t, int64(6), stats.TotalExecutions)
		assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
		assert.Equal(t, "HealthSystem", stats.Systems[1].Name)
		for _, sys := range stats.Systems {
			assert.Equal(t, int64(3), sys.ExecutionCount)
			assert.LessOrEqual(t, sys.MinDuration, sys.MaxDuration)
		}
	})
}
