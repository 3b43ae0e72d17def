package runner_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/cuberun/ecs"
	"github.com/plus3/cuberun/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScene struct {
	meshes  map[ecs.EntityId]runner.Mesh
	added   []ecs.EntityId
	removed []ecs.EntityId
}

func newRecordingScene() *recordingScene {
	return &recordingScene{meshes: make(map[ecs.EntityId]runner.Mesh)}
}

func (s *recordingScene) Add(id ecs.EntityId, mesh runner.Mesh) {
	s.meshes[id] = mesh
	s.added = append(s.added, id)
}

func (s *recordingScene) Remove(id ecs.EntityId) {
	delete(s.meshes, id)
	s.removed = append(s.removed, id)
}

func (s *recordingScene) enemies() int {
	n := 0
	for _, mesh := range s.meshes {
		if mesh.Kind == runner.MeshEnemy {
			n++
		}
	}
	return n
}

type fixture struct {
	world    *runner.World
	loop     *runner.Loop
	scene    *recordingScene
	results  []runner.Result
	floorY   float64
	removalZ float64
}

// newFixture builds a world whose enemies all spawn at the given lateral
// fraction of the lane (0.5 is the center line).
func newFixture(t *testing.T, lateral float64, mutate ...func(*runner.Config)) *fixture {
	t.Helper()

	cfg := runner.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	f := &fixture{scene: newRecordingScene()}
	world, err := runner.NewWorld(cfg, runner.Options{
		Scene:    f.scene,
		Notifier: runner.NotifierFunc(func(r runner.Result) { f.results = append(f.results, r) }),
		Random:   func() float64 { return lateral },
	})
	require.NoError(t, err)

	f.world = world
	f.loop = runner.NewLoop(world)
	f.floorY = cfg.World.GroundLevel + cfg.World.HalfExtent
	f.removalZ = cfg.Collision.RemovalDepth
	return f
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	for range 30 {
		require.True(t, f.loop.Tick())
	}
	pos, _ := f.world.PlayerState()
	require.Equal(t, f.floorY, pos.Y)
}

func TestNewWorld(t *testing.T) {
	f := newFixture(t, 0)

	assert.Equal(t, runner.Running, f.world.Status().State)
	assert.Equal(t, 200, f.world.Spawner().Interval)
	assert.Zero(t, f.world.Frames())

	require.Contains(t, f.scene.meshes, f.world.Player)
	mesh := f.scene.meshes[f.world.Player]
	assert.Equal(t, runner.MeshPlayer, mesh.Kind)
	assert.Equal(t, uint8(0xae), mesh.Color.R)

	cfg := runner.DefaultConfig()
	cfg.Spawn.MinInterval = 0
	_, err := runner.NewWorld(cfg, runner.Options{})
	assert.ErrorIs(t, err, runner.ErrInvalidConfig)
}

func TestInput(t *testing.T) {
	t.Run("movement keys follow key up and down", func(t *testing.T) {
		f := newFixture(t, 0)
		input := f.world.Input()

		input.Push(runner.KeyLeft, true)
		input.Push(runner.KeyForward, true)
		f.loop.Tick()
		assert.Equal(t, runner.Keys{Left: true, Forward: true}, f.world.Keys())
		assert.Zero(t, input.Len())

		input.Push(runner.KeyLeft, false)
		input.Push(runner.KeyRight, true)
		input.Push(runner.KeyJump, false)
		f.loop.Tick()
		assert.Equal(t, runner.Keys{Right: true, Forward: true}, f.world.Keys())
	})

	t.Run("events apply in arrival order", func(t *testing.T) {
		f := newFixture(t, 0)
		f.world.Input().Push(runner.KeyBackward, true)
		f.world.Input().Push(runner.KeyBackward, false)
		f.loop.Tick()
		assert.False(t, f.world.Keys().Backward)
	})

	t.Run("holding left for ten frames", func(t *testing.T) {
		f := newFixture(t, 0)
		f.world.Input().Push(runner.KeyLeft, true)
		for range 10 {
			f.loop.Tick()
		}
		pos, _ := f.world.PlayerState()
		assert.InDelta(t, -1.0, pos.X, 1e-9)
		assert.Zero(t, pos.Z)
	})

	t.Run("jump from the ground", func(t *testing.T) {
		f := newFixture(t, 0)
		f.settle(t)

		f.world.Input().Push(runner.KeyJump, true)
		f.loop.Tick()

		// The impulse is applied before gravity runs in the same tick.
		pos, body := f.world.PlayerState()
		assert.InDelta(t, 0.19, body.VelocityY, 1e-12)
		assert.InDelta(t, f.floorY+0.19, pos.Y, 1e-12)
	})

	t.Run("jump while airborne is ignored", func(t *testing.T) {
		f := newFixture(t, 0)
		f.settle(t)

		f.world.Input().Push(runner.KeyJump, true)
		f.loop.Tick()
		f.world.Input().Push(runner.KeyJump, false)
		f.world.Input().Push(runner.KeyJump, true)
		f.loop.Tick()

		_, body := f.world.PlayerState()
		assert.InDelta(t, 0.18, body.VelocityY, 1e-12)
	})
}

func TestGroundInvariant(t *testing.T) {
	f := newFixture(t, 0)
	rng := rand.New(rand.NewPCG(7, 11))
	keys := []runner.Key{runner.KeyLeft, runner.KeyRight, runner.KeyForward, runner.KeyBackward, runner.KeyJump}

	for f.world.Status().State == runner.Running && f.world.Frames() < 3000 {
		for range rng.IntN(3) {
			f.world.Input().Push(keys[rng.IntN(len(keys))], rng.IntN(2) == 0)
		}
		f.loop.Tick()

		pos, body := f.world.PlayerState()
		require.GreaterOrEqual(t, pos.Y, f.floorY, "frame %d", f.world.Frames())
		if pos.Y == f.floorY {
			require.Zero(t, body.VelocityY, "frame %d", f.world.Frames())
		}
	}
}

func TestSpawner(t *testing.T) {
	t.Run("first spawn happens on frame zero", func(t *testing.T) {
		f := newFixture(t, 0)
		f.loop.Tick()

		enemies := f.world.Enemies()
		require.Len(t, enemies, 1)
		for id, pos := range enemies {
			assert.InDelta(t, -5.0, pos.X, 1e-12)
			assert.Equal(t, f.floorY, pos.Y)
			// Spawned and advanced once in the same tick.
			assert.InDelta(t, -15+0.05, pos.Z, 1e-12)
			assert.Equal(t, runner.MeshEnemy, f.scene.meshes[id].Kind)
		}
		assert.Equal(t, 180, f.world.Spawner().Interval)
	})

	t.Run("interval is non-increasing and floored", func(t *testing.T) {
		f := newFixture(t, 0)
		cfg := f.world.Config

		previous := f.world.Spawner().Interval
		spawnFrames := []int64{}
		for range 4000 {
			frame := f.world.Frames()
			spawned := f.world.Spawner().Spawned
			require.True(t, f.loop.Tick())
			if f.world.Spawner().Spawned > spawned {
				spawnFrames = append(spawnFrames, frame)
			}

			interval := f.world.Spawner().Interval
			require.LessOrEqual(t, interval, previous)
			require.GreaterOrEqual(t, interval, cfg.Spawn.MinInterval)
			previous = interval
		}

		assert.Equal(t, cfg.Spawn.MinInterval, previous)
		assert.Equal(t, []int64{0, 180, 320, 420, 480, 500}, spawnFrames[:6])
	})

	t.Run("interval stops at the floor when the step overshoots", func(t *testing.T) {
		f := newFixture(t, 0, func(c *runner.Config) {
			c.Spawn.InitialInterval = 30
			c.Spawn.IntervalStep = 25
			c.Spawn.MinInterval = 10
		})
		f.loop.Tick()
		assert.Equal(t, 10, f.world.Spawner().Interval)
	})
}

func TestEnemyRemoval(t *testing.T) {
	f := newFixture(t, 0)

	f.loop.Tick()
	var first ecs.EntityId
	for id := range f.world.Enemies() {
		first = id
	}

	for range 520 {
		require.True(t, f.loop.Tick())
		for id, pos := range f.world.Enemies() {
			require.LessOrEqual(t, pos.Z, f.removalZ, "enemy %d survived past the removal depth", id)
		}
	}

	assert.Contains(t, f.scene.removed, first)
	assert.Equal(t, len(f.world.Enemies()), f.scene.enemies())
}

func TestCollision(t *testing.T) {
	t.Run("enemy on the center line hits a stationary player", func(t *testing.T) {
		f := newFixture(t, 0.5)

		ticks := f.loop.Run(500)
		status := f.world.Status()

		require.Equal(t, runner.Ended, status.State)
		assert.InDelta(t, 280, status.EndedAtFrame, 2)
		assert.Equal(t, status.EndedAtFrame+1, ticks)
		require.Len(t, f.results, 1)
		assert.Equal(t, status.EndedAtFrame, f.results[0].Frames)
		assert.Less(t, f.results[0].Enemy.Z, 0.0)
		assert.Greater(t, f.results[0].Enemy.Z, -1.0)
		assert.Empty(t, f.scene.removed)
	})

	t.Run("nothing moves after the game ends", func(t *testing.T) {
		f := newFixture(t, 0.5)
		f.loop.Run(0)
		require.Equal(t, runner.Ended, f.world.Status().State)

		player, body := f.world.PlayerState()
		enemies := f.world.Enemies()
		spawner := f.world.Spawner()
		added := len(f.scene.added)

		f.world.Input().Push(runner.KeyLeft, true)
		f.world.Input().Push(runner.KeyJump, true)
		for range 300 {
			assert.False(t, f.loop.Tick())
		}

		afterPlayer, afterBody := f.world.PlayerState()
		assert.Equal(t, player, afterPlayer)
		assert.Equal(t, body, afterBody)
		assert.Equal(t, enemies, f.world.Enemies())
		assert.Equal(t, spawner, f.world.Spawner())
		assert.Len(t, f.scene.added, added)
		assert.Len(t, f.results, 1)
		assert.Zero(t, f.loop.Run(10))
	})

	t.Run("enemy off to the side passes by", func(t *testing.T) {
		f := newFixture(t, 0)
		assert.Equal(t, int64(600), f.loop.Run(600))
		assert.Equal(t, runner.Running, f.world.Status().State)
		assert.Empty(t, f.results)
	})

	t.Run("aabb mode with small cubes lets a near miss through", func(t *testing.T) {
		// Lateral 0.45 puts the enemy 0.5 to the left of the player.
		center := newFixture(t, 0.45)
		center.loop.Run(400)
		assert.Equal(t, runner.Ended, center.world.Status().State)

		aabb := newFixture(t, 0.45, func(c *runner.Config) {
			c.Collision.Mode = runner.CollisionAABB
			c.World.HalfExtent = 0.2
		})
		aabb.loop.Run(400)
		assert.Equal(t, runner.Running, aabb.world.Status().State)
	})
}
