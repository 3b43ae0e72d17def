package runner

import (
	"github.com/plus3/cuberun/ecs"
	"github.com/rs/zerolog"
)

type playerView struct {
	Id ecs.EntityId
	*Position
	*Body
	*Player
}

type enemyView struct {
	Id ecs.EntityId
	*Position
	*Body
	*Enemy
}

// InputSystem drains the InputQueue into the held-key flags and triggers jumps.
type InputSystem struct {
	Config *Config

	Queue  ecs.Singleton[InputQueue]
	Keys   ecs.Singleton[Keys]
	Status ecs.Singleton[Status]
	Player ecs.Query[playerView]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	events := s.Queue.Get().drain()
	if s.Status.Get().State == Ended {
		return
	}

	player, ok := s.Player.First()
	keys := s.Keys.Get()
	for _, event := range events {
		switch event.Key {
		case KeyLeft:
			keys.Left = event.Down
		case KeyRight:
			keys.Right = event.Down
		case KeyForward:
			keys.Forward = event.Down
		case KeyBackward:
			keys.Backward = event.Down
		case KeyJump:
			if !event.Down || !ok {
				continue
			}
			if Grounded(*player.Position, *player.Body, s.Config.World, s.Config.Player.JumpTolerance) {
				player.Body.VelocityY = s.Config.Player.JumpImpulse
			}
		}
	}
}

// PhysicsSystem integrates the player under gravity and applies held movement keys.
type PhysicsSystem struct {
	Config *Config

	Keys   ecs.Singleton[Keys]
	Status ecs.Singleton[Status]
	Player ecs.Query[playerView]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Status.Get().State == Ended {
		return
	}

	keys := *s.Keys.Get()
	for player := range s.Player.Iter() {
		StepBody(player.Position, player.Body, s.Config.World)
		ApplyMovement(player.Position, keys, s.Config.Player.MoveSpeed)
	}
}

// SpawnSystem creates an enemy every Interval frames and shortens the
// interval by IntervalStep each time, down to MinInterval.
type SpawnSystem struct {
	Config *Config
	Scene  Scene
	Log    zerolog.Logger
	Mesh   Mesh
	// Random returns a value in [0, 1) that picks the lateral spawn position.
	Random func() float64

	State  ecs.Singleton[SpawnState]
	Status ecs.Singleton[Status]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Status.Get().State == Ended {
		return
	}

	state := s.State.Get()
	if state.Frames%int64(state.Interval) != 0 {
		return
	}

	spawn := s.Config.Spawn
	if state.Interval > spawn.MinInterval {
		state.Interval = max(state.Interval-spawn.IntervalStep, spawn.MinInterval)
	}

	half := s.Config.World.HalfExtent
	pos := Position{
		X: (s.Random() - 0.5) * s.Config.World.LaneWidth,
		Y: s.Config.World.GroundLevel + half,
		Z: spawn.Depth,
	}
	state.Spawned++
	frame.Commands.SpawnThen(func(id ecs.EntityId) {
		s.Scene.Add(id, s.Mesh)
		s.Log.Debug().
			Uint64("entity", uint64(id)).
			Float64("x", pos.X).
			Int64("frame", state.Frames).
			Int("interval", state.Interval).
			Msg("enemy spawned")
	}, pos, Body{VelocityZ: spawn.EnemySpeed, HalfExtent: half}, Enemy{})
}

// CollisionSystem advances enemies, ends the game on contact with the player
// and removes enemies that have passed the removal depth.
type CollisionSystem struct {
	Config   *Config
	Scene    Scene
	Notifier Notifier
	Log      zerolog.Logger

	Status  ecs.Singleton[Status]
	State   ecs.Singleton[SpawnState]
	Player  ecs.Query[playerView]
	Enemies ecs.Query[enemyView]
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	status := s.Status.Get()
	if status.State == Ended {
		return
	}

	player, ok := s.Player.First()
	collision := s.Config.Collision

	for enemy := range s.Enemies.Iter() {
		enemy.Position.Z += enemy.Body.VelocityZ

		if ok && Overlaps(collision.Mode, collision.Threshold,
			*player.Position, player.Body.HalfExtent,
			*enemy.Position, enemy.Body.HalfExtent) {
			s.end(status, player, enemy)
			return
		}

		if enemy.Position.Z > collision.RemovalDepth {
			frame.Commands.DeleteThen(enemy.Id, s.Scene.Remove)
		}
	}
}

func (s *CollisionSystem) end(status *Status, player playerView, enemy enemyView) {
	status.State = Ended
	status.EndedAtFrame = s.State.Get().Frames
	status.Collider = enemy.Id

	result := Result{
		Frames: status.EndedAtFrame,
		Player: *player.Position,
		Enemy:  *enemy.Position,
		Spawns: s.State.Get().Spawned,
	}

	s.Log.Info().
		Int64("frame", result.Frames).
		Int("spawns", result.Spawns).
		Uint64("collider", uint64(enemy.Id)).
		Msg("game over")

	if s.Notifier != nil {
		s.Notifier.GameOver(result)
	}
}

// FrameSystem advances the frame counter at the end of every tick.
type FrameSystem struct {
	State ecs.Singleton[SpawnState]
}

func (s *FrameSystem) Execute(frame *ecs.UpdateFrame) {
	s.State.Get().Frames++
}
