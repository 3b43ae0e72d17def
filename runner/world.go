// Package runner implements the rules of cuberun: a player cube on a lane
// dodging enemy cubes that approach along +z. The rules run as ECS systems
// over an ecs.Storage; rendering and input live behind the Scene interface
// and the InputQueue singleton.
package runner

import (
	"fmt"
	"math/rand/v2"

	"github.com/plus3/cuberun/ecs"
	"github.com/rs/zerolog"
)

// TickRate is the number of simulation ticks per second the host is expected to run.
const TickRate = 60

// Options wires a World to its collaborators. Every field is optional.
type Options struct {
	Scene    Scene
	Notifier Notifier
	Logger   *zerolog.Logger
	// Random overrides the lateral spawn position source. When nil, a PCG
	// generator seeded with Seed is used.
	Random func() float64
	Seed   uint64
}

// World owns the storage and the systems of one session.
type World struct {
	Config    Config
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Player    ecs.EntityId
	Log       zerolog.Logger

	input  *ecs.Singleton[InputQueue]
	keys   *ecs.Singleton[Keys]
	spawn  *ecs.Singleton[SpawnState]
	status *ecs.Singleton[Status]
}

// NewWorld validates cfg, spawns the player and registers the systems in tick order.
func NewWorld(cfg Config, opts Options) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	playerColor, err := ParseColor(cfg.Colors.Player)
	if err != nil {
		return nil, fmt.Errorf("player color: %w", err)
	}
	enemyColor, err := ParseColor(cfg.Colors.Enemy)
	if err != nil {
		return nil, fmt.Errorf("enemy color: %w", err)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	scene := opts.Scene
	if scene == nil {
		scene = nopScene{}
	}
	random := opts.Random
	if random == nil {
		random = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)).Float64
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	w := &World{
		Config:  cfg,
		Storage: storage,
		Log:     log,
		input:   ecs.NewSingleton(storage, InputQueue{}),
		keys:    ecs.NewSingleton(storage, Keys{}),
		spawn:   ecs.NewSingleton(storage, SpawnState{Interval: cfg.Spawn.InitialInterval}),
		status:  ecs.NewSingleton(storage, Status{State: Running}),
	}

	half := cfg.World.HalfExtent
	w.Player = storage.Spawn(Position{}, Body{HalfExtent: half}, Player{})
	scene.Add(w.Player, Mesh{Kind: MeshPlayer, HalfExtent: half, Color: playerColor, CastShadow: true})

	w.Scheduler = ecs.NewScheduler(storage)
	w.Scheduler.Register(&InputSystem{Config: &w.Config})
	w.Scheduler.Register(&PhysicsSystem{Config: &w.Config})
	w.Scheduler.Register(&SpawnSystem{
		Config: &w.Config,
		Scene:  scene,
		Log:    log,
		Random: random,
		Mesh:   Mesh{Kind: MeshEnemy, HalfExtent: half, Color: enemyColor, CastShadow: true},
	})
	w.Scheduler.Register(&CollisionSystem{
		Config:   &w.Config,
		Scene:    scene,
		Notifier: opts.Notifier,
		Log:      log,
	})
	w.Scheduler.Register(&FrameSystem{})

	log.Debug().
		Str("collision", string(cfg.Collision.Mode)).
		Int("interval", cfg.Spawn.InitialInterval).
		Uint64("player", uint64(w.Player)).
		Msg("world ready")

	return w, nil
}

// Input returns the queue the host pushes key events into.
func (w *World) Input() *InputQueue {
	return w.input.Get()
}

func (w *World) Keys() Keys {
	return *w.keys.Get()
}

func (w *World) Status() Status {
	return *w.status.Get()
}

func (w *World) Spawner() SpawnState {
	return *w.spawn.Get()
}

// Frames returns the number of completed ticks.
func (w *World) Frames() int64 {
	return w.spawn.Get().Frames
}

// PlayerState returns the player's position and body.
func (w *World) PlayerState() (Position, Body) {
	return *ecs.ReadComponent[Position](w.Storage, w.Player), *ecs.ReadComponent[Body](w.Storage, w.Player)
}

// Enemies returns the positions of all live enemies by entity ID.
func (w *World) Enemies() map[ecs.EntityId]Position {
	query := ecs.NewQuery[enemyView](w.Storage)
	query.Execute()

	enemies := make(map[ecs.EntityId]Position, query.Len())
	for enemy := range query.Iter() {
		enemies[enemy.Id] = *enemy.Position
	}
	return enemies
}
