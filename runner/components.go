package runner

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/cuberun/ecs"
)

// Position is the world-space center of a cube.
type Position struct {
	X, Y, Z float64
}

func (p Position) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Body holds the motion state of a cube. The player only uses VelocityY,
// enemies only VelocityZ.
type Body struct {
	VelocityY  float64
	VelocityZ  float64
	HalfExtent float64
}

// Player tags the single player-controlled cube.
type Player struct{}

// Enemy tags an approaching cube.
type Enemy struct{}

// Key identifies one of the game's inputs.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyForward
	KeyBackward
	KeyJump
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyForward:
		return "forward"
	case KeyBackward:
		return "backward"
	case KeyJump:
		return "jump"
	}
	return "unknown"
}

// KeyEvent is a key-down (Down true) or key-up transition.
type KeyEvent struct {
	Key  Key
	Down bool
}

// InputQueue collects key events between ticks. The host pushes, InputSystem drains.
type InputQueue struct {
	events []KeyEvent
}

func (q *InputQueue) Push(key Key, down bool) {
	q.events = append(q.events, KeyEvent{Key: key, Down: down})
}

// Len returns the number of events waiting for the next tick.
func (q *InputQueue) Len() int {
	return len(q.events)
}

func (q *InputQueue) drain() []KeyEvent {
	events := q.events
	q.events = nil
	return events
}

// Keys reflects which movement keys are currently held.
type Keys struct {
	Left     bool
	Right    bool
	Forward  bool
	Backward bool
}

// SpawnState is the spawner's frame counter and its current interval in frames.
type SpawnState struct {
	Frames   int64
	Interval int
	Spawned  int
}

type GameState int

const (
	Running GameState = iota
	Ended
)

func (s GameState) String() string {
	if s == Ended {
		return "ended"
	}
	return "running"
}

// Status is the session state. It moves from Running to Ended once.
type Status struct {
	State        GameState
	EndedAtFrame int64
	Collider     ecs.EntityId
}

// MeshKind tells the scene which kind of cube an entity is.
type MeshKind int

const (
	MeshPlayer MeshKind = iota
	MeshEnemy
)

func (k MeshKind) String() string {
	if k == MeshEnemy {
		return "enemy"
	}
	return "player"
}

// Mesh describes how to draw an entity.
type Mesh struct {
	Kind       MeshKind
	HalfExtent float64
	Color      color.RGBA
	CastShadow bool
}

// Scene receives render nodes for entities as they appear and disappear.
type Scene interface {
	Add(id ecs.EntityId, mesh Mesh)
	Remove(id ecs.EntityId)
}

// Result describes how a session ended.
type Result struct {
	Frames int64
	Player Position
	Enemy  Position
	Spawns int
}

// Notifier is told once when the game ends.
type Notifier interface {
	GameOver(result Result)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Result)

func (f NotifierFunc) GameOver(result Result) { f(result) }

type nopScene struct{}

func (nopScene) Add(ecs.EntityId, Mesh) {}
func (nopScene) Remove(ecs.EntityId)    {}

// RegisterComponents registers every component and singleton type of the game.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[InputQueue](registry)
	ecs.RegisterComponent[Keys](registry)
	ecs.RegisterComponent[SpawnState](registry)
	ecs.RegisterComponent[Status](registry)
}
