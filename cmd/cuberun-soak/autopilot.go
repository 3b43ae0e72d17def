package main

import (
	"math"

	"github.com/plus3/cuberun/runner"
)

// lookahead is how far in front of the player the autopilot watches for enemies.
const lookahead = 6.0

// Autopilot feeds the input queue like a cautious player: when an enemy is
// about to reach the player's column it holds the key that moves away from
// it, towards the lane center when possible.
type Autopilot struct {
	world *runner.World
	held  runner.Key
	down  bool
}

func NewAutopilot(world *runner.World) *Autopilot {
	return &Autopilot{world: world}
}

// Steer pushes key events for the next tick.
func (a *Autopilot) Steer() {
	player, _ := a.world.PlayerState()
	threshold := a.world.Config.Collision.Threshold + 0.2

	var threat *runner.Position
	for _, enemy := range a.world.Enemies() {
		ahead := player.Z - enemy.Z
		if ahead < 0 || ahead > lookahead || math.Abs(enemy.X-player.X) >= threshold {
			continue
		}
		if threat == nil || enemy.Z > threat.Z {
			threat = &enemy
		}
	}

	if threat == nil {
		a.release()
		return
	}

	key := runner.KeyRight
	switch {
	case threat.X > player.X:
		key = runner.KeyLeft
	case threat.X == player.X && player.X > 0:
		key = runner.KeyLeft
	}
	a.hold(key)
}

func (a *Autopilot) hold(key runner.Key) {
	if a.down && a.held == key {
		return
	}
	a.release()
	a.world.Input().Push(key, true)
	a.held, a.down = key, true
}

func (a *Autopilot) release() {
	if !a.down {
		return
	}
	a.world.Input().Push(a.held, false)
	a.down = false
}
