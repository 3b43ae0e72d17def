package runner

// Loop drives a World one tick at a time until the game ends.
type Loop struct {
	world *World
}

func NewLoop(world *World) *Loop {
	return &Loop{world: world}
}

// Tick runs one frame of input, physics, spawning and collision while the
// game is Running. It reports whether another tick is wanted; once the game
// has ended it does nothing and returns false.
func (l *Loop) Tick() bool {
	if l.world.status.Get().State == Ended {
		return false
	}
	l.world.Scheduler.Once(1.0 / TickRate)
	return l.world.status.Get().State == Running
}

// Run ticks until the game ends or maxFrames ticks have run (0 means no limit).
// It returns the number of ticks executed.
func (l *Loop) Run(maxFrames int64) int64 {
	var n int64
	for (maxFrames == 0 || n < maxFrames) && l.world.status.Get().State == Running {
		l.Tick()
		n++
	}
	return n
}

func (l *Loop) World() *World {
	return l.world
}
