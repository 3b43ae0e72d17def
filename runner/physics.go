package runner

import (
	"math"
)

// StepBody applies one tick of gravity to a body and resolves ground contact.
// Afterwards pos.Y is never below ground + half-extent.
func StepBody(pos *Position, body *Body, world WorldConfig) {
	body.VelocityY += world.Gravity
	pos.Y += body.VelocityY

	if pos.Y-body.HalfExtent <= world.GroundLevel {
		pos.Y = world.GroundLevel + body.HalfExtent
		body.VelocityY = 0
	}
}

// ApplyMovement moves pos by speed along every held axis. Left and forward
// are the negative x and z directions. The lane edges are not enforced.
func ApplyMovement(pos *Position, keys Keys, speed float64) {
	if keys.Left {
		pos.X -= speed
	}
	if keys.Right {
		pos.X += speed
	}
	if keys.Forward {
		pos.Z -= speed
	}
	if keys.Backward {
		pos.Z += speed
	}
}

// Grounded reports whether a body resting at pos may jump.
func Grounded(pos Position, body Body, world WorldConfig, tolerance float64) bool {
	return pos.Y <= world.GroundLevel+body.HalfExtent+tolerance
}

// Overlaps tests two cubes for contact.
//
// In CollisionCenter mode the centers must be closer than threshold on each
// axis, whatever the cube sizes. In CollisionAABB mode the per-axis limit is
// the sum of both half-extents, which is a true box overlap test.
func Overlaps(mode CollisionMode, threshold float64, a Position, aHalf float64, b Position, bHalf float64) bool {
	limit := threshold
	if mode == CollisionAABB {
		limit = aHalf + bHalf
	}

	d := a.Vec3().Sub(b.Vec3())
	for i := range d {
		if math.Abs(d[i]) >= limit {
			return false
		}
	}
	return true
}
