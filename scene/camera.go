package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. View and Proj are kept in sync with the
// eye placement and the surface size.
type Camera struct {
	FovY   float32 // degrees
	Near   float32
	Far    float32
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	View mgl32.Mat4
	Proj mgl32.Mat4

	width  int
	height int
}

// NewCamera returns the game camera: 90° vertical field of view, placed at
// (0, 5, 10) and looking down -z.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		FovY:   90,
		Near:   0.1,
		Far:    1000,
		Eye:    mgl32.Vec3{0, 5, 10},
		Target: mgl32.Vec3{0, 5, 9},
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the surface size and the projection aspect ratio.
// Non-positive sizes are ignored.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.Update()
}

// Update recomputes View and Proj after a field changed.
func (c *Camera) Update() {
	c.View = mgl32.LookAtV(c.Eye, c.Target, c.Up)
	c.Proj = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) Aspect() float32 {
	if c.height == 0 {
		return 1
	}
	return float32(c.width) / float32(c.height)
}

func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

// ToView transforms a world-space point into camera space, where the camera
// looks down -z.
func (c *Camera) ToView(p mgl32.Vec3) mgl32.Vec3 {
	return c.View.Mul4x1(p.Vec4(1)).Vec3()
}

// ViewToScreen projects a camera-space point in front of the near plane to
// pixel coordinates, with y growing downwards.
func (c *Camera) ViewToScreen(v mgl32.Vec3) mgl32.Vec2 {
	clip := c.Proj.Mul4x1(v.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return mgl32.Vec2{
		(ndc.X() + 1) / 2 * float32(c.width),
		(1 - ndc.Y()) / 2 * float32(c.height),
	}
}

// Project maps a world-space point to pixel coordinates. ok is false when
// the point is behind the near plane.
func (c *Camera) Project(p mgl32.Vec3) (screen mgl32.Vec2, ok bool) {
	v := c.ToView(p)
	if v.Z() > -c.Near {
		return mgl32.Vec2{}, false
	}
	return c.ViewToScreen(v), true
}

// ClipNear cuts a camera-space polygon against the near plane and returns
// the part in front of it. The result is empty when nothing is visible.
func (c *Camera) ClipNear(poly []mgl32.Vec3) []mgl32.Vec3 {
	limit := -c.Near
	inside := func(v mgl32.Vec3) bool { return v.Z() <= limit }

	out := make([]mgl32.Vec3, 0, len(poly)+2)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		switch {
		case inside(cur) && inside(prev):
			out = append(out, cur)
		case inside(cur):
			out = append(out, intersectZ(prev, cur, limit), cur)
		case inside(prev):
			out = append(out, intersectZ(prev, cur, limit))
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func intersectZ(a, b mgl32.Vec3, z float32) mgl32.Vec3 {
	t := (z - a.Z()) / (b.Z() - a.Z())
	return a.Add(b.Sub(a).Mul(t))
}
