package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned box in world space.
type Box struct {
	Center mgl32.Vec3
	Half   mgl32.Vec3
}

// Face is one side of a box: four corners wound counter-clockwise when seen
// from outside, and the outward normal.
type Face struct {
	Corners [4]mgl32.Vec3
	Normal  mgl32.Vec3
}

func Cube(center mgl32.Vec3, half float32) Box {
	return Box{Center: center, Half: mgl32.Vec3{half, half, half}}
}

func (b Box) Min() mgl32.Vec3 { return b.Center.Sub(b.Half) }
func (b Box) Max() mgl32.Vec3 { return b.Center.Add(b.Half) }

func (b Box) Faces() [6]Face {
	lo, hi := b.Min(), b.Max()
	x0, y0, z0 := lo.Elem()
	x1, y1, z1 := hi.Elem()

	return [6]Face{
		{Normal: mgl32.Vec3{0, 0, 1}, Corners: [4]mgl32.Vec3{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}},
		{Normal: mgl32.Vec3{0, 0, -1}, Corners: [4]mgl32.Vec3{{x1, y0, z0}, {x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}}},
		{Normal: mgl32.Vec3{1, 0, 0}, Corners: [4]mgl32.Vec3{{x1, y0, z1}, {x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}}},
		{Normal: mgl32.Vec3{-1, 0, 0}, Corners: [4]mgl32.Vec3{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}},
		{Normal: mgl32.Vec3{0, 1, 0}, Corners: [4]mgl32.Vec3{{x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}, {x0, y1, z0}}},
		{Normal: mgl32.Vec3{0, -1, 0}, Corners: [4]mgl32.Vec3{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}},
	}
}

// FacingFaces returns the faces whose outward side points at eye.
func (b Box) FacingFaces(eye mgl32.Vec3) []Face {
	faces := b.Faces()
	visible := make([]Face, 0, 3)
	for _, f := range faces {
		if f.Normal.Dot(eye.Sub(f.Corners[0])) > 0 {
			visible = append(visible, f)
		}
	}
	return visible
}

// Light is a white directional light plus an ambient term.
type Light struct {
	Position  mgl32.Vec3 // the light shines from here towards the origin
	Intensity float32
	Ambient   float32
}

// DefaultLight is a directional light at (0, 10, 10) with 0.5 ambient.
func DefaultLight() Light {
	return Light{Position: mgl32.Vec3{0, 10, 10}, Intensity: 1, Ambient: 0.5}
}

// Shade scales base by ambient + intensity * max(0, n·l), capped at 1.
func (l Light) Shade(base color.RGBA, normal mgl32.Vec3) color.RGBA {
	diffuse := max(0, normal.Normalize().Dot(l.Position.Normalize()))
	k := min(1, l.Ambient+l.Intensity*diffuse)
	return color.RGBA{
		R: uint8(float32(base.R) * k),
		G: uint8(float32(base.G) * k),
		B: uint8(float32(base.B) * k),
		A: base.A,
	}
}

// ShadowOnPlane projects the footprint of a cube onto the horizontal plane y
// along the light direction. ok is false when the cube is below the plane.
func (l Light) ShadowOnPlane(box Box, y float32) (corners [4]mgl32.Vec3, ok bool) {
	bottom := box.Center.Y() - box.Half.Y()
	height := bottom - y
	if height < -box.Half.Y()*2 {
		return corners, false
	}

	dir := l.Position.Normalize().Mul(-1)
	shift := mgl32.Vec3{}
	if dir.Y() < 0 && height > 0 {
		t := height / -dir.Y()
		shift = mgl32.Vec3{dir.X() * t, 0, dir.Z() * t}
	}

	x0, x1 := box.Center.X()-box.Half.X(), box.Center.X()+box.Half.X()
	z0, z1 := box.Center.Z()-box.Half.Z(), box.Center.Z()+box.Half.Z()
	corners = [4]mgl32.Vec3{
		mgl32.Vec3{x0, y, z1}.Add(shift),
		mgl32.Vec3{x1, y, z1}.Add(shift),
		mgl32.Vec3{x1, y, z0}.Add(shift),
		mgl32.Vec3{x0, y, z0}.Add(shift),
	}
	return corners, true
}

// Darken scales a color towards black by k in [0, 1].
func Darken(c color.RGBA, k float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * (1 - k)),
		G: uint8(float32(c.G) * (1 - k)),
		B: uint8(float32(c.B) * (1 - k)),
		A: c.A,
	}
}
