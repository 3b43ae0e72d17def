// Package scene draws the game world with ebiten: a perspective camera, flat
// shaded cubes under a directional light, the lane with cube shadows and a
// starfield backdrop. Host keeps the render side table keyed by entity ID.
package scene

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/kamstrup/intmap"
	"github.com/plus3/cuberun/ecs"
	"github.com/plus3/cuberun/runner"
)

const (
	laneHeight   = 0.5
	skyTileSize  = 512
	shadowAlpha  = 0.45
	outlineShade = 0.35
)

type node struct {
	id   ecs.EntityId
	mesh runner.Mesh
	slot int
}

// DrawItem is one cube ready to be drawn.
type DrawItem struct {
	Id    ecs.EntityId
	Box   Box
	Mesh  runner.Mesh
	Depth float32 // distance from the eye
}

// Host implements runner.Scene and draws the registered entities.
type Host struct {
	Camera *Camera
	Light  Light
	Lane   Box

	laneColor color.RGBA
	nodes     *intmap.Map[ecs.EntityId, *node]
	order     []*node
	items     []DrawItem

	sky      *image.RGBA
	skyImage *ebiten.Image
	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewHost prepares a scene for a surface of the given size using the lane
// geometry and colors in cfg.
func NewHost(cfg runner.Config, width, height int, seed uint64) (*Host, error) {
	laneColor, err := runner.ParseColor(cfg.Colors.Lane)
	if err != nil {
		return nil, err
	}

	return &Host{
		Camera: NewCamera(width, height),
		Light:  DefaultLight(),
		Lane: Box{
			Center: mgl32.Vec3{0, float32(cfg.World.GroundLevel), 0},
			Half:   mgl32.Vec3{float32(cfg.World.LaneWidth) / 2, laneHeight / 2, float32(cfg.World.LaneLength) / 2},
		},
		laneColor: laneColor,
		nodes:     intmap.New[ecs.EntityId, *node](64),
		sky:       Starfield(skyTileSize, skyTileSize, seed),
	}, nil
}

func (h *Host) Add(id ecs.EntityId, mesh runner.Mesh) {
	if n, ok := h.nodes.Get(id); ok {
		n.mesh = mesh
		return
	}
	n := &node{id: id, mesh: mesh, slot: len(h.order)}
	h.nodes.Put(id, n)
	h.order = append(h.order, n)
}

func (h *Host) Remove(id ecs.EntityId) {
	n, ok := h.nodes.Get(id)
	if !ok {
		return
	}
	h.nodes.Del(id)

	last := h.order[len(h.order)-1]
	h.order[n.slot] = last
	last.slot = n.slot
	h.order[len(h.order)-1] = nil
	h.order = h.order[:len(h.order)-1]
}

// Len returns the number of registered render nodes.
func (h *Host) Len() int {
	return len(h.order)
}

func (h *Host) Mesh(id ecs.EntityId) (runner.Mesh, bool) {
	n, ok := h.nodes.Get(id)
	if !ok {
		return runner.Mesh{}, false
	}
	return n.mesh, true
}

// Layout keeps the camera aspect and surface size in step with the window.
func (h *Host) Layout(width, height int) {
	h.Camera.Resize(width, height)
}

// Collect resolves every node's position in storage and returns the cubes
// sorted back to front. Nodes whose entity no longer has a Position are skipped.
func (h *Host) Collect(storage ecs.ComponentReader) []DrawItem {
	h.items = h.items[:0]
	for _, n := range h.order {
		pos := ecs.ReadComponent[runner.Position](storage, n.id)
		if pos == nil {
			continue
		}
		center := mgl32.Vec3{float32(pos.X), float32(pos.Y), float32(pos.Z)}
		h.items = append(h.items, DrawItem{
			Id:    n.id,
			Box:   Cube(center, float32(n.mesh.HalfExtent)),
			Mesh:  n.mesh,
			Depth: center.Sub(h.Camera.Eye).Len(),
		})
	}

	slices.SortFunc(h.items, func(a, b DrawItem) int {
		if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return h.items
}

// Draw renders the backdrop, the lane, shadows and cubes of world onto screen.
func (h *Host) Draw(screen *ebiten.Image, world *runner.World) {
	if h.white == nil {
		h.white = ebiten.NewImage(3, 3)
		h.white.Fill(color.White)
		h.skyImage = ebiten.NewImageFromImage(h.sky)
	}

	h.drawSky(screen)

	top := h.Lane.Max().Y()
	for _, face := range h.Lane.FacingFaces(h.Camera.Eye) {
		h.fillPolygon(screen, face.Corners[:], h.Light.Shade(h.laneColor, face.Normal))
	}

	items := h.Collect(world.Storage)
	shadow := Darken(h.Light.Shade(h.laneColor, mgl32.Vec3{0, 1, 0}), shadowAlpha)
	for _, item := range items {
		if !item.Mesh.CastShadow || !h.overLane(item.Box) {
			continue
		}
		if corners, ok := h.Light.ShadowOnPlane(item.Box, top+0.001); ok {
			h.fillPolygon(screen, corners[:], shadow)
		}
	}

	for _, item := range items {
		for _, face := range item.Box.FacingFaces(h.Camera.Eye) {
			h.fillPolygon(screen, face.Corners[:], h.Light.Shade(item.Mesh.Color, face.Normal))
			h.strokePolygon(screen, face.Corners[:], Darken(item.Mesh.Color, 1-outlineShade))
		}
	}
}

func (h *Host) overLane(box Box) bool {
	lo, hi := h.Lane.Min(), h.Lane.Max()
	c := box.Center
	return c.X() >= lo.X() && c.X() <= hi.X() && c.Z() >= lo.Z() && c.Z() <= hi.Z()
}

// drawSky tiles the starfield 2x2 across the surface.
func (h *Host) drawSky(screen *ebiten.Image) {
	w, ht := screen.Bounds().Dx(), screen.Bounds().Dy()
	sx := float64(w) / 2 / skyTileSize
	sy := float64(ht) / 2 / skyTileSize
	for i := range 2 {
		for j := range 2 {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(sx, sy)
			op.GeoM.Translate(float64(i*w)/2, float64(j*ht)/2)
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(h.skyImage, op)
		}
	}
}

// screenPolygon clips a world-space polygon at the near plane and projects it.
func (h *Host) screenPolygon(poly []mgl32.Vec3) []mgl32.Vec2 {
	view := make([]mgl32.Vec3, len(poly))
	for i, p := range poly {
		view[i] = h.Camera.ToView(p)
	}
	view = h.Camera.ClipNear(view)

	points := make([]mgl32.Vec2, len(view))
	for i, v := range view {
		points[i] = h.Camera.ViewToScreen(v)
	}
	return points
}

func (h *Host) fillPolygon(dst *ebiten.Image, poly []mgl32.Vec3, clr color.RGBA) {
	points := h.screenPolygon(poly)
	if len(points) < 3 {
		return
	}

	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	h.vertices = h.vertices[:0]
	h.indices = h.indices[:0]
	for _, p := range points {
		h.vertices = append(h.vertices, ebiten.Vertex{
			DstX: p.X(), DstY: p.Y(),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for i := 1; i+1 < len(points); i++ {
		h.indices = append(h.indices, 0, uint16(i), uint16(i+1))
	}

	dst.DrawTriangles(h.vertices, h.indices, h.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image), &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

func (h *Host) strokePolygon(dst *ebiten.Image, poly []mgl32.Vec3, clr color.RGBA) {
	points := h.screenPolygon(poly)
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		vector.StrokeLine(dst, a.X(), a.Y(), b.X(), b.Y(), 1, clr, true)
	}
}
