// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cuberun/ecs"
	"github.com/plus3/cuberun/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay owns a debug storage holding ImGui windows and the scheduler
// that renders them. It is driven from a host game's Update, Draw and Layout.
type Overlay struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	backend *ecs.Singleton[ImguiBackend]
	input   *ecs.Singleton[debugui.ImguiInputState]
}

// NewOverlay creates the ImGui window and a debug storage inspecting target.
func NewOverlay(title string, width, height int, target debugui.Target) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)

	storage := ecs.NewStorage(registry)
	debugui.SpawnDebugUI(storage, target)

	scheduler := ecs.NewScheduler(storage)
	debugui.RegisterSystems(scheduler)

	return &Overlay{
		Storage:   storage,
		Scheduler: scheduler,
		backend:   ecs.NewSingleton(storage, ImguiBackend{EbitenBackend: backend}),
		input:     ecs.NewSingleton[debugui.ImguiInputState](storage),
	}
}

// Add spawns a window rendered every frame.
func (o *Overlay) Add(render func()) ecs.EntityId {
	return o.Storage.Spawn(debugui.ImguiItem{Render: render})
}

// Update builds one ImGui frame.
func (o *Overlay) Update() {
	o.backend.Get().BeginFrame()
	o.Scheduler.Once(1.0 / 60.0)
	o.backend.Get().EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Get().Draw(screen)
}

func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.Get().Layout(outsideWidth, outsideHeight)
}

// WantsKeyboard reports whether ImGui consumed keyboard input last frame.
func (o *Overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}
