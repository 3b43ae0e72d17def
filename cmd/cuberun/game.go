package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	debugui_ebiten "github.com/plus3/cuberun/ecs/debugui/ebiten"
	"github.com/plus3/cuberun/runner"
	"github.com/plus3/cuberun/scene"
	"github.com/plus3/cuberun/sound"
	"github.com/rs/zerolog"
)

var keyBindings = []struct {
	key ebiten.Key
	run runner.Key
}{
	{ebiten.KeyA, runner.KeyLeft},
	{ebiten.KeyD, runner.KeyRight},
	{ebiten.KeyW, runner.KeyForward},
	{ebiten.KeyS, runner.KeyBackward},
	{ebiten.KeySpace, runner.KeyJump},
}

var bannerColor = color.RGBA{0, 0, 0, 0xc0}

// Game adapts a runner.World to ebiten.Game.
type Game struct {
	world   *runner.World
	loop    *runner.Loop
	host    *scene.Host
	sound   *sound.Player
	overlay *debugui_ebiten.Overlay
	log     zerolog.Logger

	result *runner.Result
}

func (g *Game) Update() error {
	if g.overlay != nil {
		g.overlay.Update()
	}

	if g.result != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		return nil
	}

	g.pollKeys()
	g.loop.Tick()
	return nil
}

// pollKeys queues this tick's key transitions. Presses are dropped while the
// overlay has keyboard focus; releases always go through so no key sticks.
func (g *Game) pollKeys() {
	captured := g.overlay != nil && g.overlay.WantsKeyboard()
	input := g.world.Input()
	for _, binding := range keyBindings {
		if !captured && inpututil.IsKeyJustPressed(binding.key) {
			input.Push(binding.run, true)
		}
		if inpututil.IsKeyJustReleased(binding.key) {
			input.Push(binding.run, false)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.host.Draw(screen, g.world)

	spawn := g.world.Spawner()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frames %d  interval %d  enemies %d",
		g.world.Frames(), spawn.Interval, len(g.world.Enemies())), 8, 8)

	if g.result != nil {
		g.drawBanner(screen)
	}

	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) drawBanner(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	const bw, bh = 240, 64
	x, y := float32(w-bw)/2, float32(h-bh)/2
	vector.DrawFilledRect(screen, x, y, bw, bh, bannerColor, false)
	ebitenutil.DebugPrintAt(screen, "Game Over!", int(x)+84, int(y)+14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("survived %d frames", g.result.Frames), int(x)+56, int(y)+30)
	ebitenutil.DebugPrintAt(screen, "press Enter to quit", int(x)+56, int(y)+46)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.host.Layout(outsideWidth, outsideHeight)
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// GameOver freezes the game on its final frame and plays the jingle.
func (g *Game) GameOver(result runner.Result) {
	g.result = &result
	g.log.Info().
		Int64("frames", result.Frames).
		Int("spawns", result.Spawns).
		Float64("player_x", result.Player.X).
		Float64("enemy_z", result.Enemy.Z).
		Msg("game over")
	if g.sound != nil {
		g.sound.GameOver()
	}
}
