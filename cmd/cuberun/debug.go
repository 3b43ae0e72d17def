package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cuberun/runner"
)

// runnerPanel renders the live state of world in an ImGui window.
func runnerPanel(world *runner.World) func() {
	return func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 30), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(280, 220), imgui.CondOnce)

		if !imgui.BeginV("Runner", nil, 0) {
			imgui.End()
			return
		}

		status := world.Status()
		pos, body := world.PlayerState()
		keys := world.Keys()
		spawn := world.Spawner()

		imgui.Text(fmt.Sprintf("Status: %s", status.State))
		if status.State == runner.Ended {
			imgui.Text(fmt.Sprintf("Ended at frame %d by %d", status.EndedAtFrame, status.Collider))
		}
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Player: (%.2f, %.2f, %.2f)", pos.X, pos.Y, pos.Z))
		imgui.Text(fmt.Sprintf("Velocity Y: %.3f", body.VelocityY))
		imgui.Text(fmt.Sprintf("Keys: L=%t R=%t F=%t B=%t", keys.Left, keys.Right, keys.Forward, keys.Backward))
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Frame: %d", world.Frames()))
		imgui.Text(fmt.Sprintf("Spawn interval: %d", spawn.Interval))
		imgui.Text(fmt.Sprintf("Spawned: %d  Alive: %d", spawn.Spawned, len(world.Enemies())))

		imgui.End()
	}
}
