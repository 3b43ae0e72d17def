package debugui

import "github.com/plus3/cuberun/ecs"

// SpawnDebugUI installs the Target singleton and the default debug windows.
func SpawnDebugUI(storage *ecs.Storage, target Target) {
	ecs.NewSingleton(storage, target)
	storage.Spawn(NewEntityBrowserComponent(100))
	storage.Spawn(NewPerformanceStatsComponent(120))
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
}

// RegisterSystems adds the ImGui systems to a scheduler running the debug storage.
func RegisterSystems(scheduler *ecs.Scheduler) {
	scheduler.Register(&ImguiSystem{})
	scheduler.Register(&WindowSystem{})
}
