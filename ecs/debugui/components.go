package debugui

import (
	"github.com/plus3/cuberun/ecs"
)

type EntityBrowserComponent struct {
	entities           []EntityInfo
	selectedEntityId   ecs.EntityId
	hasSelection       bool
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type PerformanceStatsComponent struct {
	timer         *FrameTimer
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
