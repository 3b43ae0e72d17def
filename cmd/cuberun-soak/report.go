package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"
)

type SessionResult struct {
	Seed   uint64
	Frames int64
	Ended  bool
	Spawns int
}

type Report struct {
	// Configuration
	Session        string
	Duration       time.Duration
	Sessions       int
	MaxFrames      int64
	Seed           uint64
	Autopilot      bool
	CollisionMode  string
	GCPauseMetrics bool

	// Results
	Results       []SessionResult
	Collisions    int
	TotalFrames   int64
	Survival      FrameStats
	TotalTime     time.Duration
	UpdateTime    Stats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Add(sample time.Duration) {
	s.Samples = append(s.Samples, sample)
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// FrameStats summarizes how many frames sessions lasted.
type FrameStats struct {
	Min int64
	Max int64
	Avg float64
}

func (r *Report) Finalize() {
	r.UpdateTime.Finalize()

	r.Collisions = 0
	r.TotalFrames = 0
	r.Survival = FrameStats{}
	for i, res := range r.Results {
		if res.Ended {
			r.Collisions++
		}
		r.TotalFrames += res.Frames
		if i == 0 || res.Frames < r.Survival.Min {
			r.Survival.Min = res.Frames
		}
		r.Survival.Max = max(r.Survival.Max, res.Frames)
	}
	if len(r.Results) > 0 {
		r.Survival.Avg = float64(r.TotalFrames) / float64(len(r.Results))
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# cuberun Soak Report

## Configuration
- **Session:** {{.Session}}
- **Duration Limit:** {{.Duration}}
- **Sessions Requested:** {{.Sessions}}
- **Frame Cap:** {{if .MaxFrames}}{{.MaxFrames}}{{else}}none{{end}}
- **First Seed:** {{.Seed}}
- **Autopilot:** {{.Autopilot}}
- **Collision Mode:** {{.CollisionMode}}

## Sessions
| seed | frames | seconds | spawns | outcome |
|---|---|---|---|---|
{{- range .Results}}
| {{.Seed}} | {{.Frames}} | {{seconds .Frames}} | {{.Spawns}} | {{if .Ended}}collision{{else}}survived{{end}} |
{{- end}}

## Survival
- **Played:** {{len .Results}} ({{.Collisions}} ended by collision)
- **Frames:** min {{.Survival.Min}}, avg {{printf "%.1f" .Survival.Avg}}, max {{.Survival.Max}}
- **Total Frames:** {{.TotalFrames}} in {{.TotalTime}}

## Tick Time
- **Avg:** {{.UpdateTime.Avg}}
- **Min:** {{.UpdateTime.Min}}
- **Max:** {{.UpdateTime.Max}}
- **P99:** {{.UpdateTime.P99}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}`

	fm := template.FuncMap{
		"seconds": func(frames int64) string {
			return fmt.Sprintf("%.1f", float64(frames)/60)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
