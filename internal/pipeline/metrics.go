package pipeline

import (
	"sync"
	"time"

	"dungeon-art-studio/internal/models"
)

// RenderStats is a point-in-time copy of the render counters.
type RenderStats struct {
	PreviewRenders int
	FullRenders    int
	StageFailures  int
	LastPreview    time.Duration
	LastFull       time.Duration
	AveragePreview time.Duration
	AverageFull    time.Duration
}

// Fields renders the stats as logger fields.
func (s RenderStats) Fields() map[string]interface{} {
	return map[string]interface{}{
		"preview_renders": s.PreviewRenders,
		"full_renders":    s.FullRenders,
		"stage_failures":  s.StageFailures,
		"avg_preview_ms":  s.AveragePreview.Milliseconds(),
		"avg_full_ms":     s.AverageFull.Milliseconds(),
		"last_full_ms":    s.LastFull.Milliseconds(),
		"last_preview_ms": s.LastPreview.Milliseconds(),
	}
}

// Metrics collects render counts and timings. Safe for concurrent use.
type Metrics struct {
	mu           sync.Mutex
	stats        RenderStats
	previewTotal time.Duration
	fullTotal    time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordRender(kind models.RenderKind, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case models.RenderPreview:
		m.stats.PreviewRenders++
		m.stats.LastPreview = d
		m.previewTotal += d
		m.stats.AveragePreview = m.previewTotal / time.Duration(m.stats.PreviewRenders)
	case models.RenderFull:
		m.stats.FullRenders++
		m.stats.LastFull = d
		m.fullTotal += d
		m.stats.AverageFull = m.fullTotal / time.Duration(m.stats.FullRenders)
	}
}

func (m *Metrics) RecordStageFailures(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.StageFailures += n
}

func (m *Metrics) Snapshot() RenderStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
