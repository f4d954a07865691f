package pipeline

import (
	"time"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/adjust"
	"dungeon-art-studio/internal/processing/filters"
)

// Renderer composes the adjustment stage and the filter selector. It holds
// no per-render state, so concurrent renders on different buffers are safe.
type Renderer struct {
	adjuster *adjust.Stage
	selector *filters.Selector
	logger   logger.Logger
	metrics  *Metrics
}

func NewRenderer(ops filters.Operations, log logger.Logger, metrics *Metrics) *Renderer {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Renderer{
		adjuster: adjust.NewStage(ops),
		selector: filters.NewSelector(ops),
		logger:   log,
		metrics:  metrics,
	}
}

// Render returns filter(adjust(buf)). Stage failures are logged and
// counted, never returned: the caller always gets an image.
func (r *Renderer) Render(buf *models.PixelBuffer, params models.ProcessingParameters) *models.PixelBuffer {
	start := time.Now()

	adjusted, err := r.adjuster.Apply(buf, params)
	r.report("adjust", err, params)

	filtered, err := r.selector.Apply(adjusted, params.Filter)
	r.report("filter", err, params)

	r.logger.Debug("RenderPipeline", "render finished", map[string]interface{}{
		"width":       buf.Width(),
		"height":      buf.Height(),
		"filter":      params.Filter.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return filtered
}

func (r *Renderer) report(phase string, err error, params models.ProcessingParameters) {
	if err == nil {
		return
	}

	failures := countFailures(err)
	r.metrics.RecordStageFailures(failures)

	fields := params.Fields()
	fields["phase"] = phase
	fields["failures"] = failures
	r.logger.Error("RenderPipeline", err, fields)
}

func countFailures(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
