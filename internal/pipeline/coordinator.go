package pipeline

import (
	"context"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"dungeon-art-studio/internal/debounce"
	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/filters"
)

const (
	DefaultPreviewSize   = 400
	DefaultDebounceDelay = 350 * time.Millisecond
)

// RenderCallback is told about every publish to the result slot. It runs on
// a render goroutine, never the caller's, so UI code must hop back to its
// own thread.
type RenderCallback func(kind models.RenderKind, output *models.RenderOutput)

type Options struct {
	PreviewSize   int
	DebounceDelay time.Duration
	RenderWorkers int
}

func DefaultOptions() Options {
	return Options{
		PreviewSize:   DefaultPreviewSize,
		DebounceDelay: DefaultDebounceDelay,
		RenderWorkers: runtime.NumCPU(),
	}
}

// Coordinator owns the source image, the current parameter snapshot and the
// published result. Parameter changes are debounced into a preview render
// on the timer goroutine followed by a full-resolution render on the
// worker pool. The newest publish always wins the slot.
type Coordinator struct {
	renderer  *Renderer
	resampler filters.Resampler
	loader    *ImageLoader
	saver     *ImageSaver
	metrics   *Metrics
	logger    logger.Logger

	previewSize int

	stateMu       sync.RWMutex
	source        *models.PixelBuffer
	previewSource *models.PixelBuffer
	params        models.ProcessingParameters
	onRender      RenderCallback
	closed        bool

	resultMu sync.Mutex
	result   models.RenderResult
	// generation is the sequence assigned by the latest SetSource. Outputs
	// rendered from an earlier source carry a lower sequence.
	generation uint64

	sequence  atomic.Uint64
	debouncer *debounce.Debouncer
	workers   chan struct{}
	inflight  sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewCoordinator(ops filters.Operations, opts Options, log logger.Logger) *Coordinator {
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = DefaultPreviewSize
	}
	if opts.DebounceDelay < 0 {
		opts.DebounceDelay = DefaultDebounceDelay
	}
	if opts.RenderWorkers <= 0 {
		opts.RenderWorkers = runtime.NumCPU()
	}

	workers := make(chan struct{}, opts.RenderWorkers)
	for i := 0; i < opts.RenderWorkers; i++ {
		workers <- struct{}{}
	}

	metrics := NewMetrics()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		renderer:    NewRenderer(ops, log, metrics),
		resampler:   ops,
		loader:      NewImageLoader(log),
		saver:       NewImageSaver(log),
		metrics:     metrics,
		logger:      log,
		previewSize: opts.PreviewSize,
		params:      models.DefaultParameters(),
		workers:     workers,
		ctx:         ctx,
		cancel:      cancel,
	}
	c.debouncer = debounce.New(opts.DebounceDelay, c.render)

	return c
}

func (c *Coordinator) SetRenderCallback(fn RenderCallback) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.onRender = fn
}

// LoadImage decodes path and makes it the source. A failed decode leaves
// all state untouched.
func (c *Coordinator) LoadImage(path string) (*models.PixelBuffer, error) {
	buf, err := c.loader.LoadFile(path)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{"path": path})
		return nil, err
	}
	c.SetSource(buf)
	return buf, nil
}

func (c *Coordinator) LoadFromReader(r io.Reader, name string) (*models.PixelBuffer, error) {
	buf, err := c.loader.LoadFromReader(r, name)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{"path": name})
		return nil, err
	}
	c.SetSource(buf)
	return buf, nil
}

// SetSource replaces the source image. The full slot starts out holding the
// unprocessed source so it can be saved before any render has run.
func (c *Coordinator) SetSource(buf *models.PixelBuffer) {
	previewSource := c.previewOf(buf)

	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return
	}
	c.source = buf
	c.previewSource = previewSource
	seq := c.sequence.Add(1)

	c.resultMu.Lock()
	c.generation = seq
	c.result = models.RenderResult{
		Full: &models.RenderOutput{Buffer: buf, Parameters: c.params, Sequence: seq},
	}
	c.resultMu.Unlock()
	c.stateMu.Unlock()

	fields := buf.Stats().Fields()
	fields["preview_width"] = previewSource.Width()
	fields["preview_height"] = previewSource.Height()
	c.logger.Info("Coordinator", "source image set", fields)
}

// previewOf fits buf inside a previewSize square, keeping its aspect ratio.
// Images that already fit are used as is.
func (c *Coordinator) previewOf(buf *models.PixelBuffer) *models.PixelBuffer {
	width, height := PreviewDimensions(buf.Width(), buf.Height(), c.previewSize)
	if c.resampler == nil || (width == buf.Width() && height == buf.Height()) {
		return buf
	}

	preview, err := c.resampler.Resample(buf, width, height, models.ResampleHighQuality)
	if err != nil {
		c.logger.Warning("Coordinator", "preview downscale failed, using full image", map[string]interface{}{
			"error": err.Error(),
		})
		return buf
	}
	return preview
}

// PreviewDimensions scales (width, height) down to fit within a bound x
// bound box. Neither side drops below one pixel.
func PreviewDimensions(width, height, bound int) (int, int) {
	if width <= bound && height <= bound {
		return width, height
	}

	if width >= height {
		return bound, max(1, height*bound/width)
	}
	return max(1, width*bound/height), bound
}

// OnParameterChanged stores the new snapshot and, when an image is loaded,
// restarts the debounce countdown.
func (c *Coordinator) OnParameterChanged(params models.ProcessingParameters) {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return
	}
	c.params = params
	loaded := c.source != nil
	c.stateMu.Unlock()

	if loaded {
		c.debouncer.Trigger()
	}
}

// ApplyNow skips the debounce and renders on the caller's goroutine. The
// full-resolution render still goes to the pool.
func (c *Coordinator) ApplyNow() {
	c.debouncer.Cancel()
	c.render()
}

// Flush runs a pending debounced render on the caller's goroutine.
func (c *Coordinator) Flush() bool {
	return c.debouncer.Flush()
}

func (c *Coordinator) render() {
	// The sequence is taken together with the source so it always sorts
	// before the generation of any later SetSource.
	c.stateMu.RLock()
	source, previewSource, params, closed := c.source, c.previewSource, c.params, c.closed
	var seq uint64
	if !closed && source != nil {
		seq = c.sequence.Add(1)
	}
	c.stateMu.RUnlock()

	if closed || source == nil {
		return
	}

	params = params.Clamped()

	start := time.Now()
	preview := c.renderer.Render(previewSource, params)
	c.publish(models.RenderPreview, &models.RenderOutput{
		Buffer:     preview,
		Parameters: params,
		Sequence:   seq,
		Duration:   time.Since(start),
	})

	c.dispatchFull(source, params, seq)
}

func (c *Coordinator) dispatchFull(source *models.PixelBuffer, params models.ProcessingParameters, seq uint64) {
	c.stateMu.RLock()
	if c.closed {
		c.stateMu.RUnlock()
		return
	}
	c.inflight.Add(1)
	c.stateMu.RUnlock()

	go func() {
		defer c.inflight.Done()

		select {
		case <-c.workers:
			defer func() { c.workers <- struct{}{} }()
		case <-c.ctx.Done():
			return
		}

		start := time.Now()
		full := c.renderer.Render(source, params)
		c.publish(models.RenderFull, &models.RenderOutput{
			Buffer:     full,
			Parameters: params,
			Sequence:   seq,
			Duration:   time.Since(start),
		})
	}()
}

// publish holds the result lock only for the slot write. Outputs of a
// source that has since been replaced are dropped without a callback.
func (c *Coordinator) publish(kind models.RenderKind, output *models.RenderOutput) {
	c.resultMu.Lock()
	if output.Sequence < c.generation {
		generation := c.generation
		c.resultMu.Unlock()

		c.logger.Debug("Coordinator", "stale render dropped", map[string]interface{}{
			"kind":       kind.String(),
			"sequence":   output.Sequence,
			"generation": generation,
		})
		return
	}
	if kind == models.RenderPreview {
		c.result.Preview = output
	} else {
		c.result.Full = output
	}
	c.resultMu.Unlock()

	c.metrics.RecordRender(kind, output.Duration)

	c.logger.Debug("Coordinator", "render published", map[string]interface{}{
		"kind":        kind.String(),
		"sequence":    output.Sequence,
		"width":       output.Buffer.Width(),
		"height":      output.Buffer.Height(),
		"duration_ms": output.Duration.Milliseconds(),
	})

	c.stateMu.RLock()
	callback := c.onRender
	c.stateMu.RUnlock()

	if callback != nil {
		callback(kind, output)
	}
}

// Result returns the published pair. Both entries are immutable.
func (c *Coordinator) Result() models.RenderResult {
	c.resultMu.Lock()
	defer c.resultMu.Unlock()
	return c.result
}

func (c *Coordinator) Parameters() models.ProcessingParameters {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.params
}

func (c *Coordinator) Source() *models.PixelBuffer {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.source
}

// SaveImage writes the current full-resolution result to path and returns
// the path actually written.
func (c *Coordinator) SaveImage(path string) (string, error) {
	full := c.Result().FullBuffer()
	if full == nil {
		return "", models.ErrNoImageLoaded
	}
	return c.saver.SaveFile(path, full)
}

// Export encodes the current full-resolution result to w.
func (c *Coordinator) Export(w io.Writer, format string) error {
	full := c.Result().FullBuffer()
	if full == nil {
		return models.ErrNoImageLoaded
	}
	if err := c.saver.Encode(w, full, format); err != nil {
		return models.NewEncodeError("", format, err)
	}
	return nil
}

func (c *Coordinator) Stats() RenderStats {
	return c.metrics.Snapshot()
}

// Wait blocks until every dispatched full-resolution render has finished.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// Shutdown drops pending work, refuses new work and waits for running
// renders to publish.
func (c *Coordinator) Shutdown() {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return
	}
	c.closed = true
	c.stateMu.Unlock()

	c.debouncer.Stop()
	c.cancel()
	c.inflight.Wait()

	c.logger.Info("Coordinator", "coordinator stopped", c.Stats().Fields())
}
