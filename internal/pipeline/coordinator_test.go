package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/ops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T, delay time.Duration) *Coordinator {
	t.Helper()
	c := NewCoordinator(ops.NewImaging(), Options{
		PreviewSize:   32,
		DebounceDelay: delay,
		RenderWorkers: 2,
	}, logger.NewNop())
	t.Cleanup(c.Shutdown)
	return c
}

type event struct {
	kind models.RenderKind
	seq  uint64
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) record(kind models.RenderKind, out *models.RenderOutput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind: kind, seq: out.Sequence})
}

func (r *recorder) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

// gatedOps holds every Invert until release is closed and reports the first
// call on entered.
type gatedOps struct {
	*ops.Imaging
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedOps() *gatedOps {
	return &gatedOps{
		Imaging: ops.NewImaging(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedOps) Invert(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.Imaging.Invert(buf)
}

func TestPreviewDimensions(t *testing.T) {
	tests := []struct {
		w, h, bound int
		wantW       int
		wantH       int
	}{
		{100, 50, 400, 100, 50},
		{800, 400, 400, 400, 200},
		{400, 800, 400, 200, 400},
		{1000, 1, 400, 400, 1},
		{400, 400, 400, 400, 400},
	}

	for _, tt := range tests {
		w, h := PreviewDimensions(tt.w, tt.h, tt.bound)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}

func TestSaveWithoutImage(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)

	_, err := c.SaveImage(filepath.Join(t.TempDir(), "out.png"))
	assert.ErrorIs(t, err, models.ErrNoImageLoaded)
}

func TestSaveBeforeRenderWritesSource(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	src := gradient(t, 20, 10)
	c.SetSource(src)

	path, err := c.SaveImage(filepath.Join(t.TempDir(), "copy"))
	require.NoError(t, err)

	loaded, err := NewImageLoader(logger.NewNop()).LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(src))
}

func TestParameterChangeWithoutImage(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	params := models.DefaultParameters()
	params.Brightness = 2

	c.OnParameterChanged(params)

	assert.False(t, c.Flush())
	assert.Equal(t, params, c.Parameters())
	assert.Nil(t, c.Result().PreviewBuffer())
}

func TestPreviewThenFull(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	rec := &recorder{}
	c.SetRenderCallback(rec.record)

	src := gradient(t, 96, 48)
	c.SetSource(src)

	params := models.DefaultParameters()
	params.Filter = models.FilterPatternDither
	c.OnParameterChanged(params)
	require.True(t, c.Flush())
	c.Wait()

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, models.RenderPreview, events[0].kind)
	assert.Equal(t, models.RenderFull, events[1].kind)
	assert.Equal(t, events[0].seq, events[1].seq)

	result := c.Result()
	require.NotNil(t, result.Preview)
	require.NotNil(t, result.Full)
	assert.Equal(t, 32, result.Preview.Buffer.Width())
	assert.Equal(t, 16, result.Preview.Buffer.Height())
	assert.Equal(t, src.Width(), result.Full.Buffer.Width())
	assert.Equal(t, params, result.Full.Parameters)

	want := NewRenderer(ops.NewImaging(), logger.NewNop(), nil).Render(src, params)
	assert.True(t, result.Full.Buffer.Equal(want))
}

func TestDebounceCoalescesBurst(t *testing.T) {
	c := newTestCoordinator(t, 30*time.Millisecond)
	c.SetSource(gradient(t, 16, 16))

	params := models.DefaultParameters()
	for i := 0; i < 5; i++ {
		params.Brightness = 1 + float64(i)*0.1
		c.OnParameterChanged(params)
	}

	require.Eventually(t, func() bool {
		return c.Stats().FullRenders == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(80 * time.Millisecond)
	stats := c.Stats()
	assert.Equal(t, 1, stats.PreviewRenders)
	assert.Equal(t, 1, stats.FullRenders)
	assert.InDelta(t, 1.4, c.Result().Full.Parameters.Brightness, 1e-9)
}

func TestApplyNowCancelsPending(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	c.SetSource(gradient(t, 16, 16))

	c.OnParameterChanged(models.DefaultParameters())
	c.ApplyNow()
	c.Wait()

	assert.False(t, c.Flush())
	assert.Equal(t, 1, c.Stats().PreviewRenders)
	assert.NotNil(t, c.Result().PreviewBuffer())
}

func TestConcurrentRendersPublishWholeOutputs(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	c.SetSource(gradient(t, 40, 40))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			params := models.DefaultParameters()
			params.Filter = models.SelectableFilters[i%len(models.SelectableFilters)]
			c.OnParameterChanged(params)
			c.ApplyNow()
		}(i)
	}

	readers := make(chan struct{})
	go func() {
		defer close(readers)
		for i := 0; i < 200; i++ {
			result := c.Result()
			if result.Preview != nil {
				assert.NotNil(t, result.Preview.Buffer)
				assert.Equal(t, 32, result.Preview.Buffer.Width())
			}
			if result.Full != nil {
				assert.Equal(t, 40, result.Full.Buffer.Width())
			}
		}
	}()

	wg.Wait()
	<-readers
	c.Wait()

	stats := c.Stats()
	assert.Equal(t, 8, stats.PreviewRenders)
	assert.Equal(t, 8, stats.FullRenders)
}

func TestLoadFailureKeepsState(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	src := gradient(t, 4, 4)
	c.SetSource(src)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	_, err := c.LoadImage(bad)

	var decodeErr *models.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Same(t, src, c.Source())
	assert.Same(t, src, c.Result().FullBuffer())
}

func TestLoadResetsResult(t *testing.T) {
	c := newTestCoordinator(t, time.Hour)
	c.SetSource(gradient(t, 8, 8))
	c.ApplyNow()
	c.Wait()
	require.NotNil(t, c.Result().Preview)

	path, err := NewImageSaver(logger.NewNop()).SaveFile(filepath.Join(t.TempDir(), "next.png"), gradient(t, 6, 3))
	require.NoError(t, err)

	loaded, err := c.LoadImage(path)
	require.NoError(t, err)

	result := c.Result()
	assert.Nil(t, result.Preview)
	assert.Same(t, loaded, result.FullBuffer())
}

func TestShutdownStopsRendering(t *testing.T) {
	c := newTestCoordinator(t, 10*time.Millisecond)
	c.SetSource(gradient(t, 8, 8))
	c.Shutdown()

	c.OnParameterChanged(models.DefaultParameters())
	c.ApplyNow()
	time.Sleep(40 * time.Millisecond)

	assert.Zero(t, c.Stats().PreviewRenders)
}

func TestRenderOfReplacedSourceIsDropped(t *testing.T) {
	gate := newGatedOps()
	c := NewCoordinator(gate, Options{
		PreviewSize:   32,
		DebounceDelay: time.Hour,
		RenderWorkers: 2,
	}, logger.NewNop())
	t.Cleanup(c.Shutdown)

	rec := &recorder{}
	c.SetRenderCallback(rec.record)

	first := gradient(t, 100, 100)
	c.SetSource(first)

	params := models.DefaultParameters()
	params.Filter = models.FilterInvert
	c.OnParameterChanged(params)

	applied := make(chan struct{})
	go func() {
		defer close(applied)
		c.ApplyNow()
	}()

	select {
	case <-gate.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("render never started")
	}

	second := gradient(t, 50, 40)
	c.SetSource(second)
	close(gate.release)

	<-applied
	c.Wait()

	result := c.Result()
	assert.Nil(t, result.Preview)
	require.NotNil(t, result.Full)
	assert.Same(t, second, result.FullBuffer())
	assert.Equal(t, 50, result.FullBuffer().Width())
	assert.Equal(t, 40, result.FullBuffer().Height())
	assert.Empty(t, rec.snapshot())
	assert.Zero(t, c.Stats().FullRenders)

	// Renders of the new source publish normally.
	c.ApplyNow()
	c.Wait()
	assert.Equal(t, 50, c.Result().FullBuffer().Width())
	assert.Len(t, rec.snapshot(), 2)
}
