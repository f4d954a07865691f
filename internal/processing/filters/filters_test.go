package filters

import (
	"errors"
	"testing"

	"dungeon-art-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingOps records which backend operation ran and can be told to fail.
type recordingOps struct {
	called     []string
	blurRadius float64
	fail       error
	panicMsg   string
}

func (r *recordingOps) run(name string, buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	r.called = append(r.called, name)
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	if r.fail != nil {
		return nil, r.fail
	}
	return models.NewUniformBuffer(buf.Width(), buf.Height(), 42, 42, 42)
}

func (r *recordingOps) Name() string { return "recording" }

func (r *recordingOps) Invert(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return r.run("invert", buf)
}

func (r *recordingOps) GaussianBlur(buf *models.PixelBuffer, radius float64) (*models.PixelBuffer, error) {
	r.blurRadius = radius
	return r.run("blur", buf)
}

func (r *recordingOps) Contour(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return r.run("contour", buf)
}

func (r *recordingOps) Grayscale(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return r.run("grayscale", buf)
}

func (r *recordingOps) Resample(buf *models.PixelBuffer, _, _ int, _ models.ResampleMode) (*models.PixelBuffer, error) {
	return r.run("resample", buf)
}

func rgb(t *testing.T, values ...uint8) *models.PixelBuffer {
	t.Helper()
	buf, err := models.NewPixelBuffer(len(values)/3, 1, 3, values)
	require.NoError(t, err)
	return buf
}

func TestSepiaWhiteSaturates(t *testing.T) {
	out, err := Sepia(rgb(t, 255, 255, 255))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255, 255}, out.Pix())
}

func TestSepiaMatrix(t *testing.T) {
	out, err := Sepia(rgb(t, 100, 50, 20, 0, 0, 0))
	require.NoError(t, err)

	// 0.393*100 + 0.769*50 + 0.189*20 = 81.53
	// 0.349*100 + 0.686*50 + 0.168*20 = 72.56
	// 0.272*100 + 0.534*50 + 0.131*20 = 56.52
	assert.Equal(t, []uint8{81, 72, 56, 0, 0, 0}, out.Pix())
}

func TestSepiaExpandsGray(t *testing.T) {
	gray, err := models.NewPixelBuffer(1, 1, 1, []uint8{100})
	require.NoError(t, err)

	out, err := Sepia(gray)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Channels())
	// Row sums: 1.351, 1.203, 0.937.
	assert.Equal(t, []uint8{135, 120, 93}, out.Pix())
}

func TestSelectorRoutesExternalFilters(t *testing.T) {
	tests := []struct {
		kind models.FilterKind
		call string
	}{
		{models.FilterInvert, "invert"},
		{models.FilterBlur, "blur"},
		{models.FilterContour, "contour"},
		{models.FilterGrayscale, "grayscale"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			ops := &recordingOps{}
			out, err := NewSelector(ops).Apply(rgb(t, 1, 2, 3), tt.kind)

			require.NoError(t, err)
			assert.Equal(t, []string{tt.call}, ops.called)
			assert.Equal(t, uint8(42), out.At(0, 0, 0))
		})
	}
}

func TestSelectorBlurRadius(t *testing.T) {
	ops := &recordingOps{}
	_, err := NewSelector(ops).Apply(rgb(t, 1, 2, 3), models.FilterBlur)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ops.blurRadius)
}

func TestSelectorInProcessFilters(t *testing.T) {
	ops := &recordingOps{}
	selector := NewSelector(ops)
	input := rgb(t, 255, 255, 255, 0, 0, 0)

	fs, err := selector.Apply(input, models.FilterFloydSteinberg)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0}, fs.Pix())

	pattern, err := selector.Apply(input, models.FilterPatternDither)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0}, pattern.Pix())

	sepia, err := selector.Apply(input, models.FilterSepia)
	require.NoError(t, err)
	assert.Equal(t, 3, sepia.Channels())

	assert.Empty(t, ops.called)
}

func TestSelectorUnknownFilterPassesThrough(t *testing.T) {
	input := rgb(t, 9, 8, 7)
	selector := NewSelector(&recordingOps{})

	for _, kind := range []models.FilterKind{models.FilterNone, models.FilterKind(99)} {
		out, err := selector.Apply(input, kind)
		require.NoError(t, err)
		assert.Same(t, input, out)
	}
}

func TestSelectorFailureKeepsInput(t *testing.T) {
	input := rgb(t, 9, 8, 7)

	out, err := NewSelector(&recordingOps{fail: errors.New("kernel error")}).Apply(input, models.FilterContour)
	assert.Same(t, input, out)

	var procErr *models.ProcessingError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "filter:Contour", procErr.Stage)
}

func TestSelectorPanicKeepsInput(t *testing.T) {
	input := rgb(t, 9, 8, 7)

	out, err := NewSelector(&recordingOps{panicMsg: "bad shape"}).Apply(input, models.FilterInvert)
	assert.Same(t, input, out)
	assert.ErrorContains(t, err, "bad shape")
}

func TestSelectorWithoutBackend(t *testing.T) {
	input := rgb(t, 9, 8, 7)

	out, err := NewSelector(nil).Apply(input, models.FilterBlur)
	assert.Same(t, input, out)
	assert.Error(t, err)

	sepia, err := NewSelector(nil).Apply(input, models.FilterSepia)
	require.NoError(t, err)
	assert.NotSame(t, input, sepia)
}

func TestSelectorNames(t *testing.T) {
	assert.Len(t, NewSelector(nil).Names(), 7)
}
