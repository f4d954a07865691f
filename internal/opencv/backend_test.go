package opencv

import (
	"testing"

	"dungeon-art-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert(t *testing.T) {
	b := NewBackend()
	src, err := models.NewPixelBuffer(2, 1, 3, []uint8{0, 10, 255, 100, 200, 50})
	require.NoError(t, err)

	out, err := b.Invert(src)
	require.NoError(t, err)

	assert.Equal(t, []uint8{255, 245, 0, 155, 55, 205}, out.Pix())
}

func TestContourOfFlatImageIsWhite(t *testing.T) {
	b := NewBackend()
	src, err := models.NewUniformBuffer(5, 5, 90, 30, 200)
	require.NoError(t, err)

	out, err := b.Contour(src)
	require.NoError(t, err)

	for _, v := range out.Pix() {
		assert.Equal(t, uint8(255), v)
	}
}

func TestGrayscaleKeepsThreeChannels(t *testing.T) {
	b := NewBackend()

	rgb, err := models.NewUniformBuffer(3, 2, 255, 0, 0)
	require.NoError(t, err)
	out, err := b.Grayscale(rgb)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Channels())
	assert.Equal(t, out.At(0, 0, 0), out.At(0, 0, 1))
	assert.Equal(t, out.At(0, 0, 1), out.At(0, 0, 2))

	gray, err := models.NewUniformBuffer(3, 2, 77)
	require.NoError(t, err)
	out, err = b.Grayscale(gray)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Channels())
	assert.Equal(t, uint8(77), out.At(2, 1, 2))
}

func TestBlur(t *testing.T) {
	b := NewBackend()
	src, err := models.NewUniformBuffer(8, 8, 120)
	require.NoError(t, err)

	same, err := b.GaussianBlur(src, 0)
	require.NoError(t, err)
	assert.Same(t, src, same)

	out, err := b.GaussianBlur(src, 5)
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
}

func TestResample(t *testing.T) {
	b := NewBackend()
	src, err := models.NewPixelBuffer(2, 1, 1, []uint8{10, 200})
	require.NoError(t, err)

	up, err := b.Resample(src, 4, 2, models.ResampleNearest)
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 10, 200, 200, 10, 10, 200, 200}, up.Pix())

	down, err := b.Resample(up, 2, 1, models.ResampleHighQuality)
	require.NoError(t, err)
	assert.Equal(t, 2, down.Width())

	_, err = b.Resample(src, 0, 1, models.ResampleNearest)
	assert.Error(t, err)
}

func TestMatsAreReleased(t *testing.T) {
	b := NewBackend()
	src, err := models.NewUniformBuffer(4, 4, 1, 2, 3)
	require.NoError(t, err)

	_, err = b.Contour(src)
	require.NoError(t, err)
	_, err = b.Grayscale(src)
	require.NoError(t, err)

	stats := b.Stats()
	assert.Positive(t, stats.Allocated)
	assert.Zero(t, stats.Live())
}
