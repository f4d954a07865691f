package models

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPixelBufferValidatesShape(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		channels int
		pix      []uint8
	}{
		{"zero width", 0, 2, 1, nil},
		{"negative height", 2, -1, 1, nil},
		{"two channels", 1, 1, 2, []uint8{0, 0}},
		{"short data", 2, 2, 3, make([]uint8, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPixelBuffer(tt.width, tt.height, tt.channels, tt.pix)
			assert.Error(t, err)
		})
	}
}

func TestNewPixelBufferCopiesInput(t *testing.T) {
	pix := []uint8{1, 2, 3, 4}
	buf, err := NewPixelBuffer(2, 2, 1, pix)
	require.NoError(t, err)

	pix[0] = 99
	assert.Equal(t, uint8(1), buf.At(0, 0, 0))

	out := buf.Pix()
	out[1] = 99
	assert.Equal(t, uint8(2), buf.At(1, 0, 0))
}

func TestLuminance(t *testing.T) {
	assert.Equal(t, uint8(0), Luminance(0, 0, 0))
	assert.Equal(t, uint8(255), Luminance(255, 255, 255))
	assert.Equal(t, uint8(76), Luminance(255, 0, 0))
	assert.Equal(t, uint8(150), Luminance(0, 255, 0))
	assert.Equal(t, uint8(29), Luminance(0, 0, 255))
}

func TestToChannelsRoundTrip(t *testing.T) {
	gray, err := NewPixelBuffer(2, 1, 1, []uint8{10, 200})
	require.NoError(t, err)

	rgb, err := gray.ToChannels(3)
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 10, 10, 200, 200, 200}, rgb.Pix())

	back, err := rgb.ToChannels(1)
	require.NoError(t, err)
	assert.True(t, back.Equal(gray))

	_, err = gray.ToChannels(4)
	assert.Error(t, err)
}

func TestFromImageAndToImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{G: 255, A: 255})
	src.Set(0, 1, color.RGBA{B: 255, A: 255})
	src.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	buf, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Channels())
	assert.Equal(t, []uint8{255, 0, 0, 0, 255, 0, 0, 0, 255, 10, 20, 30}, buf.Pix())

	out := buf.ToImage()
	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, nrgba.NRGBAAt(1, 1))
}

func TestFromImageKeepsGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{0, 128, 255}

	buf, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Channels())
	assert.Equal(t, []uint8{0, 128, 255}, buf.Pix())

	gray, ok := buf.ToImage().(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Pix, gray.Pix)
}

func TestFromImageSubImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	sub := src.SubImage(image.Rect(1, 1, 3, 3))

	buf, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, []uint8{5, 6, 9, 10}, buf.Pix())
}

func TestNewUniformBuffer(t *testing.T) {
	buf, err := NewUniformBuffer(3, 2, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Channels())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, uint8(3), buf.At(x, y, 2))
		}
	}

	_, err = NewUniformBuffer(3, 2)
	assert.Error(t, err)
}
