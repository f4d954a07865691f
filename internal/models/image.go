package models

import (
	"fmt"
	"image"
	"image/color"
)

// PixelBuffer is an immutable width x height grid of 8-bit pixels with
// either one (luminance) or three (RGB) channels. Stages never mutate a
// buffer; they build a new one.
type PixelBuffer struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

// NewPixelBuffer copies pix into a new buffer after validating its shape.
func NewPixelBuffer(width, height, channels int, pix []uint8) (*PixelBuffer, error) {
	if err := validateShape(width, height, channels, len(pix)); err != nil {
		return nil, err
	}

	owned := make([]uint8, len(pix))
	copy(owned, pix)

	return &PixelBuffer{width: width, height: height, channels: channels, pix: owned}, nil
}

// WrapPixels builds a buffer that takes ownership of pix. The caller must
// not write to pix afterwards.
func WrapPixels(width, height, channels int, pix []uint8) (*PixelBuffer, error) {
	if err := validateShape(width, height, channels, len(pix)); err != nil {
		return nil, err
	}
	return &PixelBuffer{width: width, height: height, channels: channels, pix: pix}, nil
}

// MustWrapPixels is WrapPixels for callers that sized pix themselves.
func MustWrapPixels(width, height, channels int, pix []uint8) *PixelBuffer {
	buf, err := WrapPixels(width, height, channels, pix)
	if err != nil {
		panic(err)
	}
	return buf
}

// NewUniformBuffer fills every pixel with the same channel values.
func NewUniformBuffer(width, height int, value ...uint8) (*PixelBuffer, error) {
	channels := len(value)
	if err := validateShape(width, height, channels, width*height*channels); err != nil {
		return nil, err
	}

	pix := make([]uint8, width*height*channels)
	for i := 0; i < len(pix); i += channels {
		copy(pix[i:i+channels], value)
	}

	return &PixelBuffer{width: width, height: height, channels: channels, pix: pix}, nil
}

func validateShape(width, height, channels, length int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	if channels != 1 && channels != 3 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}
	if length != width*height*channels {
		return fmt.Errorf("pixel data length %d does not match %dx%dx%d", length, width, height, channels)
	}
	return nil
}

func (b *PixelBuffer) Width() int    { return b.width }
func (b *PixelBuffer) Height() int   { return b.height }
func (b *PixelBuffer) Channels() int { return b.channels }

// Bounds mirrors image.Image so buffers can be sized against Go images.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At returns channel c of pixel (x, y).
func (b *PixelBuffer) At(x, y, c int) uint8 {
	return b.pix[(y*b.width+x)*b.channels+c]
}

// Pix returns a copy of the raw row-major pixel data.
func (b *PixelBuffer) Pix() []uint8 {
	out := make([]uint8, len(b.pix))
	copy(out, b.pix)
	return out
}

// Equal reports whether both buffers hold identical shape and pixels.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.width != other.width || b.height != other.height || b.channels != other.channels {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// Luminance reduces a pixel to one channel with the ITU-R 601 weights in
// 16.16 fixed point, so results are bit-exact across platforms.
func Luminance(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 0x8000) >> 16)
}

// Luminance returns the single-channel version of the buffer. A buffer that
// already has one channel is returned as is.
func (b *PixelBuffer) Luminance() *PixelBuffer {
	if b.channels == 1 {
		return b
	}

	out := make([]uint8, b.width*b.height)
	for i := range out {
		p := b.pix[i*3 : i*3+3]
		out[i] = Luminance(p[0], p[1], p[2])
	}
	return &PixelBuffer{width: b.width, height: b.height, channels: 1, pix: out}
}

// ToChannels converts between one and three channels. Gray is replicated
// into RGB; RGB is reduced with Luminance.
func (b *PixelBuffer) ToChannels(channels int) (*PixelBuffer, error) {
	switch {
	case channels == b.channels:
		return b, nil
	case channels == 1:
		return b.Luminance(), nil
	case channels == 3:
		out := make([]uint8, b.width*b.height*3)
		for i, v := range b.pix {
			out[i*3], out[i*3+1], out[i*3+2] = v, v, v
		}
		return &PixelBuffer{width: b.width, height: b.height, channels: 3, pix: out}, nil
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
}

// FromImage converts a decoded Go image. Gray images keep one channel;
// everything else is reduced to RGB with alpha dropped.
func FromImage(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}

	switch typed := img.(type) {
	case *image.Gray:
		pix := make([]uint8, width*height)
		for y := 0; y < height; y++ {
			off := typed.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := typed.Pix[off : off+width]
			copy(pix[y*width:], row)
		}
		return &PixelBuffer{width: width, height: height, channels: 1, pix: pix}, nil
	case *image.NRGBA:
		pix := make([]uint8, width*height*3)
		for y := 0; y < height; y++ {
			off := typed.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := typed.Pix[off : off+width*4]
			for x := 0; x < width; x++ {
				copy(pix[(y*width+x)*3:], row[x*4:x*4+3])
			}
		}
		return &PixelBuffer{width: width, height: height, channels: 3, pix: pix}, nil
	}

	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := (y*width + x) * 3
			pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
		}
	}
	return &PixelBuffer{width: width, height: height, channels: 3, pix: pix}, nil
}

// ToImage returns an *image.Gray for one channel and an opaque
// *image.NRGBA for three.
func (b *PixelBuffer) ToImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	if b.channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, b.pix)
		return img
	}

	img := image.NewNRGBA(rect)
	for i := 0; i < b.width*b.height; i++ {
		img.Pix[i*4] = b.pix[i*3]
		img.Pix[i*4+1] = b.pix[i*3+1]
		img.Pix[i*4+2] = b.pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// ImageStats describes a buffer for logging.
type ImageStats struct {
	Width    int
	Height   int
	Channels int
	Bytes    int
}

func (b *PixelBuffer) Stats() ImageStats {
	return ImageStats{
		Width:    b.width,
		Height:   b.height,
		Channels: b.channels,
		Bytes:    len(b.pix),
	}
}

// Fields renders the stats as logger fields.
func (s ImageStats) Fields() map[string]interface{} {
	return map[string]interface{}{
		"width":    s.Width,
		"height":   s.Height,
		"channels": s.Channels,
	}
}
