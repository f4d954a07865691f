package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadFileTypes lists the extensions offered by the open dialog.
var LoadFileTypes = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

type ImageLoader struct {
	logger logger.Logger
}

func NewImageLoader(log logger.Logger) *ImageLoader {
	return &ImageLoader{logger: log}
}

// LoadFile decodes the image at path. Any failure is a DecodeError.
func (l *ImageLoader) LoadFile(path string) (*models.PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewDecodeError(path, err)
	}
	return l.LoadFromBytes(data, path)
}

// LoadFromReader decodes everything read from r. name is used for errors
// and format reporting only.
func (l *ImageLoader) LoadFromReader(r io.Reader, name string) (*models.PixelBuffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, models.NewDecodeError(name, fmt.Errorf("failed to read image data: %w", err))
	}
	return l.LoadFromBytes(data, name)
}

func (l *ImageLoader) LoadFromBytes(data []byte, name string) (*models.PixelBuffer, error) {
	l.logger.Debug("ImageLoader", "decoding image", map[string]interface{}{
		"path":       name,
		"size_bytes": len(data),
	})

	img, decodedFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewDecodeError(name, err)
	}

	buf, err := models.FromImage(img)
	if err != nil {
		return nil, models.NewDecodeError(name, err)
	}

	fields := buf.Stats().Fields()
	fields["format"] = determineActualFormat(strings.ToLower(filepath.Ext(name)), decodedFormat)
	l.logger.Info("ImageLoader", "image loaded", fields)

	return buf, nil
}

func determineActualFormat(extension, decodedFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}
