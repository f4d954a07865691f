package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const (
	DefaultSaveExtension = ".png"
	jpegQuality          = 95
)

// SaveFileTypes lists the extensions offered by the save dialog.
var SaveFileTypes = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

type ImageSaver struct {
	logger logger.Logger
}

func NewImageSaver(log logger.Logger) *ImageSaver {
	return &ImageSaver{logger: log}
}

// ResolveSavePath appends the default extension when path has none and
// returns the encoder format implied by the final extension.
func ResolveSavePath(path string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		path += DefaultSaveExtension
		ext = DefaultSaveExtension
	}

	format, err := FormatForExtension(ext)
	if err != nil {
		return path, "", err
	}
	return path, format, nil
}

func FormatForExtension(ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", ext)
	}
}

// SaveFile writes buf to path, choosing the format from the extension. The
// image is written to a temporary file first so a failed encode never
// leaves a truncated file behind.
func (s *ImageSaver) SaveFile(path string, buf *models.PixelBuffer) (string, error) {
	if buf == nil {
		return "", models.ErrNoImageLoaded
	}

	resolved, format, err := ResolveSavePath(path)
	if err != nil {
		return resolved, models.NewEncodeError(resolved, "", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), ".dungeon-art-*")
	if err != nil {
		return resolved, models.NewEncodeError(resolved, format, err)
	}
	tmpName := tmp.Name()

	if err := s.Encode(tmp, buf, format); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return resolved, models.NewEncodeError(resolved, format, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return resolved, models.NewEncodeError(resolved, format, err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		os.Remove(tmpName)
		return resolved, models.NewEncodeError(resolved, format, err)
	}

	fields := buf.Stats().Fields()
	fields["path"] = resolved
	fields["format"] = format
	s.logger.Info("ImageSaver", "image saved", fields)

	return resolved, nil
}

// Encode writes buf to w in the named format.
func (s *ImageSaver) Encode(w io.Writer, buf *models.PixelBuffer, format string) error {
	if buf == nil {
		return models.ErrNoImageLoaded
	}

	s.logger.Debug("ImageSaver", "encoding image", map[string]interface{}{
		"format": format,
		"width":  buf.Width(),
		"height": buf.Height(),
	})

	img := buf.ToImage()

	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
	}
	return err
}
