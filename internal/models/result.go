package models

import "time"

// RenderKind tells a render callback which slot was refreshed.
type RenderKind int

const (
	RenderPreview RenderKind = iota
	RenderFull
)

func (k RenderKind) String() string {
	if k == RenderPreview {
		return "preview"
	}
	return "full"
}

// RenderOutput is one published buffer together with the snapshot that
// produced it.
type RenderOutput struct {
	Buffer     *PixelBuffer
	Parameters ProcessingParameters
	Sequence   uint64
	Duration   time.Duration
}

// RenderResult is the published (preview, full) pair. Full is nil until a
// full-resolution image exists.
type RenderResult struct {
	Preview *RenderOutput
	Full    *RenderOutput
}

// FullBuffer returns the full-resolution buffer, if any.
func (r RenderResult) FullBuffer() *PixelBuffer {
	if r.Full == nil {
		return nil
	}
	return r.Full.Buffer
}

// PreviewBuffer returns the preview buffer, if any.
func (r RenderResult) PreviewBuffer() *PixelBuffer {
	if r.Preview == nil {
		return nil
	}
	return r.Preview.Buffer
}
