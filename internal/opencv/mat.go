package opencv

import (
	"fmt"
	"sync/atomic"

	"dungeon-art-studio/internal/models"

	"gocv.io/x/gocv"
)

// MatStats counts native Mat allocations so leaks show up in the logs.
type MatStats struct {
	Allocated int64
	Released  int64
}

func (s MatStats) Live() int64 {
	return s.Allocated - s.Released
}

type matTracker struct {
	allocated atomic.Int64
	released  atomic.Int64
}

func (t *matTracker) track(mat gocv.Mat) gocv.Mat {
	t.allocated.Add(1)
	return mat
}

func (t *matTracker) release(mat *gocv.Mat) {
	if err := mat.Close(); err == nil {
		t.released.Add(1)
	}
}

func (t *matTracker) stats() MatStats {
	return MatStats{Allocated: t.allocated.Load(), Released: t.released.Load()}
}

func matType(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	default:
		return 0, fmt.Errorf("unsupported channel count: %d", channels)
	}
}

// toMat copies buf into a new 8-bit Mat. Channel order stays RGB; every
// operation used here is either order agnostic or told it is RGB.
func (t *matTracker) toMat(buf *models.PixelBuffer) (gocv.Mat, error) {
	if buf == nil {
		return gocv.Mat{}, fmt.Errorf("input buffer is nil")
	}

	mt, err := matType(buf.Channels())
	if err != nil {
		return gocv.Mat{}, err
	}

	mat, err := gocv.NewMatFromBytes(buf.Height(), buf.Width(), mt, buf.Pix())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create Mat: %w", err)
	}
	return t.track(mat), nil
}

func (t *matTracker) newMat() gocv.Mat {
	return t.track(gocv.NewMat())
}

func fromMat(mat gocv.Mat) (*models.PixelBuffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("operation produced an empty Mat")
	}
	if mat.Type() != gocv.MatTypeCV8UC1 && mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unexpected Mat type %v", mat.Type())
	}
	return models.WrapPixels(mat.Cols(), mat.Rows(), mat.Channels(), mat.ToBytes())
}
