package app

import (
	"sync"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/render"
	"gonum.org/v1/gonum/spatial/r2"
)

// coverMapper is a gesture.Mapper whose cover placement follows the size of
// the frames the camera actually delivers.
type coverMapper struct {
	mu    sync.RWMutex
	cover render.Cover
}

func newCoverMapper(c render.Cover) *coverMapper {
	return &coverMapper{cover: c}
}

// ToCanvas maps a normalized landmark onto the stage.
func (m *coverMapper) ToCanvas(p detector.Point3D) r2.Vec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cover.ToCanvas(p)
}

// update replaces the placement when the video size changed and reports
// whether it did.
func (m *coverMapper) update(size, vw, vh int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cover.VW == float64(vw) && m.cover.VH == float64(vh) {
		return false
	}
	m.cover = render.NewCover(size, vw, vh)
	return true
}
