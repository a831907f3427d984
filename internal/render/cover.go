// Package render draws the stage: the mirrored camera view cover-cropped into
// a square with the current glyph's dots on top, and exports glyph images.
package render

import (
	"image"
	"math"

	"github.com/ayusman/bubbletype/internal/detector"
	"gonum.org/v1/gonum/spatial/r2"
)

// Cover is the cover-crop placement of a video frame inside a square stage:
// the video is scaled to fill the stage and centered, overflow is cropped.
type Cover struct {
	Size  float64
	X, Y  float64 // top-left of the scaled video, stage pixels (<= 0)
	W, H  float64 // scaled video size
	Scale float64
	VW    float64
	VH    float64
}

// NewCover computes the placement of a vw×vh video in a size×size stage.
// A zero video size maps the normalized plane straight onto the stage.
func NewCover(size, vw, vh int) Cover {
	c := Cover{Size: float64(size), VW: float64(vw), VH: float64(vh)}
	if vw <= 0 || vh <= 0 {
		c.W, c.H, c.Scale = c.Size, c.Size, 1
		return c
	}
	c.Scale = math.Max(c.Size/c.VW, c.Size/c.VH)
	c.W = c.VW * c.Scale
	c.H = c.VH * c.Scale
	c.X = (c.Size - c.W) / 2
	c.Y = (c.Size - c.H) / 2
	return c
}

// ToCanvas maps a normalized landmark to stage pixels.
func (c Cover) ToCanvas(p detector.Point3D) r2.Vec {
	return r2.Vec{X: c.X + p.X*c.W, Y: c.Y + p.Y*c.H}
}

// ScaledSize is the integer size the video must be resized to.
func (c Cover) ScaledSize() image.Point {
	return image.Pt(int(math.Round(c.W)), int(math.Round(c.H)))
}

// Crop is the region of the resized video that lands on the stage.
func (c Cover) Crop() image.Rectangle {
	size := int(c.Size)
	x0 := int(math.Round(-c.X))
	y0 := int(math.Round(-c.Y))
	r := image.Rect(x0, y0, x0+size, y0+size)
	return r.Intersect(image.Rectangle{Max: c.ScaledSize()})
}
