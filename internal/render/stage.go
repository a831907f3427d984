package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ayusman/bubbletype/internal/glyph"
	"gocv.io/x/gocv"
)

// DefaultStageSize is the side of the square stage in pixels.
const DefaultStageSize = 860

// Background is the stage color shown when no video frame is available.
var Background = color.RGBA{R: 217, G: 217, B: 217, A: 255}

// ParseColor parses a CSS hex color: #RGB or #RRGGBB.
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Stage composes the display image.
type Stage struct {
	size   int
	mirror bool
}

// NewStage creates a stage renderer. Mirror flips the final image
// horizontally so the user sees themselves as in a mirror.
func NewStage(size int, mirror bool) *Stage {
	if size <= 0 {
		size = DefaultStageSize
	}
	return &Stage{size: size, mirror: mirror}
}

// Size returns the stage side in pixels.
func (s *Stage) Size() int { return s.size }

// Cover returns the placement of a video frame of the given size.
func (s *Stage) Cover(vw, vh int) Cover {
	return NewCover(s.size, vw, vh)
}

// Compose draws video (may be nil or empty) and the animated glyph at frame.
// The caller owns the returned Mat.
func (s *Stage) Compose(video *gocv.Mat, g glyph.Glyph, frame uint64) gocv.Mat {
	stage := s.canvas(video, gocv.MatTypeCV8UC3)
	DrawDots(&stage, Animate(g.Dots, g.Mode, frame, g.AppearStart))
	return s.finish(stage)
}

// canvas returns a stage-sized Mat holding the cover-cropped video, or the
// background color when there is no video.
func (s *Stage) canvas(video *gocv.Mat, mt gocv.MatType) gocv.Mat {
	bg := gocv.NewScalar(float64(Background.B), float64(Background.G), float64(Background.R), 255)
	stage := gocv.NewMatWithSizeFromScalar(bg, s.size, s.size, mt)
	if video == nil || video.Empty() {
		return stage
	}

	cover := s.Cover(video.Cols(), video.Rows())
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(*video, &scaled, cover.ScaledSize(), 0, 0, gocv.InterpolationLinear)

	crop := cover.Crop()
	if crop.Empty() {
		return stage
	}
	src := scaled.Region(crop)
	defer src.Close()
	dst := stage.Region(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	defer dst.Close()

	if mt == gocv.MatTypeCV8UC4 {
		converted := gocv.NewMat()
		defer converted.Close()
		gocv.CvtColor(src, &converted, gocv.ColorBGRToBGRA)
		converted.CopyTo(&dst)
	} else {
		src.CopyTo(&dst)
	}
	return stage
}

func (s *Stage) finish(stage gocv.Mat) gocv.Mat {
	if !s.mirror {
		return stage
	}
	flipped := gocv.NewMat()
	gocv.Flip(stage, &flipped, 1)
	stage.Close()
	return flipped
}

// DrawDots paints placed dots onto img. Unparseable colors are skipped.
func DrawDots(img *gocv.Mat, dots []Placed) {
	for _, p := range dots {
		center := image.Pt(int(math.Round(p.Center.X)), int(math.Round(p.Center.Y)))
		radius := int(math.Round(p.Radius))
		if radius < 1 {
			radius = 1
		}

		if p.Fill != "" {
			if c, err := ParseColor(p.Fill); err == nil {
				gocv.Circle(img, center, radius, c, -1)
			}
		}
		if p.Stroke != "" && p.StrokeWidth > 0 {
			if c, err := ParseColor(p.Stroke); err == nil {
				gocv.Circle(img, center, radius, c, int(math.Round(p.StrokeWidth)))
			}
		}
	}
}
