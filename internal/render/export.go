package render

import (
	"errors"
	"fmt"

	"github.com/ayusman/bubbletype/internal/glyph"
	"gocv.io/x/gocv"
)

// ErrNothingToExport is returned when a glyph has no dots.
var ErrNothingToExport = errors.New("glyph has no dots")

// Backdrop selects what is behind the dots in an exported image.
type Backdrop string

const (
	// BackdropType exports the dots on a transparent background.
	BackdropType Backdrop = "type"
	// BackdropCamera exports the dots over the current camera frame.
	BackdropCamera Backdrop = "camera"
)

// ExportPNG renders g at frame and encodes it as PNG. With BackdropCamera the
// video frame (if any) is drawn behind the dots; with BackdropType the
// background is transparent.
func (s *Stage) ExportPNG(g glyph.Glyph, backdrop Backdrop, video *gocv.Mat, frame uint64) ([]byte, error) {
	if len(g.Dots) == 0 {
		return nil, fmt.Errorf("export %s: %w", g.Letter, ErrNothingToExport)
	}

	var img gocv.Mat
	switch backdrop {
	case BackdropCamera:
		img = s.canvas(video, gocv.MatTypeCV8UC4)
	case BackdropType, "":
		img = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), s.size, s.size, gocv.MatTypeCV8UC4)
	default:
		return nil, fmt.Errorf("export %s: unknown backdrop %q", g.Letter, backdrop)
	}

	DrawDots(&img, Animate(g.Dots, g.Mode, frame, g.AppearStart))
	img = s.finish(img)
	defer img.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", g.Letter, err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
