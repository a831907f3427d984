package gesture

import "gonum.org/v1/gonum/spatial/r2"

// strokeWidth is the outline width of a stroked dot.
const strokeWidth = 3

// Mode is a per-letter animation mode, read by the renderer.
type Mode string

// Animation modes.
const (
	ModeNone   Mode = "none"
	ModeBounce Mode = "bounce"
	ModeBeat   Mode = "beat"
	ModeAppear Mode = "appear"
)

// Valid reports whether m is a known animation mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeBounce, ModeBeat, ModeAppear:
		return true
	}
	return false
}

// Style is the active brush style. Colors are CSS hex strings.
type Style struct {
	Fill       string `json:"fill" yaml:"fill" msgpack:"fill"`
	Stroke     string `json:"stroke" yaml:"stroke" msgpack:"stroke"`
	FillNone   bool   `json:"fill_none" yaml:"fill_none" msgpack:"fill_none"`
	StrokeNone bool   `json:"stroke_none" yaml:"stroke_none" msgpack:"stroke_none"`
}

// DefaultStyle is the pale blue bubble with a black outline.
func DefaultStyle() Style {
	return Style{Fill: "#DDE2FF", Stroke: "#000000"}
}

// Invisible reports whether dots in this style would draw nothing.
func (s Style) Invisible() bool {
	return s.FillNone && s.StrokeNone
}

// Apply restyles dots in place, keeping geometry, order and phase.
func (s Style) Apply(dots []Dot) {
	for i := range dots {
		dots[i].Fill, dots[i].Stroke, dots[i].StrokeWidth = s.paint()
	}
}

func (s Style) paint() (fill, stroke string, width float64) {
	if !s.FillNone {
		fill = s.Fill
	}
	if !s.StrokeNone {
		stroke = s.Stroke
		width = strokeWidth
	}
	return fill, stroke, width
}

// Dot is one rasterized brush primitive in canvas pixels. R is the brush
// size, drawn as the circle's diameter. Order is the insertion sequence
// within its stroke; Phase only feeds animation.
type Dot struct {
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	R           float64 `json:"r" msgpack:"r"`
	Fill        string  `json:"fill,omitempty" msgpack:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" msgpack:"stroke,omitempty"`
	StrokeWidth float64 `json:"sw" msgpack:"sw"`
	Order       int     `json:"order" msgpack:"order"`
	Phase       float64 `json:"phase" msgpack:"phase"`
}

// Pos returns the dot center.
func (d Dot) Pos() r2.Vec {
	return r2.Vec{X: d.X, Y: d.Y}
}

func newDot(p r2.Vec, r float64, style Style, order int, phase float64) Dot {
	d := Dot{X: p.X, Y: p.Y, R: r, Order: order, Phase: phase}
	d.Fill, d.Stroke, d.StrokeWidth = style.paint()
	return d
}
