package app

import (
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/ayusman/bubbletype/internal/store"
)

func toRecord(g glyph.Glyph) *store.Glyph {
	return &store.Glyph{
		Letter: g.Letter,
		Style:  g.Style,
		Mode:   g.Mode,
		Dots:   g.Dots,
	}
}

func fromRecord(r *store.Glyph) glyph.Glyph {
	return glyph.Glyph{
		Letter: r.Letter,
		Style:  r.Style,
		Mode:   r.Mode,
		Dots:   r.Dots,
	}
}
