package cadastre

import (
	"io"
	"strconv"
	"strings"

	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/pos"
)

const (
	htmlHeader = "<!DOCTYPE html>\n<html>\n<!-- See tilde.town/~troido/cadastre for instructions -->\n" +
		"<head>\n<meta charset='utf-8'>\n<style>\na {text-decoration: none}\n</style>\n</head>\n<body><pre>\n"
	htmlFooter = "</pre></body>\n<!-- Cadastre made by ~troido; art by tilde.town users -->\n</html>\n"
)

// Viewport is the rectangle of plots to render. Origin is its top-left plot.
type Viewport struct {
	Origin pos.Pos
	Width  int64
	Height int64
}

// DefaultViewport covers the 25x25 plots starting at the origin.
func DefaultViewport() Viewport {
	return Viewport{Width: 25, Height: 25}
}

// errWriter keeps the first write error and turns later writes into no-ops.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// rows calls fn for every character row of vp. plotY is the plot row, y the
// absolute character row and inner the row within the plot.
func (vp Viewport) rows(fn func(plotY, y int64, inner int)) {
	for py := vp.Origin.Y; py < vp.Origin.Y+vp.Height; py++ {
		for inner := range parcel.Height {
			fn(py, py*parcel.Height+int64(inner), inner)
		}
	}
}

func (c *Cadastre) filler(plotX, y int64) string {
	var b strings.Builder
	b.Grow(parcel.Width)
	for x := plotX * parcel.Width; x < (plotX+1)*parcel.Width; x++ {
		b.WriteString(c.background.CharAt(pos.New(x, y)))
	}
	return b.String()
}

// RenderText writes the plain-text map of vp to w: parcel art where a plot is
// claimed and background filler elsewhere, one line per character row.
func (c *Cadastre) RenderText(w io.Writer, vp Viewport) error {
	ew := &errWriter{w: w}
	vp.rows(func(plotY, y int64, inner int) {
		for px := vp.Origin.X; px < vp.Origin.X+vp.Width; px++ {
			if p, ok := c.places[pos.New(px, plotY)]; ok {
				ew.write(p.TextLine(inner))
			} else {
				ew.write(c.filler(px, y))
			}
		}
		ew.write("\n")
	})
	return ew.err
}

// RenderHTML writes vp as a standalone HTML page to w. The first row of every
// plot starts with an empty anchor whose id is the plot coordinate "x,y".
func (c *Cadastre) RenderHTML(w io.Writer, vp Viewport) error {
	ew := &errWriter{w: w}
	ew.write(htmlHeader)
	vp.rows(func(plotY, y int64, inner int) {
		for px := vp.Origin.X; px < vp.Origin.X+vp.Width; px++ {
			if inner == 0 {
				ew.write(`<span id="` + strconv.FormatInt(px, 10) + "," + strconv.FormatInt(plotY, 10) + `"></span>`)
			}
			if p, ok := c.places[pos.New(px, plotY)]; ok {
				ew.write(p.HTMLLine(inner))
			} else {
				ew.write(c.filler(px, y))
			}
		}
		ew.write("\n")
	})
	ew.write(htmlFooter)
	return ew.err
}
