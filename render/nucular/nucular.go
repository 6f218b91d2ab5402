// Package nucular implements render.Surface on top of
// github.com/aarzilli/nucular's raw command buffer. It draws straight
// onto a *nucular.Window's
// command.Buffer the same way nucular's own built-in widgets do,
// rather than going through widget layout: BoldUI already resolved
// rects/colors/text ahead of time, so there is nothing left for
// nucular's layout engine to do.
package nucular

import (
	"image"
	"image/color"

	nk "github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/font"
	nrect "github.com/aarzilli/nucular/rect"

	"github.com/Wazzaps/boldui/render"
	"github.com/Wazzaps/boldui/resource"
	"github.com/Wazzaps/boldui/value"
)

// Surface adapts one nucular.Window's command buffer to render.Surface
// for a single frame. A fresh Surface is created per redraw since
// nucular hands out a new *nucular.Window each updatefn call.
type Surface struct {
	win    *nk.Window
	scale  float64
	fontOf func(size int) font.Face
}

// NewSurface wraps win. scale is the window's scaling factor (HiDPI);
// fontOf resolves a resolved Paint.FontSize to a font.Face, letting the
// caller cache faces across frames instead of reshaping a TTF per
// DrawCenteredText call.
func NewSurface(win *nk.Window, scale float64, fontOf func(size int) font.Face) *Surface {
	return &Surface{win: win, scale: scale, fontOf: fontOf}
}

func toRGBA(c value.Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R >> 8),
		G: uint8(c.G >> 8),
		B: uint8(c.B >> 8),
		A: uint8(c.A >> 8),
	}
}

func (s *Surface) toRect(r value.Rect) nrect.Rect {
	return nrect.Rect{
		X: int(r.Left * s.scale),
		Y: int(r.Top * s.scale),
		W: int(r.Width() * s.scale),
		H: int(r.Height() * s.scale),
	}
}

// Clear fills the whole window with c. BoldUI scenes always start a
// frame with a Clear cmd, so this is just a FillRect over the
// window's own bounds.
func (s *Surface) Clear(c value.Color) {
	b := s.win.Bounds
	s.win.Commands().FillRect(b, 0, toRGBA(c))
}

func (s *Surface) FillRect(paint render.Paint, r value.Rect) {
	s.win.Commands().FillRect(s.toRect(r), 0, toRGBA(paint.Color))
}

func (s *Surface) FillRoundRect(paint render.Paint, r value.Rect, radius float64) {
	s.win.Commands().FillRect(s.toRect(r), uint16(radius*s.scale), toRGBA(paint.Color))
}

func (s *Surface) DrawCenteredText(text string, paint render.Paint, center value.Point) {
	face := s.fontOf(paint.FontSize)
	width := nk.FontWidth(face, text)
	height := face.Metrics().Height.Ceil()
	r := nrect.Rect{
		X: int(center.Left*s.scale) - width/2,
		Y: int(center.Top*s.scale) - height/2,
		W: width,
		H: height,
	}
	s.win.Commands().DrawText(r, text, face, toRGBA(paint.Color))
}

func (s *Surface) DrawImage(img *resource.Image, topLeft value.Point) {
	if img == nil {
		return
	}
	rgba := &image.RGBA{
		Pix:    img.RGBA,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	r := nrect.Rect{
		X: int(topLeft.Left * s.scale),
		Y: int(topLeft.Top * s.scale),
		W: img.Width,
		H: img.Height,
	}
	s.win.Commands().DrawImage(r, rgba)
}
