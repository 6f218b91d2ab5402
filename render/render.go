// Package render defines the GPU rasteriser collaborator the renderer
// drives once a frame's commands have been resolved to concrete
// values. It is deliberately thin: everything scene/ops-shaped stays
// in the scene and ops packages, and Surface only ever sees plain
// values.
package render

import (
	"github.com/Wazzaps/boldui/resource"
	"github.com/Wazzaps/boldui/value"
)

// Paint is a resolved fill/stroke: a concrete color and, for text, a
// font size in points. FontSize is 0 for non-text draws.
type Paint struct {
	Color    value.Color
	FontSize int
}

// Surface is the window-system/GPU collaborator a frame's resolved
// Cmds are issued against. One Surface corresponds to one scene's
// attached window; the caller walks the attached scene tree and
// issues these calls in declared Cmds order per scene.
type Surface interface {
	Clear(c value.Color)
	FillRect(paint Paint, r value.Rect)
	FillRoundRect(paint Paint, r value.Rect, radius float64)
	DrawCenteredText(text string, paint Paint, center value.Point)
	DrawImage(img *resource.Image, topLeft value.Point)
}
