// Package scene implements the BoldUI scene graph data model: the
// per-scene update payload sent app→renderer, its attributes, drawing
// commands, watches and event handlers.
package scene

import (
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/value"
)

// Attr tags an entry of a scene's attrs map. The map uses the variant
// index as its key on the wire, so these values must stay stable.
type Attr uint8

const (
	AttrWindowTitle Attr = iota
	AttrWindowID
	AttrUri
	AttrSize
	AttrTransform
)

// Update is the A2RUpdateScene payload: one scene's complete
// declaration, replacing any previous declaration of the same id.
type Update struct {
	ID SceneID

	Attrs map[Attr]value.OpID

	Ops []ops.Op

	Cmds []Cmd

	// VarDecls maps a variable name to its default Value; the declared
	// type is the Kind of that default.
	VarDecls map[string]value.Value

	Watches []Watch

	EventHandlers []EventHandlerEntry
}

// SceneID identifies a scene, scoped to one application connection.
// Id 0 is reserved for handler-block-local ops.
type SceneID uint32

// CmdKind tags a Cmd's variant.
type CmdKind uint8

const (
	CmdClear CmdKind = iota
	CmdDrawRect
	CmdDrawRoundRect
	CmdDrawCenteredText
	CmdDrawImage
)

// Paint is the fill/stroke description shared by the draw commands.
// FontSize is only meaningful on DrawCenteredText; it's the null OpId
// on every other draw command's Paint.
type Paint struct {
	Color    value.OpID
	FontSize value.OpID
}

// Cmd is one drawing command in a scene's cmds sequence.
type Cmd struct {
	Kind CmdKind

	// Clear
	Color value.OpID

	// DrawRect, DrawRoundRect
	Paint Paint
	Rect  value.OpID
	// DrawRoundRect only
	Radius value.OpID

	// DrawCenteredText
	Text   value.OpID
	Center value.OpID

	// DrawImage
	Resource value.OpID
	TopLeft  value.OpID
}

func Clear(color value.OpID) Cmd { return Cmd{Kind: CmdClear, Color: color} }

func DrawRect(paint Paint, rect value.OpID) Cmd {
	return Cmd{Kind: CmdDrawRect, Paint: paint, Rect: rect}
}

func DrawRoundRect(paint Paint, rect, radius value.OpID) Cmd {
	return Cmd{Kind: CmdDrawRoundRect, Paint: paint, Rect: rect, Radius: radius}
}

func DrawCenteredText(text value.OpID, paint Paint, center value.OpID) Cmd {
	return Cmd{Kind: CmdDrawCenteredText, Text: text, Paint: paint, Center: center}
}

// TextPaint is a convenience constructor for a DrawCenteredText Paint
// carrying both its color and font size.
func TextPaint(color, fontSize value.OpID) Paint {
	return Paint{Color: color, FontSize: fontSize}
}

func DrawImage(res, topLeft value.OpID) Cmd {
	return Cmd{Kind: CmdDrawImage, Resource: res, TopLeft: topLeft}
}

// EventKind tags an EventType variant; Rect is re-evaluated on every
// dispatch pass so animated hit regions track their driving variables.
type EventKind uint8

const (
	EventMouseDown EventKind = iota
	EventMouseUp
	EventMouseMove
	EventClick
	EventScroll
)

func (k EventKind) String() string {
	switch k {
	case EventMouseDown:
		return "MouseDown"
	case EventMouseUp:
		return "MouseUp"
	case EventMouseMove:
		return "MouseMove"
	case EventClick:
		return "Click"
	case EventScroll:
		return "Scroll"
	default:
		return "Unknown"
	}
}

// EventHandlerEntry pairs an event type (and the rect it's scoped to)
// with the block that runs on a hit. ContinueHandling is re-evaluated
// after a hit runs the handler; a null ContinueHandling or a falsy
// result stops dispatch for the whole event, a truthy one lets later
// handlers still see it.
type EventHandlerEntry struct {
	Kind             EventKind
	Rect             value.OpID
	Handler          HandlerBlock
	ContinueHandling value.OpID
}

// Watch fires its handler when Condition transitions from non-truthy
// to truthy. WaitForRoundtrip/WaitForRebuild gate re-firing.
type Watch struct {
	Condition value.OpID
	Handler   HandlerBlock

	WaitForRoundtrip bool
	WaitForRebuild   bool
}
