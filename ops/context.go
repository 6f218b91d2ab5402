package ops

import "github.com/Wazzaps/boldui/value"

// VarReader resolves a VarID to its current live value, backed by
// varstore.Store on both sides of the protocol.
type VarReader interface {
	Get(id value.VarID) (value.Value, bool)
}

// SceneResolver lets evaluation cross into another scene's ops array
// when an OpId names a scene other than the one being evaluated.
type SceneResolver interface {
	Eval(sceneID uint32, index uint32, ctx *Context) (value.Value, error)
}

// Context is the ambient evaluation context: window geometry, the
// current input event coordinates (only meaningful during event
// dispatch), a single time snapshot for the whole pass, and the
// collaborators needed to resolve variables and cross-scene reads.
type Context struct {
	Width, Height int64

	HasMouse       bool
	MouseX, MouseY float64
	HasClick       bool
	ClickX, ClickY float64
	HasScroll      bool
	ScrollX, ScrollY float64

	WindowID string

	// Time is the single monotonic snapshot taken at the start of this
	// evaluation pass.
	Time float64

	Vars    VarReader
	Scenes  SceneResolver

	// Errors collects non-fatal EvalErrors encountered during the pass,
	// for the caller to log. May be nil.
	Errors *[]error
}

func (c *Context) builtin(key string) (value.Value, bool) {
	switch key {
	case ":width":
		return value.Sint64(c.Width), true
	case ":height":
		return value.Sint64(c.Height), true
	case ":window_id":
		return value.String(c.WindowID), true
	case ":mouse_x":
		if c.HasMouse {
			return value.Double(c.MouseX), true
		}
	case ":mouse_y":
		if c.HasMouse {
			return value.Double(c.MouseY), true
		}
	case ":click_x":
		if c.HasClick {
			return value.Double(c.ClickX), true
		}
	case ":click_y":
		if c.HasClick {
			return value.Double(c.ClickY), true
		}
	case ":scroll_x":
		if c.HasScroll {
			return value.Double(c.ScrollX), true
		}
	case ":scroll_y":
		if c.HasScroll {
			return value.Double(c.ScrollY), true
		}
	}
	return value.Value{}, false
}

func (c *Context) recordSoft(err error) {
	if c.Errors != nil {
		*c.Errors = append(*c.Errors, err)
	}
}
