package main

import (
	"image"
	"log"

	nk "github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/font"
	"github.com/aarzilli/nucular/style"
	"golang.org/x/mobile/event/mouse"

	"github.com/Wazzaps/boldui/event"
	"github.com/Wazzaps/boldui/interp"
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/render"
	nucularsurface "github.com/Wazzaps/boldui/render/nucular"
	"github.com/Wazzaps/boldui/resource"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// fontCache resolves a resolved Paint.FontSize to a cached font.Face,
// so DrawCenteredText doesn't reshape a TTF every frame.
type fontCache struct {
	faces map[int]font.Face
}

func newFontCache() *fontCache { return &fontCache{faces: make(map[int]font.Face)} }

func (c *fontCache) get(size int) font.Face {
	if size <= 0 {
		size = 16
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := font.DefaultFont(size, 1)
	c.faces[size] = f
	return f
}

// runWindow builds the nucular master window and drives it; it returns
// once the window is closed.
func (r *renderer) runWindow() {
	fonts := newFontCache()

	var win nk.MasterWindow
	win = nk.NewMasterWindowSize(0, r.windowTitle(), image.Point{X: int(r.width), Y: int(r.height)}, func(w *nk.Window) {
		r.frame(w, fonts)
	})

	st := style.FromTheme(style.DarkTheme, 1.0)
	st.Font = font.DefaultFont(16, 1)
	win.SetStyle(st)

	win.Main()
}

// windowTitle reads the current value of the root scene's declared
// :window_title variable, defaulting to "boldui" before
// the application's first update arrives.
func (r *renderer) windowTitle() string {
	for _, id := range r.store.Attached() {
		if v, ok := r.vars.Get(value.VarID{Scene: uint32(id), Key: ":window_title"}); ok && v.Kind == value.KindString {
			return v.Str
		}
	}
	return "boldui"
}

// frame is the nucular updatefn: apply any buffered application
// updates, fire watches and pointer events against the refreshed
// state, draw every attached scene, then flush whatever replies/opens
// those handlers queued.
func (r *renderer) frame(w *nk.Window, fonts *fontCache) {
	select {
	case err := <-r.ioErr:
		if err != nil {
			log.Printf("boldui-renderer: connection error: %v", err)
		}
		return
	default:
	}

	r.drainUpdates()

	if err := r.watches.Flush(r.redrawCtxFor, r.effFor); err != nil {
		log.Printf("boldui-renderer: watch flush: %v", err)
	}

	r.dispatchPointerInput(w)

	r.draw(w, fonts)

	r.flushOutbound()
}

func (r *renderer) effFor(scene.SceneID) interp.Effects { return r.effects() }

// redrawCtxFor builds the plain, no-pointer-input context a watch flush
// or a draw pass evaluates scene expressions against.
func (r *renderer) redrawCtxFor(id scene.SceneID) *ops.Context { return r.ctxFor(id) }

// pointerCtxFor wraps redrawCtxFor, additionally populating whichever
// builtin pointer fields in belongs to.
func (r *renderer) pointerCtxFor(in event.Input) func(scene.SceneID) *ops.Context {
	return func(id scene.SceneID) *ops.Context {
		ctx := r.ctxFor(id)
		switch in.Kind {
		case scene.EventMouseMove:
			ctx.HasMouse, ctx.MouseX, ctx.MouseY = true, in.X, in.Y
		case scene.EventScroll:
			ctx.HasScroll, ctx.ScrollX, ctx.ScrollY = true, in.X, in.Y
		default: // MouseDown, MouseUp, Click
			ctx.HasClick, ctx.ClickX, ctx.ClickY = true, in.X, in.Y
		}
		return ctx
	}
}

// dispatchPointerInput translates nucular's per-frame mouse state into
// edge-triggered Dispatch calls: a press/release is reported once, on
// the frame the button's Clicked flag is set, not on every frame it's
// held.
func (r *renderer) dispatchPointerInput(w *nk.Window) {
	in := w.Input()

	if in.Mouse.Delta.X != 0 || in.Mouse.Delta.Y != 0 {
		r.dispatchOne(event.Input{Kind: scene.EventMouseMove, X: float64(in.Mouse.Pos.X), Y: float64(in.Mouse.Pos.Y)})
	}

	btn := in.Mouse.Buttons[mouse.ButtonLeft]
	if btn.Clicked {
		pos := event.Input{X: float64(btn.ClickedPos.X), Y: float64(btn.ClickedPos.Y)}
		if btn.Down {
			pos.Kind = scene.EventMouseDown
			r.dispatchOne(pos)
		} else {
			pos.Kind = scene.EventMouseUp
			r.dispatchOne(pos)
			pos.Kind = scene.EventClick
			r.dispatchOne(pos)
		}
	}

	if in.Mouse.ScrollDelta != 0 {
		r.dispatchOne(event.Input{Kind: scene.EventScroll, X: 0, Y: float64(in.Mouse.ScrollDelta)})
	}
}

func (r *renderer) dispatchOne(in event.Input) {
	if err := r.dispatch.Dispatch(in, r.pointerCtxFor(in), r.effFor); err != nil {
		log.Printf("boldui-renderer: event dispatch: %v", err)
	}
}

// draw walks every attached scene's Cmds in declared order, resolving
// each one's operand OpIds fresh for this frame before issuing it
// against the nucular command buffer.
func (r *renderer) draw(w *nk.Window, fonts *fontCache) {
	surface := nucularsurface.NewSurface(w, 1.0, fonts.get)

	for _, id := range r.store.Attached() {
		rec := r.store.Get(id)
		if rec == nil {
			continue
		}
		ev := ops.NewEvaluator(uint32(id), rec.Update.Ops)
		ctx := r.ctxFor(id)

		for _, cmd := range rec.Update.Cmds {
			if err := r.drawCmd(surface, ev, ctx, cmd); err != nil {
				log.Printf("boldui-renderer: draw: %v", err)
			}
		}
	}
}

func (r *renderer) drawCmd(surface *nucularsurface.Surface, ev *ops.Evaluator, ctx *ops.Context, cmd scene.Cmd) error {
	switch cmd.Kind {
	case scene.CmdClear:
		c, err := ev.Resolve(cmd.Color, ctx)
		if err != nil {
			return err
		}
		surface.Clear(c.Color)
		return nil

	case scene.CmdDrawRect:
		paint, err := resolvePaint(ev, ctx, cmd.Paint)
		if err != nil {
			return err
		}
		rectVal, err := ev.Resolve(cmd.Rect, ctx)
		if err != nil {
			return err
		}
		surface.FillRect(paint, rectVal.Rect)
		return nil

	case scene.CmdDrawRoundRect:
		paint, err := resolvePaint(ev, ctx, cmd.Paint)
		if err != nil {
			return err
		}
		rectVal, err := ev.Resolve(cmd.Rect, ctx)
		if err != nil {
			return err
		}
		radiusVal, err := ev.Resolve(cmd.Radius, ctx)
		if err != nil {
			return err
		}
		surface.FillRoundRect(paint, rectVal.Rect, numeric(radiusVal))
		return nil

	case scene.CmdDrawCenteredText:
		textVal, err := ev.Resolve(cmd.Text, ctx)
		if err != nil {
			return err
		}
		paint, err := resolvePaint(ev, ctx, cmd.Paint)
		if err != nil {
			return err
		}
		centerVal, err := ev.Resolve(cmd.Center, ctx)
		if err != nil {
			return err
		}
		surface.DrawCenteredText(textVal.ToString(), paint, centerVal.Point)
		return nil

	case scene.CmdDrawImage:
		resVal, err := ev.Resolve(cmd.Resource, ctx)
		if err != nil {
			return err
		}
		topLeftVal, err := ev.Resolve(cmd.TopLeft, ctx)
		if err != nil {
			return err
		}
		img, _ := r.resources.Get(resource.ID(resVal.Sint))
		surface.DrawImage(img, topLeftVal.Point)
		return nil

	default:
		return nil
	}
}

func resolvePaint(ev *ops.Evaluator, ctx *ops.Context, p scene.Paint) (render.Paint, error) {
	colorVal, err := ev.Resolve(p.Color, ctx)
	if err != nil {
		return render.Paint{}, err
	}
	out := render.Paint{Color: colorVal.Color}
	if !p.FontSize.IsNull() {
		sizeVal, err := ev.Resolve(p.FontSize, ctx)
		if err != nil {
			return render.Paint{}, err
		}
		out.FontSize = int(numeric(sizeVal))
	}
	return out, nil
}

func numeric(v value.Value) float64 {
	if v.Kind == value.KindSint64 {
		return float64(v.Sint)
	}
	return v.Double
}
