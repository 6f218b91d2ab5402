package session

import (
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// Scene is the op-building context a view handler uses to describe
// one scene: declaring variables, building expressions, and pushing
// draw commands.
type Scene struct {
	exprs
	app       *Application
	update    *scene.Update
	runBlocks []scene.HandlerBlock
}

func newScene(id scene.SceneID) *Scene {
	u := &scene.Update{
		ID:       id,
		Attrs:    make(map[scene.Attr]value.OpID),
		VarDecls: make(map[string]value.Value),
	}
	return &Scene{exprs: newExprs(uint32(id), &u.Ops), update: u}
}

// ID returns this scene's id as a constant Expr, for building
// HandlerCmds (like ReparentScene) that address it by op.
func (s *Scene) SelfID() Expr { return s.ConstInt(int64(s.update.ID)) }

// DeclVar declares name with a default value; a reinstall preserves
// the variable's live value if its Kind hasn't changed.
func (s *Scene) DeclVar(name string, def value.Value) { s.update.VarDecls[name] = def }

// SetAttr sets a scene-level attribute (window title, uri, size,
// transform, ...) to an expression.
func (s *Scene) SetAttr(attr scene.Attr, val Expr) { s.update.Attrs[attr] = val.ID() }

// CreateWindow declares the standard window-geometry variables and
// queues a run block that reparents this scene to the root, so it
// becomes visible once the caller's update is sent.
func (s *Scene) CreateWindow(title string, width, height int64) {
	s.DeclVar(":window_title", value.String(title))
	s.DeclVar(":window_initial_size_x", value.Sint64(width))
	s.DeclVar(":window_initial_size_y", value.Sint64(height))

	hb := NewHandlerBuilder()
	hb.ReparentScene(s.SelfID(), reparent.Root())
	s.runBlocks = append(s.runBlocks, hb.Block())
}

// NewWatch starts building a watch's handler block, bound to cond and
// gated by waitForRoundtrip/waitForRebuild. Call Install once
// the block is built.
func (s *Scene) NewWatch(cond Expr, waitForRoundtrip, waitForRebuild bool) *WatchBuilder {
	return &WatchBuilder{scene: s, HandlerBuilder: NewHandlerBuilder(), cond: cond, waitForRoundtrip: waitForRoundtrip, waitForRebuild: waitForRebuild}
}

// WatchBuilder builds one Watch and appends it to its owning Scene.
type WatchBuilder struct {
	*HandlerBuilder
	scene            *Scene
	cond             Expr
	waitForRoundtrip bool
	waitForRebuild   bool
}

// Install appends the built watch to the owning scene's Watches.
func (w *WatchBuilder) Install() {
	w.scene.update.Watches = append(w.scene.update.Watches, scene.Watch{
		Condition:        w.cond.ID(),
		Handler:          w.Block(),
		WaitForRoundtrip: w.waitForRoundtrip,
		WaitForRebuild:   w.waitForRebuild,
	})
}

// NewEventHandler starts building an event handler scoped to rect,
// firing on kind. continueHandling is re-evaluated after each
// hit: the null Expr means "stop after this handler fires" (the
// convention this module uses for a null OpId in that slot).
func (s *Scene) NewEventHandler(kind scene.EventKind, rect Expr, continueHandling Expr) *EventHandlerBuilder {
	return &EventHandlerBuilder{scene: s, HandlerBuilder: NewHandlerBuilder(), kind: kind, rect: rect, continueHandling: continueHandling}
}

// EventHandlerBuilder builds one EventHandlerEntry and appends it to
// its owning Scene.
type EventHandlerBuilder struct {
	*HandlerBuilder
	scene            *Scene
	kind             scene.EventKind
	rect             Expr
	continueHandling Expr
}

func (eh *EventHandlerBuilder) Install() {
	var continueHandling value.OpID
	if eh.continueHandling.b != nil {
		continueHandling = eh.continueHandling.ID()
	}
	eh.scene.update.EventHandlers = append(eh.scene.update.EventHandlers, scene.EventHandlerEntry{
		Kind:             eh.kind,
		Rect:             eh.rect.ID(),
		Handler:          eh.Block(),
		ContinueHandling: continueHandling,
	})
}

// Paint is a draw command's color (and, for DrawCenteredText, font
// size). FontSize is left unset for commands that don't use it.
type Paint struct {
	Color    Expr
	FontSize Expr
}

func (p Paint) resolve() scene.Paint {
	var fontSize value.OpID
	if p.FontSize.b != nil {
		fontSize = p.FontSize.ID()
	}
	return scene.Paint{Color: p.Color.ID(), FontSize: fontSize}
}

func (s *Scene) Clear(color Expr) { s.update.Cmds = append(s.update.Cmds, scene.Clear(color.ID())) }

func (s *Scene) DrawRect(paint Paint, rect Expr) {
	s.update.Cmds = append(s.update.Cmds, scene.DrawRect(paint.resolve(), rect.ID()))
}

func (s *Scene) DrawRoundRect(paint Paint, rect, radius Expr) {
	s.update.Cmds = append(s.update.Cmds, scene.DrawRoundRect(paint.resolve(), rect.ID(), radius.ID()))
}

func (s *Scene) DrawCenteredText(text Expr, paint Paint, center Expr) {
	s.update.Cmds = append(s.update.Cmds, scene.DrawCenteredText(text.ID(), paint.resolve(), center.ID()))
}

func (s *Scene) DrawImage(resource, topLeft Expr) {
	s.update.Cmds = append(s.update.Cmds, scene.DrawImage(resource.ID(), topLeft.ID()))
}

// HandlerBuilder builds a HandlerBlock: the mini-scene (id 0) run by
// a watch firing, an event dispatch, or a reply dispatch.
type HandlerBuilder struct {
	exprs
	block scene.HandlerBlock
}

func NewHandlerBuilder() *HandlerBuilder {
	hb := &HandlerBuilder{}
	hb.exprs = newExprs(0, &hb.block.Ops)
	return hb
}

func (h *HandlerBuilder) Block() scene.HandlerBlock { return h.block }

func (h *HandlerBuilder) push(cmd scene.HandlerCmd) { h.block.Cmds = append(h.block.Cmds, cmd) }

func (h *HandlerBuilder) Nop() { h.push(scene.Nop()) }

func (h *HandlerBuilder) AllocateWindowID() { h.push(scene.AllocateWindowID()) }

func (h *HandlerBuilder) ReparentScene(sceneExpr Expr, to reparent.Target) {
	h.push(scene.ReparentScene(sceneExpr.ID(), to))
}

func (h *HandlerBuilder) SetVar(id value.VarID, val Expr) { h.push(scene.SetVar(id, val.ID())) }

func (h *HandlerBuilder) SetVarByRef(ref, val Expr) { h.push(scene.SetVarByRef(ref.ID(), val.ID())) }

func (h *HandlerBuilder) DebugMessage(msg string) { h.push(scene.DebugMessage(msg)) }

// Reply queues a reply to be batched into the next R2AUpdate the
// renderer sends, once this block runs.
func (h *HandlerBuilder) Reply(path string, params ...Expr) {
	ids := make([]value.OpID, len(params))
	for i, p := range params {
		ids[i] = p.ID()
	}
	h.push(scene.Reply(path, ids))
}

func (h *HandlerBuilder) Open(path string) { h.push(scene.Open(path)) }

func (h *HandlerBuilder) If(cond Expr, then, els *scene.HandlerCmd) {
	h.push(scene.If(cond.ID(), then, els))
}
