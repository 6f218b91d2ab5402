package session

import (
	"testing"

	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

func TestCreateWindowDeclaresGeometryAndQueuesReparentRunBlock(t *testing.T) {
	sc := newScene(1)
	sc.CreateWindow("Example", 640, 480)

	if sc.update.VarDecls[":window_title"] != value.String("Example") {
		t.Errorf("got %v", sc.update.VarDecls[":window_title"])
	}
	if sc.update.VarDecls[":window_initial_size_x"] != value.Sint64(640) {
		t.Errorf("got %v", sc.update.VarDecls[":window_initial_size_x"])
	}
	if len(sc.runBlocks) != 1 {
		t.Fatalf("expected one queued run block, got %d", len(sc.runBlocks))
	}
	block := sc.runBlocks[0]
	if len(block.Cmds) != 1 || block.Cmds[0].Kind != scene.HandlerReparentScene {
		t.Fatalf("expected a single ReparentScene cmd, got %+v", block.Cmds)
	}
	if block.Cmds[0].To.Kind != reparent.KindRoot {
		t.Errorf("CreateWindow should reparent to root, got %+v", block.Cmds[0].To)
	}
}

func TestWatchBuilderInstallAppendsWatch(t *testing.T) {
	sc := newScene(1)
	cond := sc.ConstInt(1)
	wb := sc.NewWatch(cond, true, false)
	wb.SetVar(sc.VarBinding("x"), sc.ConstInt(5))
	wb.Install()

	if len(sc.update.Watches) != 1 {
		t.Fatalf("expected one watch, got %d", len(sc.update.Watches))
	}
	w := sc.update.Watches[0]
	if !w.WaitForRoundtrip || w.WaitForRebuild {
		t.Errorf("got %+v", w)
	}
	if len(w.Handler.Cmds) != 1 || w.Handler.Cmds[0].Kind != scene.HandlerSetVar {
		t.Errorf("expected watch handler to hold the queued SetVar, got %+v", w.Handler.Cmds)
	}
}

func TestEventHandlerBuilderNullContinueHandling(t *testing.T) {
	sc := newScene(1)
	rect := sc.RectFromPoints(sc.Point(sc.Const(0), sc.Const(0)), sc.Point(sc.Const(10), sc.Const(10)))
	eh := sc.NewEventHandler(scene.EventClick, rect, Expr{})
	eh.Reply("/clicked")
	eh.Install()

	if len(sc.update.EventHandlers) != 1 {
		t.Fatalf("expected one event handler, got %d", len(sc.update.EventHandlers))
	}
	entry := sc.update.EventHandlers[0]
	if !entry.ContinueHandling.IsNull() {
		t.Errorf("expected null continue-handling OpId, got %v", entry.ContinueHandling)
	}
}

func TestPaintResolveLeavesFontSizeNullWhenUnset(t *testing.T) {
	sc := newScene(1)
	p := Paint{Color: sc.HexColor(0xff0000)}
	resolved := p.resolve()
	if !resolved.FontSize.IsNull() {
		t.Errorf("expected null FontSize, got %v", resolved.FontSize)
	}
}

func TestDrawCmdsAppendToSceneInOrder(t *testing.T) {
	sc := newScene(1)
	white := sc.HexColor(0xffffff)
	sc.Clear(white)
	sc.DrawRect(Paint{Color: white}, sc.RectFromPoints(sc.Point(sc.Const(0), sc.Const(0)), sc.Point(sc.Const(1), sc.Const(1))))

	if len(sc.update.Cmds) != 2 {
		t.Fatalf("expected 2 cmds, got %d", len(sc.update.Cmds))
	}
	if sc.update.Cmds[0].Kind != scene.CmdClear || sc.update.Cmds[1].Kind != scene.CmdDrawRect {
		t.Errorf("got %+v", sc.update.Cmds)
	}
}

func TestHandlerBuilderReplyQueuesParams(t *testing.T) {
	hb := NewHandlerBuilder()
	hb.Reply("/submit", hb.ConstInt(1), hb.Str("go"))
	if len(hb.block.Cmds) != 1 {
		t.Fatalf("expected one cmd, got %d", len(hb.block.Cmds))
	}
	cmd := hb.block.Cmds[0]
	if cmd.Kind != scene.HandlerReply || cmd.Path != "/submit" || len(cmd.Params) != 2 {
		t.Errorf("got %+v", cmd)
	}
}

func TestHandlerBuilderIfNestsBranches(t *testing.T) {
	hb := NewHandlerBuilder()
	then := scene.Nop()
	els := scene.DebugMessage("else branch")
	hb.If(hb.ConstInt(1), &then, &els)
	if len(hb.block.Cmds) != 1 || hb.block.Cmds[0].Kind != scene.HandlerIf {
		t.Fatalf("got %+v", hb.block.Cmds)
	}
	if hb.block.Cmds[0].Then.Kind != scene.HandlerNop || hb.block.Cmds[0].Else.Kind != scene.HandlerDebugMessage {
		t.Errorf("got %+v", hb.block.Cmds[0])
	}
}
