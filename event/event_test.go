package event

import (
	"testing"

	"github.com/Wazzaps/boldui/interp"
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/varstore"
)

type fakeEffects struct{ replies []string }

func (f *fakeEffects) SetVar(value.VarID, value.Value)                       {}
func (f *fakeEffects) Reparent(scene.SceneID, reparent.ResolvedTarget) error { return nil }
func (f *fakeEffects) Reply(path string, params []value.Value)              { f.replies = append(f.replies, path) }
func (f *fakeEffects) Open(string)                                          {}
func (f *fakeEffects) AllocateWindowID() scene.SceneID                      { return 0 }
func (f *fakeEffects) DebugMessage(string)                                  {}

func rectOp(l, t, r, b float64) ops.Op {
	return ops.Value(value.FromRect(value.Rect{Left: l, Top: t, Right: r, Bottom: b}))
}

func TestDispatchHitRunsHandler(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID:  1,
		Ops: []ops.Op{rectOp(0, 0, 10, 10)},
		EventHandlers: []scene.EventHandlerEntry{
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/click", nil)}}},
		},
	}
	store.Install(u, vars)
	store.Reparent(1, reparent.ResolvedTarget{Kind: reparent.KindRoot})

	d := NewDispatcher(store)
	eff := &fakeEffects{}
	err := d.Dispatch(Input{Kind: scene.EventClick, X: 5, Y: 5},
		func(scene.SceneID) *ops.Context { return &ops.Context{} },
		func(scene.SceneID) interp.Effects { return eff })
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 1 {
		t.Fatalf("expected hit to run handler, got %v", eff.replies)
	}
}

func TestDispatchMissDoesNotRun(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID:  1,
		Ops: []ops.Op{rectOp(0, 0, 10, 10)},
		EventHandlers: []scene.EventHandlerEntry{
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/click", nil)}}},
		},
	}
	store.Install(u, vars)
	store.Reparent(1, reparent.ResolvedTarget{Kind: reparent.KindRoot})

	d := NewDispatcher(store)
	eff := &fakeEffects{}
	err := d.Dispatch(Input{Kind: scene.EventClick, X: 50, Y: 50},
		func(scene.SceneID) *ops.Context { return &ops.Context{} },
		func(scene.SceneID) interp.Effects { return eff })
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 0 {
		t.Fatalf("expected miss to not run handler, got %v", eff.replies)
	}
}

func TestDispatchContinueHandlingLetsSecondHandlerRun(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID: 1,
		Ops: []ops.Op{
			rectOp(0, 0, 10, 10),   // 0: shared rect
			ops.Value(value.Sint64(1)), // 1: truthy continue_handling
		},
		EventHandlers: []scene.EventHandlerEntry{
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/first", nil)}}, ContinueHandling: value.OpID{SceneID: 1, Index: 1}},
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/second", nil)}}},
		},
	}
	store.Install(u, vars)
	store.Reparent(1, reparent.ResolvedTarget{Kind: reparent.KindRoot})

	d := NewDispatcher(store)
	eff := &fakeEffects{}
	err := d.Dispatch(Input{Kind: scene.EventClick, X: 5, Y: 5},
		func(scene.SceneID) *ops.Context { return &ops.Context{} },
		func(scene.SceneID) interp.Effects { return eff })
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 2 || eff.replies[0] != "/first" || eff.replies[1] != "/second" {
		t.Fatalf("expected both handlers to run, got %v", eff.replies)
	}
}

func TestDispatchStopsWhenContinueHandlingFalsy(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID: 1,
		Ops: []ops.Op{
			rectOp(0, 0, 10, 10),
			ops.Value(value.Sint64(0)), // falsy continue_handling
		},
		EventHandlers: []scene.EventHandlerEntry{
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/first", nil)}}, ContinueHandling: value.OpID{SceneID: 1, Index: 1}},
			{Kind: scene.EventClick, Rect: value.OpID{SceneID: 1, Index: 0},Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/second", nil)}}},
		},
	}
	store.Install(u, vars)
	store.Reparent(1, reparent.ResolvedTarget{Kind: reparent.KindRoot})

	d := NewDispatcher(store)
	eff := &fakeEffects{}
	err := d.Dispatch(Input{Kind: scene.EventClick, X: 5, Y: 5},
		func(scene.SceneID) *ops.Context { return &ops.Context{} },
		func(scene.SceneID) interp.Effects { return eff })
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 1 || eff.replies[0] != "/first" {
		t.Fatalf("expected dispatch to stop after the first handler, got %v", eff.replies)
	}
}
