package watch

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

func (f *fakeEffects) SetVar(value.VarID, value.Value)                          {}
func (f *fakeEffects) Reparent(scene.SceneID, reparent.ResolvedTarget) error    { return nil }
func (f *fakeEffects) Reply(path string, params []value.Value)                 { f.replies = append(f.replies, path) }
func (f *fakeEffects) Open(string)                                             {}
func (f *fakeEffects) AllocateWindowID() scene.SceneID                         { return 0 }
func (f *fakeEffects) DebugMessage(string)                                    {}

func newAttachedScene(t *testing.T, store *scene.Store, vars *varstore.Store, u scene.Update) {
	t.Helper()
	store.Install(u, vars)
	if err := store.Reparent(u.ID, reparent.ResolvedTarget{Kind: reparent.KindRoot}); err != nil {
		t.Fatal(err)
	}
}

func TestWatchFiresOnEdge(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID: 1,
		Ops: []ops.Op{
			ops.Var(value.VarID{Scene: 1, Key: "ready"}),
		},
		VarDecls: map[string]value.Value{"ready": value.Sint64(0)},
		Watches: []scene.Watch{
			{Condition: value.OpID{SceneID: 1, Index: 0}, Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/tick", nil)}}},
		},
	}
	newAttachedScene(t, store, vars, u)

	eng := NewEngine(store)
	eff := &fakeEffects{}
	ctxFn := func(id scene.SceneID) *ops.Context { return &ops.Context{Vars: vars} }
	effFn := func(id scene.SceneID) interp.Effects { return eff }

	if err := eng.Flush(ctxFn, effFn); err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 0 {
		t.Fatalf("watch should not fire while condition is falsy, got %v", eff.replies)
	}

	vars.Set(value.VarID{Scene: 1, Key: "ready"}, value.Sint64(1))
	if err := eng.Flush(ctxFn, effFn); err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 1 {
		t.Fatalf("expected watch to fire once on the rising edge, got %v", eff.replies)
	}

	// Still truthy on next flush: must not re-fire (edge-triggered).
	if err := eng.Flush(ctxFn, effFn); err != nil {
		t.Fatal(err)
	}
	if len(eff.replies) != 1 {
		t.Fatalf("watch must not re-fire while condition stays truthy, got %v", eff.replies)
	}
}

func TestWatchBlocksUntilAck(t *testing.T) {
	vars := varstore.NewStore()
	store := scene.NewStore()
	u := scene.Update{
		ID:  1,
		Ops: []ops.Op{ops.Value(value.Sint64(1))},
		Watches: []scene.Watch{
			{Condition: value.OpID{SceneID: 1, Index: 0}, Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/tick", nil)}}, WaitForRoundtrip: true},
		},
	}
	newAttachedScene(t, store, vars, u)

	eng := NewEngine(store)
	eff := &fakeEffects{}
	ctxFn := func(id scene.SceneID) *ops.Context { return &ops.Context{Vars: vars} }
	effFn := func(id scene.SceneID) interp.Effects { return eff }

	eng.Flush(ctxFn, effFn)
	if len(eff.replies) != 1 {
		t.Fatalf("expected one fire, got %v", eff.replies)
	}

	// Force the edge-detection state to look fresh by resetting lastTruthy.
	eng.state[ID{Scene: 1, Index: 0}].lastTruthy = false
	eng.Flush(ctxFn, effFn)
	if len(eff.replies) != 1 {
		t.Fatalf("watch must stay blocked until acked, got %v", eff.replies)
	}

	eng.Ack(ID{Scene: 1, Index: 0})
	eng.state[ID{Scene: 1, Index: 0}].lastTruthy = false
	eng.Flush(ctxFn, effFn)
	if len(eff.replies) != 2 {
		t.Fatalf("watch should fire again after ack, got %v", eff.replies)
	}
}
