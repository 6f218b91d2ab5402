package scene

import (
	"testing"

	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/varstore"
)

func resolvedRoot() reparent.ResolvedTarget       { return reparent.ResolvedTarget{Kind: reparent.KindRoot} }
func resolvedDisconnect() reparent.ResolvedTarget { return reparent.ResolvedTarget{Kind: reparent.KindDisconnect} }
func resolvedHide() reparent.ResolvedTarget       { return reparent.ResolvedTarget{Kind: reparent.KindHide} }
func resolvedInside(parent SceneID) reparent.ResolvedTarget {
	return reparent.ResolvedTarget{Kind: reparent.KindInside, Ref: reparent.ID(parent)}
}
func resolvedAfter(sibling SceneID) reparent.ResolvedTarget {
	return reparent.ResolvedTarget{Kind: reparent.KindAfter, Ref: reparent.ID(sibling)}
}

func TestInstallPreservesVariableAcrossReinstall(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()

	store.Install(Update{ID: 1, VarDecls: map[string]value.Value{"count": value.Sint64(0)}}, vars)
	vars.Set(value.VarID{Scene: 1, Key: "count"}, value.Sint64(5))

	store.Install(Update{ID: 1, VarDecls: map[string]value.Value{"count": value.Sint64(0)}}, vars)

	v, ok := vars.Get(value.VarID{Scene: 1, Key: "count"})
	if !ok || v.Sint != 5 {
		t.Errorf("expected live value 5 to survive reinstall, got %v, ok=%v", v, ok)
	}
}

func TestInstallResetsVariableOnTypeChange(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()

	store.Install(Update{ID: 1, VarDecls: map[string]value.Value{"x": value.Sint64(0)}}, vars)
	vars.Set(value.VarID{Scene: 1, Key: "x"}, value.Sint64(99))

	store.Install(Update{ID: 1, VarDecls: map[string]value.Value{"x": value.String("default")}}, vars)

	v, ok := vars.Get(value.VarID{Scene: 1, Key: "x"})
	if !ok || v.Kind != value.KindString || v.Str != "default" {
		t.Errorf("expected reset to new default on type change, got %v", v)
	}
}

func TestReparentRootThenAttached(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()
	store.Install(Update{ID: 1}, vars)

	if err := store.Reparent(1, resolvedRoot()); err != nil {
		t.Fatal(err)
	}
	attached := store.Attached()
	if len(attached) != 1 || attached[0] != 1 {
		t.Errorf("got %v, want [1]", attached)
	}
}

func TestReparentCycleRejected(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()
	store.Install(Update{ID: 1}, vars)
	store.Install(Update{ID: 2}, vars)

	if err := store.Reparent(1, resolvedRoot()); err != nil {
		t.Fatal(err)
	}
	if err := store.Reparent(2, resolvedInside(1)); err != nil {
		t.Fatal(err)
	}

	// 2 is already a descendant of 1; reparenting 1 under 2 must fail
	// and leave the tree unchanged.
	if err := store.Reparent(1, resolvedInside(2)); err == nil {
		t.Fatal("expected a cycle to be rejected")
	}
	attached := store.Attached()
	if len(attached) != 2 || attached[0] != 1 || attached[1] != 2 {
		t.Errorf("tree must be unchanged after a rejected reparent, got %v", attached)
	}
}

func TestDisconnectHidesAndDropsFromTree(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()
	store.Install(Update{ID: 1}, vars)
	if err := store.Reparent(1, resolvedRoot()); err != nil {
		t.Fatal(err)
	}
	if err := store.Reparent(1, resolvedDisconnect()); err != nil {
		t.Fatal(err)
	}
	if len(store.Attached()) != 0 {
		t.Error("expected disconnected scene to not be attached")
	}
	if store.Get(1) == nil {
		t.Error("disconnect must preserve the record")
	}
}

func TestHideKeepsRecordButRemovesFromAttached(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()
	store.Install(Update{ID: 1}, vars)
	if err := store.Reparent(1, resolvedRoot()); err != nil {
		t.Fatal(err)
	}
	if err := store.Reparent(1, resolvedHide()); err != nil {
		t.Fatal(err)
	}
	if len(store.Attached()) != 0 {
		t.Error("hidden scene must not be in the attached set")
	}
}

func TestAttachAfterOrdersSiblings(t *testing.T) {
	vars := varstore.NewStore()
	store := NewStore()
	store.Install(Update{ID: 1}, vars)
	store.Install(Update{ID: 2}, vars)
	store.Install(Update{ID: 3}, vars)

	if err := store.Reparent(1, resolvedRoot()); err != nil {
		t.Fatal(err)
	}
	if err := store.Reparent(2, resolvedAfter(1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Reparent(3, resolvedAfter(1)); err != nil {
		t.Fatal(err)
	}
	got := store.Attached()
	want := []SceneID{1, 3, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
