package reparent

import "testing"

func TestRegisterIsIdempotent(t *testing.T) {
	tr := NewTree()
	tr.Register(1)
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	tr.Register(1)
	if !tr.IsAttached(1) {
		t.Error("re-registering an already-attached id must not reset its position")
	}
}

func TestInsideRejectsSelfParent(t *testing.T) {
	tr := NewTree()
	tr.Register(1)
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindInside, Ref: 1}); err == nil {
		t.Fatal("expected moving a node inside itself to be rejected")
	}
}

func TestInsideRejectsDescendantCycle(t *testing.T) {
	tr := NewTree()
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(2, ResolvedTarget{Kind: KindInside, Ref: 1}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindInside, Ref: 2}); err == nil {
		t.Fatal("expected a cycle through a descendant to be rejected")
	}
	got := tr.Attached()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("tree must be unchanged after a rejected reparent, got %v", got)
	}
}

func TestAfterUnknownSiblingFails(t *testing.T) {
	tr := NewTree()
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(2, ResolvedTarget{Kind: KindAfter, Ref: 99}); err == nil {
		t.Fatal("expected After of an unknown sibling to fail")
	}
}

func TestHideThenRootReattaches(t *testing.T) {
	tr := NewTree()
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindHide}); err != nil {
		t.Fatal(err)
	}
	if tr.IsAttached(1) {
		t.Fatal("expected hidden node to not be attached")
	}
	if !tr.IsHidden(1) {
		t.Fatal("expected IsHidden to report the hide")
	}
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	if !tr.IsAttached(1) || tr.IsHidden(1) {
		t.Fatal("expected reattaching at root to clear the hidden flag")
	}
}

func TestWalkOrderIsParentBeforeChildren(t *testing.T) {
	tr := NewTree()
	if err := tr.Reparent(1, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(2, ResolvedTarget{Kind: KindInside, Ref: 1}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reparent(3, ResolvedTarget{Kind: KindRoot}); err != nil {
		t.Fatal(err)
	}
	got := tr.Attached()
	want := []ID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
