package resource

import (
	"testing"

	"github.com/Wazzaps/boldui/wire"
)

type fakeDecoder struct{ calls int }

func (f *fakeDecoder) Decode(data []byte) (Image, error) {
	f.calls++
	return Image{Width: 1, Height: 1, RGBA: append([]byte(nil), data...)}, nil
}

func TestAddChunkOutOfOrderCompletes(t *testing.T) {
	dec := &fakeDecoder{}
	s := NewStore(dec)

	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 4, Total: 8, Data: []byte{5, 6, 7, 8}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("resource should not be ready after only the second half arrived")
	}
	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 0, Data: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatal(err)
	}

	img, ok := s.Get(1)
	if !ok {
		t.Fatal("expected resource to be ready once both chunks arrived")
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if len(img.RGBA) != len(want) {
		t.Fatalf("got %v, want %v", img.RGBA, want)
	}
	for i := range want {
		if img.RGBA[i] != want[i] {
			t.Fatalf("got %v, want %v", img.RGBA, want)
		}
	}
	if dec.calls != 1 {
		t.Errorf("expected exactly one decode, got %d", dec.calls)
	}
}

func TestAddChunkOverlappingRangesCoalesce(t *testing.T) {
	dec := &fakeDecoder{}
	s := NewStore(dec)

	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 0, Total: 4, Data: []byte{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("not ready yet")
	}
	// overlaps the tail of the first chunk but extends to cover the rest.
	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 2, Data: []byte{30, 40}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(1); !ok {
		t.Fatal("expected overlapping ranges to merge into full coverage")
	}
}

func TestZeroLengthChunkIsNoOp(t *testing.T) {
	dec := &fakeDecoder{}
	s := NewStore(dec)
	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 0, Total: 4, Data: nil}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("a 0-length chunk must not complete a nonzero-total resource")
	}
}

func TestDeallocDropsAtZeroRefcount(t *testing.T) {
	dec := &fakeDecoder{}
	s := NewStore(dec)
	if err := s.AddChunk(wire.ResourceChunk{Resource: 1, Offset: 0, Total: 2, Data: []byte{9, 9}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(1); !ok {
		t.Fatal("expected resource ready")
	}

	s.Retain(1)
	s.Dealloc(1)
	if _, ok := s.Get(1); !ok {
		t.Fatal("expected resource to survive one dealloc after a retain brought refcount to 2")
	}

	s.Dealloc(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("expected resource to be dropped once refcount reaches 0")
	}
}
