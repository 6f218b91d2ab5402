// Package resource implements the renderer-side resource table:
// reassembling a ResourceId's byte payload from out-of-order chunks,
// decoding it to an image on completion, and refcounting it so that
// resource_deallocs can free decoded images promptly.
package resource

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Wazzaps/boldui/wire"
)

// ID identifies one resource, matching the wire format's u64 id.
type ID uint64

// Decoder turns a resource's assembled bytes into a decoded image. The
// reference implementation in this package wraps the standard image
// codecs plus golang.org/x/image/bmp; callers in tests or other
// renderers can substitute their own.
type Decoder interface {
	Decode(data []byte) (Image, error)
}

// Image is the renderer-agnostic decoded result a Decoder produces.
// render.Surface.DrawImage consumes this rather than a concrete
// image.Image so the resource package doesn't have to import a
// particular rendering backend.
type Image struct {
	Width, Height int
	// RGBA is the decoded pixel data, 4 bytes per pixel, row-major,
	// matching image.RGBA's Pix layout so render/nucular can wrap it
	// directly without a copy.
	RGBA []byte
}

// byteRange is a half-open [Start, End) span of already-received bytes
// within an assembling resource.
type byteRange struct{ Start, End uint64 }

// assembling is one resource's in-progress chunk reassembly state.
type assembling struct {
	total   uint64 // 0 until some chunk declares it
	haveLen uint64 // not read or written; coverage is tracked by ranges
	ranges  []byteRange
	buf     []byte
}

func (a *assembling) addChunk(offset, total uint64, data []byte) {
	if total > 0 {
		a.total = total
	}
	end := offset + uint64(len(data))
	if end > uint64(len(a.buf)) {
		grown := make([]byte, end)
		copy(grown, a.buf)
		a.buf = grown
	}
	copy(a.buf[offset:end], data)
	a.ranges = insertRange(a.ranges, byteRange{Start: offset, End: end})
}

// ready reports whether the received ranges cover [0, total): chunks
// are offset-addressed and may arrive out of order, so completeness is
// "do the merged ranges cover the whole declared length", not "did we
// see a terminal chunk".
func (a *assembling) ready() bool {
	if a.total == 0 {
		return false
	}
	if len(a.ranges) != 1 {
		return false
	}
	return a.ranges[0].Start == 0 && a.ranges[0].End >= a.total
}

// insertRange merges r into ranges, keeping them sorted and coalesced.
// 0-length chunks (Start == End) are no-ops
func insertRange(ranges []byteRange, r byteRange) []byteRange {
	if r.Start == r.End {
		return ranges
	}
	ranges = append(ranges, r)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	out := ranges[:1]
	for _, cur := range ranges[1:] {
		last := &out[len(out)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		out = append(out, cur)
	}
	return out
}

// entry is one completed, refcounted resource.
type entry struct {
	data    []byte
	decoded *Image
	refs    int
}

// Store holds every resource the renderer knows about: chunks still
// being assembled and completed, refcounted, decoded entries. A
// resource starts at refcount 1 the moment its chunks complete; each
// later id in an A2RUpdate's resource_deallocs decrements it, and the
// decoded image is dropped once the count reaches zero.
type Store struct {
	mu         sync.Mutex
	assembling map[ID]*assembling
	ready      map[ID]*entry
	decoder    Decoder
}

func NewStore(decoder Decoder) *Store {
	return &Store{
		assembling: make(map[ID]*assembling),
		ready:      make(map[ID]*entry),
		decoder:    decoder,
	}
}

// AddChunk feeds one received ResourceChunk into the assembler for its
// resource id. A 0-length chunk is a permitted no-op. Once the
// chunk set covers the whole declared length the resource is decoded
// and moved into the ready table with refcount 1.
func (s *Store) AddChunk(c wire.ResourceChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ID(c.Resource)
	if _, done := s.ready[id]; done {
		// A resource that's already complete being re-chunked (e.g. a
		// reconnect resending state) restarts assembly for a fresh
		// decode; the old entry and its refcount are dropped at once.
		delete(s.ready, id)
	}
	a, ok := s.assembling[id]
	if !ok {
		a = &assembling{}
		s.assembling[id] = a
	}
	a.addChunk(c.Offset, c.Total, c.Data)

	if !a.ready() {
		return nil
	}
	delete(s.assembling, id)

	img, err := s.decoder.Decode(a.buf)
	if err != nil {
		return fmt.Errorf("resource %d: decode: %w", id, err)
	}
	s.ready[id] = &entry{data: a.buf, decoded: &img, refs: 1}
	return nil
}

// Get returns the decoded image for id, or (nil, false) if it isn't
// ready yet (or was never fully received).
func (s *Store) Get(id ID) (*Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ready[id]
	if !ok {
		return nil, false
	}
	return e.decoded, true
}

// Dealloc decrements id's refcount and drops the decoded image once it
// reaches zero.
func (s *Store) Dealloc(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ready[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.ready, id)
	}
}

// Retain bumps id's refcount, used when more than one scene references
// the same resource (e.g. the same icon drawn in two windows).
func (s *Store) Retain(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.ready[id]; ok {
		e.refs++
	}
}
