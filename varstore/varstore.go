// Package varstore implements the per-scene variable store: a mapping
// from variable name to its declared kind and live value, plus
// the subscription bookkeeping the watch engine uses to avoid
// re-evaluating watches a variable write couldn't affect.
package varstore

import (
	"sync"

	"github.com/Wazzaps/boldui/value"
)

type sceneVars struct {
	vars map[string]value.Value
	// subscribers maps a variable name to the set of watch ids (opaque
	// caller-assigned ints) whose condition reads it.
	subscribers map[string]map[int]struct{}
}

// Store holds every scene's variables, keyed by scene id. It is safe
// for concurrent use: the application and the watch/event engines can
// share one Store across goroutines.
type Store struct {
	mu     sync.RWMutex
	scenes map[uint32]*sceneVars
}

func NewStore() *Store {
	return &Store{scenes: make(map[uint32]*sceneVars)}
}

func (s *Store) scene(id uint32) *sceneVars {
	sv, ok := s.scenes[id]
	if !ok {
		sv = &sceneVars{
			vars:        make(map[string]value.Value),
			subscribers: make(map[string]map[int]struct{}),
		}
		s.scenes[id] = sv
	}
	return sv
}

// Reinstall declares decls for scene id: a variable already present
// keeps its live value if the declared Kind still matches; everything
// else is reset to the new default.
func (s *Store) Reinstall(id uint32, decls map[string]value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv := s.scene(id)
	next := make(map[string]value.Value, len(decls))
	for name, def := range decls {
		if old, ok := sv.vars[name]; ok && old.Kind == def.Kind {
			next[name] = old
		} else {
			next[name] = def
		}
	}
	sv.vars = next
}

// Get satisfies ops.VarReader: it resolves a VarID to its current
// value.
func (s *Store) Get(id value.VarID) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sv, ok := s.scenes[id.Scene]
	if !ok {
		return value.Value{}, false
	}
	v, ok := sv.vars[id.Key]
	return v, ok
}

// Set writes through the store and returns the set of watch ids
// subscribed to this variable, for the caller to re-evaluate.
func (s *Store) Set(id value.VarID, v value.Value) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv := s.scene(id.Scene)
	sv.vars[id.Key] = v
	subs := sv.subscribers[id.Key]
	out := make([]int, 0, len(subs))
	for w := range subs {
		out = append(out, w)
	}
	return out
}

// Subscribe records that watchID's condition reads scene:name, so a
// future Set on it returns watchID from its notification list. Callers
// re-subscribe on every scene reinstall (dependency sets are captured
// on first evaluation).
func (s *Store) Subscribe(scene uint32, name string, watchID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv := s.scene(scene)
	subs, ok := sv.subscribers[name]
	if !ok {
		subs = make(map[int]struct{})
		sv.subscribers[name] = subs
	}
	subs[watchID] = struct{}{}
}

// ClearSubscriptions drops every subscription for scene, used when a
// scene is reinstalled and its watches are about to be re-evaluated
// fresh (so stale dependency sets from the previous watch list don't
// linger).
func (s *Store) ClearSubscriptions(scene uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.scenes[scene]
	if !ok {
		return
	}
	sv.subscribers = make(map[string]map[int]struct{})
}
