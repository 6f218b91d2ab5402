package scene

import (
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/varstore"
)

// Record is a stored scene's latest declaration. Its tree position is
// owned by the Store's reparent.Tree, not kept here, so a reinstall
// never has to touch it.
type Record struct {
	Update Update
}

// Store is SceneId -> Record plus the tree of attached scenes. The
// tree mechanics themselves (cycle rejection, Hide vs Disconnect,
// Inside/After ordering) live in the reparent package; Store adapts
// its SceneID type to reparent.ID at the boundary.
type Store struct {
	records map[SceneID]*Record
	tree    *reparent.Tree
}

func NewStore() *Store {
	return &Store{
		records: make(map[SceneID]*Record),
		tree:    reparent.NewTree(),
	}
}

// Get returns the record for id, or nil if unknown.
func (s *Store) Get(id SceneID) *Record {
	return s.records[id]
}

// Install adds or replaces a scene by id, preserving the live value of
// any variable still declared with the same Kind and clearing any
// dependent evaluation caches the caller holds. The scene keeps its tree position across reinstall.
func (s *Store) Install(u Update, vars *varstore.Store) {
	s.records[u.ID] = &Record{Update: u}
	s.tree.Register(reparent.ID(u.ID))
	vars.Reinstall(uint32(u.ID), u.VarDecls)
}

// Attached reports the set of scene ids reachable from Root via
// Inside/After edges, i.e. the scenes eligible for evaluation/render.
func (s *Store) Attached() []SceneID {
	ids := s.tree.Attached()
	out := make([]SceneID, len(ids))
	for i, id := range ids {
		out[i] = SceneID(id)
	}
	return out
}

// Reparent applies one already-resolved tree edit atomically.
// Resolving a Target's OpId-addressed Ref down to a ResolvedTarget is
// the handler interpreter's job, since only it holds an evaluator.
func (s *Store) Reparent(id SceneID, target reparent.ResolvedTarget) error {
	return s.tree.Reparent(reparent.ID(id), target)
}
