// Package watch implements the renderer-side watch engine:
// edge-triggered re-evaluation of each scene's Watch conditions after
// any stimulus that could have changed a variable, with ack-gating for
// watches that must not re-fire until the application acknowledges.
package watch

import (
	"github.com/Wazzaps/boldui/interp"
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/scene"
)

// ID identifies one watch within the engine: the owning scene plus its
// index in that scene's Watches slice (install order,).
type ID struct {
	Scene scene.SceneID
	Index int
}

// maxRoundsPerBatch bounds re-firing within one flush so a watch that
// writes a variable which retriggers itself can't loop forever.
const maxRoundsPerBatch = 8

// state is the engine's per-watch bookkeeping: whether it was truthy
// last time (for edge detection) and whether it's blocked on an ack.
type state struct {
	lastTruthy bool
	blocked    bool
}

// Engine runs every attached scene's watches to fixpoint (bounded by
// maxRoundsPerBatch) whenever Flush is called.
type Engine struct {
	store *scene.Store
	state map[ID]*state
}

func NewEngine(store *scene.Store) *Engine {
	return &Engine{store: store, state: make(map[ID]*state)}
}

// Ack releases a blocked watch, letting it fire again next Flush if
// its condition is still (or newly) truthy.
func (e *Engine) Ack(id ID) {
	if s, ok := e.state[id]; ok {
		s.blocked = false
	}
}

// AckAllForScene releases every blocked watch owned by sceneID, used
// when a new A2RUpdateScene arrives for a watch with WaitForRebuild set.
func (e *Engine) AckAllForScene(sceneID scene.SceneID) {
	for id, s := range e.state {
		if id.Scene == sceneID {
			s.blocked = false
		}
	}
}

// ReleaseAllOnReconnect unblocks every watch, cancellation
// rule: "on reconnection, all blocked watches are released."
func (e *Engine) ReleaseAllOnReconnect() {
	for _, s := range e.state {
		s.blocked = false
	}
}

// Flush re-evaluates every attached scene's watches in installation
// order, running handlers for conditions that edge-trigger from
// non-truthy to truthy, up to maxRoundsPerBatch rounds.
func (e *Engine) Flush(ctxFor func(scene.SceneID) *ops.Context, eff func(scene.SceneID) interp.Effects) error {
	for round := 0; round < maxRoundsPerBatch; round++ {
		fired := false
		for _, sceneID := range e.store.Attached() {
			rec := e.store.Get(sceneID)
			if rec == nil {
				continue
			}
			ev := ops.NewEvaluator(uint32(sceneID), rec.Update.Ops)
			ctx := ctxFor(sceneID)
			for i, w := range rec.Update.Watches {
				id := ID{Scene: sceneID, Index: i}
				st, ok := e.state[id]
				if !ok {
					st = &state{}
					e.state[id] = st
				}

				cond, err := ev.Resolve(w.Condition, ctx)
				if err != nil {
					return err
				}
				truthy := cond.Truthy()
				edge := truthy && !st.lastTruthy
				st.lastTruthy = truthy

				if !edge || st.blocked {
					continue
				}

				if err := interp.Run(w.Handler, ctx, eff(sceneID)); err != nil {
					return err
				}
				fired = true
				if w.WaitForRoundtrip {
					st.blocked = true
				}
			}
		}
		if !fired {
			return nil
		}
	}
	return nil
}

// ForgetScene drops state for every watch owned by sceneID, used when
// a scene is reinstalled so dependency/edge state starts fresh. A
// watch's edge-detection state is recomputed against the new ops array
// rather than compared to a stale truthy flag from the old one.
func (e *Engine) ForgetScene(sceneID scene.SceneID) {
	for id := range e.state {
		if id.Scene == sceneID {
			delete(e.state, id)
		}
	}
}
