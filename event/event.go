// Package event implements the renderer-side pointer event dispatcher:
// for each attached scene, walk its event handlers in install order,
// hit-test the re-evaluated rect, and run every match's handler block
// until one's continue_handling is null or evaluates falsy.
package event

import (
	"github.com/Wazzaps/boldui/interp"
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// Input is one pointer event: its kind and position. Scroll events
// additionally populate ctx's `:scroll_x`/`:scroll_y`; the caller's
// ctxFor is responsible for setting up the right builtin fields for
// the event kind being dispatched.
type Input struct {
	Kind scene.EventKind
	X, Y float64
}

// Dispatcher runs Input events against a Store's attached scenes.
type Dispatcher struct {
	store *scene.Store
}

func NewDispatcher(store *scene.Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch walks every attached scene's event handlers in install
// order, across scenes in the store's attached order. ctxFor builds
// the ambient Context for a scene (with the event's coordinates
// already populated); eff supplies the Effects a matched handler runs
// against. Dispatch stops the instant a matched handler's
// continue_handling is null or evaluates falsy; a truthy result lets
// dispatch continue to the next handler, possibly in another scene.
func (d *Dispatcher) Dispatch(in Input, ctxFor func(scene.SceneID) *ops.Context, eff func(scene.SceneID) interp.Effects) error {
	for _, sceneID := range d.store.Attached() {
		rec := d.store.Get(sceneID)
		if rec == nil {
			continue
		}
		ctx := ctxFor(sceneID)
		ev := ops.NewEvaluator(uint32(sceneID), rec.Update.Ops)

		for _, entry := range rec.Update.EventHandlers {
			if entry.Kind != in.Kind {
				continue
			}
			rectVal, err := ev.Resolve(entry.Rect, ctx)
			if err != nil {
				return err
			}
			if rectVal.Kind != value.KindRect {
				continue
			}
			if !rectVal.Rect.Contains(value.Point{Left: in.X, Top: in.Y}) {
				continue
			}

			if err := interp.Run(entry.Handler, ctx, eff(sceneID)); err != nil {
				return err
			}

			if entry.ContinueHandling.IsNull() {
				return nil
			}
			cont, err := ev.Resolve(entry.ContinueHandling, ctx)
			if err != nil {
				return err
			}
			if !cont.Truthy() {
				return nil
			}
		}
	}
	return nil
}
