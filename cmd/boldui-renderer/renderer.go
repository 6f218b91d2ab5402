package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Wazzaps/boldui/event"
	"github.com/Wazzaps/boldui/interp"
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/resource"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/varstore"
	"github.com/Wazzaps/boldui/watch"
	"github.com/Wazzaps/boldui/wire"
)

// renderer owns every piece of renderer-side protocol state: the scene
// store, its variables, the watch/event engines, and the resource
// table. Only one goroutine (the nucular update callback) ever touches
// these fields directly; ioLoop only ever posts decoded messages onto
// updates, mirroring the application's own single-owner-goroutine loop.
type renderer struct {
	transport wire.Transport

	store     *scene.Store
	vars      *varstore.Store
	watches   *watch.Engine
	dispatch  *event.Dispatcher
	resources *resource.Store

	updates chan wire.A2RMessage
	ioErr   chan error

	mu            sync.Mutex
	pendingReplies []wire.Reply
	pendingOpens   []string
	nextAllocID    uint32

	width, height int64
	windowID      string
}

func newRenderer(t wire.Transport) *renderer {
	store := scene.NewStore()
	return &renderer{
		transport: t,
		store:     store,
		vars:      varstore.NewStore(),
		watches:   watch.NewEngine(store),
		dispatch:  event.NewDispatcher(store),
		resources: resource.NewStore(resource.StdDecoder{}),
		updates:   make(chan wire.A2RMessage, 16),
		ioErr:     make(chan error, 1),
		nextAllocID: 1 << 20,
		width:       640,
		height:      480,
		windowID:    "main",
	}
}

// handshake speaks the renderer's half of the connection handshake:
// advertise the version range this build accepts, then read the
// application's own Hello back.
func (r *renderer) handshake() error {
	if err := wire.WriteR2AHello(r.transport, wire.R2AHello{
		MinMajor: uint16(wire.CurrentVersion.Major),
		MaxMajor: uint16(wire.CurrentVersion.Major),
	}); err != nil {
		return err
	}
	resp, err := wire.ReadA2RHelloResponse(r.transport)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("boldui-renderer: %s", resp.Error.Text)
	}
	return nil
}

// ioLoop reads frames off the transport and posts decoded messages to
// updates until the connection closes or a frame fails to decode.
func (r *renderer) ioLoop() {
	for {
		payload, err := wire.ReadFrame(r.transport)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.ioErr <- nil
			} else {
				r.ioErr <- err
			}
			close(r.updates)
			return
		}
		msg, err := wire.DecodeA2R(payload)
		if err != nil {
			r.ioErr <- err
			close(r.updates)
			return
		}
		r.updates <- msg
	}
}

// open sends an R2AOpen for path, the renderer's side of navigating to
// a view for the first time (or switching paths entirely).
func (r *renderer) open(path string) {
	r.send(wire.R2AMessage{Kind: wire.R2AKindOpen, Path: path})
}

func (r *renderer) send(msg wire.R2AMessage) {
	if err := wire.WriteFrame(r.transport, wire.EncodeR2A(msg)); err != nil {
		log.Printf("boldui-renderer: write: %v", err)
	}
}

// drainUpdates applies every A2RMessage queued since the last frame,
// non-blocking: a redraw must never stall waiting on the application.
func (r *renderer) drainUpdates() {
	for {
		select {
		case msg, ok := <-r.updates:
			if !ok {
				return
			}
			r.applyUpdate(msg)
		default:
			return
		}
	}
}

func (r *renderer) applyUpdate(msg wire.A2RMessage) {
	switch msg.Kind {
	case wire.A2RKindUpdate:
		for _, u := range msg.UpdatedScenes {
			r.store.Install(u, r.vars)
			r.watches.ForgetScene(u.ID)
			if w, ok := r.vars.Get(value.VarID{Scene: uint32(u.ID), Key: ":window_initial_size_x"}); ok && w.Kind == value.KindSint64 {
				r.width = w.Sint
			}
			if h, ok := r.vars.Get(value.VarID{Scene: uint32(u.ID), Key: ":window_initial_size_y"}); ok && h.Kind == value.KindSint64 {
				r.height = h.Sint
			}
		}
		for _, c := range msg.ResourceChunks {
			if err := r.resources.AddChunk(c); err != nil {
				log.Printf("boldui-renderer: resource %d: %v", c.Resource, err)
			}
		}
		for _, id := range msg.ResourceDeallocs {
			r.resources.Dealloc(resource.ID(id))
		}
		for _, block := range msg.RunBlocks {
			if err := interp.Run(block, r.ctxFor(0), r.effects()); err != nil {
				log.Printf("boldui-renderer: run block: %v", err)
			}
		}
	case wire.A2RKindError:
		log.Printf("boldui-renderer: application error %d: %s", msg.Code, msg.Text)
	case wire.A2RKindCompressedUpdate:
		log.Printf("boldui-renderer: compressed updates are not supported by this reference renderer")
	}
}

// ctxFor builds the ambient evaluation context for sceneID: the
// window's current geometry, a single time snapshot, and this
// renderer's own var store and cross-scene resolver.
func (r *renderer) ctxFor(sceneID scene.SceneID) *ops.Context {
	return &ops.Context{
		Width:    r.width,
		Height:   r.height,
		WindowID: r.windowID,
		Time:     float64(time.Now().UnixNano()) / 1e9,
		Vars:     r.vars,
		Scenes:   sceneResolver{r.store},
	}
}

// sceneResolver lets an Evaluator cross into another scene's ops array
// when an OpId names a scene other than the one being evaluated.
type sceneResolver struct{ store *scene.Store }

func (s sceneResolver) Eval(sceneID uint32, index uint32, ctx *ops.Context) (value.Value, error) {
	rec := s.store.Get(scene.SceneID(sceneID))
	if rec == nil {
		return value.Value{}, fmt.Errorf("cross-scene op references unknown scene %d", sceneID)
	}
	ev := ops.NewEvaluator(sceneID, rec.Update.Ops)
	return ev.Eval(index, ctx)
}

// effects returns the interp.Effects this renderer runs HandlerBlocks
// against: variable writes, reparents, and queued replies/opens flush
// to the application after the triggering frame.
func (r *renderer) effects() interp.Effects { return rendererEffects{r} }

type rendererEffects struct{ r *renderer }

func (e rendererEffects) SetVar(id value.VarID, v value.Value) {
	e.r.vars.Set(id, v)
}

func (e rendererEffects) Reparent(id scene.SceneID, to reparent.ResolvedTarget) error {
	return e.r.store.Reparent(id, to)
}

func (e rendererEffects) Reply(path string, params []value.Value) {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	e.r.pendingReplies = append(e.r.pendingReplies, wire.Reply{Path: path, Params: params})
}

func (e rendererEffects) Open(path string) {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	e.r.pendingOpens = append(e.r.pendingOpens, path)
}

func (e rendererEffects) AllocateWindowID() scene.SceneID {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	id := e.r.nextAllocID
	e.r.nextAllocID++
	return scene.SceneID(id)
}

func (e rendererEffects) DebugMessage(msg string) {
	log.Printf("boldui-renderer: debug: %s", msg)
}

// flushOutbound sends any replies and opens queued by this frame's
// handler runs, batching every pending reply into a single R2AUpdate
// exactly as a renderer issuing several replies in one pass should.
func (r *renderer) flushOutbound() {
	r.mu.Lock()
	replies := r.pendingReplies
	opens := r.pendingOpens
	r.pendingReplies = nil
	r.pendingOpens = nil
	r.mu.Unlock()

	if len(replies) > 0 {
		r.send(wire.R2AMessage{Kind: wire.R2AKindUpdate, Replies: replies})
	}
	for _, path := range opens {
		r.open(path)
	}
}
