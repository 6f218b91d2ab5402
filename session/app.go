package session

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/store"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/wire"
)

// Application is the application-process half of the protocol: it owns
// the view/reply registries, every live Session, and the main loop
// that reads R2AMessages from a renderer and writes A2RMessages back.
type Application struct {
	viewHandlers  []ViewHandler
	replyHandlers []ReplyHandler

	sessions      map[string]*Session
	sceneToSession map[scene.SceneID]string
	nextSceneID   uint32

	store store.Store
	out   io.Writer
}

// NewApplication returns an Application with an in-process Memory
// store; call SetStore before Run to persist sessions across restarts.
func NewApplication() *Application {
	return &Application{
		sessions:       make(map[string]*Session),
		sceneToSession: make(map[scene.SceneID]string),
		nextSceneID:    1,
		store:          store.NewMemory(),
	}
}

func (a *Application) SetStore(s store.Store) { a.store = s }

// View registers handler to build the scene shown when a renderer
// opens path. newState is called (and its result persisted) the first
// time a session opens this view. With a nil newState only a session
// already held in memory can open the view; a new or stored session
// id makes the open fail.
func (a *Application) View(path string, newState func() any, handler func(sc *Scene, state any, query map[string]string)) {
	a.viewHandlers = append(a.viewHandlers, ViewHandler{Path: splitPath(path), NewState: newState, Handler: handler})
}

// OnReply registers handler to run when a renderer batches a reply to
// path.
func (a *Application) OnReply(path string, newState func() any, handler func(state any, query map[string]string, params []value.Value)) {
	a.replyHandlers = append(a.replyHandlers, ReplyHandler{Path: splitPath(path), NewState: newState, Handler: handler})
}

func (a *Application) viewHandlerByPath(path []string) *ViewHandler {
	for i := range a.viewHandlers {
		if pathsEqual(a.viewHandlers[i].Path, path) {
			return &a.viewHandlers[i]
		}
	}
	return nil
}

func (a *Application) replyHandlerByPath(path []string) *ReplyHandler {
	for i := range a.replyHandlers {
		if pathsEqual(a.replyHandlers[i].Path, path) {
			return &a.replyHandlers[i]
		}
	}
	return nil
}

// Run speaks the handshake, then loops reading R2AMessages from in and
// writing A2RMessages to out until the connection closes.
func (a *Application) Run(in io.Reader, out io.Writer) error {
	a.out = out

	hello, err := wire.ReadR2AHello(in)
	if err != nil {
		return err
	}
	resp := wire.A2RHelloResponse{
		ProtoMajor: uint16(wire.CurrentVersion.Major),
		ProtoMinor: uint16(wire.CurrentVersion.Minor),
	}
	if !wire.Negotiate(hello, wire.CurrentVersion) {
		resp.Error = &wire.Error{Text: fmt.Sprintf("incompatible protocol version (renderer wants %d.%d..%d)",
			hello.MinMajor, hello.MinMinor, hello.MaxMajor)}
	}
	if err := wire.WriteA2RHelloResponse(out, resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("session: %s", resp.Error.Text)
	}
	log.Printf("session: connected")

	for {
		payload, err := readFrameOrEOF(in)
		if errors.Is(err, io.EOF) {
			log.Printf("session: connection closed, bye!")
			return nil
		}
		if err != nil {
			return err
		}

		msg, err := wire.DecodeR2A(payload)
		if err != nil {
			a.sendError(1, err.Error())
			return err
		}

		switch msg.Kind {
		case wire.R2AKindUpdate:
			for _, rep := range msg.Replies {
				a.handleReply(rep)
			}
		case wire.R2AKindOpen:
			a.openWindow(msg.Path)
		case wire.R2AKindError:
			log.Printf("session: renderer error %d: %s", msg.Code, msg.Text)
		default:
			return fmt.Errorf("session: unknown R2A message kind %d", msg.Kind)
		}
	}
}

func (a *Application) openWindow(rawPath string) {
	path, query := parseRelativePath(rawPath)

	vh := a.viewHandlerByPath(path)
	if vh == nil {
		log.Printf("session: no view handler for %v", path)
		a.sendError(1, fmt.Sprintf("not found: %s", rawPath))
		return
	}

	sessionID, ok := query["session"]
	if !ok {
		sessionID = uuid.New().String()
	}

	sess, err := a.fetchSession(sessionID, vh.NewState)
	if err != nil {
		log.Printf("session: %v", err)
		a.sendError(1, err.Error())
		return
	}

	id := scene.SceneID(a.nextSceneID)
	a.nextSceneID++
	a.sceneToSession[id] = sessionID
	sess.scenes = append(sess.scenes, sessionScene{id: id, path: path, query: query})

	sc := a.buildScene(id, sessionID, query, vh, sess.State)
	a.sendUpdate(wire.A2RMessage{
		Kind:          wire.A2RKindUpdate,
		UpdatedScenes: []scene.Update{*sc.update},
		RunBlocks:     sc.runBlocks,
	})

	a.persist(sess)
}

func (a *Application) buildScene(id scene.SceneID, sessionID string, query map[string]string, vh *ViewHandler, state any) *Scene {
	sc := newScene(id)
	sc.app = a
	sc.SetAttr(scene.AttrUri, sc.Str(fmt.Sprintf("/?session=%s", sessionID)))
	if windowID, ok := query["window_id"]; ok {
		sc.DeclVar(":window_id", value.String(windowID))
	}
	vh.Handler(sc, state, query)
	return sc
}

func (a *Application) handleReply(rep wire.Reply) {
	path, query := parseRelativePath(rep.Path)
	sessionID := query["session"]

	rh := a.replyHandlerByPath(path)
	if rh == nil {
		log.Printf("session: no reply handler for %v", path)
		a.sendError(1, fmt.Sprintf("not found: %s", rep.Path))
		return
	}

	sess, err := a.fetchSession(sessionID, rh.NewState)
	if err != nil {
		log.Printf("session: %v", err)
		return
	}

	rh.Handler(sess.State, query, rep.Params)
	a.persist(sess)
	a.reemit(sess)
}

// reemit re-runs every scene's view handler and resends the resulting
// update. This is conservative dirty propagation: a reply might have
// touched the session model anywhere, so every scene tied to it is
// fully re-emitted rather than diffed.
func (a *Application) reemit(sess *Session) {
	for _, ss := range sess.scenes {
		vh := a.viewHandlerByPath(ss.path)
		if vh == nil {
			continue
		}
		sc := a.buildScene(ss.id, sess.ID, ss.query, vh, sess.State)
		a.sendUpdate(wire.A2RMessage{
			Kind:          wire.A2RKindUpdate,
			UpdatedScenes: []scene.Update{*sc.update},
			RunBlocks:     sc.runBlocks,
		})
	}
}

func (a *Application) fetchSession(sessionID string, newState func() any) (*Session, error) {
	if sess, ok := a.sessions[sessionID]; ok {
		return sess, nil
	}

	if a.store != nil {
		data, ok, err := a.store.Load(sessionID)
		if err != nil {
			return nil, fmt.Errorf("session: load %s: %w", sessionID, err)
		}
		if ok {
			if newState == nil {
				return nil, fmt.Errorf("session: cannot recreate session %s: view has no state factory", sessionID)
			}
			state := newState()
			if err := json.Unmarshal(data, state); err != nil {
				return nil, fmt.Errorf("session: decode state for %s: %w", sessionID, err)
			}
			sess := &Session{ID: sessionID, State: state}
			a.sessions[sessionID] = sess
			return sess, nil
		}
	}

	if newState == nil {
		return nil, fmt.Errorf("session: unknown session %s", sessionID)
	}
	sess := &Session{ID: sessionID, State: newState()}
	a.sessions[sessionID] = sess
	a.persist(sess)
	return sess, nil
}

func (a *Application) persist(sess *Session) {
	if a.store == nil {
		return
	}
	data, err := json.Marshal(sess.State)
	if err != nil {
		log.Printf("session: encode state for %s: %v", sess.ID, err)
		return
	}
	if err := a.store.Save(sess.ID, data); err != nil {
		log.Printf("session: save %s: %v", sess.ID, err)
	}
}

func (a *Application) sendUpdate(msg wire.A2RMessage) {
	if err := wire.WriteFrame(a.out, wire.EncodeA2R(msg)); err != nil {
		log.Printf("session: write update: %v", err)
	}
}

func (a *Application) sendError(code int32, text string) {
	a.sendUpdate(wire.A2RMessage{Kind: wire.A2RKindError, Code: code, Text: text})
}

// readFrameOrEOF reads one u32-LE-length-prefixed frame, returning
// io.EOF (unwrapped) when the stream closes cleanly on a frame
// boundary, so Run can tell a closed connection apart from a
// truncated one.
func readFrameOrEOF(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	n, err := io.ReadFull(r, lenBuf[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &wire.ProtocolError{Msg: fmt.Sprintf("reading frame length: %v", err)}
	}
	length := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, &wire.ProtocolError{Msg: fmt.Sprintf("reading frame payload: %v", err)}
	}
	return payload, nil
}
