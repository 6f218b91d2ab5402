package session

import (
	"net/url"
	"strings"

	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// Session is one application-level session: the long-lived state a
// view's handler closes over, plus every scene it's currently behind
// (so a reply can re-emit all of them once it marks the state dirty).
type Session struct {
	ID     string
	State  any
	scenes []sessionScene
}

type sessionScene struct {
	id    scene.SceneID
	path  []string
	query map[string]string
}

// ViewHandler answers an R2AOpen for one path: it builds the scene
// that becomes the window's contents.
type ViewHandler struct {
	Path     []string
	NewState func() any
	Handler  func(sc *Scene, state any, query map[string]string)
}

// ReplyHandler answers a batched reply for one path. Any scenes the session is currently behind
// are re-emitted once the handler returns (conservative dirty
// propagation,: the whole scene is re-sent, not a diff).
type ReplyHandler struct {
	Path     []string
	NewState func() any
	Handler  func(state any, query map[string]string, params []value.Value)
}

// splitPath turns a URI path into the segment slice view/reply
// handlers are registered and matched by.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// parseRelativePath splits "path?k=v&..." into its path segments and
// its query parameters, ignoring repeated keys past the first.
func parseRelativePath(raw string) ([]string, map[string]string) {
	before, query, _ := strings.Cut(raw, "?")
	out := make(map[string]string)
	if query != "" {
		if values, err := url.ParseQuery(query); err == nil {
			for k, v := range values {
				if len(v) > 0 {
					out[k] = v[0]
				}
			}
		}
	}
	return splitPath(before), out
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
