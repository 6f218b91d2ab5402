package store

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// record is the on-disk shape of one session file. The payload is
// opaque to Store, so it's carried as base64 text rather than TOML's
// awkward byte-array encoding.
type record struct {
	Data string
}

// TOML is a reference file-backed Store: one directory, one
// "<id>.toml" file per session, read/written with BurntSushi/toml
// the same way readConfig/writeConfig do.
type TOML struct {
	dir string
}

// NewTOML returns a Store rooted at dir, creating it if it doesn't
// exist yet (mirroring initializeConfigIfNot's MkdirAll-if-missing
// check).
func NewTOML(dir string) (*TOML, error) {
	if ok, err := exists(dir); err != nil {
		return nil, err
	} else if !ok {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	return &TOML{dir: dir}, nil
}

func (t *TOML) path(id string) string {
	return filepath.Join(t.dir, id+".toml")
}

func (t *TOML) Load(id string) ([]byte, bool, error) {
	f := t.path(id)
	ok, err := exists(f)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var rec record
	if _, err := toml.DecodeFile(f, &rec); err != nil {
		return nil, false, fmt.Errorf("store: decode %s: %w", f, err)
	}
	data, err := base64.StdEncoding.DecodeString(rec.Data)
	if err != nil {
		return nil, false, fmt.Errorf("store: corrupt payload in %s: %w", f, err)
	}
	return data, true, nil
}

func (t *TOML) Save(id string, data []byte) error {
	rec := record{Data: base64.StdEncoding.EncodeToString(data)}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&rec); err != nil {
		return fmt.Errorf("store: encode %s: %w", id, err)
	}
	if err := os.WriteFile(t.path(id), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// XDGOrFallback resolves an XDG directory env var, falling back (and
// logging) if it's unset or doesn't exist, the same way xdgOrFallback
// does for its config directory.
func XDGOrFallback(xdgVar, fallback string) string {
	dir := os.Getenv(xdgVar)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	log.Printf("store: couldn't resolve $%s, falling back to %q", xdgVar, fallback)
	return fallback
}
