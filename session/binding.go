package session

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// boldField describes one session-state struct field discovered via
// its `boldui` tag: "var" fields are client-side, bound to a VarId of
// the same name; "scene" fields hold a sub-scene id.
type boldField struct {
	name  string
	index []int
	kind  string
}

// fieldCache avoids re-walking a state type's fields on every scene
// build; a struct's tags never change at runtime.
var fieldCache sync.Map // map[reflect.Type][]boldField

func fieldsOf(state any) []boldField {
	t := reflect.TypeOf(state)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return nil
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]boldField)
	}
	var fields []boldField
	walkFields(t, nil, &fields)
	fieldCache.Store(t, fields)
	return fields
}

func walkFields(t reflect.Type, prefix []int, out *[]boldField) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := make([]int, len(prefix), len(prefix)+1)
		copy(idx, prefix)
		idx = append(idx, i)

		tag, ok := f.Tag.Lookup("boldui")
		if ok {
			name := f.Name
			kind := tag
			if comma := strings.IndexByte(tag, ','); comma >= 0 {
				kind = tag[:comma]
				if n := tag[comma+1:]; n != "" {
					name = n
				}
			}
			*out = append(*out, boldField{name: name, index: idx, kind: kind})
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			walkFields(f.Type, idx, out)
		}
	}
}

// DeclVars declares a scene variable for every `boldui:"var"` tagged
// field of state, defaulted to the field's current value, and queues a
// run block that SetVars each of those variables to that same current
// value. The declared default alone isn't enough to publish a change:
// varstore.Reinstall preserves a variable's existing live value across
// a reinstall whenever its Kind is unchanged, so on a reemit the
// renderer would otherwise never see state the view handler just
// changed. The SetVar run block runs once the update installs and
// always wins, regardless of what Reinstall decided to keep.
func (s *Scene) DeclVars(state any) error {
	v := reflect.ValueOf(state)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	hb := NewHandlerBuilder()
	any := false
	for _, f := range fieldsOf(state) {
		if f.kind != "var" {
			continue
		}
		val, err := goValueToValue(v.FieldByIndex(f.index))
		if err != nil {
			return fmt.Errorf("session: field %s: %w", f.name, err)
		}
		s.DeclVar(f.name, val)
		hb.SetVar(s.VarBinding(f.name), hb.Value(val))
		any = true
	}
	if any {
		s.runBlocks = append(s.runBlocks, hb.Block())
	}
	return nil
}

// SceneFields returns the name and current scene id of every
// `boldui:"scene"` tagged field of state: the sub-scene ids a nested
// composition layer would reparent Inside this one.
func SceneFields(state any) map[string]scene.SceneID {
	v := reflect.ValueOf(state)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	out := make(map[string]scene.SceneID)
	for _, f := range fieldsOf(state) {
		if f.kind != "scene" {
			continue
		}
		out[f.name] = scene.SceneID(v.FieldByIndex(f.index).Uint())
	}
	return out
}

func goValueToValue(v reflect.Value) (value.Value, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Sint64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Sint64(int64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.Double(v.Float()), nil
	case reflect.String:
		return value.String(v.String()), nil
	case reflect.Bool:
		if v.Bool() {
			return value.Sint64(1), nil
		}
		return value.Sint64(0), nil
	default:
		return value.Value{}, fmt.Errorf(`unsupported boldui:"var" field type %s`, v.Type())
	}
}
