package wire

import (
	"fmt"

	"github.com/Wazzaps/boldui/value"
)

func EncodeOpID(w *Writer, id value.OpID) {
	w.WriteU32(id.SceneID)
	w.WriteU32(id.Index)
}

func DecodeOpID(r *Reader) (value.OpID, error) {
	scene, err := r.ReadU32()
	if err != nil {
		return value.OpID{}, err
	}
	idx, err := r.ReadU32()
	if err != nil {
		return value.OpID{}, err
	}
	return value.OpID{SceneID: scene, Index: idx}, nil
}

func EncodeVarID(w *Writer, id value.VarID) {
	w.WriteU32(id.Scene)
	w.WriteString(id.Key)
}

func DecodeVarID(r *Reader) (value.VarID, error) {
	scene, err := r.ReadU32()
	if err != nil {
		return value.VarID{}, err
	}
	key, err := r.ReadString()
	if err != nil {
		return value.VarID{}, err
	}
	return value.VarID{Scene: scene, Key: key}, nil
}

// EncodeValue writes a Value as a u32 variant tag (matching value.Kind's
// order) followed by that variant's payload.
func EncodeValue(w *Writer, v value.Value) {
	w.WriteVariant(uint32(v.Kind))
	switch v.Kind {
	case value.KindSint64:
		w.WriteI64(v.Sint)
	case value.KindDouble:
		w.WriteF64(v.Double)
	case value.KindString:
		w.WriteString(v.Str)
	case value.KindColor:
		w.WriteU32(uint32(v.Color.R)<<16 | uint32(v.Color.G))
		w.WriteU32(uint32(v.Color.B)<<16 | uint32(v.Color.A))
	case value.KindPoint:
		w.WriteF64(v.Point.Left)
		w.WriteF64(v.Point.Top)
	case value.KindRect:
		w.WriteF64(v.Rect.Left)
		w.WriteF64(v.Rect.Top)
		w.WriteF64(v.Rect.Right)
		w.WriteF64(v.Rect.Bottom)
	case value.KindVarRef:
		EncodeVarID(w, v.VarRef)
	}
}

func DecodeValue(r *Reader) (value.Value, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return value.Value{}, err
	}
	switch value.Kind(tag) {
	case value.KindSint64:
		i, err := r.ReadI64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Sint64(i), nil
	case value.KindDouble:
		f, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(f), nil
	case value.KindString:
		s, err := r.ReadString()
		if err != nil {
			return value.Value{}, err
		}
		return value.String(s), nil
	case value.KindColor:
		a, err := r.ReadU32()
		if err != nil {
			return value.Value{}, err
		}
		b, err := r.ReadU32()
		if err != nil {
			return value.Value{}, err
		}
		return value.FromColor(value.Color{
			R: uint16(a >> 16), G: uint16(a),
			B: uint16(b >> 16), A: uint16(b),
		}), nil
	case value.KindPoint:
		l, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		t, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		return value.FromPoint(value.Point{Left: l, Top: t}), nil
	case value.KindRect:
		l, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		t, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		right, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		bot, err := r.ReadF64()
		if err != nil {
			return value.Value{}, err
		}
		return value.FromRect(value.Rect{Left: l, Top: t, Right: right, Bottom: bot}), nil
	case value.KindVarRef:
		id, err := DecodeVarID(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromVarRef(id), nil
	default:
		return value.Value{}, &ProtocolError{Msg: fmt.Sprintf("unknown value variant %d", tag)}
	}
}
