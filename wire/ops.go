package wire

import (
	"fmt"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/value"
)

// EncodeOp writes an Op as a u32 Kind tag followed by whichever A/B/C/D
// operand OpIds (or inline Value/VarId) that Kind uses.
func EncodeOp(w *Writer, op ops.Op) {
	w.WriteVariant(uint32(op.Kind))
	switch op.Kind {
	case ops.KindValue:
		EncodeValue(w, op.Value)
	case ops.KindVar:
		EncodeVarID(w, op.Var)
	case ops.KindGetTime:
		// no operands
	case ops.KindGetTimeAndClamp, ops.KindAdd, ops.KindMul, ops.KindDiv, ops.KindFloorDiv,
		ops.KindMin, ops.KindMax, ops.KindOr, ops.KindAnd, ops.KindGreaterThan, ops.KindEq,
		ops.KindNeq, ops.KindMakePoint, ops.KindMakeRectFromPoints:
		EncodeOpID(w, op.A)
		EncodeOpID(w, op.B)
	case ops.KindNeg, ops.KindAbs, ops.KindSin, ops.KindCos, ops.KindToString:
		EncodeOpID(w, op.A)
	case ops.KindMakeRectFromSides, ops.KindMakeColor:
		EncodeOpID(w, op.A)
		EncodeOpID(w, op.B)
		EncodeOpID(w, op.C)
		EncodeOpID(w, op.D)
	case ops.KindIf:
		EncodeOpID(w, op.A)
		EncodeOpID(w, op.B)
		EncodeOpID(w, op.C)
	}
}

func DecodeOp(r *Reader) (ops.Op, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return ops.Op{}, err
	}
	kind := ops.Kind(tag)
	switch kind {
	case ops.KindValue:
		v, err := DecodeValue(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.Value(v), nil
	case ops.KindVar:
		v, err := DecodeVarID(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.Var(v), nil
	case ops.KindGetTime:
		return ops.GetTime(), nil
	case ops.KindGetTimeAndClamp:
		a, b, err := decodeAB(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.GetTimeAndClamp(a, b), nil
	case ops.KindAdd, ops.KindMul, ops.KindDiv, ops.KindFloorDiv, ops.KindMin, ops.KindMax,
		ops.KindOr, ops.KindAnd, ops.KindGreaterThan, ops.KindEq, ops.KindNeq,
		ops.KindMakePoint, ops.KindMakeRectFromPoints:
		a, b, err := decodeAB(r)
		if err != nil {
			return ops.Op{}, err
		}
		return binOpFromKind(kind, a, b), nil
	case ops.KindNeg, ops.KindAbs, ops.KindSin, ops.KindCos, ops.KindToString:
		a, err := DecodeOpID(r)
		if err != nil {
			return ops.Op{}, err
		}
		return unOpFromKind(kind, a), nil
	case ops.KindMakeRectFromSides:
		a, b, c, d, err := decodeABCD(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.MakeRectFromSides(a, b, c, d), nil
	case ops.KindMakeColor:
		a, b, c, d, err := decodeABCD(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.MakeColor(a, b, c, d), nil
	case ops.KindIf:
		a, err := DecodeOpID(r)
		if err != nil {
			return ops.Op{}, err
		}
		b, err := DecodeOpID(r)
		if err != nil {
			return ops.Op{}, err
		}
		c, err := DecodeOpID(r)
		if err != nil {
			return ops.Op{}, err
		}
		return ops.If(a, b, c), nil
	default:
		return ops.Op{}, &ProtocolError{Msg: fmt.Sprintf("unknown op kind %d", tag)}
	}
}

func decodeAB(r *Reader) (value.OpID, value.OpID, error) {
	a, err := DecodeOpID(r)
	if err != nil {
		return value.OpID{}, value.OpID{}, err
	}
	b, err := DecodeOpID(r)
	if err != nil {
		return value.OpID{}, value.OpID{}, err
	}
	return a, b, nil
}

func decodeABCD(r *Reader) (value.OpID, value.OpID, value.OpID, value.OpID, error) {
	a, b, err := decodeAB(r)
	if err != nil {
		return value.OpID{}, value.OpID{}, value.OpID{}, value.OpID{}, err
	}
	c, err := DecodeOpID(r)
	if err != nil {
		return value.OpID{}, value.OpID{}, value.OpID{}, value.OpID{}, err
	}
	d, err := DecodeOpID(r)
	if err != nil {
		return value.OpID{}, value.OpID{}, value.OpID{}, value.OpID{}, err
	}
	return a, b, c, d, nil
}

func binOpFromKind(k ops.Kind, a, b value.OpID) ops.Op {
	switch k {
	case ops.KindAdd:
		return ops.Add(a, b)
	case ops.KindMul:
		return ops.Mul(a, b)
	case ops.KindDiv:
		return ops.Div(a, b)
	case ops.KindFloorDiv:
		return ops.FloorDiv(a, b)
	case ops.KindMin:
		return ops.Min(a, b)
	case ops.KindMax:
		return ops.Max(a, b)
	case ops.KindOr:
		return ops.Or(a, b)
	case ops.KindAnd:
		return ops.And(a, b)
	case ops.KindGreaterThan:
		return ops.GreaterThan(a, b)
	case ops.KindEq:
		return ops.Eq(a, b)
	case ops.KindNeq:
		return ops.Neq(a, b)
	case ops.KindMakePoint:
		return ops.MakePoint(a, b)
	case ops.KindMakeRectFromPoints:
		return ops.MakeRectFromPoints(a, b)
	}
	return ops.Op{Kind: k, A: a, B: b}
}

func unOpFromKind(k ops.Kind, a value.OpID) ops.Op {
	switch k {
	case ops.KindNeg:
		return ops.Neg(a)
	case ops.KindAbs:
		return ops.Abs(a)
	case ops.KindSin:
		return ops.Sin(a)
	case ops.KindCos:
		return ops.Cos(a)
	case ops.KindToString:
		return ops.ToString(a)
	}
	return ops.Op{Kind: k, A: a}
}
