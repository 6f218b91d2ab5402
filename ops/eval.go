package ops

import (
	"math"

	"github.com/Wazzaps/boldui/value"
)

type visitState byte

const (
	stateUnvisited visitState = iota
	stateVisiting
	stateDone
)

// Evaluator runs one scene's ops array against a Context, memoising each
// index for the duration of a single pass. A fresh Evaluator is
// created per evaluation pass so memoisation never leaks across passes.
type Evaluator struct {
	sceneID uint32
	ops     []Op
	memo    []value.Value
	state   []visitState
}

// NewEvaluator builds an evaluator over one scene's ops array.
func NewEvaluator(sceneID uint32, ops []Op) *Evaluator {
	return &Evaluator{
		sceneID: sceneID,
		ops:     ops,
		memo:    make([]value.Value, len(ops)),
		state:   make([]visitState, len(ops)),
	}
}

// Eval evaluates ops[index], recursing into dependencies and reusing the
// per-pass memo. A cycle, or an index past the end of the ops array, is a
// SchemaError and aborts the whole scene.
func (e *Evaluator) Eval(index uint32, ctx *Context) (value.Value, error) {
	if int(index) >= len(e.ops) {
		return value.Value{}, &SchemaError{Op: value.OpID{SceneID: e.sceneID, Index: index}, Msg: "op index out of range"}
	}
	switch e.state[index] {
	case stateDone:
		return e.memo[index], nil
	case stateVisiting:
		return value.Value{}, &SchemaError{Op: value.OpID{SceneID: e.sceneID, Index: index}, Msg: "cycle in expression DAG"}
	}
	e.state[index] = stateVisiting
	v, err := e.evalOp(index, &e.ops[index], ctx)
	if err != nil {
		return value.Value{}, err
	}
	e.memo[index] = v
	e.state[index] = stateDone
	return v, nil
}

// Resolve evaluates any OpId, routing into this evaluator when it names
// the scene being evaluated or into ctx.Scenes otherwise. Exported so
// callers outside this package (the handler interpreter, evaluating a
// HandlerBlock's own id-0 ops array) can resolve operand OpIds the same
// way the evaluator resolves its own.
func (e *Evaluator) Resolve(id value.OpID, ctx *Context) (value.Value, error) {
	return e.resolve(id, ctx)
}

func (e *Evaluator) resolve(id value.OpID, ctx *Context) (value.Value, error) {
	if id.SceneID == e.sceneID {
		return e.Eval(id.Index, ctx)
	}
	if ctx.Scenes == nil {
		return value.Value{}, &SchemaError{Op: id, Msg: "cross-scene op but no scene is attached"}
	}
	return ctx.Scenes.Eval(id.SceneID, id.Index, ctx)
}

func (e *Evaluator) evalOp(index uint32, op *Op, ctx *Context) (value.Value, error) {
	opid := value.OpID{SceneID: e.sceneID, Index: index}

	switch op.Kind {
	case KindValue:
		return op.Value, nil

	case KindVar:
		if op.Var.IsBuiltin() {
			if v, ok := ctx.builtin(op.Var.Key); ok {
				return v, nil
			}
		}
		if ctx.Vars != nil {
			if v, ok := ctx.Vars.Get(op.Var); ok {
				return v, nil
			}
		}
		ctx.recordSoft(&EvalError{Op: opid, Msg: "unknown variable " + op.Var.String()})
		return value.Sint64(0), nil

	case KindGetTime:
		return value.Double(ctx.Time), nil

	case KindGetTimeAndClamp:
		low, err := e.resolveNumeric(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		high, err := e.resolveNumeric(op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		t := ctx.Time
		// Saturating clamp.
		if t < low {
			t = low
		}
		if t > high {
			t = high
		}
		return value.Double(t), nil

	case KindAdd, KindMul, KindDiv, KindFloorDiv, KindMin, KindMax:
		a, b, err := e.resolvePair(op.A, op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return binNumeric(op.Kind, opid, a, b, ctx)

	case KindOr, KindAnd:
		a, b, err := e.resolvePair(op.A, op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		var r bool
		if op.Kind == KindOr {
			r = a.Truthy() || b.Truthy()
		} else {
			r = a.Truthy() && b.Truthy()
		}
		return value.Sint64(boolToInt(r)), nil

	case KindGreaterThan:
		a, b, err := e.resolvePair(op.A, op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return greaterThan(opid, a, b, ctx)

	case KindEq, KindNeq:
		a, b, err := e.resolvePair(op.A, op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		eq := a.Equal(b)
		if op.Kind == KindNeq {
			eq = !eq
		}
		return value.Sint64(boolToInt(eq)), nil

	case KindNeg:
		a, err := e.resolve(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		switch a.Kind {
		case value.KindSint64:
			return value.Sint64(-a.Sint), nil
		case value.KindDouble:
			return value.Double(-a.Double), nil
		case value.KindPoint:
			return value.FromPoint(value.Point{Left: -a.Point.Left, Top: -a.Point.Top}), nil
		default:
			ctx.recordSoft(badOperand(opid, op.Kind))
			return value.Sint64(0), nil
		}

	case KindAbs:
		a, err := e.resolveNumericValue(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		switch a.Kind {
		case value.KindSint64:
			if a.Sint < 0 {
				return value.Sint64(-a.Sint), nil
			}
			return a, nil
		default:
			return value.Double(math.Abs(a.Double)), nil
		}

	case KindSin, KindCos:
		f, err := e.resolveNumeric(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if op.Kind == KindSin {
			return value.Double(math.Sin(f)), nil
		}
		return value.Double(math.Cos(f)), nil

	case KindToString:
		a, err := e.resolve(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(a.ToString()), nil

	case KindMakePoint:
		l, err := e.resolveNumeric(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		t, err := e.resolveNumeric(op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromPoint(value.Point{Left: l, Top: t}), nil

	case KindMakeRectFromPoints:
		lt, err := e.resolve(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		rb, err := e.resolve(op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if lt.Kind != value.KindPoint || rb.Kind != value.KindPoint {
			ctx.recordSoft(badOperand(opid, op.Kind))
			return value.FromRect(value.Rect{}), nil
		}
		return value.FromRect(value.Rect{Left: lt.Point.Left, Top: lt.Point.Top, Right: rb.Point.Left, Bottom: rb.Point.Top}), nil

	case KindMakeRectFromSides:
		l, err := e.resolveNumeric(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		t, err := e.resolveNumeric(op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		r, err := e.resolveNumeric(op.C, ctx)
		if err != nil {
			return value.Value{}, err
		}
		b, err := e.resolveNumeric(op.D, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromRect(value.Rect{Left: l, Top: t, Right: r, Bottom: b}), nil

	case KindMakeColor:
		r, err := e.resolveNumeric(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		g, err := e.resolveNumeric(op.B, ctx)
		if err != nil {
			return value.Value{}, err
		}
		b, err := e.resolveNumeric(op.C, ctx)
		if err != nil {
			return value.Value{}, err
		}
		a, err := e.resolveNumeric(op.D, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromColor(value.Color{
			R: channel(r), G: channel(g), B: channel(b), A: channel(a),
		}), nil

	case KindIf:
		cond, err := e.resolve(op.A, ctx)
		if err != nil {
			return value.Value{}, err
		}
		// Lazy: only the selected branch is evaluated.
		if cond.Truthy() {
			return e.resolve(op.B, ctx)
		}
		return e.resolve(op.C, ctx)

	default:
		return value.Value{}, &SchemaError{Op: opid, Msg: "unknown op kind"}
	}
}

func (e *Evaluator) resolvePair(a, b value.OpID, ctx *Context) (value.Value, value.Value, error) {
	av, err := e.resolve(a, ctx)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	bv, err := e.resolve(b, ctx)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	return av, bv, nil
}

// resolveNumeric resolves id and coerces it to float64, recording a soft
// EvalError and returning 0 if the value isn't numeric.
func (e *Evaluator) resolveNumeric(id value.OpID, ctx *Context) (float64, error) {
	v, err := e.resolveNumericValue(id, ctx)
	if err != nil {
		return 0, err
	}
	return toFloat(v), nil
}

func (e *Evaluator) resolveNumericValue(id value.OpID, ctx *Context) (value.Value, error) {
	v, err := e.resolve(id, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindSint64 && v.Kind != value.KindDouble {
		ctx.recordSoft(&EvalError{Op: id, Msg: "expected a number"})
		return value.Sint64(0), nil
	}
	return v, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func toFloat(v value.Value) float64 {
	if v.Kind == value.KindSint64 {
		return float64(v.Sint)
	}
	return v.Double
}

func isScalar(v value.Value) bool {
	return v.Kind == value.KindSint64 || v.Kind == value.KindDouble
}

// channel converts a 0..1 normalized float into a 16-bit color channel,
// clamping out-of-range inputs rather than wrapping.
func channel(f float64) uint16 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint16(f * 65535)
}

func greaterThan(opid value.OpID, a, b value.Value, ctx *Context) (value.Value, error) {
	if isScalar(a) && isScalar(b) {
		return value.Sint64(boolToInt(toFloat(a) > toFloat(b))), nil
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return value.Sint64(boolToInt(a.Str > b.Str)), nil
	}
	ctx.recordSoft(badOperand(opid, KindGreaterThan))
	return value.Sint64(0), nil
}

// binNumeric implements Add/Mul/Div/FloorDiv/Min/Max's coercion rules:
// Sint64-with-Sint64 stays Sint64, any Double operand promotes the
// result to Double, Point broadcasts a scalar across both components,
// and Rect arithmetic is undefined.
func binNumeric(k Kind, opid value.OpID, a, b value.Value, ctx *Context) (value.Value, error) {
	if a.Kind == value.KindRect || b.Kind == value.KindRect {
		ctx.recordSoft(badOperand(opid, k))
		return value.Sint64(0), nil
	}

	if a.Kind == value.KindPoint || b.Kind == value.KindPoint {
		var pt value.Point
		var scalar float64
		var pointIsLeft bool
		switch {
		case a.Kind == value.KindPoint && isScalar(b):
			pt, scalar, pointIsLeft = a.Point, toFloat(b), true
		case b.Kind == value.KindPoint && isScalar(a):
			pt, scalar, pointIsLeft = b.Point, toFloat(a), false
		default:
			ctx.recordSoft(badOperand(opid, k))
			return value.Sint64(0), nil
		}
		left, ok1 := floatBinOp(k, pt.Left, scalar, pointIsLeft)
		top, ok2 := floatBinOp(k, pt.Top, scalar, pointIsLeft)
		if !ok1 || !ok2 {
			ctx.recordSoft(&EvalError{Op: opid, Msg: "division by zero"})
		}
		return value.FromPoint(value.Point{Left: left, Top: top}), nil
	}

	if !isScalar(a) || !isScalar(b) {
		ctx.recordSoft(badOperand(opid, k))
		return value.Sint64(0), nil
	}

	if a.Kind == value.KindSint64 && b.Kind == value.KindSint64 {
		ai, bi := a.Sint, b.Sint
		switch k {
		case KindAdd:
			return value.Sint64(ai + bi), nil
		case KindMul:
			return value.Sint64(ai * bi), nil
		case KindDiv:
			if bi == 0 {
				ctx.recordSoft(&EvalError{Op: opid, Msg: "division by zero"})
				return value.Sint64(0), nil
			}
			return value.Sint64(ai / bi), nil
		case KindFloorDiv:
			if bi == 0 {
				ctx.recordSoft(&EvalError{Op: opid, Msg: "division by zero"})
				return value.Sint64(0), nil
			}
			return value.Sint64(floorDivInt(ai, bi)), nil
		case KindMin:
			if ai < bi {
				return value.Sint64(ai), nil
			}
			return value.Sint64(bi), nil
		case KindMax:
			if ai > bi {
				return value.Sint64(ai), nil
			}
			return value.Sint64(bi), nil
		}
	}

	af, bf := toFloat(a), toFloat(b)
	switch k {
	case KindAdd:
		return value.Double(af + bf), nil
	case KindMul:
		return value.Double(af * bf), nil
	case KindDiv:
		if bf == 0 {
			ctx.recordSoft(&EvalError{Op: opid, Msg: "division by zero"})
			return value.Double(0), nil
		}
		return value.Double(af / bf), nil
	case KindFloorDiv:
		if bf == 0 {
			ctx.recordSoft(&EvalError{Op: opid, Msg: "division by zero"})
			return value.Double(0), nil
		}
		return value.Double(math.Floor(af / bf)), nil
	case KindMin:
		return value.Double(math.Min(af, bf)), nil
	case KindMax:
		return value.Double(math.Max(af, bf)), nil
	}
	return value.Sint64(0), nil
}

// floatBinOp applies a Point-broadcast operation between a Point
// component and a scalar; order matters for Div/FloorDiv when the
// scalar is on the left (e.g. `2 / point`).
func floatBinOp(k Kind, comp, scalar float64, compIsLeft bool) (float64, bool) {
	l, r := comp, scalar
	if !compIsLeft {
		l, r = scalar, comp
	}
	switch k {
	case KindAdd:
		return l + r, true
	case KindMul:
		return l * r, true
	case KindDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case KindFloorDiv:
		if r == 0 {
			return 0, false
		}
		return math.Floor(l / r), true
	case KindMin:
		return math.Min(l, r), true
	case KindMax:
		return math.Max(l, r), true
	}
	return 0, false
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
