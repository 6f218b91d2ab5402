// Package session implements the application-side half of the
// protocol: the op-building context a view or reply handler uses to
// describe a scene, the view/reply registries, and the main loop that
// speaks the wire protocol to a renderer.
package session

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/wire"
)

// opCacheSize bounds the per-scene op dedup cache. A single
// handler invocation rarely builds more than a few hundred distinct
// ops; this is generous headroom without being unbounded.
const opCacheSize = 4096

// exprs is the op-building core shared by Scene (a real scene's ops
// array) and HandlerBuilder (a HandlerBlock's id-0 ops array): both
// just need somewhere to append an Op and get back the Expr that
// addresses it.
type exprs struct {
	sceneID uint32
	ops     *[]ops.Op
	cache   *lru.Cache[[32]byte, value.OpID]
}

func newExprs(sceneID uint32, opsSlice *[]ops.Op) exprs {
	c, _ := lru.New[[32]byte, value.OpID](opCacheSize)
	return exprs{sceneID: sceneID, ops: opsSlice, cache: c}
}

func hashOp(o ops.Op) [32]byte {
	w := wire.NewWriter()
	wire.EncodeOp(w, o)
	return blake2b.Sum256(w.Bytes())
}

// Op appends o to the scene's ops array, or returns the Expr of an
// already-appended structurally identical op.
func (e *exprs) Op(o ops.Op) Expr {
	h := hashOp(o)
	if id, ok := e.cache.Get(h); ok {
		return opExpr(e, id)
	}
	idx := uint32(len(*e.ops))
	*e.ops = append(*e.ops, o)
	id := value.OpID{SceneID: e.sceneID, Index: idx}
	e.cache.Add(h, id)
	return opExpr(e, id)
}

// Value wraps a Value as an op.
func (e *exprs) Value(v value.Value) Expr { return e.Op(ops.Value(v)) }

// Const builds a pure build-time constant that folds for free until an
// operation forces it to materialize as a real Value op.
func (e *exprs) Const(n float64) Expr { return Expr{b: e, constMul: numInt(0), constAdd: numFloat(n)} }

// ConstInt is Const for an integer constant, so it folds/flushes as a
// Sint64 rather than a Double.
func (e *exprs) ConstInt(n int64) Expr { return Expr{b: e, constMul: numInt(0), constAdd: numInt(n)} }

func (e *exprs) Str(s string) Expr { return e.Value(value.String(s)) }

// Color builds a Color Value from 0..1 normalized channels.
func (e *exprs) Color(r, g, b, a float64) Expr {
	return e.Value(value.FromColor(value.Color{
		R: channel16(r), G: channel16(g), B: channel16(b), A: channel16(a),
	}))
}

// HexColor builds an opaque Color from a 0xRRGGBB literal.
func (e *exprs) HexColor(hex uint32) Expr {
	return e.Color(
		float64((hex>>16)&0xFF)/255.0,
		float64((hex>>8)&0xFF)/255.0,
		float64(hex&0xFF)/255.0,
		1.0,
	)
}

func (e *exprs) VarBinding(name string) value.VarID { return value.VarID{Scene: e.sceneID, Key: name} }
func (e *exprs) VarValue(id value.VarID) Expr        { return e.Op(ops.Var(id)) }
func (e *exprs) Var(name string) Expr                { return e.VarValue(e.VarBinding(name)) }
func (e *exprs) Time() Expr                          { return e.Op(ops.GetTime()) }

func (e *exprs) TimeAndClamp(low, high Expr) Expr {
	return e.Op(ops.GetTimeAndClamp(low.ID(), high.ID()))
}

func (e *exprs) Point(left, top Expr) Expr {
	return e.Op(ops.MakePoint(left.ID(), top.ID()))
}

func (e *exprs) RectFromPoints(leftTop, rightBottom Expr) Expr {
	return e.Op(ops.MakeRectFromPoints(leftTop.ID(), rightBottom.ID()))
}

func (e *exprs) Rect(left, top, right, bottom Expr) Expr {
	return e.Op(ops.MakeRectFromSides(left.ID(), top.ID(), right.ID(), bottom.ID()))
}

func (e *exprs) MakeColor(r, g, b, a Expr) Expr {
	return e.Op(ops.MakeColor(r.ID(), g.ID(), b.ID(), a.ID()))
}

func (e *exprs) If(cond, then, els Expr) Expr {
	return e.Op(ops.If(cond.ID(), then.ID(), els.ID()))
}

func channel16(f float64) uint16 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint16(f * 65535)
}

// Expr is the application-side constant-folding wrapper around an
// OpId: the evaluator itself never folds, so arithmetic between two
// build-time constants folds here instead, without emitting an op,
// matching how the renderer's own evaluator folds Sint64/Double
// arithmetic once it runs.
type Expr struct {
	b        *exprs
	op       value.OpID
	constMul num
	constAdd num
}

func opExpr(b *exprs, op value.OpID) Expr {
	return Expr{b: b, op: op, constMul: numInt(1), constAdd: numInt(0)}
}

// ID flushes any pending constant arithmetic into real ops and returns
// the resulting OpId, for embedding into a Cmd/HandlerCmd field.
func (e Expr) ID() value.OpID { return e.FlushConsts().op }

// FlushConsts materializes e's constant arithmetic into ops, returning
// a plain Expr wrapping nothing but that OpId.
func (e Expr) FlushConsts() Expr {
	if e.constMul.isZero() {
		return e.b.Value(e.constAdd.value())
	}

	res := opExpr(e.b, e.op)
	switch {
	case e.constMul.isMinusOne():
		res = e.b.Op(ops.Neg(e.op))
	case e.constMul.isOne():
		// already wraps e.op unscaled
	default:
		k := e.b.Value(e.constMul.value())
		res = e.b.Op(ops.Mul(e.op, k.op))
	}

	if !e.constAdd.isZero() {
		k := e.b.Value(e.constAdd.value())
		res = e.b.Op(ops.Add(res.op, k.op))
	}
	return res
}

func (e Expr) Add(other Expr) Expr {
	if other.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numAdd(e.constAdd, other.constAdd)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Add(a.op, o.op))
}

func (e Expr) Neg() Expr {
	return Expr{b: e.b, op: e.op, constMul: e.constMul.negate(), constAdd: e.constAdd.negate()}
}

func (e Expr) Sub(other Expr) Expr { return e.Add(other.Neg()) }

func (e Expr) Mul(other Expr) Expr {
	if other.constMul.isZero() {
		k := other.constAdd
		return Expr{b: e.b, op: e.op, constMul: numMul(e.constMul, k), constAdd: numMul(e.constAdd, k)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Mul(a.op, o.op))
}

func (e Expr) Div(other Expr) Expr {
	if other.constMul.isZero() {
		k := other.constAdd
		return Expr{b: e.b, op: e.op, constMul: numDiv(e.constMul, k), constAdd: numDiv(e.constAdd, k)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Div(a.op, o.op))
}

func (e Expr) FloorDiv(other Expr) Expr {
	if e.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numFloorDiv(e.constAdd, other.constAdd)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.FloorDiv(a.op, o.op))
}

func (e Expr) Abs() Expr {
	if e.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numAbs(e.constAdd)}
	}
	f := e.FlushConsts()
	return e.b.Op(ops.Abs(f.op))
}

func (e Expr) Min(other Expr) Expr {
	if e.constMul.isZero() && other.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numMin(e.constAdd, other.constAdd)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Min(a.op, o.op))
}

func (e Expr) Max(other Expr) Expr {
	if e.constMul.isZero() && other.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numMax(e.constAdd, other.constAdd)}
	}
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Max(a.op, o.op))
}

func (e Expr) Sin() Expr {
	if e.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numFloat(math.Sin(e.constAdd.float()))}
	}
	return e.b.Op(ops.Sin(e.op))
}

func (e Expr) Cos() Expr {
	if e.constMul.isZero() {
		return Expr{b: e.b, op: e.op, constMul: e.constMul, constAdd: numFloat(math.Cos(e.constAdd.float()))}
	}
	return e.b.Op(ops.Cos(e.op))
}

func (e Expr) GreaterThan(other Expr) Expr {
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.GreaterThan(a.op, o.op))
}

func (e Expr) Eq(other Expr) Expr {
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Eq(a.op, o.op))
}

func (e Expr) Neq(other Expr) Expr {
	a, o := e.FlushConsts(), other.FlushConsts()
	return e.b.Op(ops.Neq(a.op, o.op))
}

func (e Expr) ToString() Expr {
	return e.b.Op(ops.ToString(e.ID()))
}
