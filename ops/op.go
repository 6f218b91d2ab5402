// Package ops implements the BoldUI expression DAG: the OpsOperation
// tagged union and the depth-bounded, memoising evaluator that runs it
// against a Context.
package ops

import (
	"fmt"

	"github.com/Wazzaps/boldui/value"
)

// Kind tags which operation an Op node performs. Operand OpIDs are held
// in the generic A/B/C/D slots; see the per-Kind comment for which slots
// are live and what they mean. This mirrors how value.Value tags a small
// union rather than modelling each variant as its own Go type, so a
// single array of Op can be walked, hashed and wire-encoded uniformly.
type Kind uint8

const (
	KindValue Kind = iota
	KindVar
	KindGetTime
	KindGetTimeAndClamp // A=low, B=high
	KindAdd             // A=a, B=b
	KindMul             // A=a, B=b
	KindDiv             // A=a, B=b
	KindFloorDiv        // A=a, B=b
	KindMin             // A=a, B=b
	KindMax             // A=a, B=b
	KindOr              // A=a, B=b
	KindAnd             // A=a, B=b
	KindGreaterThan     // A=a, B=b
	KindEq              // A=a, B=b
	KindNeq             // A=a, B=b
	KindNeg             // A=a
	KindAbs             // A=a
	KindSin             // A=a
	KindCos             // A=a
	KindToString        // A=a
	KindMakePoint       // A=left, B=top
	KindMakeRectFromPoints // A=leftTop, B=rightBottom
	KindMakeRectFromSides  // A=left, B=top, C=right, D=bottom
	KindMakeColor          // A=r, B=g, C=b, D=a
	KindIf                 // A=cond, B=then, C=else
)

func (k Kind) String() string {
	names := [...]string{
		"Value", "Var", "GetTime", "GetTimeAndClamp", "Add", "Mul", "Div", "FloorDiv",
		"Min", "Max", "Or", "And", "GreaterThan", "Eq", "Neq", "Neg", "Abs", "Sin", "Cos",
		"ToString", "MakePoint", "MakeRectFromPoints", "MakeRectFromSides", "MakeColor", "If",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Op is one node of a scene's expression DAG.
type Op struct {
	Kind  Kind
	Value value.Value
	Var   value.VarID
	A, B, C, D value.OpID
}

func Value(v value.Value) Op                       { return Op{Kind: KindValue, Value: v} }
func Var(v value.VarID) Op                          { return Op{Kind: KindVar, Var: v} }
func GetTime() Op                                   { return Op{Kind: KindGetTime} }
func GetTimeAndClamp(low, high value.OpID) Op       { return Op{Kind: KindGetTimeAndClamp, A: low, B: high} }
func Add(a, b value.OpID) Op                        { return Op{Kind: KindAdd, A: a, B: b} }
func Mul(a, b value.OpID) Op                         { return Op{Kind: KindMul, A: a, B: b} }
func Div(a, b value.OpID) Op                         { return Op{Kind: KindDiv, A: a, B: b} }
func FloorDiv(a, b value.OpID) Op                    { return Op{Kind: KindFloorDiv, A: a, B: b} }
func Min(a, b value.OpID) Op                         { return Op{Kind: KindMin, A: a, B: b} }
func Max(a, b value.OpID) Op                         { return Op{Kind: KindMax, A: a, B: b} }
func Or(a, b value.OpID) Op                          { return Op{Kind: KindOr, A: a, B: b} }
func And(a, b value.OpID) Op                         { return Op{Kind: KindAnd, A: a, B: b} }
func GreaterThan(a, b value.OpID) Op                 { return Op{Kind: KindGreaterThan, A: a, B: b} }
func Eq(a, b value.OpID) Op                          { return Op{Kind: KindEq, A: a, B: b} }
func Neq(a, b value.OpID) Op                         { return Op{Kind: KindNeq, A: a, B: b} }
func Neg(a value.OpID) Op                            { return Op{Kind: KindNeg, A: a} }
func Abs(a value.OpID) Op                            { return Op{Kind: KindAbs, A: a} }
func Sin(a value.OpID) Op                            { return Op{Kind: KindSin, A: a} }
func Cos(a value.OpID) Op                            { return Op{Kind: KindCos, A: a} }
func ToString(a value.OpID) Op                       { return Op{Kind: KindToString, A: a} }
func MakePoint(left, top value.OpID) Op              { return Op{Kind: KindMakePoint, A: left, B: top} }
func MakeRectFromPoints(lt, rb value.OpID) Op        { return Op{Kind: KindMakeRectFromPoints, A: lt, B: rb} }
func MakeRectFromSides(l, t, r, b value.OpID) Op {
	return Op{Kind: KindMakeRectFromSides, A: l, B: t, C: r, D: b}
}
func MakeColor(r, g, b, a value.OpID) Op { return Op{Kind: KindMakeColor, A: r, B: g, C: b, D: a} }
func If(cond, then, els value.OpID) Op   { return Op{Kind: KindIf, A: cond, B: then, C: els} }
