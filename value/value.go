// Package value implements the tagged Value union that flows through the
// BoldUI expression DAG: integers, floats, strings, colors, points, rects,
// and first-class variable references.
package value

import (
	"fmt"
	"strconv"
)

// Kind tags which field of a Value is live.
type Kind uint8

const (
	KindSint64 Kind = iota
	KindDouble
	KindString
	KindColor
	KindPoint
	KindRect
	KindVarRef
)

func (k Kind) String() string {
	switch k {
	case KindSint64:
		return "Sint64"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindColor:
		return "Color"
	case KindPoint:
		return "Point"
	case KindRect:
		return "Rect"
	case KindVarRef:
		return "VarRef"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Color is an RGBA color with 16-bit channels, matching the wire format.
type Color struct {
	R, G, B, A uint16
}

// Point is a 2D point in window-space doubles.
type Point struct {
	Left, Top float64
}

// Rect is an axis-aligned rectangle in window-space doubles.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Contains reports whether p falls within r, inclusive of the edges.
func (r Rect) Contains(p Point) bool {
	return p.Left >= r.Left && p.Left <= r.Right && p.Top >= r.Top && p.Top <= r.Bottom
}

// VarID addresses a variable: a name scoped to a specific scene. It is
// both how expressions name variables (OpsOperation Var) and a
// first-class Value variant (KindVarRef).
type VarID struct {
	Scene uint32
	Key   string
}

func (v VarID) String() string {
	return fmt.Sprintf("%s@%d", v.Key, v.Scene)
}

// IsBuiltin reports whether the key is one of the `:`-prefixed reserved
// context variables (`:width`, `:mouse_x`, ...).
func (v VarID) IsBuiltin() bool {
	return len(v.Key) > 0 && v.Key[0] == ':'
}

// Value is the tagged union of everything an expression op can produce.
// Values are immutable and compared by variant + contents.
type Value struct {
	Kind   Kind
	Sint   int64
	Double float64
	Str    string
	Color  Color
	Point  Point
	Rect   Rect
	VarRef VarID
}

func Sint64(v int64) Value    { return Value{Kind: KindSint64, Sint: v} }
func Double(v float64) Value  { return Value{Kind: KindDouble, Double: v} }
func String(v string) Value   { return Value{Kind: KindString, Str: v} }
func FromColor(v Color) Value { return Value{Kind: KindColor, Color: v} }
func FromPoint(v Point) Value { return Value{Kind: KindPoint, Point: v} }
func FromRect(v Rect) Value   { return Value{Kind: KindRect, Rect: v} }
func FromVarRef(v VarID) Value { return Value{Kind: KindVarRef, VarRef: v} }

// HexColor builds an opaque Color from a 0xRRGGBB literal, the way
// application code typically spells out a clear color.
func HexColor(hex uint32) Color {
	return Color{
		R: uint16(((hex>>16)&0xFF)*0x101),
		G: uint16(((hex>>8)&0xFF)*0x101),
		B: uint16((hex&0xFF)*0x101),
		A: 0xFFFF,
	}
}

// Equal reports structural equality, used by Eq/Neq and by variable
// re-declaration type checks.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindSint64:
		return v.Sint == o.Sint
	case KindDouble:
		return v.Double == o.Double
	case KindString:
		return v.Str == o.Str
	case KindColor:
		return v.Color == o.Color
	case KindPoint:
		return v.Point == o.Point
	case KindRect:
		return v.Rect == o.Rect
	case KindVarRef:
		return v.VarRef == o.VarRef
	default:
		return false
	}
}

// Truthy implements the If/And/Or truthiness rule: 0, 0.0 and "" are
// false, everything else (including any Color/Point/Rect/VarRef) is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindSint64:
		return v.Sint != 0
	case KindDouble:
		return v.Double != 0
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// ToString implements the locale-independent formatting rule: integers
// decimal, floats with round-trip precision, everything else in a
// bracketed representation.
func (v Value) ToString() string {
	switch v.Kind {
	case KindSint64:
		return strconv.FormatInt(v.Sint, 10)
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindColor:
		return fmt.Sprintf("Color(%d, %d, %d, %d)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	case KindPoint:
		return fmt.Sprintf("Point(%s, %s)",
			strconv.FormatFloat(v.Point.Left, 'g', -1, 64),
			strconv.FormatFloat(v.Point.Top, 'g', -1, 64))
	case KindRect:
		return fmt.Sprintf("Rect(%s, %s, %s, %s)",
			strconv.FormatFloat(v.Rect.Left, 'g', -1, 64),
			strconv.FormatFloat(v.Rect.Top, 'g', -1, 64),
			strconv.FormatFloat(v.Rect.Right, 'g', -1, 64),
			strconv.FormatFloat(v.Rect.Bottom, 'g', -1, 64))
	case KindVarRef:
		return fmt.Sprintf("VarRef(%s)", v.VarRef.String())
	default:
		return ""
	}
}
