package session

import (
	"math"

	"github.com/Wazzaps/boldui/value"
)

// num is a small int64-or-float64 constant, mirroring the plain
// Python int|float that Expr's constant folding works with, with the
// same int-stays-int-until-a-float-touches-it promotion rule the
// evaluator itself uses for Sint64/Double arithmetic.
type num struct {
	isInt bool
	i     int64
	f     float64
}

func numInt(v int64) num     { return num{isInt: true, i: v} }
func numFloat(v float64) num { return num{f: v} }

func (n num) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func (n num) isZero() bool {
	if n.isInt {
		return n.i == 0
	}
	return n.f == 0
}

func (n num) isOne() bool {
	if n.isInt {
		return n.i == 1
	}
	return n.f == 1
}

func (n num) isMinusOne() bool {
	if n.isInt {
		return n.i == -1
	}
	return n.f == -1
}

func (n num) negate() num {
	if n.isInt {
		return numInt(-n.i)
	}
	return numFloat(-n.f)
}

func (n num) value() value.Value {
	if n.isInt {
		return value.Sint64(n.i)
	}
	return value.Double(n.f)
}

func numAdd(a, b num) num {
	if a.isInt && b.isInt {
		return numInt(a.i + b.i)
	}
	return numFloat(a.float() + b.float())
}

func numMul(a, b num) num {
	if a.isInt && b.isInt {
		return numInt(a.i * b.i)
	}
	return numFloat(a.float() * b.float())
}

func numDiv(a, b num) num {
	return numFloat(a.float() / b.float())
}

func numFloorDiv(a, b num) num {
	if a.isInt && b.isInt {
		return numInt(floorDivInt(a.i, b.i))
	}
	return numFloat(math.Floor(a.float() / b.float()))
}

func numAbs(a num) num {
	if a.isInt {
		if a.i < 0 {
			return numInt(-a.i)
		}
		return a
	}
	return numFloat(math.Abs(a.f))
}

func numMin(a, b num) num {
	if a.isInt && b.isInt {
		if a.i < b.i {
			return a
		}
		return b
	}
	return numFloat(math.Min(a.float(), b.float()))
}

func numMax(a, b num) num {
	if a.isInt && b.isInt {
		if a.i > b.i {
			return a
		}
		return b
	}
	return numFloat(math.Max(a.float(), b.float()))
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
