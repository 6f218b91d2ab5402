package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero int", Sint64(0), false},
		{"nonzero int", Sint64(1), true},
		{"zero float", Double(0), false},
		{"nonzero float", Double(0.1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"color always truthy", FromColor(Color{}), true},
		{"point always truthy", FromPoint(Point{}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Sint64(5).Equal(Sint64(5)) {
		t.Error("expected equal sint64s to be equal")
	}
	if Sint64(5).Equal(Double(5)) {
		t.Error("different kinds must never be equal, even with matching numeric value")
	}
	if !FromRect(Rect{1, 2, 3, 4}).Equal(FromRect(Rect{1, 2, 3, 4})) {
		t.Error("expected equal rects to be equal")
	}
}

func TestToStringRoundTripsFloats(t *testing.T) {
	v := Double(1.0 / 3.0)
	s := v.ToString()
	if s == "" {
		t.Fatal("expected non-empty string")
	}
	if s == "0" || s == "0.333" {
		t.Errorf("ToString() = %q, want enough precision to round-trip", s)
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor(0x242424)
	if c.A != 0xFFFF {
		t.Errorf("expected opaque alpha, got %d", c.A)
	}
	if c.R != c.G || c.G != c.B {
		t.Errorf("0x242424 should have equal channels, got %+v", c)
	}
}

func TestRectContainsInclusive(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	if !r.Contains(Point{Left: 10, Top: 10}) {
		t.Error("hit-test must be inclusive of the bottom-right edge")
	}
	if r.Contains(Point{Left: 10.1, Top: 5}) {
		t.Error("point outside rect must not hit")
	}
}

func TestVarIDIsBuiltin(t *testing.T) {
	if !(VarID{Key: ":width"}).IsBuiltin() {
		t.Error("expected :-prefixed key to be builtin")
	}
	if (VarID{Key: "count"}).IsBuiltin() {
		t.Error("expected unprefixed key to not be builtin")
	}
}
