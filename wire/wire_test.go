package wire

import (
	"bytes"
	"testing"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
	"github.com/blang/semver/v4"
)

func TestValueRoundTrip(t *testing.T) {
	cases := []value.Value{
		value.Sint64(-42),
		value.Double(3.25),
		value.String("hello"),
		value.FromColor(value.Color{R: 1, G: 2, B: 3, A: 4}),
		value.FromPoint(value.Point{Left: 1.5, Top: 2.5}),
		value.FromRect(value.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}),
		value.FromVarRef(value.VarID{Scene: 1, Key: "x"}),
	}
	for _, v := range cases {
		w := NewWriter()
		EncodeValue(w, v)
		got, err := DecodeValue(NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("decode %v: %v", v, err)
		}
		if !got.Equal(v) {
			t.Errorf("round trip mismatch: got %v, want %v", got, v)
		}
	}
}

func TestOpRoundTrip(t *testing.T) {
	cases := []ops.Op{
		ops.Value(value.Sint64(1)),
		ops.Var(value.VarID{Key: "count"}),
		ops.GetTime(),
		ops.Add(value.OpID{SceneID: 1, Index: 2}, value.OpID{SceneID: 1, Index: 3}),
		ops.If(value.OpID{Index: 0}, value.OpID{Index: 1}, value.OpID{Index: 2}),
		ops.MakeColor(value.OpID{Index: 0}, value.OpID{Index: 1}, value.OpID{Index: 2}, value.OpID{Index: 3}),
	}
	for _, op := range cases {
		w := NewWriter()
		EncodeOp(w, op)
		got, err := DecodeOp(NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("decode %v: %v", op, err)
		}
		if got != op {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, op)
		}
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	u := scene.Update{
		ID:    7,
		Attrs: map[scene.Attr]value.OpID{scene.AttrWindowTitle: {Index: 0}},
		Ops:   []ops.Op{ops.Value(value.String("hi"))},
		Cmds:  []scene.Cmd{scene.Clear(value.OpID{Index: 0})},
		VarDecls: map[string]value.Value{"x": value.Sint64(0)},
		Watches: []scene.Watch{
			{Condition: value.OpID{Index: 0}, Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Nop()}}},
		},
		EventHandlers: []scene.EventHandlerEntry{
			{Kind: scene.EventClick, Rect: value.OpID{Index: 0}, Handler: scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.Reply("/tick", nil)}}},
		},
	}
	w := NewWriter()
	EncodeUpdate(w, u)
	got, err := DecodeUpdate(NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || len(got.Ops) != len(u.Ops) || len(got.Cmds) != len(u.Cmds) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello world")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestR2AHelloRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	hello := R2AHello{MinMajor: 1, MinMinor: 0, MaxMajor: 1}
	if err := WriteR2AHello(&buf, hello); err != nil {
		t.Fatal(err)
	}
	got, err := ReadR2AHello(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != hello {
		t.Errorf("got %+v, want %+v", got, hello)
	}
}

func TestR2AHelloMagicMismatchIsProtocolError(t *testing.T) {
	var buf bytes.Buffer
	WriteA2RHelloResponse(&buf, A2RHelloResponse{ProtoMajor: 1})
	_, err := ReadR2AHello(&buf)
	if _, ok := err.(*ProtocolError); !ok {
		t.Errorf("got %T, want *ProtocolError", err)
	}
}

func TestA2RHelloResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	resp := A2RHelloResponse{ProtoMajor: 1, ProtoMinor: 2}
	if err := WriteA2RHelloResponse(&buf, resp); err != nil {
		t.Fatal(err)
	}
	got, err := ReadA2RHelloResponse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.ProtoMajor != resp.ProtoMajor || got.ProtoMinor != resp.ProtoMinor || got.Error != nil {
		t.Errorf("got %+v, want %+v", got, resp)
	}
}

func TestA2RHelloResponseErrorRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	resp := A2RHelloResponse{ProtoMajor: 1, Error: &Error{Code: 7, Text: "nope"}}
	if err := WriteA2RHelloResponse(&buf, resp); err != nil {
		t.Fatal(err)
	}
	got, err := ReadA2RHelloResponse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Error == nil || got.Error.Code != 7 || got.Error.Text != "nope" {
		t.Errorf("got %+v, want an error carrying code 7 and text %q", got, "nope")
	}
}

func TestNegotiateVersion(t *testing.T) {
	cases := []struct {
		name  string
		hello R2AHello
		want  bool
	}{
		{"within range", R2AHello{MinMajor: 1, MinMinor: 0, MaxMajor: 2}, true},
		{"below range", R2AHello{MinMajor: 2, MinMinor: 0, MaxMajor: 3}, false},
		{"above range", R2AHello{MinMajor: 0, MinMinor: 0, MaxMajor: 0}, false},
		{"same major, minor too high requirement", R2AHello{MinMajor: 1, MinMinor: 99, MaxMajor: 1}, false},
	}
	latest := semver.Version{Major: 1, Minor: 0, Patch: 0}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Negotiate(c.hello, latest); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestR2AMessageRoundTrip(t *testing.T) {
	m := R2AMessage{Kind: R2AKindUpdate, Replies: []Reply{{Path: "/tick", Params: []value.Value{value.Sint64(1)}}}}
	b := EncodeR2A(m)
	got, err := DecodeR2A(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Replies) != 1 || got.Replies[0].Path != "/tick" {
		t.Errorf("got %+v", got)
	}
}

func TestA2RMessageRoundTrip(t *testing.T) {
	m := A2RMessage{Kind: A2RKindUpdate, UpdatedScenes: []scene.Update{{ID: 1, Attrs: map[scene.Attr]value.OpID{}, VarDecls: map[string]value.Value{}}}}
	b := EncodeA2R(m)
	got, err := DecodeA2R(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.UpdatedScenes) != 1 || got.UpdatedScenes[0].ID != 1 {
		t.Errorf("got %+v", got)
	}
}
