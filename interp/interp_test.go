package interp

import (
	"testing"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

type recordingEffects struct {
	sets       []value.VarID
	setVals    []value.Value
	reparents  []reparent.ResolvedTarget
	replies    []string
	replyVals  [][]value.Value
	opened     []string
	debugMsgs  []string
	allocCount int
}

func (r *recordingEffects) SetVar(id value.VarID, v value.Value) {
	r.sets = append(r.sets, id)
	r.setVals = append(r.setVals, v)
}
func (r *recordingEffects) Reparent(id scene.SceneID, to reparent.ResolvedTarget) error {
	r.reparents = append(r.reparents, to)
	return nil
}
func (r *recordingEffects) Reply(path string, params []value.Value) {
	r.replies = append(r.replies, path)
	r.replyVals = append(r.replyVals, params)
}
func (r *recordingEffects) Open(path string)             { r.opened = append(r.opened, path) }
func (r *recordingEffects) AllocateWindowID() scene.SceneID { r.allocCount++; return scene.SceneID(r.allocCount) }
func (r *recordingEffects) DebugMessage(msg string)      { r.debugMsgs = append(r.debugMsgs, msg) }

func TestRunSetVarAndReply(t *testing.T) {
	block := scene.HandlerBlock{
		Ops: []ops.Op{ops.Value(value.Sint64(5))},
		Cmds: []scene.HandlerCmd{
			scene.SetVar(value.VarID{Scene: 1, Key: "count"}, value.OpID{Index: 0}),
			scene.Reply("/tick", []value.OpID{{Index: 0}}),
		},
	}
	eff := &recordingEffects{}
	errs := []error{}
	err := Run(block, &ops.Context{Errors: &errs}, eff)
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.sets) != 1 || eff.setVals[0].Sint != 5 {
		t.Errorf("got sets=%v vals=%v", eff.sets, eff.setVals)
	}
	if len(eff.replies) != 1 || eff.replies[0] != "/tick" {
		t.Errorf("got replies=%v", eff.replies)
	}
}

func TestRunOrderIsDeclared(t *testing.T) {
	block := scene.HandlerBlock{
		Cmds: []scene.HandlerCmd{
			scene.DebugMessage("first"),
			scene.DebugMessage("second"),
		},
	}
	eff := &recordingEffects{}
	if err := Run(block, &ops.Context{}, eff); err != nil {
		t.Fatal(err)
	}
	if len(eff.debugMsgs) != 2 || eff.debugMsgs[0] != "first" || eff.debugMsgs[1] != "second" {
		t.Errorf("got %v", eff.debugMsgs)
	}
}

func TestRunIfPicksBranch(t *testing.T) {
	then := scene.DebugMessage("then")
	els := scene.DebugMessage("else")
	block := scene.HandlerBlock{
		Ops:  []ops.Op{ops.Value(value.Sint64(0))},
		Cmds: []scene.HandlerCmd{scene.If(value.OpID{Index: 0}, &then, &els)},
	}
	eff := &recordingEffects{}
	if err := Run(block, &ops.Context{}, eff); err != nil {
		t.Fatal(err)
	}
	if len(eff.debugMsgs) != 1 || eff.debugMsgs[0] != "else" {
		t.Errorf("got %v, want else branch since condition was falsy", eff.debugMsgs)
	}
}

func TestRunReparentScene(t *testing.T) {
	block := scene.HandlerBlock{
		Ops:  []ops.Op{ops.Value(value.Sint64(3))},
		Cmds: []scene.HandlerCmd{scene.ReparentScene(value.OpID{Index: 0}, reparent.Root())},
	}
	eff := &recordingEffects{}
	if err := Run(block, &ops.Context{}, eff); err != nil {
		t.Fatal(err)
	}
	if len(eff.reparents) != 1 || eff.reparents[0].Kind != reparent.KindRoot {
		t.Errorf("got %v", eff.reparents)
	}
}

func TestRunAllocateWindowID(t *testing.T) {
	block := scene.HandlerBlock{Cmds: []scene.HandlerCmd{scene.AllocateWindowID(), scene.AllocateWindowID()}}
	eff := &recordingEffects{}
	if err := Run(block, &ops.Context{}, eff); err != nil {
		t.Fatal(err)
	}
	if eff.allocCount != 2 {
		t.Errorf("got %d, want 2", eff.allocCount)
	}
}
