// Package interp executes HandlerBlocks: the atomic, ordered sequence
// of side-effecting commands that a Watch firing, an event handler
// firing, or a reply dispatch runs.
package interp

import (
	"fmt"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// Effects is everything a HandlerBlock can do to the outside world.
// The watch engine, event dispatcher and reply dispatcher each supply
// their own Effects bound to the running session/connection.
type Effects interface {
	SetVar(id value.VarID, v value.Value)
	Reparent(id scene.SceneID, to reparent.ResolvedTarget) error
	Reply(path string, params []value.Value)
	Open(path string)
	AllocateWindowID() scene.SceneID
	DebugMessage(msg string)
}

// Run executes block's ops once into a memo, then its cmds in strict
// declared order. A SchemaError from evaluating any op aborts
// the whole block; EvalErrors are absorbed per the usual policy and
// execution continues with the zero value.
func Run(block scene.HandlerBlock, ctx *ops.Context, eff Effects) error {
	ev := ops.NewEvaluator(0, block.Ops)
	for _, cmd := range block.Cmds {
		if err := runCmd(ev, cmd, ctx, eff); err != nil {
			return err
		}
	}
	return nil
}

func runCmd(ev *ops.Evaluator, cmd scene.HandlerCmd, ctx *ops.Context, eff Effects) error {
	switch cmd.Kind {
	case scene.HandlerNop:
		return nil

	case scene.HandlerAllocateWindowID:
		eff.AllocateWindowID()
		return nil

	case scene.HandlerReparentScene:
		sceneIDVal, err := ev.Resolve(cmd.Scene, ctx)
		if err != nil {
			return err
		}
		if sceneIDVal.Kind != value.KindSint64 {
			return fmt.Errorf("ReparentScene: scene operand did not evaluate to an integer")
		}
		target := reparent.ResolvedTarget{Kind: cmd.To.Kind}
		if cmd.To.Kind == reparent.KindInside || cmd.To.Kind == reparent.KindAfter {
			refVal, err := ev.Resolve(cmd.To.Ref, ctx)
			if err != nil {
				return err
			}
			if refVal.Kind != value.KindSint64 {
				return fmt.Errorf("ReparentScene: target operand did not evaluate to an integer")
			}
			target.Ref = reparent.ID(refVal.Sint)
		}
		return eff.Reparent(scene.SceneID(sceneIDVal.Sint), target)

	case scene.HandlerSetVar:
		v, err := ev.Resolve(cmd.Value, ctx)
		if err != nil {
			return err
		}
		eff.SetVar(cmd.Var, v)
		return nil

	case scene.HandlerSetVarByRef:
		refVal, err := ev.Resolve(cmd.VarRef, ctx)
		if err != nil {
			return err
		}
		if refVal.Kind != value.KindVarRef {
			return fmt.Errorf("SetVarByRef: operand did not evaluate to a VarRef")
		}
		v, err := ev.Resolve(cmd.Value, ctx)
		if err != nil {
			return err
		}
		eff.SetVar(refVal.VarRef, v)
		return nil

	case scene.HandlerDebugMessage:
		eff.DebugMessage(cmd.Msg)
		return nil

	case scene.HandlerReply:
		params := make([]value.Value, len(cmd.Params))
		for i, p := range cmd.Params {
			v, err := ev.Resolve(p, ctx)
			if err != nil {
				return err
			}
			params[i] = v
		}
		eff.Reply(cmd.Path, params)
		return nil

	case scene.HandlerOpen:
		eff.Open(cmd.Path)
		return nil

	case scene.HandlerIf:
		condVal, err := ev.Resolve(cmd.Cond, ctx)
		if err != nil {
			return err
		}
		if condVal.Truthy() {
			return runCmd(ev, *cmd.Then, ctx, eff)
		}
		return runCmd(ev, *cmd.Else, ctx, eff)

	default:
		return fmt.Errorf("unknown handler cmd kind %v", cmd.Kind)
	}
}
