package scene

import (
	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/value"
)

// HandlerBlock is a mini-scene (id 0) run by the watch engine, the
// event dispatcher, or on a reply dispatch: its own ops array plus a
// sequence of commands executed in order against that array.
type HandlerBlock struct {
	Ops  []ops.Op
	Cmds []HandlerCmd
}

// HandlerCmdKind tags a HandlerCmd variant.
type HandlerCmdKind uint8

const (
	HandlerNop HandlerCmdKind = iota
	HandlerAllocateWindowID
	HandlerReparentScene
	HandlerSetVar
	HandlerSetVarByRef
	HandlerDebugMessage
	HandlerReply
	HandlerOpen
	HandlerIf
)

// HandlerCmd is one command in a HandlerBlock's cmds sequence.
// Side effects run strictly in declared order.
type HandlerCmd struct {
	Kind HandlerCmdKind

	// ReparentScene
	Scene value.OpID
	To    reparent.Target

	// SetVar
	Var   value.VarID
	Value value.OpID

	// SetVarByRef: Value resolves to a VarRef which names the target.
	VarRef value.OpID

	// DebugMessage
	Msg string

	// Reply, Open
	Path   string
	Params []value.OpID

	// If
	Cond value.OpID
	Then *HandlerCmd
	Else *HandlerCmd
}

func Nop() HandlerCmd { return HandlerCmd{Kind: HandlerNop} }

func AllocateWindowID() HandlerCmd { return HandlerCmd{Kind: HandlerAllocateWindowID} }

func ReparentScene(scene value.OpID, to reparent.Target) HandlerCmd {
	return HandlerCmd{Kind: HandlerReparentScene, Scene: scene, To: to}
}

func SetVar(v value.VarID, val value.OpID) HandlerCmd {
	return HandlerCmd{Kind: HandlerSetVar, Var: v, Value: val}
}

func SetVarByRef(varRef, val value.OpID) HandlerCmd {
	return HandlerCmd{Kind: HandlerSetVarByRef, VarRef: varRef, Value: val}
}

func DebugMessage(msg string) HandlerCmd { return HandlerCmd{Kind: HandlerDebugMessage, Msg: msg} }

func Reply(path string, params []value.OpID) HandlerCmd {
	return HandlerCmd{Kind: HandlerReply, Path: path, Params: params}
}

func Open(path string) HandlerCmd { return HandlerCmd{Kind: HandlerOpen, Path: path} }

func If(cond value.OpID, then, els *HandlerCmd) HandlerCmd {
	return HandlerCmd{Kind: HandlerIf, Cond: cond, Then: then, Else: els}
}

