package wire

import (
	"fmt"

	"github.com/Wazzaps/boldui/ops"
	"github.com/Wazzaps/boldui/reparent"
	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

func encodeOpsSeq(w *Writer, list []ops.Op) {
	w.WriteSeqLen(len(list))
	for _, op := range list {
		EncodeOp(w, op)
	}
}

func decodeOpsSeq(r *Reader) ([]ops.Op, error) {
	n, err := r.ReadSeqLen()
	if err != nil {
		return nil, err
	}
	out := make([]ops.Op, n)
	for i := range out {
		op, err := DecodeOp(r)
		if err != nil {
			return nil, err
		}
		out[i] = op
	}
	return out, nil
}

func EncodeReparentTarget(w *Writer, t reparent.Target) {
	w.WriteVariant(uint32(t.Kind))
	switch t.Kind {
	case reparent.KindInside, reparent.KindAfter:
		EncodeOpID(w, t.Ref)
	}
}

func DecodeReparentTarget(r *Reader) (reparent.Target, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return reparent.Target{}, err
	}
	kind := reparent.Kind(tag)
	switch kind {
	case reparent.KindInside:
		ref, err := DecodeOpID(r)
		if err != nil {
			return reparent.Target{}, err
		}
		return reparent.Inside(ref), nil
	case reparent.KindAfter:
		ref, err := DecodeOpID(r)
		if err != nil {
			return reparent.Target{}, err
		}
		return reparent.After(ref), nil
	case reparent.KindRoot:
		return reparent.Root(), nil
	case reparent.KindDisconnect:
		return reparent.Disconnect(), nil
	case reparent.KindHide:
		return reparent.Hide(), nil
	default:
		return reparent.Target{}, &ProtocolError{Msg: fmt.Sprintf("unknown reparent kind %d", tag)}
	}
}

func EncodeHandlerCmd(w *Writer, c scene.HandlerCmd) {
	w.WriteVariant(uint32(c.Kind))
	switch c.Kind {
	case scene.HandlerNop, scene.HandlerAllocateWindowID:
	case scene.HandlerReparentScene:
		EncodeOpID(w, c.Scene)
		EncodeReparentTarget(w, c.To)
	case scene.HandlerSetVar:
		EncodeVarID(w, c.Var)
		EncodeOpID(w, c.Value)
	case scene.HandlerSetVarByRef:
		EncodeOpID(w, c.VarRef)
		EncodeOpID(w, c.Value)
	case scene.HandlerDebugMessage:
		w.WriteString(c.Msg)
	case scene.HandlerReply:
		w.WriteString(c.Path)
		w.WriteSeqLen(len(c.Params))
		for _, p := range c.Params {
			EncodeOpID(w, p)
		}
	case scene.HandlerOpen:
		w.WriteString(c.Path)
	case scene.HandlerIf:
		EncodeOpID(w, c.Cond)
		EncodeHandlerCmd(w, *c.Then)
		EncodeHandlerCmd(w, *c.Else)
	}
}

func DecodeHandlerCmd(r *Reader) (scene.HandlerCmd, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return scene.HandlerCmd{}, err
	}
	kind := scene.HandlerCmdKind(tag)
	switch kind {
	case scene.HandlerNop:
		return scene.Nop(), nil
	case scene.HandlerAllocateWindowID:
		return scene.AllocateWindowID(), nil
	case scene.HandlerReparentScene:
		id, err := DecodeOpID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		to, err := DecodeReparentTarget(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.ReparentScene(id, to), nil
	case scene.HandlerSetVar:
		v, err := DecodeVarID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		val, err := DecodeOpID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.SetVar(v, val), nil
	case scene.HandlerSetVarByRef:
		ref, err := DecodeOpID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		val, err := DecodeOpID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.SetVarByRef(ref, val), nil
	case scene.HandlerDebugMessage:
		msg, err := r.ReadString()
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.DebugMessage(msg), nil
	case scene.HandlerReply:
		path, err := r.ReadString()
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		n, err := r.ReadSeqLen()
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		params := make([]value.OpID, n)
		for i := range params {
			params[i], err = DecodeOpID(r)
			if err != nil {
				return scene.HandlerCmd{}, err
			}
		}
		return scene.Reply(path, params), nil
	case scene.HandlerOpen:
		path, err := r.ReadString()
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.Open(path), nil
	case scene.HandlerIf:
		cond, err := DecodeOpID(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		then, err := DecodeHandlerCmd(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		els, err := DecodeHandlerCmd(r)
		if err != nil {
			return scene.HandlerCmd{}, err
		}
		return scene.If(cond, &then, &els), nil
	default:
		return scene.HandlerCmd{}, &ProtocolError{Msg: fmt.Sprintf("unknown handler cmd kind %d", tag)}
	}
}

func EncodeHandlerBlock(w *Writer, b scene.HandlerBlock) {
	encodeOpsSeq(w, b.Ops)
	w.WriteSeqLen(len(b.Cmds))
	for _, c := range b.Cmds {
		EncodeHandlerCmd(w, c)
	}
}

func DecodeHandlerBlock(r *Reader) (scene.HandlerBlock, error) {
	ops_, err := decodeOpsSeq(r)
	if err != nil {
		return scene.HandlerBlock{}, err
	}
	n, err := r.ReadSeqLen()
	if err != nil {
		return scene.HandlerBlock{}, err
	}
	cmds := make([]scene.HandlerCmd, n)
	for i := range cmds {
		cmds[i], err = DecodeHandlerCmd(r)
		if err != nil {
			return scene.HandlerBlock{}, err
		}
	}
	return scene.HandlerBlock{Ops: ops_, Cmds: cmds}, nil
}

func EncodeCmd(w *Writer, c scene.Cmd) {
	w.WriteVariant(uint32(c.Kind))
	switch c.Kind {
	case scene.CmdClear:
		EncodeOpID(w, c.Color)
	case scene.CmdDrawRect:
		EncodeOpID(w, c.Paint.Color)
		EncodeOpID(w, c.Rect)
	case scene.CmdDrawRoundRect:
		EncodeOpID(w, c.Paint.Color)
		EncodeOpID(w, c.Rect)
		EncodeOpID(w, c.Radius)
	case scene.CmdDrawCenteredText:
		EncodeOpID(w, c.Text)
		EncodeOpID(w, c.Paint.Color)
		EncodeOpID(w, c.Paint.FontSize)
		EncodeOpID(w, c.Center)
	case scene.CmdDrawImage:
		EncodeOpID(w, c.Resource)
		EncodeOpID(w, c.TopLeft)
	}
}

func DecodeCmd(r *Reader) (scene.Cmd, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return scene.Cmd{}, err
	}
	switch scene.CmdKind(tag) {
	case scene.CmdClear:
		color, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		return scene.Clear(color), nil
	case scene.CmdDrawRect:
		color, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		rect, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		return scene.DrawRect(scene.Paint{Color: color}, rect), nil
	case scene.CmdDrawRoundRect:
		color, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		rect, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		radius, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		return scene.DrawRoundRect(scene.Paint{Color: color}, rect, radius), nil
	case scene.CmdDrawCenteredText:
		text, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		color, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		fontSize, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		center, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		return scene.DrawCenteredText(text, scene.TextPaint(color, fontSize), center), nil
	case scene.CmdDrawImage:
		res, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		topLeft, err := DecodeOpID(r)
		if err != nil {
			return scene.Cmd{}, err
		}
		return scene.DrawImage(res, topLeft), nil
	default:
		return scene.Cmd{}, &ProtocolError{Msg: fmt.Sprintf("unknown cmd kind %d", tag)}
	}
}

func EncodeWatch(w *Writer, ws scene.Watch) {
	EncodeOpID(w, ws.Condition)
	EncodeHandlerBlock(w, ws.Handler)
	w.WriteBool(ws.WaitForRoundtrip)
	w.WriteBool(ws.WaitForRebuild)
}

func DecodeWatch(r *Reader) (scene.Watch, error) {
	cond, err := DecodeOpID(r)
	if err != nil {
		return scene.Watch{}, err
	}
	handler, err := DecodeHandlerBlock(r)
	if err != nil {
		return scene.Watch{}, err
	}
	roundtrip, err := r.ReadBool()
	if err != nil {
		return scene.Watch{}, err
	}
	rebuild, err := r.ReadBool()
	if err != nil {
		return scene.Watch{}, err
	}
	return scene.Watch{Condition: cond, Handler: handler, WaitForRoundtrip: roundtrip, WaitForRebuild: rebuild}, nil
}

func EncodeEventHandlerEntry(w *Writer, e scene.EventHandlerEntry) {
	w.WriteVariant(uint32(e.Kind))
	EncodeOpID(w, e.Rect)
	EncodeHandlerBlock(w, e.Handler)
	EncodeOpID(w, e.ContinueHandling)
}

func DecodeEventHandlerEntry(r *Reader) (scene.EventHandlerEntry, error) {
	tag, err := r.ReadVariant()
	if err != nil {
		return scene.EventHandlerEntry{}, err
	}
	rect, err := DecodeOpID(r)
	if err != nil {
		return scene.EventHandlerEntry{}, err
	}
	handler, err := DecodeHandlerBlock(r)
	if err != nil {
		return scene.EventHandlerEntry{}, err
	}
	cont, err := DecodeOpID(r)
	if err != nil {
		return scene.EventHandlerEntry{}, err
	}
	return scene.EventHandlerEntry{Kind: scene.EventKind(tag), Rect: rect, Handler: handler, ContinueHandling: cont}, nil
}

// EncodeUpdate writes a full A2RUpdateScene.
func EncodeUpdate(w *Writer, u scene.Update) {
	w.WriteU32(uint32(u.ID))

	w.WriteSeqLen(len(u.Attrs))
	for attr, op := range u.Attrs {
		w.WriteVariant(uint32(attr))
		EncodeOpID(w, op)
	}

	encodeOpsSeq(w, u.Ops)

	w.WriteSeqLen(len(u.Cmds))
	for _, c := range u.Cmds {
		EncodeCmd(w, c)
	}

	w.WriteSeqLen(len(u.VarDecls))
	for name, def := range u.VarDecls {
		w.WriteString(name)
		EncodeValue(w, def)
	}

	w.WriteSeqLen(len(u.Watches))
	for _, ws := range u.Watches {
		EncodeWatch(w, ws)
	}

	w.WriteSeqLen(len(u.EventHandlers))
	for _, e := range u.EventHandlers {
		EncodeEventHandlerEntry(w, e)
	}
}

func DecodeUpdate(r *Reader) (scene.Update, error) {
	id, err := r.ReadU32()
	if err != nil {
		return scene.Update{}, err
	}
	u := scene.Update{ID: scene.SceneID(id)}

	nAttrs, err := r.ReadSeqLen()
	if err != nil {
		return scene.Update{}, err
	}
	u.Attrs = make(map[scene.Attr]value.OpID, nAttrs)
	for i := 0; i < nAttrs; i++ {
		tag, err := r.ReadVariant()
		if err != nil {
			return scene.Update{}, err
		}
		op, err := DecodeOpID(r)
		if err != nil {
			return scene.Update{}, err
		}
		u.Attrs[scene.Attr(tag)] = op
	}

	u.Ops, err = decodeOpsSeq(r)
	if err != nil {
		return scene.Update{}, err
	}

	nCmds, err := r.ReadSeqLen()
	if err != nil {
		return scene.Update{}, err
	}
	u.Cmds = make([]scene.Cmd, nCmds)
	for i := range u.Cmds {
		u.Cmds[i], err = DecodeCmd(r)
		if err != nil {
			return scene.Update{}, err
		}
	}

	nVars, err := r.ReadSeqLen()
	if err != nil {
		return scene.Update{}, err
	}
	u.VarDecls = make(map[string]value.Value, nVars)
	for i := 0; i < nVars; i++ {
		name, err := r.ReadString()
		if err != nil {
			return scene.Update{}, err
		}
		v, err := DecodeValue(r)
		if err != nil {
			return scene.Update{}, err
		}
		u.VarDecls[name] = v
	}

	nWatches, err := r.ReadSeqLen()
	if err != nil {
		return scene.Update{}, err
	}
	u.Watches = make([]scene.Watch, nWatches)
	for i := range u.Watches {
		u.Watches[i], err = DecodeWatch(r)
		if err != nil {
			return scene.Update{}, err
		}
	}

	nHandlers, err := r.ReadSeqLen()
	if err != nil {
		return scene.Update{}, err
	}
	u.EventHandlers = make([]scene.EventHandlerEntry, nHandlers)
	for i := range u.EventHandlers {
		u.EventHandlers[i], err = DecodeEventHandlerEntry(r)
		if err != nil {
			return scene.Update{}, err
		}
	}

	return u, nil
}
