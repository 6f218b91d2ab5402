package wire

import (
	"fmt"

	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/value"
)

// R2AKind tags a renderer->application message variant.
type R2AKind uint32

const (
	R2AKindUpdate R2AKind = iota
	R2AKindOpen
	R2AKindError
)

// Reply is one reply batched into an R2AUpdate.
type Reply struct {
	Path   string
	Params []value.Value
}

// R2AMessage is the renderer->application message envelope.
type R2AMessage struct {
	Kind R2AKind

	// Update
	Replies []Reply

	// Open
	Path string

	// Error
	Code int32
	Text string
}

func EncodeR2A(m R2AMessage) []byte {
	w := NewWriter()
	w.WriteVariant(uint32(m.Kind))
	switch m.Kind {
	case R2AKindUpdate:
		w.WriteSeqLen(len(m.Replies))
		for _, rep := range m.Replies {
			w.WriteString(rep.Path)
			w.WriteSeqLen(len(rep.Params))
			for _, p := range rep.Params {
				EncodeValue(w, p)
			}
		}
	case R2AKindOpen:
		w.WriteString(m.Path)
	case R2AKindError:
		w.WriteU32(uint32(m.Code))
		w.WriteString(m.Text)
	}
	return w.Bytes()
}

func DecodeR2A(b []byte) (R2AMessage, error) {
	r := NewReader(b)
	tag, err := r.ReadVariant()
	if err != nil {
		return R2AMessage{}, err
	}
	switch R2AKind(tag) {
	case R2AKindUpdate:
		n, err := r.ReadSeqLen()
		if err != nil {
			return R2AMessage{}, err
		}
		replies := make([]Reply, n)
		for i := range replies {
			path, err := r.ReadString()
			if err != nil {
				return R2AMessage{}, err
			}
			pn, err := r.ReadSeqLen()
			if err != nil {
				return R2AMessage{}, err
			}
			params := make([]value.Value, pn)
			for j := range params {
				params[j], err = DecodeValue(r)
				if err != nil {
					return R2AMessage{}, err
				}
			}
			replies[i] = Reply{Path: path, Params: params}
		}
		return R2AMessage{Kind: R2AKindUpdate, Replies: replies}, nil
	case R2AKindOpen:
		path, err := r.ReadString()
		if err != nil {
			return R2AMessage{}, err
		}
		return R2AMessage{Kind: R2AKindOpen, Path: path}, nil
	case R2AKindError:
		code, err := r.ReadU32()
		if err != nil {
			return R2AMessage{}, err
		}
		text, err := r.ReadString()
		if err != nil {
			return R2AMessage{}, err
		}
		return R2AMessage{Kind: R2AKindError, Code: int32(code), Text: text}, nil
	default:
		return R2AMessage{}, &ProtocolError{Msg: fmt.Sprintf("unknown R2A kind %d", tag)}
	}
}

// A2RKind tags an application->renderer message variant.
type A2RKind uint32

const (
	A2RKindUpdate A2RKind = iota
	A2RKindError
	A2RKindCompressedUpdate
)

// ResourceChunk is one chunk of a ResourceId's byte payload, addressed
// by offset so chunks may arrive out of order.
// Total declares the resource's full byte length; it is only meaningful
// on the chunk that carries it (by convention, the first one sent) and
// is 0 on every other chunk of the same resource.
type ResourceChunk struct {
	Resource uint64
	Offset   uint64
	Total    uint64
	Data     []byte
}

// A2RMessage is the application->renderer message envelope.
type A2RMessage struct {
	Kind A2RKind

	// Update
	UpdatedScenes []scene.Update
	RunBlocks     []scene.HandlerBlock
	ResourceChunks []ResourceChunk
	ResourceDeallocs []uint64

	// Error
	Code int32
	Text string

	// CompressedUpdate
	Compressed []byte
}

func EncodeA2R(m A2RMessage) []byte {
	w := NewWriter()
	w.WriteVariant(uint32(m.Kind))
	switch m.Kind {
	case A2RKindUpdate:
		w.WriteSeqLen(len(m.UpdatedScenes))
		for _, u := range m.UpdatedScenes {
			EncodeUpdate(w, u)
		}
		w.WriteSeqLen(len(m.RunBlocks))
		for _, b := range m.RunBlocks {
			EncodeHandlerBlock(w, b)
		}
		w.WriteSeqLen(len(m.ResourceChunks))
		for _, c := range m.ResourceChunks {
			w.WriteU64(c.Resource)
			w.WriteU64(c.Offset)
			w.WriteU64(c.Total)
			w.WriteBytes(c.Data)
		}
		w.WriteSeqLen(len(m.ResourceDeallocs))
		for _, id := range m.ResourceDeallocs {
			w.WriteU64(id)
		}
	case A2RKindError:
		w.WriteU32(uint32(m.Code))
		w.WriteString(m.Text)
	case A2RKindCompressedUpdate:
		w.WriteBytes(m.Compressed)
	}
	return w.Bytes()
}

func DecodeA2R(b []byte) (A2RMessage, error) {
	r := NewReader(b)
	tag, err := r.ReadVariant()
	if err != nil {
		return A2RMessage{}, err
	}
	switch A2RKind(tag) {
	case A2RKindUpdate:
		n, err := r.ReadSeqLen()
		if err != nil {
			return A2RMessage{}, err
		}
		scenes := make([]scene.Update, n)
		for i := range scenes {
			scenes[i], err = DecodeUpdate(r)
			if err != nil {
				return A2RMessage{}, err
			}
		}
		bn, err := r.ReadSeqLen()
		if err != nil {
			return A2RMessage{}, err
		}
		blocks := make([]scene.HandlerBlock, bn)
		for i := range blocks {
			blocks[i], err = DecodeHandlerBlock(r)
			if err != nil {
				return A2RMessage{}, err
			}
		}
		cn, err := r.ReadSeqLen()
		if err != nil {
			return A2RMessage{}, err
		}
		chunks := make([]ResourceChunk, cn)
		for i := range chunks {
			res, err := r.ReadU64()
			if err != nil {
				return A2RMessage{}, err
			}
			off, err := r.ReadU64()
			if err != nil {
				return A2RMessage{}, err
			}
			total, err := r.ReadU64()
			if err != nil {
				return A2RMessage{}, err
			}
			data, err := r.ReadBytes()
			if err != nil {
				return A2RMessage{}, err
			}
			chunks[i] = ResourceChunk{Resource: res, Offset: off, Total: total, Data: data}
		}
		dn, err := r.ReadSeqLen()
		if err != nil {
			return A2RMessage{}, err
		}
		deallocs := make([]uint64, dn)
		for i := range deallocs {
			deallocs[i], err = r.ReadU64()
			if err != nil {
				return A2RMessage{}, err
			}
		}
		return A2RMessage{Kind: A2RKindUpdate, UpdatedScenes: scenes, RunBlocks: blocks, ResourceChunks: chunks, ResourceDeallocs: deallocs}, nil
	case A2RKindError:
		code, err := r.ReadU32()
		if err != nil {
			return A2RMessage{}, err
		}
		text, err := r.ReadString()
		if err != nil {
			return A2RMessage{}, err
		}
		return A2RMessage{Kind: A2RKindError, Code: int32(code), Text: text}, nil
	case A2RKindCompressedUpdate:
		data, err := r.ReadBytes()
		if err != nil {
			return A2RMessage{}, err
		}
		return A2RMessage{Kind: A2RKindCompressedUpdate, Compressed: data}, nil
	default:
		return A2RMessage{}, &ProtocolError{Msg: fmt.Sprintf("unknown A2R kind %d", tag)}
	}
}
