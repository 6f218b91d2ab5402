// Package wire implements the BoldUI wire codec: length-prefixed
// framing over a magic handshake, and a bincode-flavoured binary
// encoding (little-endian fixed-width ints, u64-length-prefixed
// sequences/strings, u32 variant tags for enums) for every message and
// data-model type that crosses the renderer<->application boundary.
//
// No Go library speaks Rust's bincode, so this is hand-rolled in the
// style of a vendored wire-format client: a small tag-then-payload
// Writer/Reader pair built on encoding/binary.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer accumulates a bincode-encoded payload.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteU8(v uint8) { w.buf.WriteByte(v) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteBytes writes a u64 length prefix followed by the raw bytes, the
// bincode representation of Vec<u8>.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU64(uint64(len(b)))
	w.buf.Write(b)
}

// WriteString writes a u64 length prefix followed by the raw UTF-8
// bytes; bincode strings carry no trailing null.
func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

// WriteSeqLen writes the u64 length prefix bincode puts ahead of every
// Vec/sequence; callers then write each element themselves.
func (w *Writer) WriteSeqLen(n int) { w.WriteU64(uint64(n)) }

// WriteVariant writes the u32 tag bincode uses to discriminate an enum.
func (w *Writer) WriteVariant(tag uint32) { w.WriteU32(tag) }

// Reader consumes a bincode-encoded payload written by Writer.
type Reader struct {
	buf *bytes.Reader
}

func NewReader(b []byte) *Reader { return &Reader{buf: bytes.NewReader(b)} }

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.buf.ReadByte()
	if err != nil {
		return 0, wrapShort(err)
	}
	return b, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *Reader) ReadU16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.buf, out); err != nil {
		return nil, wrapShort(err)
	}
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) ReadSeqLen() (int, error) {
	n, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *Reader) ReadVariant() (uint32, error) { return r.ReadU32() }

func wrapShort(err error) error {
	return &ProtocolError{Msg: fmt.Sprintf("truncated message: %v", err)}
}
