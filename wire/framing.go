package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
)

// Channel identifies which side of which connection sent a magic: the
// renderer/application channel, or the external-app (GPU texture
// sharing) channel.
type Channel uint8

const (
	ChannelR2A   Channel = iota // BOLDUI\x00: renderer -> application
	ChannelA2R                  // BOLDUI\x01: application -> renderer
	ChannelR2EA                 // BOLDUI\x02: renderer -> external app
	ChannelEA2R                 // BOLDUI\x03: external app -> renderer
)

var magics = [4][7]byte{
	ChannelR2A:  {'B', 'O', 'L', 'D', 'U', 'I', 0x00},
	ChannelA2R:  {'B', 'O', 'L', 'D', 'U', 'I', 0x01},
	ChannelR2EA: {'B', 'O', 'L', 'D', 'U', 'I', 0x02},
	ChannelEA2R: {'B', 'O', 'L', 'D', 'U', 'I', 0x03},
}

// R2AHello is the handshake payload the renderer sends after the
// ChannelR2A magic: [min_major.min_minor, max_major] is the version
// range this renderer accepts. ExtraLen trailing bytes are reserved
// for forward-compatible extensions and must be read and discarded.
type R2AHello struct {
	MinMajor uint16
	MinMinor uint16
	MaxMajor uint16
	ExtraLen uint32
}

// Error is the payload of a bincode Option<Error>'s Some case: an
// error code plus human-readable text.
type Error struct {
	Code int32
	Text string
}

// A2RHelloResponse is the handshake payload the application sends
// after the ChannelA2R magic: the protocol version it decided to
// speak, plus an Error if it rejected the renderer's advertised range
// instead.
type A2RHelloResponse struct {
	ProtoMajor uint16
	ProtoMinor uint16
	ExtraLen   uint32
	Error      *Error
}

// CurrentVersion is the version this implementation speaks.
var CurrentVersion = semver.Version{Major: 1, Minor: 0, Patch: 0}

// WriteR2AHello writes the ChannelR2A magic and hello.
func WriteR2AHello(w io.Writer, hello R2AHello) error {
	m := magics[ChannelR2A]
	if _, err := w.Write(m[:]); err != nil {
		return err
	}
	var b [10]byte
	binary.LittleEndian.PutUint16(b[0:2], hello.MinMajor)
	binary.LittleEndian.PutUint16(b[2:4], hello.MinMinor)
	binary.LittleEndian.PutUint16(b[4:6], hello.MaxMajor)
	binary.LittleEndian.PutUint32(b[6:10], hello.ExtraLen)
	if _, err := w.Write(b[:]); err != nil {
		return err
	}
	if hello.ExtraLen > 0 {
		if _, err := w.Write(make([]byte, hello.ExtraLen)); err != nil {
			return err
		}
	}
	return nil
}

// ReadR2AHello reads and validates the ChannelR2A magic, then the
// hello, discarding any ExtraLen trailing bytes.
func ReadR2AHello(r io.Reader) (R2AHello, error) {
	var m [7]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return R2AHello{}, &ProtocolError{Msg: fmt.Sprintf("reading magic: %v", err)}
	}
	if m != magics[ChannelR2A] {
		return R2AHello{}, &ProtocolError{Msg: "bad magic for channel"}
	}
	var b [10]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return R2AHello{}, &ProtocolError{Msg: fmt.Sprintf("reading hello: %v", err)}
	}
	hello := R2AHello{
		MinMajor: binary.LittleEndian.Uint16(b[0:2]),
		MinMinor: binary.LittleEndian.Uint16(b[2:4]),
		MaxMajor: binary.LittleEndian.Uint16(b[4:6]),
		ExtraLen: binary.LittleEndian.Uint32(b[6:10]),
	}
	if hello.ExtraLen > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(hello.ExtraLen)); err != nil {
			return R2AHello{}, &ProtocolError{Msg: fmt.Sprintf("reading hello extra bytes: %v", err)}
		}
	}
	return hello, nil
}

// WriteA2RHelloResponse writes the ChannelA2R magic and resp, encoding
// resp.Error as a bincode Option<Error>: a presence byte, followed by
// the Error fields only when present.
func WriteA2RHelloResponse(w io.Writer, resp A2RHelloResponse) error {
	m := magics[ChannelA2R]
	if _, err := w.Write(m[:]); err != nil {
		return err
	}
	bw := NewWriter()
	bw.WriteU16(resp.ProtoMajor)
	bw.WriteU16(resp.ProtoMinor)
	bw.WriteU32(resp.ExtraLen)
	if resp.Error != nil {
		bw.WriteBool(true)
		bw.WriteU32(uint32(resp.Error.Code))
		bw.WriteString(resp.Error.Text)
	} else {
		bw.WriteBool(false)
	}
	_, err := w.Write(bw.Bytes())
	return err
}

// ReadA2RHelloResponse reads and validates the ChannelA2R magic, then
// the hello response, discarding any ExtraLen trailing bytes.
func ReadA2RHelloResponse(r io.Reader) (A2RHelloResponse, error) {
	var m [7]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading magic: %v", err)}
	}
	if m != magics[ChannelA2R] {
		return A2RHelloResponse{}, &ProtocolError{Msg: "bad magic for channel"}
	}
	var head [8]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response: %v", err)}
	}
	resp := A2RHelloResponse{
		ProtoMajor: binary.LittleEndian.Uint16(head[0:2]),
		ProtoMinor: binary.LittleEndian.Uint16(head[2:4]),
		ExtraLen:   binary.LittleEndian.Uint32(head[4:8]),
	}
	var hasErr [1]byte
	if _, err := io.ReadFull(r, hasErr[:]); err != nil {
		return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response error tag: %v", err)}
	}
	if hasErr[0] != 0 {
		var codeBuf [4]byte
		if _, err := io.ReadFull(r, codeBuf[:]); err != nil {
			return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response error code: %v", err)}
		}
		var lenBuf [8]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response error text length: %v", err)}
		}
		n := binary.LittleEndian.Uint64(lenBuf[:])
		text := make([]byte, n)
		if _, err := io.ReadFull(r, text); err != nil {
			return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response error text: %v", err)}
		}
		resp.Error = &Error{Code: int32(binary.LittleEndian.Uint32(codeBuf[:])), Text: string(text)}
	}
	if resp.ExtraLen > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(resp.ExtraLen)); err != nil {
			return A2RHelloResponse{}, &ProtocolError{Msg: fmt.Sprintf("reading hello response extra bytes: %v", err)}
		}
	}
	return resp, nil
}

// Negotiate reports whether latest is compatible with what hello
// advertises: latest_major must fall within [min_major, max_major],
// and when latest_major == min_major, latest_minor must be >=
// min_minor.
func Negotiate(hello R2AHello, latest semver.Version) bool {
	if latest.Major < uint64(hello.MinMajor) || latest.Major > uint64(hello.MaxMajor) {
		return false
	}
	if latest.Major == uint64(hello.MinMajor) && latest.Minor < uint64(hello.MinMinor) {
		return false
	}
	return true
}

// WriteFrame writes a u32-LE length prefix followed by payload.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one u32-LE-length-prefixed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, &ProtocolError{Msg: fmt.Sprintf("reading frame length: %v", err)}
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, &ProtocolError{Msg: fmt.Sprintf("reading frame payload: %v", err)}
	}
	return payload, nil
}
