package wire

import (
	"io"
	"net"
	"os"
)

// Transport is a bidirectional byte stream between an application
// process and a renderer process: stdio when launched as a child
// process, a Unix domain socket when launched standalone and dialed
// in, with Close severing both directions.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// stdioTransport wraps the process' own stdin/stdout as a Transport.
// Close is a no-op: the process owns its stdio for its whole lifetime,
// and closing os.Stdin/os.Stdout on exit is handled by the runtime.
type stdioTransport struct {
	in  io.Reader
	out io.Writer
}

func (s stdioTransport) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdioTransport) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s stdioTransport) Close() error                { return nil }

// StdioTransport returns a Transport backed by in/out, typically
// os.Stdin and os.Stdout.
func StdioTransport(in io.Reader, out io.Writer) Transport {
	return stdioTransport{in: in, out: out}
}

// DialUnix connects to a Unix domain socket at path and returns it as
// a Transport.
func DialUnix(path string) (Transport, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// ListenUnix listens on a Unix domain socket at path, removing any
// stale socket file left behind by a previous run before binding.
func ListenUnix(path string) (net.Listener, error) {
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}
	return net.Listen("unix", path)
}

func removeStaleSocket(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}
