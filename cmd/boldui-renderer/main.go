package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/Wazzaps/boldui/wire"
)

// CLIOpts are this process' command-line options.
type CLIOpts struct {
	verbose bool
	sock    string
	path    string
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.verbose, "v", false, "Verbose output (print logs to stderr)")
	flag.StringVar(&opt.sock, "sock", "", "Unix socket path to dial an application on, instead of stdio")
	flag.StringVar(&opt.path, "path", "/", "Initial path to open on the application")
	flag.Parse()
	return opt
}

func openTransport(opt CLIOpts) (wire.Transport, error) {
	if opt.sock != "" {
		return wire.DialUnix(opt.sock)
	}
	return wire.StdioTransport(os.Stdin, os.Stdout), nil
}

func main() {
	opt := parseCLIOpts()

	if opt.verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	transport, err := openTransport(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boldui-renderer: %v\n", err)
		os.Exit(1)
	}
	defer transport.Close()

	r := newRenderer(transport)
	if err := r.handshake(); err != nil {
		fmt.Fprintf(os.Stderr, "boldui-renderer: %v\n", err)
		os.Exit(1)
	}
	log.Printf("boldui-renderer: connected")

	go r.ioLoop()

	r.open(opt.path)
	r.runWindow()
}
