package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/Wazzaps/boldui/scene"
	"github.com/Wazzaps/boldui/session"
	"github.com/Wazzaps/boldui/store"
	"github.com/Wazzaps/boldui/value"
	"github.com/Wazzaps/boldui/wire"
)

// CLIOpts are this process' command-line options.
type CLIOpts struct {
	verbose bool
	sock    string
	dataDir string
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.verbose, "v", false, "Verbose output (print logs to stderr)")
	flag.StringVar(&opt.sock, "sock", "", "Unix socket path to dial a renderer on, instead of stdio")
	flag.StringVar(&opt.dataDir, "data-dir", "", "Directory to persist sessions in (TOML store); defaults to an in-memory store")
	flag.Parse()
	return opt
}

// counterState is the S2 reference scenario's domain model: a single
// integer bound as a scene variable and incremented on reply.
type counterState struct {
	Count int64 `boldui:"var"`
}

func main() {
	opt := parseCLIOpts()

	if opt.verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	app := session.NewApplication()
	if opt.dataDir != "" {
		s, err := store.NewTOML(opt.dataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "boldui-app: %v\n", err)
			os.Exit(1)
		}
		app.SetStore(s)
	}

	registerCounterView(app)

	transport, err := openTransport(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boldui-app: %v\n", err)
		os.Exit(1)
	}
	defer transport.Close()

	if err := app.Run(transport, transport); err != nil {
		fmt.Fprintf(os.Stderr, "boldui-app: %v\n", err)
		os.Exit(1)
	}
}

// registerCounterView wires up the hello-world/counter reference
// scenario: a window with a centered count and a clickable rectangle
// that replies to "/inc" on every click.
func registerCounterView(app *session.Application) {
	app.View("/", func() any { return &counterState{} }, func(sc *session.Scene, state any, query map[string]string) {
		s := state.(*counterState)

		sc.CreateWindow("Hello", 640, 480)
		if err := sc.DeclVars(s); err != nil {
			log.Printf("boldui-app: %v", err)
			return
		}
		sc.Clear(sc.HexColor(0x242424))

		width := sc.Var(":width")
		height := sc.Var(":height")
		center := sc.Point(width.Div(sc.ConstInt(2)), height.Div(sc.ConstInt(2)))

		text := sc.Var("Count").ToString()
		sc.DrawCenteredText(text, session.Paint{Color: sc.HexColor(0xffffff)}, center)

		rect := sc.Rect(
			width.Div(sc.ConstInt(2)).Sub(sc.ConstInt(50)),
			height.Div(sc.ConstInt(2)).Sub(sc.ConstInt(50)),
			width.Div(sc.ConstInt(2)).Add(sc.ConstInt(50)),
			height.Div(sc.ConstInt(2)).Add(sc.ConstInt(50)),
		)
		sc.DrawRect(session.Paint{Color: sc.HexColor(0x4caf50)}, rect)

		eh := sc.NewEventHandler(scene.EventMouseDown, rect, session.Expr{})
		eh.Reply("/inc")
		eh.Install()
	})

	app.OnReply("/inc", func() any { return &counterState{} }, func(state any, query map[string]string, params []value.Value) {
		state.(*counterState).Count++
	})
}

func openTransport(opt CLIOpts) (wire.Transport, error) {
	if opt.sock != "" {
		return wire.DialUnix(opt.sock)
	}
	return wire.StdioTransport(os.Stdin, os.Stdout), nil
}
