package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/editor"
	"github.com/vsariola/pianoroll/host"
	"github.com/vsariola/pianoroll/transport"
	"github.com/vsariola/pianoroll/version"
)

type (
	// Script is a recorded editing session: the rows to show and a list of
	// pointer and key inputs.
	Script struct {
		Keys  []string `yaml:"keys"`
		Steps []Step   `yaml:"steps"`
	}

	// Step is one input. Exactly one of Pointer, Key or Mode should be set;
	// Wait pauses before the input.
	Step struct {
		Pointer string        `yaml:"pointer"`
		X       float64       `yaml:"x"`
		Y       float64       `yaml:"y"`
		Shift   bool          `yaml:"shift"`
		ToRoot  bool          `yaml:"toroot"`
		Key     string        `yaml:"key"`
		Ctrl    bool          `yaml:"ctrl"`
		Alt     bool          `yaml:"alt"`
		Mode    string        `yaml:"mode"`
		Wait    time.Duration `yaml:"wait"`
	}
)

var pointerKinds = map[string]editor.PointerKind{
	"press":   editor.PointerPress,
	"move":    editor.PointerMove,
	"release": editor.PointerRelease,
	"leave":   editor.PointerLeave,
	"cancel":  editor.PointerCancel,
}

func main() {
	hostURL := flag.String("host", "", "URL of a running host, e.g. http://localhost:8080. Empty uses a host in this process.")
	player := flag.Int("p", 0, "Player number.")
	interval := flag.Duration("i", 50*time.Millisecond, "Snapshot polling interval.")
	quiet := flag.Bool("q", false, "Only print the final status, not the events.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	script, err := readScript(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	var t transport.Transport
	if *hostURL != "" {
		t = transport.NewHTTP(*hostURL, *player)
	} else {
		server, err := host.New()
		if err != nil {
			log.Fatal(err)
		}
		t = transport.Local{Backend: server, Player: *player}
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	roll, err := t.PullRoll(ctx)
	if err != nil {
		log.Fatalf("could not load the roll of player %d: %v", *player, err)
	}
	broker := editor.NewBroker()
	model := editor.NewModel(broker, roll, editor.MakePreferences())
	if len(script.Keys) > 0 {
		keys := make([]pianoroll.Key, 0, len(script.Keys))
		for _, name := range script.Keys {
			k, err := pianoroll.ParseKey(name)
			if err != nil {
				log.Fatal(err)
			}
			keys = append(keys, k)
		}
		model.SetKeys(keys)
	}
	go transport.Pump(ctx, t, broker, *interval)
	for i, step := range script.Steps {
		if step.Wait > 0 {
			time.Sleep(step.Wait)
		}
		if err := play(model, step); err != nil {
			log.Fatalf("step %d: %v", i, err)
		}
		receive(model)
	}
	// a pull may have started before the last edits were pushed, so the
	// second snapshot after the steps is the first one known to include them
	receive(model)
	for range 2 {
		msg, ok := editor.TimeoutReceive(broker.ToModel, 4*(*interval)+time.Second)
		if !ok {
			log.Fatal("no snapshot from the host")
		}
		model.ProcessMsg(msg)
	}
	fmt.Printf("%s, %d events, %d selected, undo %d\n", model.Status(), model.Store().Len(), len(model.Selection()), model.History().UndoLen())
	if !*quiet {
		for _, e := range model.Store().Events() {
			fmt.Println(e)
		}
	}
}

func readScript(filename string) (Script, error) {
	var script Script
	contents, err := os.ReadFile(filename)
	if err != nil {
		return script, fmt.Errorf("could not read script %v: %w", filename, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		return script, fmt.Errorf("could not parse script %v: %w", filename, err)
	}
	return script, nil
}

func play(m *editor.Model, step Step) error {
	switch {
	case step.Pointer != "":
		kind, ok := pointerKinds[step.Pointer]
		if !ok {
			return fmt.Errorf("unknown pointer event %q", step.Pointer)
		}
		m.Pointer(editor.PointerEvent{Kind: kind, X: step.X, Y: step.Y, Shift: step.Shift, ToRoot: step.ToRoot})
	case step.Key != "":
		m.KeyEvent(editor.KeyEvent{Name: step.Key, Ctrl: step.Ctrl, Shift: step.Shift, Alt: step.Alt})
	case step.Mode != "":
		for _, mode := range []editor.Mode{editor.ModeView, editor.ModeInsert, editor.ModeCopy} {
			if mode.String() == step.Mode {
				m.SetMode(mode)
				return nil
			}
		}
		return fmt.Errorf("unknown mode %q", step.Mode)
	}
	return nil
}

func receive(m *editor.Model) {
	for {
		select {
		case msg := <-m.Broker().ToModel:
			m.ProcessMsg(msg)
		default:
			return
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Piano roll replay. Plays a .yml script of pointer and key inputs through an editor connected to a host.\nUsage: %s [flags] script.yml\n", os.Args[0])
	flag.PrintDefaults()
}
