package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
)

var configPath = flag.String("config", "", "path to a TOML config file; defaults apply when empty")

func main() {
	flag.Parse()
	ctx := context.Background()
	log.Info("starting up and reading commands from stdin")
	if err := doMain(ctx, os.Stdin); err != nil {
		log.Exitf("failed to run: %v", err)
	}
}

func doMain(ctx context.Context, input io.Reader) error {
	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ParseFromFile(*configPath); err != nil {
			return err
		}
	}

	mix := NewMixer(cfg.SampleRate, cfg.MasterLevel)
	defer mix.Close()

	backend, err := OpenBackend(cfg.Output, mix)
	if err != nil {
		return fmt.Errorf("failed to open %q output: %w", cfg.Output, err)
	}
	defer backend.Close()
	if err := backend.Start(); err != nil {
		return fmt.Errorf("failed to start audio output: %w", err)
	}

	knob := NewKnob(cfg.Generator.Hz, func(d Display) {
		log.Infof("display: text=%q aria-valuenow=%s rotate=%.1fdeg", d.Text, d.AriaValueNow, d.RotateDeg)
	})
	session := NewSession(mix, cfg, func(on bool) {
		knob.SetActive(on)
		log.Infof("audio active: %v", on)
	})
	defer session.Close()
	knob.Bind(session)

	return runCommands(ctx, input, session, knob)
}

// runCommands dispatches newline-separated control events: start, stop,
// test, panic, hz N, key NAME, dragstart, drag X Y, show, quit. Blank
// lines and #-comments are skipped.
func runCommands(ctx context.Context, input io.Reader, session *Session, knob *Knob) error {
	sc := bufio.NewScanner(input)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch cmd := fields[0]; cmd {
		case "start":
			session.StartGenerator(knob.Hz())
		case "stop":
			session.Stop()
		case "test":
			session.PlayTestTone()
		case "panic":
			session.Panic()
		case "hz":
			v, ok := floatArg(fields, 1)
			if !ok {
				log.Warningf("usage: hz N, got %q", line)
				continue
			}
			knob.SetHz(v)
		case "key":
			if len(fields) < 2 {
				log.Warningf("usage: key NAME, got %q", line)
				continue
			}
			if !knob.Key(fields[1]) {
				log.Warningf("unhandled key %q", fields[1])
			}
		case "dragstart":
			knob.BeginDrag()
		case "drag":
			x, okX := floatArg(fields, 1)
			y, okY := floatArg(fields, 2)
			if !okX || !okY {
				log.Warningf("usage: drag X Y, got %q", line)
				continue
			}
			knob.Drag(x, y)
		case "show":
			d := knob.Display()
			fmt.Printf("%s state=%v rotate=%.1f active=%v\n", d.Text, session.State(), d.RotateDeg, d.Active)
		case "quit":
			return nil
		default:
			log.Warningf("unknown command %q", cmd)
		}
	}
	return sc.Err()
}

func floatArg(fields []string, i int) (float64, bool) {
	if i >= len(fields) {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
