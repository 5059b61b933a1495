package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/history"
)

var cmdReplay = &cli.Command{
	Name:      "replay",
	Usage:     "apply a YAML list of edits to a file",
	ArgsUsage: "<script.yaml> [file]",
	Flags: []cli.Flag{
		outputFlag,
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print the rope shape instead of the text",
		},
	},
	Action: runReplay,
}

// Step is one entry of a replay script:
//
//	- op: insert
//	  at: 5
//	  text: " world"
//	- op: replace
//	  start: 0
//	  end: 5
//	  text: Hello
//	- op: group
//	  name: wrap
//	  steps:
//	    - {op: insert, at: 0, text: "["}
//	    - {op: insert, at: 12, text: "]"}
//	- op: undo
type Step struct {
	Op    string        `yaml:"op"`
	At    engine.Offset `yaml:"at"`
	Start engine.Offset `yaml:"start"`
	End   engine.Offset `yaml:"end"`
	Text  string        `yaml:"text"`
	Name  string        `yaml:"name"`
	Steps []Step        `yaml:"steps"`
}

// ParseSteps decodes a replay script.
func ParseSteps(r io.Reader) ([]Step, error) {
	var steps []Step
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding replay script: %w", err)
	}
	return steps, nil
}

// Replay applies steps to ed in order. Undo and redo with nothing left to
// undo or redo are skipped.
func Replay(ed *engine.Engine, steps []Step) error {
	for i, step := range steps {
		if err := apply(ed, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func apply(ed *engine.Engine, step Step) error {
	switch step.Op {
	case "insert":
		_, err := ed.Insert(step.At, step.Text)
		return err
	case "delete":
		return ed.Delete(step.Start, step.End)
	case "replace":
		_, err := ed.Replace(step.Start, step.End, step.Text)
		return err
	case "undo":
		if err := ed.Undo(); err != nil && !errors.Is(err, history.ErrNothingToUndo) {
			return err
		}
		return nil
	case "redo":
		if err := ed.Redo(); err != nil && !errors.Is(err, history.ErrNothingToRedo) {
			return err
		}
		return nil
	case "rebalance":
		ed.Rebalance()
		return nil
	case "snapshot":
		ed.CreateSnapshot(step.Name)
		return nil
	case "restore":
		return ed.RestoreSnapshot(step.Name)
	case "group":
		ed.BeginUndoGroup(step.Name)
		if err := Replay(ed, step.Steps); err != nil {
			ed.CancelUndoGroup()
			return err
		}
		ed.EndUndoGroup()
		return nil
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func runReplay(cctx *cli.Context) error {
	if cctx.Args().Len() < 1 || cctx.Args().Len() > 2 {
		return fmt.Errorf("expected a script and an optional file")
	}

	f, err := os.Open(cctx.Args().Get(0))
	if err != nil {
		return err
	}
	steps, err := ParseSteps(f)
	f.Close()
	if err != nil {
		return err
	}

	sess, err := loadSession(cctx)
	if err != nil {
		return err
	}
	ed, err := sess.openEngine(cctx.Args().Get(1))
	if err != nil {
		return err
	}

	if err := Replay(ed, steps); err != nil {
		return err
	}
	sess.logger.Info("replay finished", "steps", len(steps), "len", ed.Len(), "undo", ed.UndoCount())

	if cctx.Bool("stats") {
		printStats(cctx, ed.Stats())
		return nil
	}
	return sess.save(cctx, ed, cctx.String("output"))
}
