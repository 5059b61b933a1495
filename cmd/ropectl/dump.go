package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dshills/textrope/internal/engine/rope"
)

var cmdDump = &cli.Command{
	Name:      "dump",
	Usage:     "print the rope built from a file as a tree",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		rebalanceFlag,
		&cli.IntFlag{
			Name:  "leaf-units",
			Usage: "leaf size in code units; overrides the config file",
		},
	},
	Action: runDump,
}

func runDump(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected a file argument")
	}

	sess, err := loadSession(cctx)
	if err != nil {
		return err
	}
	if n := cctx.Int("leaf-units"); n > 0 {
		sess.cfg.Rope.MaxLeafUnits = n
	}

	ed, err := sess.openEngine(cctx.Args().First())
	if err != nil {
		return err
	}
	if cctx.Bool("rebalance") {
		ed.Rebalance()
	}

	return rope.Dump(ed.Root(), cctx.App.Writer)
}
