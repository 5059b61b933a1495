package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dshills/textrope/internal/engine/rope"
)

var rebalanceFlag = &cli.BoolFlag{
	Name:  "rebalance",
	Usage: "rebalance the tree before reporting",
}

var cmdStats = &cli.Command{
	Name:      "stats",
	Usage:     "print the shape of the rope built from a file",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{rebalanceFlag},
	Action:    runStats,
}

func runStats(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected a file argument")
	}

	sess, err := loadSession(cctx)
	if err != nil {
		return err
	}
	ed, err := sess.openEngine(cctx.Args().First())
	if err != nil {
		return err
	}
	if cctx.Bool("rebalance") {
		ed.Rebalance()
	}

	printStats(cctx, ed.Stats())
	return nil
}

func printStats(cctx *cli.Context, s rope.Stats) {
	w := cctx.App.Writer
	fmt.Fprintf(w, "length:       %d\n", s.Length)
	fmt.Fprintf(w, "leaves:       %d\n", s.Leaves)
	fmt.Fprintf(w, "empty leaves: %d\n", s.EmptyLeaves)
	fmt.Fprintf(w, "branches:     %d\n", s.Branches)
	fmt.Fprintf(w, "depth:        %d\n", s.Depth)
	fmt.Fprintf(w, "balanced:     %t\n", s.Balanced)
}
