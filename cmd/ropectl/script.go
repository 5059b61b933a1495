package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/dshills/textrope/internal/plugin/api"
	plua "github.com/dshills/textrope/internal/plugin/lua"
)

var cmdRun = &cli.Command{
	Name:      "run",
	Usage:     "run a Lua edit script against a file",
	ArgsUsage: "<script.lua> [file]",
	Flags: []cli.Flag{
		outputFlag,
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not print the resulting text",
		},
	},
	Action: runScript,
}

func runScript(cctx *cli.Context) error {
	if cctx.Args().Len() < 1 || cctx.Args().Len() > 2 {
		return fmt.Errorf("expected a script and an optional file")
	}

	sess, err := loadSession(cctx)
	if err != nil {
		return err
	}
	ed, err := sess.openEngine(cctx.Args().Get(1))
	if err != nil {
		return err
	}

	opts := append(sess.cfg.StateOptions(sess.logger), plua.WithOutput(cctx.App.ErrWriter))
	state, err := plua.NewState(opts...)
	if err != nil {
		return err
	}
	defer state.Close()
	api.NewRopeModule(ed).Register(state)

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt)
	defer stop()

	if err := state.DoFile(ctx, cctx.Args().Get(0)); err != nil {
		return fmt.Errorf("running %s: %w", cctx.Args().Get(0), err)
	}

	if cctx.Bool("quiet") && cctx.String("output") == "" {
		return nil
	}
	return sess.save(cctx, ed, cctx.String("output"))
}
