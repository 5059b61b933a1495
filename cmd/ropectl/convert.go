package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dshills/textrope/internal/engine/buffer"
)

var cmdConvert = &cli.Command{
	Name:      "convert",
	Usage:     "re-encode a file",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		outputFlag,
		&cli.StringFlag{
			Name:     "to",
			Usage:    "output encoding (utf-8, utf-16le, utf-16be)",
			Required: true,
		},
	},
	Action: runConvert,
}

func runConvert(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected a file argument")
	}

	to, err := buffer.ParseEncoding(cctx.String("to"))
	if err != nil {
		return err
	}

	sess, err := loadSession(cctx)
	if err != nil {
		return err
	}
	ed, err := sess.openEngine(cctx.Args().First())
	if err != nil {
		return err
	}

	sess.enc = to
	return sess.save(cctx, ed, cctx.String("output"))
}
