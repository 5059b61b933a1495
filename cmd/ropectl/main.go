// Command ropectl inspects and edits text files through the textrope engine.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/dshills/textrope/internal/config"
	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/buffer"
)

const stdIOPath = "-"

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	app := cli.App{
		Name:    "ropectl",
		Usage:   "inspect and edit text through an immutable UTF-16 rope",
		Version: versioninfo.Short(),
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML configuration file",
				Value:   "textrope.toml",
				EnvVars: []string{"TEXTROPE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log verbosity (debug, info, warn, error); overrides the config file",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "input and output encoding (utf-8, utf-16le, utf-16be); overrides the config file",
			},
		},
	}
	app.Commands = []*cli.Command{
		cmdStats,
		cmdDump,
		cmdReplay,
		cmdRun,
		cmdConvert,
	}
	return app.Run(args)
}

// session is what every command needs: the merged configuration and a logger
// built from it.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	enc    buffer.Encoding
}

func loadSession(cctx *cli.Context) (*session, error) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cctx.String("log-level"); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.Log.Level = lvl
	}

	enc := cfg.Encoding()
	if name := cctx.String("encoding"); name != "" {
		enc, err = buffer.ParseEncoding(name)
		if err != nil {
			return nil, err
		}
	}

	logger := cfg.NewLogger(cctx.App.ErrWriter)
	slog.SetDefault(logger)
	return &session{cfg: cfg, logger: logger, enc: enc}, nil
}

// openEngine loads path, or stdin for "-", into a new engine. An empty path
// gives an empty engine.
func (s *session) openEngine(path string) (*engine.Engine, error) {
	opts := s.cfg.EngineOptions(s.logger)
	if path == "" {
		return engine.New(opts...), nil
	}

	var r io.Reader = os.Stdin
	if path != stdIOPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	ed, err := engine.NewFromReader(r, s.enc, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s.logger.Debug("loaded", "path", path, "len", ed.Len(), "encoding", s.enc.String())
	return ed, nil
}

// save writes the engine text to path, or to stdout for "" and "-".
func (s *session) save(cctx *cli.Context, ed *engine.Engine, path string) error {
	if path == "" || path == stdIOPath {
		return ed.Save(cctx.App.Writer, s.enc)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ed.Save(f, s.enc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "write the resulting text to this file instead of stdout",
}
