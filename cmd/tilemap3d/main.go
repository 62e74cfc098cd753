package main

import (
	"log"
	"os"
	"strconv"

	"github.com/bodgit/tilemap3d"
	"github.com/bodgit/tilemap3d/config"
	"github.com/bodgit/tilemap3d/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// session is everything a command needs, opened from the global flags.
type session struct {
	path   string
	cfg    *config.Config
	logger *zap.Logger
	db     *tilemap3d.DB
	sys    *tilemap3d.System
}

func open(c *cli.Context) (*session, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = config.DefaultFile
	}
	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	if c.IsSet("log-file") {
		cfg.Logging.LogFile = c.String("log-file")
	}

	s := &session{
		path:   path,
		cfg:    cfg,
		logger: logger.Stderr(cfg.Logging.Level, c.Bool("verbose"), cfg.Logging.LogFile),
	}

	if s.db, err = tilemap3d.NewDB(cfg.Database, s.logger); err != nil {
		return nil, err
	}

	if s.sys, err = tilemap3d.Load(cfg, s.db, s.logger); err != nil {
		s.db.Close()
		return nil, err
	}

	return s, nil
}

// save stores the tilemap and writes the settings back to the project file.
func (s *session) save() error {
	if err := s.db.SaveTilemap(s.sys); err != nil {
		return err
	}
	s.sys.Save(s.cfg)
	return s.cfg.SaveTo(s.path)
}

func (s *session) Close() error {
	_ = s.logger.Sync()
	return s.db.Close()
}

// withSession opens a session around fn, saving afterwards if write is set.
func withSession(write bool, fn func(*cli.Context, *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := open(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer s.Close()

		if err := fn(c, s); err != nil {
			return cli.NewExitError(err, 1)
		}

		if write {
			if err := s.save(); err != nil {
				return cli.NewExitError(err, 1)
			}
		}

		return nil
	}
}

// intArgs parses the first n arguments as integers.
func intArgs(c *cli.Context, n int) ([]int, error) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
	v := make([]int, n)
	for i := range v {
		var err error
		if v[i], err = strconv.Atoi(c.Args().Get(i)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "tilemap3d"
	app.Usage = "Layered 3D texture tilemap authoring utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"TILEMAP3D_CONFIG"},
			Usage:   "path to project file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TILEMAP3D_DB"},
			Usage:   "path to database, overrides the project file",
		},
		&cli.StringFlag{
			Name:    "log-file",
			EnvVars: []string{"TILEMAP3D_LOG_FILE"},
			Usage:   "also log to a rotating file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		initCommand(),
		paletteCommand(),
		generateCommand(false),
		generateCommand(true),
		layerCommand(),
		layoutCommand(),
		toolCommand("pick", "Pick up the tile at a cell", tilemap3d.ToolPick),
		toolCommand("paint", "Paint a cell", tilemap3d.ToolPaint),
		toolCommand("fill", "Flood fill from a cell", tilemap3d.ToolFill),
		toolCommand("erase", "Erase an auto-tile", tilemap3d.ToolErase),
		exportCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
