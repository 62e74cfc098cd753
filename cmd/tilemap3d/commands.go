package main

import (
	"errors"
	"fmt"

	"github.com/bodgit/tilemap3d"
	"github.com/bodgit/tilemap3d/config"
	"github.com/bodgit/tilemap3d/layer"
	"github.com/bodgit/tilemap3d/palette"
	"github.com/bodgit/tilemap3d/preview"
	"github.com/urfave/cli/v2"
)

var importFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "tile-size",
		Value: palette.DefaultTileSize,
		Usage: "tile size in pixels",
	},
	&cli.IntFlag{
		Name:  "offset",
		Usage: "grid offset in pixels",
	},
	&cli.IntFlag{
		Name:  "extract",
		Value: palette.DefaultExtractNumber,
		Usage: "maximum number of tiles to extract",
	},
	&cli.IntFlag{
		Name:  "workers",
		Value: 4,
		Usage: "number of atlases converted at once",
	},
}

func importOptions(c *cli.Context) tilemap3d.ImportOptions {
	return tilemap3d.ImportOptions{
		TileSize:      c.Int("tile-size"),
		GridOffset:    c.Int("offset"),
		ExtractNumber: c.Int("extract"),
		Workers:       c.Int("workers"),
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default project file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 64, Usage: "grid width"},
			&cli.IntFlag{Name: "height", Value: 64, Usage: "grid height"},
			&cli.IntFlag{Name: "tile-size", Value: palette.DefaultTileSize, Usage: "tileset tile size"},
			&cli.StringSliceFlag{Name: "layer", Usage: "add a layer using the named palette"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("config")
			if path == "" {
				path = config.DefaultFile
			}

			cfg := config.Default()
			cfg.Tilemap.Width = c.Int("width")
			cfg.Tilemap.Height = c.Int("height")
			cfg.Tilemap.TilesetSize = c.Int("tile-size")
			for i, name := range c.StringSlice("layer") {
				cfg.Layers = append(cfg.Layers, config.LayerConfig{
					Name:      fmt.Sprintf("layer%d", i),
					Palette:   name,
					Intensity: 1,
				})
			}

			if err := cfg.Validate(); err != nil {
				return cli.NewExitError(err, 1)
			}
			if err := cfg.SaveTo(path); err != nil {
				return cli.NewExitError(err, 1)
			}

			return nil
		},
	}
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:  "palette",
		Usage: "Manage tile palettes",
		Subcommands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert an atlas image into a palette",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "palette name, defaults to the file name"},
				}, importFlags...),
				Action: withSession(false, func(c *cli.Context, s *session) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}
					file := c.Args().First()

					name := c.String("name")
					if name == "" {
						name = tilemap3d.PaletteName(file)
					}

					// Add to an existing palette, filling its free slots
					p, err := s.db.LoadPalette(name)
					if err != nil {
						return err
					}
					if p == nil {
						p, err = tilemap3d.ConvertAtlas(file, importOptions(c))
						if err != nil {
							return err
						}
						p.ID = name
					} else {
						if p.Atlas, err = palette.LoadAtlas(file); err != nil {
							return err
						}
						p.GridOffset = c.Int("offset")
						p.ExtractNumber = c.Int("extract")
						if _, err := p.ConvertAtlasToTiles(); err != nil {
							return err
						}
					}

					if err := s.db.SavePalette(p); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s: %d tiles\n", p.ID, p.TilesCount())
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "Convert every atlas image in a directory",
				ArgsUsage: "DIRECTORY",
				Flags:     importFlags,
				Action: withSession(false, func(c *cli.Context, s *session) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}
					names, err := s.db.ImportAtlases(c.Context, c.Args().First(), importOptions(c))
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Fprintln(c.App.Writer, name)
					}
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List palettes",
				Action: withSession(false, func(c *cli.Context, s *session) error {
					list, err := s.db.ListPalettes()
					if err != nil {
						return err
					}
					for _, p := range list {
						fmt.Fprintf(c.App.Writer, "%s\t%dpx\t%d tiles\n", p.Name, p.TileSize, p.Tiles)
					}
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete every tile of a palette",
				ArgsUsage: "NAME",
				Action: withSession(false, func(c *cli.Context, s *session) error {
					return editPalette(c, s, (*palette.Palette).DeleteTiles)
				}),
			},
			{
				Name:      "reset",
				Usage:     "Reset a palette to its defaults",
				ArgsUsage: "NAME",
				Action: withSession(false, func(c *cli.Context, s *session) error {
					return editPalette(c, s, (*palette.Palette).ResetAsset)
				}),
			},
			{
				Name:      "remove",
				Usage:     "Remove a palette from the database",
				ArgsUsage: "NAME",
				Action: withSession(false, func(c *cli.Context, s *session) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}
					return s.db.DeletePalette(c.Args().First())
				}),
			},
		},
	}
}

func editPalette(c *cli.Context, s *session, fn func(*palette.Palette)) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
	p, err := s.db.LoadPalette(c.Args().First())
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no such palette %q", c.Args().First())
	}
	fn(p)
	return s.db.SavePalette(p)
}

func generateCommand(regenerate bool) *cli.Command {
	if regenerate {
		return &cli.Command{
			Name:  "regenerate",
			Usage: "Rebuild the tilemap keeping what has been painted",
			Action: withSession(true, func(c *cli.Context, s *session) error {
				return s.sys.Regenerate()
			}),
		}
	}
	return &cli.Command{
		Name:  "generate",
		Usage: "Build an empty tilemap",
		Action: withSession(true, func(c *cli.Context, s *session) error {
			return s.sys.Generate()
		}),
	}
}

var (
	layerFlag = &cli.IntFlag{
		Name:    "layer",
		Aliases: []string{"l"},
		Usage:   "layer index",
	}
	tileFlag = &cli.IntFlag{
		Name:    "tile",
		Aliases: []string{"t"},
		Usage:   "tile index",
	}
	autoFlag = &cli.BoolFlag{
		Name:    "auto",
		Aliases: []string{"a"},
		Usage:   "paint with the selected auto-tile layout",
	}
)

func toolCommand(name, usage string, tool tilemap3d.Tool) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "X Y",
		Flags:     []cli.Flag{layerFlag, tileFlag, autoFlag},
		Action: withSession(true, func(c *cli.Context, s *session) error {
			xy, err := intArgs(c, 2)
			if err != nil {
				return err
			}

			s.sys.Tool = tool
			s.sys.Layer = c.Int("layer")
			s.sys.Tile = c.Int("tile")
			s.sys.Mode = tilemap3d.ModeDefault
			if c.Bool("auto") {
				s.sys.Mode = tilemap3d.ModeAutoTiles
			}

			if err := s.sys.Apply(xy[0], xy[1]); err != nil {
				return err
			}
			if tool == tilemap3d.ToolPick {
				fmt.Fprintln(c.App.Writer, s.sys.Tile)
			}
			return nil
		}),
	}
}

func layerArg(c *cli.Context, s *session) (*layer.Layer, int, error) {
	v, err := intArgs(c, 1)
	if err != nil {
		return nil, 0, err
	}
	if v[0] < 0 || v[0] >= len(s.sys.Layers) {
		return nil, 0, fmt.Errorf("no such layer %d", v[0])
	}
	return s.sys.Layers[v[0]], v[0], nil
}

var errNoClipboard = errors.New("nothing to paste")

func layerCommand() *cli.Command {
	return &cli.Command{
		Name:  "layer",
		Usage: "Manage layers",
		Subcommands: []*cli.Command{
			{
				Name:      "reset",
				Usage:     "Paint a whole layer with one tile",
				ArgsUsage: "LAYER",
				Flags:     []cli.Flag{tileFlag},
				Action: withSession(true, func(c *cli.Context, s *session) error {
					_, z, err := layerArg(c, s)
					if err != nil {
						return err
					}
					return s.sys.ResetLayer(z, c.Int("tile"))
				}),
			},
			{
				Name:      "copy",
				Usage:     "Copy a layer to the clipboard",
				ArgsUsage: "LAYER",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					_, z, err := layerArg(c, s)
					if err != nil {
						return err
					}
					return s.sys.CopyLayer(z)
				}),
			},
			{
				Name:      "paste",
				Usage:     "Paste the clipboard over a layer",
				ArgsUsage: "LAYER",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					_, z, err := layerArg(c, s)
					if err != nil {
						return err
					}
					if !s.sys.PasteLayer(z) {
						return errNoClipboard
					}
					return nil
				}),
			},
			{
				Name:      "intensity",
				Usage:     "Set the alpha intensity of a layer",
				ArgsUsage: "LAYER VALUE",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					_, z, err := layerArg(c, s)
					if err != nil {
						return err
					}
					var v float64
					if _, err := fmt.Sscan(c.Args().Get(1), &v); err != nil {
						return err
					}
					return s.sys.SetLayerIntensity(z, v)
				}),
			},
		},
	}
}

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "Manage auto-tile layouts",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a layout to a layer",
				ArgsUsage: "LAYER NAME",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					l, _, err := layerArg(c, s)
					if err != nil {
						return err
					}
					l.AddLayout(c.Args().Get(1))
					return nil
				}),
			},
			{
				Name:      "select",
				Usage:     "Select the layout used by the auto-tile tools",
				ArgsUsage: "LAYER LAYOUT",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					l, _, err := layerArg(c, s)
					if err != nil {
						return err
					}
					v, err := intArgs(c, 2)
					if err != nil {
						return err
					}
					if l.LayoutAt(v[1]) == nil {
						return fmt.Errorf("no such layout %d", v[1])
					}
					l.LayoutIndex = v[1]
					return nil
				}),
			},
			{
				Name:      "auto",
				Usage:     "Assign consecutive tiles to every entry of a layout",
				ArgsUsage: "LAYER LAYOUT START",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					l, _, err := layerArg(c, s)
					if err != nil {
						return err
					}
					v, err := intArgs(c, 3)
					if err != nil {
						return err
					}
					layout := l.LayoutAt(v[1])
					if layout == nil {
						return fmt.Errorf("no such layout %d", v[1])
					}
					layout.AutoAssign(v[2], l.TilesCount())
					return nil
				}),
			},
			{
				Name:      "pick",
				Usage:     "Assign a tile to one entry of a layout",
				ArgsUsage: "LAYER LAYOUT ENTRY TILE",
				Action: withSession(true, func(c *cli.Context, s *session) error {
					l, _, err := layerArg(c, s)
					if err != nil {
						return err
					}
					v, err := intArgs(c, 4)
					if err != nil {
						return err
					}
					layout := l.LayoutAt(v[1])
					if layout == nil {
						return fmt.Errorf("no such layout %d", v[1])
					}
					return layout.Pick(v[2], v[3], l.TilesCount())
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	colorsFlag := &cli.IntFlag{
		Name:  "colors",
		Usage: "quantize to this many colors, 0 keeps full colour",
	}
	scaleFlag := &cli.IntFlag{
		Name:  "scale",
		Value: 1,
		Usage: "integer scale factor",
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export images of the tilemap",
		Subcommands: []*cli.Command{
			{
				Name:      "preview",
				Usage:     "Render every layer",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{colorsFlag, scaleFlag},
				Action: withSession(false, func(c *cli.Context, s *session) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}
					m, err := preview.Render(s.sys.Storage())
					if err != nil {
						return err
					}
					return preview.WriteFile(c.Args().First(), preview.Scale(m, c.Int("scale")), c.Int("colors"))
				}),
			},
			{
				Name:      "tileset",
				Usage:     "Lay out the packed tileset",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{colorsFlag, scaleFlag, &cli.IntFlag{
					Name:  "columns",
					Value: 16,
					Usage: "tiles per row",
				}},
				Action: withSession(false, func(c *cli.Context, s *session) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}
					ts := s.sys.Storage().Tileset()
					if ts == nil {
						return tilemap3d.ErrStale
					}
					m := preview.Sheet(ts, c.Int("columns"))
					return preview.WriteFile(c.Args().First(), preview.Scale(m, c.Int("scale")), c.Int("colors"))
				}),
			},
			{
				Name:      "layer",
				Usage:     "Write the tile indices of a layer as a grayscale image",
				ArgsUsage: "LAYER FILE",
				Flags:     []cli.Flag{scaleFlag},
				Action: withSession(false, func(c *cli.Context, s *session) error {
					v, err := intArgs(c, 1)
					if err != nil {
						return err
					}
					m, err := preview.Layer(s.sys.Storage().Grid(), v[0])
					if err != nil {
						return err
					}
					return preview.WriteFile(c.Args().Get(1), preview.Scale(m, c.Int("scale")), 0)
				}),
			},
		},
	}
}
