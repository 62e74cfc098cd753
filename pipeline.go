package tilemap3d

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/tilemap3d/palette"
	"go.uber.org/zap"
)

// ImportOptions controls how atlases are cut into palettes.
type ImportOptions struct {
	TileSize      int
	GridOffset    int
	ExtractNumber int

	// Workers is the number of atlases converted at once
	Workers int
}

var atlasExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

// PaletteName returns the palette name used for an atlas file.
func PaletteName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// ConvertAtlas loads file and cuts it into a new palette named after it.
func ConvertAtlas(file string, opts ImportOptions) (*palette.Palette, error) {
	m, err := palette.LoadAtlas(file)
	if err != nil {
		return nil, err
	}

	p := palette.New(PaletteName(file))
	if opts.TileSize > 0 {
		p.TileSize = opts.TileSize
	}
	p.GridOffset = opts.GridOffset
	if opts.ExtractNumber > 0 {
		p.ExtractNumber = opts.ExtractNumber
	}
	p.Atlas = m

	if _, err := p.ConvertAtlasToTiles(); err != nil {
		return nil, err
	}

	return p, nil
}

// findAtlases walks base in lexical order and sends each atlas file. Only
// the first file for each palette name is sent, later ones are logged and
// skipped.
func (db *DB) findAtlases(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	seen := make(map[string]string)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := atlasExtensions[strings.ToLower(filepath.Ext(file))]; !ok {
				return nil
			}

			name := PaletteName(file)
			if first, ok := seen[name]; ok {
				db.logger.Warn("duplicate palette name", zap.String("palette", name), zap.String("file", file), zap.String("first", first))
				return nil
			}
			seen[name] = file

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (db *DB) atlasWorker(ctx context.Context, in <-chan string, out chan<- *palette.Palette, opts ImportOptions, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			p, err := ConvertAtlas(file, opts)
			if err != nil {
				// A bad atlas doesn't stop the others
				db.logger.Warn("cannot convert atlas", zap.String("file", file), zap.Error(err))
				continue
			}

			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func (db *DB) paletteSaver(in <-chan *palette.Palette, names *[]string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for p := range in {
			if err := db.SavePalette(p); err != nil {
				errc <- err
				// Drain so the workers can finish
				for range in {
				}
				return
			}
			db.logger.Info("imported atlas", zap.String("palette", p.ID), zap.Int("tiles", p.TilesCount()))
			*names = append(*names, p.ID)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ImportAtlases converts every atlas image under path into a palette named
// after the file and stores it. Atlases are converted concurrently and
// stored one at a time. The names of the stored palettes are returned in
// order.
func (db *DB) ImportAtlases(ctx context.Context, path string, opts ImportOptions) ([]string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := db.findAtlases(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}

	palettes := make(chan *palette.Palette)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		errc, err := db.atlasWorker(ctx, files, palettes, opts, &wg)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(palettes)
	}()

	var names []string
	errc, err = db.paletteSaver(palettes, &names)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}
