package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/export"
	"github.com/youruser/coverapp/internal/fonts"
	imagepkg "github.com/youruser/coverapp/internal/image"
	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/theme"
	"github.com/youruser/coverapp/internal/util"
)

type job struct {
	profile profile.Profile
	name    string
	target  layout.Target
}

type runnerOptions struct {
	Template string
	Ratio    float64
	// Seed makes every job render with the same palette and decorations.
	Seed    *uint64
	Workers int
	Logger  *zap.Logger
}

type runner struct {
	opts   runnerOptions
	photos *imagepkg.PhotoCache
	raster *imagepkg.Rasterizer
	logger *zap.Logger
}

func newRunner(opts runnerOptions) (*runner, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	photos, err := imagepkg.NewPhotoCache(0, 0)
	if err != nil {
		return nil, err
	}
	return &runner{
		opts:   opts,
		photos: photos,
		raster: imagepkg.NewRasterizer(),
		logger: logger,
	}, nil
}

// run renders jobs concurrently and writes each PNG under outDir. Paths are
// returned in job order; failed jobs are skipped and their errors joined.
func (r *runner) run(ctx context.Context, jobs []job, outDir string) ([]string, error) {
	p := pool.New().WithMaxGoroutines(r.opts.Workers)

	paths := make([]string, len(jobs))
	var (
		mu   sync.Mutex
		errs []error
	)
	for idx, j := range jobs {
		p.Go(func() {
			path, err := r.renderOne(ctx, j, outDir)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("render failed",
					zap.String("name", j.name),
					zap.String("target", j.target.Name),
					zap.Error(err),
				)
				errs = append(errs, fmt.Errorf("%s (%s): %w", j.name, j.target.Name, err))
				return
			}
			paths[idx] = path
		})
	}
	p.Wait()

	out := paths[:0]
	for _, path := range paths {
		if path != "" {
			out = append(out, path)
		}
	}
	return out, errors.Join(errs...)
}

// renderOne uses its own resolver, renderer and exporter so jobs share no
// random source or in-flight guard.
func (r *runner) renderOne(ctx context.Context, j job, outDir string) (string, error) {
	p := j.profile
	photo, err := r.photos.DecodeDataURI(p.Photo)
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}

	var themeSrc, decoSrc rand.Source
	if r.opts.Seed != nil {
		themeSrc = rand.NewPCG(*r.opts.Seed, 1)
		decoSrc = rand.NewPCG(*r.opts.Seed, 2)
	}
	th := theme.NewResolver(themeSrc).Resolve(&p)
	root := layout.NewRenderer(fonts.NewMeasurer(), decoSrc).Render(&p, photo, th, r.opts.Template, j.target)

	ex := export.NewExporter(r.raster, r.opts.Ratio, export.WithLogger(r.logger))
	art, err := ex.Export(ctx, root, j.target, j.name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, presetFilename(art.Filename, j.target.Name))
	if err := util.WriteFile(path, art.PNG); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// presetFilename inserts the preset before the extension so desktop and
// mobile renders of one profile do not collide.
func presetFilename(filename, preset string) string {
	return strings.TrimSuffix(filename, ".png") + "-" + preset + ".png"
}
