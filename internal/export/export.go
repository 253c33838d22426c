// Package export turns a rendered cover into a downloadable PNG at native
// resolution.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/metrics"
)

const (
	DefaultPixelRatio = 2
	filenamePrefix    = "facebook-cover-"
	untitled          = "untitled"
)

// ErrExportInFlight is returned when an export is requested while another one
// has not settled.
var ErrExportInFlight = errors.New("export already in progress")

// ExportError wraps any failure while capturing the cover.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

type Artifact struct {
	Filename   string
	PNG        []byte
	Target     layout.Target
	PixelRatio float64
	Width      int
	Height     int
}

// Rasterizer paints a render tree at a pixel ratio.
type Rasterizer interface {
	Rasterize(root *layout.Node, target layout.Target, ratio float64) (image.Image, error)
}

// Exporter captures at the target's native size times a fixed pixel ratio.
// It has no notion of a display scale.
type Exporter struct {
	raster   Rasterizer
	ratio    float64
	observer metrics.Observer
	logger   *zap.Logger

	busy atomic.Bool
}

type Option func(*Exporter)

func WithObserver(o metrics.Observer) Option {
	return func(e *Exporter) {
		if o != nil {
			e.observer = o
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter uses DefaultPixelRatio when ratio is not positive.
func NewExporter(r Rasterizer, ratio float64, opts ...Option) *Exporter {
	if ratio <= 0 {
		ratio = DefaultPixelRatio
	}
	e := &Exporter{
		raster:   r,
		ratio:    ratio,
		observer: metrics.Nop(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exporter) PixelRatio() float64 { return e.ratio }

// InFlight reports whether an export is running.
func (e *Exporter) InFlight() bool { return e.busy.Load() }

// Export rasterizes root and encodes it as PNG. A call made while another is
// running returns ErrExportInFlight without doing anything. Capture failures
// are returned as *ExportError and no artifact is produced.
func (e *Exporter) Export(ctx context.Context, root *layout.Node, target layout.Target, name string) (*Artifact, error) {
	if !e.busy.CompareAndSwap(false, true) {
		e.observer.RecordExportRejected()
		return nil, ErrExportInFlight
	}
	defer e.busy.Store(false)

	start := time.Now()
	art, err := e.capture(ctx, root, target, name)
	size := 0
	if art != nil {
		size = len(art.PNG)
	}
	e.observer.RecordExport(time.Since(start), size, err)
	if err != nil {
		e.logger.Warn("export failed", zap.String("target", target.Name), zap.Error(err))
		return nil, err
	}
	e.logger.Info("export finished",
		zap.String("file", art.Filename),
		zap.Int("width", art.Width),
		zap.Int("height", art.Height),
		zap.Int("bytes", size),
	)
	return art, nil
}

func (e *Exporter) capture(ctx context.Context, root *layout.Node, target layout.Target, name string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExportError{Op: "prepare", Err: err}
	}
	img, err := e.raster.Rasterize(root, target, e.ratio)
	if err != nil {
		return nil, &ExportError{Op: "rasterize", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ExportError{Op: "rasterize", Err: err}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, &ExportError{Op: "encode", Err: err}
	}
	b := img.Bounds()
	return &Artifact{
		Filename:   Filename(name),
		PNG:        buf.Bytes(),
		Target:     target,
		PixelRatio: e.ratio,
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// Filename is facebook-cover-<name>.png, or facebook-cover-untitled.png for a
// blank name. Path separators and control characters become dashes.
func Filename(name string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = untitled
	}
	return filenamePrefix + clean + ".png"
}
