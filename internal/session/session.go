// Package session owns the editable cover state and drives the render
// pipeline: profile, theme, layout, then either a scaled preview or a
// full-resolution export.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/export"
	"github.com/youruser/coverapp/internal/fonts"
	imagepkg "github.com/youruser/coverapp/internal/image"
	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/metrics"
	"github.com/youruser/coverapp/internal/notify"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/scale"
	"github.com/youruser/coverapp/internal/theme"
)

var (
	// ErrNoPhoto means the user picked no file or an empty one.
	ErrNoPhoto         = errors.New("no photo selected")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrUnknownTemplate = errors.New("unknown template")
)

const (
	msgExportStart   = "Preparing high-resolution export..."
	msgExportDone    = "Export complete!"
	msgExportFailed  = "There was an error exporting your cover. Please try again."
	msgPhotoRejected = "That file could not be used as a photo."
)

type Options struct {
	Preset         string
	Template       string
	PixelRatio     float64
	PhotoMaxBytes  int64
	PhotoCacheSize int
	ToastTTL       time.Duration
	Scheduler      notify.Scheduler
	// Seed pins theme and decoration randomness when set.
	Seed     *uint64
	Observer metrics.Observer
	Logger   *zap.Logger
}

// Session is the single-user state container. All methods are safe for
// concurrent use; render passes work on a snapshot taken under the lock.
type Session struct {
	mu       sync.Mutex
	profile  profile.Profile
	photo    image.Image
	template string

	resolver *theme.Resolver
	renderer *layout.Renderer
	raster   *imagepkg.Rasterizer
	photos   *imagepkg.PhotoCache
	exporter *export.Exporter
	scale    *scale.Synchronizer
	toasts   *notify.Queue

	exporting atomic.Bool

	observer metrics.Observer
	logger   *zap.Logger
}

func New(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = metrics.Nop()
	}
	target, ok := layout.TargetByName(opts.Preset)
	if !ok && opts.Preset != "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, opts.Preset)
	}
	tpl, ok := layout.TemplateByID(opts.Template)
	if !ok && opts.Template != "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, opts.Template)
	}

	photos, err := imagepkg.NewPhotoCache(opts.PhotoCacheSize, opts.PhotoMaxBytes)
	if err != nil {
		return nil, err
	}

	var themeSrc, decoSrc rand.Source
	if opts.Seed != nil {
		themeSrc = rand.NewPCG(*opts.Seed, 1)
		decoSrc = rand.NewPCG(*opts.Seed, 2)
	}

	raster := imagepkg.NewRasterizer()
	return &Session{
		profile:  profile.Default(),
		template: tpl.ID,
		resolver: theme.NewResolver(themeSrc),
		renderer: layout.NewRenderer(fonts.NewMeasurer(), decoSrc),
		raster:   raster,
		photos:   photos,
		exporter: export.NewExporter(raster, opts.PixelRatio,
			export.WithObserver(opts.Observer),
			export.WithLogger(opts.Logger),
		),
		scale:    scale.NewSynchronizer(target),
		toasts:   notify.NewQueue(opts.Scheduler, opts.ToastTTL),
		observer: opts.Observer,
		logger:   opts.Logger,
	}, nil
}

// Close stops pending notification timers.
func (s *Session) Close() {
	s.toasts.Close()
}

func (s *Session) Profile() profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// SetProfile replaces the profile after validating it. An embedded photo is
// decoded up front so a bad one is rejected here rather than at render time.
func (s *Session) SetProfile(p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	img, err := s.photos.DecodeDataURI(p.Photo)
	if err != nil {
		return fmt.Errorf("decode photo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p.Clone()
	s.photo = img
	return nil
}

func (s *Session) SetPreset(name string) error {
	t, ok := layout.TargetByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	s.scale.SetPreset(t)
	return nil
}

func (s *Session) Preset() layout.Target {
	return s.scale.Target()
}

func (s *Session) SetTemplate(id string) error {
	t, ok := layout.TemplateByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = t.ID
	return nil
}

func (s *Session) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// LoadPhoto reads and decodes a photo in the background and stores it on the
// profile once decoded. A nil or empty reader is ErrNoPhoto and leaves the
// current photo in place. Cancelling ctx abandons the load.
func (s *Session) LoadPhoto(ctx context.Context, r io.Reader) error {
	if r == nil {
		return ErrNoPhoto
	}

	type result struct {
		raw []byte
		img image.Image
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := imagepkg.ReadPhoto(r, s.photos.MaxBytes())
		if err != nil {
			done <- result{err: err}
			return
		}
		if len(raw) == 0 {
			done <- result{err: ErrNoPhoto}
			return
		}
		img, err := s.photos.Decode(raw)
		done <- result{raw: raw, img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			if !errors.Is(res.err, ErrNoPhoto) {
				s.toasts.Add(msgPhotoRejected, notify.KindError)
				s.logger.Warn("photo rejected", zap.Error(res.err))
			}
			return res.err
		}
		s.mu.Lock()
		s.profile.Photo = profile.EncodeDataURI(res.raw)
		s.photo = res.img
		s.mu.Unlock()
		return nil
	}
}

func (s *Session) ClearPhoto() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Photo = ""
	s.photo = nil
}

// Theme resolves the colors for the current profile. Personality themes pick
// a fresh gradient on every call.
func (s *Session) Theme() theme.Theme {
	p := s.Profile()
	return s.resolver.Resolve(&p)
}

type snapshot struct {
	root   *layout.Node
	target layout.Target
	name   string
}

// render lays out the cover at the native size of the active preset.
func (s *Session) render() snapshot {
	start := time.Now()
	s.mu.Lock()
	p := s.profile.Clone()
	photo := s.photo
	tpl := s.template
	s.mu.Unlock()

	target := s.scale.Target()
	th := s.resolver.Resolve(&p)
	root := s.renderer.Render(&p, photo, th, tpl, target)
	s.observer.RecordRender(time.Since(start), nil)
	return snapshot{root: root, target: target, name: p.Name}
}

// Preview is a display-sized rendering of the cover.
type Preview struct {
	PNG    []byte
	Target layout.Target
	Scale  float64
	Width  int
	Height int
}

// Label is the caption shown under the preview.
func (p *Preview) Label() string {
	return fmt.Sprintf("Preview scaled to %d%% - Export will be full resolution", int(math.Round(p.Scale*100)))
}

// Preview renders the cover and shrinks it to fit containerWidth. A
// non-positive width keeps the last known container size.
func (s *Session) Preview(ctx context.Context, containerWidth float64) (*Preview, error) {
	start := time.Now()
	pv, err := s.preview(ctx, containerWidth)
	s.observer.RecordPreview(time.Since(start), err)
	return pv, err
}

func (s *Session) preview(ctx context.Context, containerWidth float64) (*Preview, error) {
	if containerWidth > 0 {
		s.scale.Resize(containerWidth)
	}
	snap := s.render()
	k := s.scale.Scale()

	img, err := s.raster.Rasterize(snap.root, snap.target, 1)
	if err != nil {
		return nil, fmt.Errorf("rasterize preview: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k < 1 {
		w := max(int(math.Round(float64(snap.target.Width)*k)), 1)
		img = imaging.Resize(img, w, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	b := img.Bounds()
	return &Preview{PNG: buf.Bytes(), Target: snap.target, Scale: k, Width: b.Dx(), Height: b.Dy()}, nil
}

// OnScaleChange subscribes to preview scale changes. Call the returned func
// on teardown.
func (s *Session) OnScaleChange(fn func(scale float64)) func() {
	return s.scale.Subscribe(fn)
}

// Exporting reports whether an export is in flight.
func (s *Session) Exporting() bool {
	return s.exporting.Load()
}

// Export renders the cover at native resolution and encodes it. While one
// export runs, further calls return export.ErrExportInFlight and do nothing
// else. Every outcome posts a notification.
func (s *Session) Export(ctx context.Context) (*export.Artifact, error) {
	if !s.exporting.CompareAndSwap(false, true) {
		s.observer.RecordExportRejected()
		return nil, export.ErrExportInFlight
	}
	defer s.exporting.Store(false)

	s.toasts.Add(msgExportStart, notify.KindInfo)
	snap := s.render()
	art, err := s.exporter.Export(ctx, snap.root, snap.target, snap.name)
	if err != nil {
		s.toasts.Add(msgExportFailed, notify.KindError)
		return nil, err
	}
	s.toasts.Add(msgExportDone, notify.KindSuccess)
	return art, nil
}

func (s *Session) Notifications() []notify.Toast {
	return s.toasts.List()
}

func (s *Session) Dismiss(id string) bool {
	return s.toasts.Remove(id)
}
