// Package fonts provides the Go font family as sized faces for layout
// measurement and rasterization.
//
// Faces are created with hinting disabled so that advances scale linearly:
// a string measured at 1x occupies exactly ratio times as many pixels when the
// rasterizer draws it at size*ratio.
package fonts

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

// Style selects a face. Size is in logical pixels.
type Style struct {
	Size   float64
	Weight Weight
	Italic bool
}

type variant struct {
	weight Weight
	italic bool
}

var (
	parseOnce sync.Once
	parsed    map[variant]*opentype.Font
	parseErr  error
)

func load() (map[variant]*opentype.Font, error) {
	parseOnce.Do(func() {
		sources := map[variant][]byte{
			{Regular, false}: goregular.TTF,
			{Regular, true}:  goitalic.TTF,
			{Medium, false}:  gomedium.TTF,
			{Medium, true}:   gomediumitalic.TTF,
			{Bold, false}:    gobold.TTF,
			{Bold, true}:     gobolditalic.TTF,
		}
		parsed = make(map[variant]*opentype.Font, len(sources))
		for v, ttf := range sources {
			f, err := opentype.Parse(ttf)
			if err != nil {
				parseErr = fmt.Errorf("parse go font: %w", err)
				return
			}
			parsed[v] = f
		}
	})
	return parsed, parseErr
}

type faceKey struct {
	variant
	size float64
}

// FaceSet caches faces for one goroutine. opentype faces keep internal
// buffers, so a FaceSet must not be shared across goroutines.
type FaceSet struct {
	faces map[faceKey]font.Face
}

func NewFaceSet() *FaceSet {
	return &FaceSet{faces: make(map[faceKey]font.Face)}
}

// Face returns the face for style drawn at the given pixel ratio.
func (s *FaceSet) Face(st Style, ratio float64) (font.Face, error) {
	fonts, err := load()
	if err != nil {
		return nil, err
	}
	w := st.Weight
	if w < Regular || w > Bold {
		w = Regular
	}
	k := faceKey{variant{w, st.Italic}, math.Round(st.Size*ratio*64) / 64}
	if f, ok := s.faces[k]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fonts[k.variant], &opentype.FaceOptions{
		Size:    k.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	s.faces[k] = f
	return f, nil
}

// Close releases every cached face.
func (s *FaceSet) Close() {
	for k, f := range s.faces {
		_ = f.Close()
		delete(s.faces, k)
	}
}

// Measurer reports text widths in logical pixels. It is safe for concurrent use.
type Measurer struct {
	mu    sync.Mutex
	faces *FaceSet
}

func NewMeasurer() *Measurer {
	return &Measurer{faces: NewFaceSet()}
}

// Measure returns the advance width of s. An unusable face measures as zero.
func (m *Measurer) Measure(st Style, s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.faces.Face(st, 1)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(f, s)) / 64
}
