// Package scale derives the display scale of the cover preview from the width
// of its host container.
//
// The scale is a pure display transform. The renderer always lays out at the
// native size of the active preset and exports never read the scale.
package scale

import (
	"sync"

	"github.com/youruser/coverapp/internal/layout"
)

// Compute returns min(containerWidth/nativeWidth, 1). A container that has not
// been measured yet (width <= 0) shows the cover at 1.
func Compute(containerWidth, nativeWidth float64) float64 {
	if containerWidth <= 0 || nativeWidth <= 0 {
		return 1
	}
	return min(containerWidth/nativeWidth, 1)
}

// Synchronizer keeps the scale in step with container resizes and preset
// changes and tells subscribers when it moves.
type Synchronizer struct {
	mu     sync.Mutex
	width  float64
	target layout.Target
	scale  float64

	nextID int
	subs   map[int]func(float64)
}

func NewSynchronizer(target layout.Target) *Synchronizer {
	return &Synchronizer{
		target: target,
		scale:  1,
		subs:   make(map[int]func(float64)),
	}
}

// Resize records a new container width.
func (s *Synchronizer) Resize(width float64) {
	s.update(func() { s.width = width })
}

// SetPreset switches the native width the scale is derived from.
func (s *Synchronizer) SetPreset(t layout.Target) {
	s.update(func() { s.target = t })
}

func (s *Synchronizer) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Synchronizer) Target() layout.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Subscribe registers fn for scale changes. The returned func detaches it and
// is safe to call more than once.
func (s *Synchronizer) Subscribe(fn func(scale float64)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers reports how many listeners are attached.
func (s *Synchronizer) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Synchronizer) update(mutate func()) {
	s.mu.Lock()
	mutate()
	next := Compute(s.width, float64(s.target.Width))
	if next == s.scale {
		s.mu.Unlock()
		return
	}
	s.scale = next
	fns := make([]func(float64), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
