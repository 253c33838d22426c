package theme

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/youruser/coverapp/internal/profile"
)

const (
	White        = "#ffffff"
	DefaultAngle = 135
)

// Theme is the resolved color set applied to one render pass.
type Theme struct {
	Primary       string  `json:"primary"`
	Secondary     string  `json:"secondary"`
	Accent        string  `json:"accent"`
	Text          string  `json:"text"`
	AccentText    string  `json:"accent_text"`
	GradientAngle float64 `json:"gradient_angle"`
}

// Resolver maps a profile to a Theme. Gradients of a personality group are
// picked at random on every call, so the random source is injectable.
type Resolver struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewResolver builds a resolver. A nil source seeds from the clock.
func NewResolver(src rand.Source) *Resolver {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	return &Resolver{rnd: rand.New(src)}
}

// Resolve never fails: unknown codes fall back to DefaultCode.
func (r *Resolver) Resolve(p *profile.Profile) Theme {
	if p.UseCustomColors {
		return Theme{
			Primary:       p.CustomColors.Primary,
			Secondary:     p.CustomColors.Secondary,
			Accent:        p.CustomColors.Accent,
			Text:          White,
			AccentText:    White,
			GradientAngle: float64(p.CustomColors.GradientAngle),
		}
	}

	base := SchemeOf(p.Personality)
	grad := base.Gradient
	if g, ok := GroupOf(p.Personality); ok && len(g.Gradients) > 0 {
		r.mu.Lock()
		grad = g.Gradients[r.rnd.IntN(len(g.Gradients))]
		r.mu.Unlock()
	}

	return Theme{
		Primary:       grad.Primary,
		Secondary:     grad.Secondary,
		Accent:        grad.Accent,
		Text:          base.Text,
		AccentText:    base.AccentText,
		GradientAngle: DefaultAngle,
	}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
