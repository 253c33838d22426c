package layout

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/youruser/coverapp/internal/fonts"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/social"
	"github.com/youruser/coverapp/internal/theme"
)

const (
	padding = 24

	decorationCount = 10
	decorationMin   = 50
	decorationSpan  = 200
	patternOpacity  = 0.1

	photoSize   = 80
	photoBorder = 4

	halfAlpha = 0x80

	namePlaceholder = "Your Name"
	chipTextColor   = "#ffffff"
)

var (
	textXS   = fonts.Style{Size: 12}
	textSM   = fonts.Style{Size: 14}
	textBase = fonts.Style{Size: 16}
)

// Renderer composes a profile into a visual tree at a target's native size.
// Decorations are random on every pass; the source is injectable for tests.
type Renderer struct {
	measure Measurer

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRenderer(m Measurer, src rand.Source) *Renderer {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>3|1)
	}
	return &Renderer{measure: m, rnd: rand.New(src)}
}

// Render lays out the cover. photo may be nil. Unknown template ids render
// the standard template.
func (r *Renderer) Render(p *profile.Profile, photo image.Image, th theme.Theme, templateID string, target Target) *Node {
	full := Rect{W: float64(target.Width), H: float64(target.Height)}
	content := Rect{X: padding, Y: padding, W: full.W - 2*padding, H: full.H - 2*padding}

	root := group("cover", full,
		&Node{
			Kind:     KindGradient,
			Key:      "background",
			Rect:     full,
			Opacity:  1,
			Gradient: &Gradient{From: th.Primary, To: th.Secondary, Angle: th.GradientAngle},
		},
		r.decorations(th, full),
	)

	tpl, _ := TemplateByID(templateID)
	switch tpl.ID {
	case TemplateMinimal:
		root.Children = append(root.Children, r.minimal(p, th, content))
	default:
		root.Children = append(root.Children, r.standard(p, photo, th, content))
	}
	return root
}

func (r *Renderer) decorations(th theme.Theme, full Rect) *Node {
	layer := group("decorations", full)
	layer.Opacity = patternOpacity

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < decorationCount; i++ {
		size := r.rnd.Float64()*decorationSpan + decorationMin
		x := r.rnd.Float64() * full.W
		y := r.rnd.Float64() * full.H
		opacity := r.rnd.Float64()*0.5 + 0.1

		fill := th.Primary
		if i%2 == 0 {
			fill = th.Accent
		}
		layer.Children = append(layer.Children, &Node{
			Kind:    KindEllipse,
			Key:     fmt.Sprintf("decoration:%d", i),
			Rect:    Rect{X: x, Y: y, W: size, H: size},
			Opacity: opacity,
			Fill:    fill,
		})
	}
	return layer
}

type nameSpec struct {
	style      fonts.Style
	lineHeight float64
	gap        float64
}

// identity builds the name line and the badge row below it, at the origin.
func (r *Renderer) identity(p *profile.Profile, th theme.Theme, spec nameSpec, maxW float64) (*Node, float64) {
	name := p.Name
	if name == "" {
		name = namePlaceholder
	}
	name = truncate(r.measure, spec.style, name, maxW)
	nameNode := textNode("name", Rect{W: r.measure.Measure(spec.style, name), H: spec.lineHeight}, name, spec.style, th.Text)

	badges, bh := r.badges(p, th, maxW)
	translate(badges, 0, spec.lineHeight+spec.gap)

	h := spec.lineHeight + spec.gap + bh
	return group("identity", Rect{W: maxW, H: h}, nameNode, badges), h
}

type badgeSpec struct {
	key, label, fill string
	style            fonts.Style
	lineHeight, padY float64
}

func (r *Renderer) badges(p *profile.Profile, th theme.Theme, maxW float64) (*Node, float64) {
	const padX, gap = 8, 4

	specs := []badgeSpec{{
		key: "badge:primary", label: p.Personality, fill: th.Accent,
		style: textSM, lineHeight: 20, padY: 4,
	}}
	for _, t := range profile.ActiveTypologies(p) {
		specs = append(specs, badgeSpec{
			key: "badge:" + t.Key, label: t.Value, fill: theme.WithAlpha(th.Accent, halfAlpha),
			style: textXS, lineHeight: 16, padY: 2,
		})
	}

	boxes := make([]box, len(specs))
	labels := make([]string, len(specs))
	for i, s := range specs {
		labels[i] = truncate(r.measure, s.style, s.label, maxW-2*padX)
		boxes[i] = box{w: r.measure.Measure(s.style, labels[i]) + 2*padX, h: s.lineHeight + 2*s.padY}
	}
	rects, h := flow(boxes, gap, maxW, false)

	row := group("badges", Rect{W: maxW, H: h})
	for i, s := range specs {
		rc := rects[i]
		b := &Node{Kind: KindRoundRect, Key: s.key, Rect: rc, Opacity: 1, Fill: s.fill, Radius: rc.H / 2}
		b.Children = append(b.Children, textNode(
			s.key+":label",
			Rect{X: rc.X + padX, Y: rc.Y + s.padY, W: rc.W - 2*padX, H: s.lineHeight},
			labels[i], s.style, th.AccentText,
		))
		row.Children = append(row.Children, b)
	}
	return row, h
}

type chipSpec struct {
	padX, padY float64
	gap        float64
	innerGap   float64
	icon       float64
	style      fonts.Style
	lineHeight float64
	maxText    float64
}

// socials builds right-aligned chips inside maxW, at the origin.
func (r *Renderer) socials(p *profile.Profile, spec chipSpec, maxW float64) (*Node, float64) {
	visible := profile.VisibleSocials(p)
	if len(visible) == 0 {
		return nil, 0
	}

	chipH := max(spec.icon, spec.lineHeight) + 2*spec.padY
	handles := make([]string, len(visible))
	boxes := make([]box, len(visible))
	for i, s := range visible {
		handles[i] = truncate(r.measure, spec.style, s.Handle, spec.maxText)
		w := spec.padX + spec.icon + spec.innerGap + r.measure.Measure(spec.style, handles[i]) + spec.padX
		boxes[i] = box{w: w, h: chipH}
	}
	rects, h := flow(boxes, spec.gap, maxW, true)

	row := group("socials", Rect{W: maxW, H: h})
	for i, s := range visible {
		pl := social.Lookup(s.Platform)
		rc := rects[i]
		key := fmt.Sprintf("social:%d", i)
		chip := &Node{Kind: KindRoundRect, Key: key, Rect: rc, Opacity: 1, Fill: pl.Color, Radius: rc.H / 2}
		chip.Children = []*Node{
			{
				Kind:    KindIcon,
				Key:     key + ":icon",
				Rect:    Rect{X: rc.X + spec.padX, Y: rc.Y + (rc.H-spec.icon)/2, W: spec.icon, H: spec.icon},
				Opacity: 1,
				Fill:    chipTextColor,
				Icon:    pl.Icon,
			},
			textNode(
				key+":handle",
				Rect{
					X: rc.X + spec.padX + spec.icon + spec.innerGap,
					Y: rc.Y + (rc.H-spec.lineHeight)/2,
					W: rc.W - 2*spec.padX - spec.icon - spec.innerGap,
					H: spec.lineHeight,
				},
				handles[i], spec.style, chipTextColor,
			),
		}
		row.Children = append(row.Children, chip)
	}
	return row, h
}

func (r *Renderer) quote(p *profile.Profile, th theme.Theme, st fonts.Style, lineHeight, maxW float64) (*Node, float64) {
	if p.Quote == "" {
		return nil, 0
	}
	lines := wrap(r.measure, st, `"`+p.Quote+`"`, maxW)
	n := group("quote", Rect{W: maxW, H: float64(len(lines)) * lineHeight})
	for i, l := range lines {
		n.Children = append(n.Children, textNode(
			fmt.Sprintf("quote:%d", i),
			Rect{Y: float64(i) * lineHeight, W: r.measure.Measure(st, l), H: lineHeight},
			l, st, th.Text,
		))
	}
	return n, n.Rect.H
}

type footerSpec struct {
	quoteStyle      fonts.Style
	quoteLineHeight float64
	quoteShare      float64
	chips           chipSpec
	chipShare       float64
}

// footer bottom-aligns the quote on the left and the chips on the right.
func (r *Renderer) footer(p *profile.Profile, th theme.Theme, c Rect, spec footerSpec) (*Node, float64) {
	row := group("footer", Rect{X: c.X, Y: c.Bottom(), W: c.W})

	q, qh := r.quote(p, th, spec.quoteStyle, spec.quoteLineHeight, c.W*spec.quoteShare)
	if q != nil {
		translate(q, c.X, c.Bottom()-qh)
		row.Children = append(row.Children, q)
	}
	chipsW := c.W * spec.chipShare
	s, sh := r.socials(p, spec.chips, chipsW)
	if s != nil {
		translate(s, c.Right()-chipsW, c.Bottom()-sh)
		row.Children = append(row.Children, s)
	}

	h := max(qh, sh)
	row.Rect.Y = c.Bottom() - h
	row.Rect.H = h
	return row, h
}

func photoBlock(img image.Image, th theme.Theme) *Node {
	const inner = photoSize - 2*photoBorder
	return &Node{
		Kind:    KindEllipse,
		Key:     "photo",
		Rect:    Rect{W: photoSize, H: photoSize},
		Opacity: 1,
		Fill:    th.Accent,
		Children: []*Node{{
			Kind:    KindImage,
			Key:     "photo:image",
			Rect:    Rect{X: photoBorder, Y: photoBorder, W: inner, H: inner},
			Opacity: 1,
			Radius:  inner / 2,
			Image:   img,
		}},
	}
}

func translate(n *Node, dx, dy float64) {
	n.Walk(func(c *Node) bool {
		c.Rect = offset(c.Rect, dx, dy)
		return true
	})
}
