package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/coverapp/internal/fonts"
	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/theme"
)

var (
	// ErrDetached is returned when there is no render tree to capture.
	ErrDetached = errors.New("render surface is detached")
	// ErrUnreadableImage is returned for image nodes without readable pixels.
	ErrUnreadableImage = errors.New("image content cannot be read")
	ErrInvalidTarget   = errors.New("invalid target size")
	ErrInvalidRatio    = errors.New("invalid pixel ratio")
)

// Rasterizer paints a layout tree into pixels. The zero value is ready to use
// and safe for concurrent calls; every call gets its own font faces.
type Rasterizer struct{}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize paints root onto a canvas of target size times ratio. Geometry
// and font sizes are multiplied by ratio instead of transforming the canvas,
// so glyphs are rasterized at full density.
func (r *Rasterizer) Rasterize(root *layout.Node, target layout.Target, ratio float64) (image.Image, error) {
	if root == nil {
		return nil, ErrDetached
	}
	if target.Width <= 0 || target.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, target.Width, target.Height)
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}

	w := int(math.Round(float64(target.Width) * ratio))
	h := int(math.Round(float64(target.Height) * ratio))
	p := &painter{
		dc:    gg.NewContext(w, h),
		ratio: ratio,
		faces: fonts.NewFaceSet(),
	}
	defer p.faces.Close()

	if err := p.paint(root, 1); err != nil {
		return nil, err
	}
	return p.dc.Image(), nil
}

type painter struct {
	dc    *gg.Context
	ratio float64
	faces *fonts.FaceSet
}

func (p *painter) paint(n *layout.Node, alpha float64) error {
	alpha *= n.Opacity
	if alpha <= 0 {
		return nil
	}

	var err error
	switch n.Kind {
	case layout.KindGradient:
		err = p.gradient(n, alpha)
	case layout.KindEllipse:
		err = p.ellipse(n, alpha)
	case layout.KindRoundRect:
		err = p.roundRect(n, alpha)
	case layout.KindText:
		err = p.text(n, alpha)
	case layout.KindImage:
		err = p.image(n, alpha)
	case layout.KindIcon:
		err = p.icon(n, alpha)
	}
	if err != nil {
		return fmt.Errorf("paint %s: %w", n.Key, err)
	}

	for _, c := range n.Children {
		if err := p.paint(c, alpha); err != nil {
			return err
		}
	}
	return nil
}

func (p *painter) rect(r layout.Rect) (x, y, w, h float64) {
	return r.X * p.ratio, r.Y * p.ratio, r.W * p.ratio, r.H * p.ratio
}

// gradient follows CSS linear-gradient angles: 0deg points up, 90deg right.
func (p *painter) gradient(n *layout.Node, alpha float64) error {
	if n.Gradient == nil {
		return nil
	}
	from, err := fade(n.Gradient.From, alpha)
	if err != nil {
		return err
	}
	to, err := fade(n.Gradient.To, alpha)
	if err != nil {
		return err
	}

	x, y, w, h := p.rect(n.Rect)
	rad := n.Gradient.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	cx, cy := x+w/2, y+h/2

	g := gg.NewLinearGradient(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half)
	g.AddColorStop(0, from)
	g.AddColorStop(1, to)
	p.dc.SetFillStyle(g)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
	return nil
}

func (p *painter) ellipse(n *layout.Node, alpha float64) error {
	c, err := fade(n.Fill, alpha)
	if err != nil {
		return err
	}
	x, y, w, h := p.rect(n.Rect)
	p.dc.SetColor(c)
	p.dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
	p.dc.Fill()
	return nil
}

func (p *painter) roundRect(n *layout.Node, alpha float64) error {
	c, err := fade(n.Fill, alpha)
	if err != nil {
		return err
	}
	x, y, w, h := p.rect(n.Rect)
	p.dc.SetColor(c)
	p.dc.DrawRoundedRectangle(x, y, w, h, n.Radius*p.ratio)
	p.dc.Fill()
	return nil
}

// text draws one line vertically centered in its line box, the way CSS
// places glyphs inside line-height.
func (p *painter) text(n *layout.Node, alpha float64) error {
	if n.Text == nil || n.Text.Content == "" {
		return nil
	}
	c, err := fade(n.Text.Color, alpha)
	if err != nil {
		return err
	}
	face, err := p.faces.Face(n.Text.Style, p.ratio)
	if err != nil {
		return err
	}
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	x, y, _, h := p.rect(n.Rect)
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	p.dc.DrawString(n.Text.Content, x, y+(h-(ascent+descent))/2+ascent)
	return nil
}

// image draws a cover crop of the node image clipped to its rounded box.
func (p *painter) image(n *layout.Node, alpha float64) error {
	if n.Image == nil || n.Image.Bounds().Empty() {
		return ErrUnreadableImage
	}
	x, y, w, h := p.rect(n.Rect)
	pw, ph := int(math.Round(w)), int(math.Round(h))
	if pw <= 0 || ph <= 0 {
		return nil
	}

	img := imaging.Fill(n.Image, pw, ph, imaging.Center, imaging.Lanczos)
	if alpha < 1 {
		img = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			c.A = uint8(math.Round(float64(c.A) * alpha))
			return c
		})
	}

	p.dc.Push()
	p.dc.DrawRoundedRectangle(x, y, w, h, n.Radius*p.ratio)
	p.dc.Clip()
	p.dc.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
	p.dc.ResetClip()
	p.dc.Pop()
	return nil
}

// icon draws the platform monogram centered in its box, or a wireframe globe
// for platforms without one.
func (p *painter) icon(n *layout.Node, alpha float64) error {
	c, err := fade(n.Fill, alpha)
	if err != nil {
		return err
	}
	x, y, w, h := p.rect(n.Rect)
	cx, cy := x+w/2, y+h/2
	p.dc.SetColor(c)

	glyph, ok := n.Icon.Glyph()
	if !ok {
		r := math.Min(w, h)/2 - p.ratio
		p.dc.SetLineWidth(1.5 * p.ratio)
		p.dc.DrawCircle(cx, cy, r)
		p.dc.Stroke()
		p.dc.DrawEllipse(cx, cy, r/2, r)
		p.dc.Stroke()
		p.dc.DrawLine(cx-r, cy, cx+r, cy)
		p.dc.Stroke()
		return nil
	}

	size := n.Rect.H * 0.75
	if len([]rune(glyph)) > 1 {
		size = n.Rect.H * 0.6
	}
	face, err := p.faces.Face(fonts.Style{Size: size, Weight: fonts.Bold}, p.ratio)
	if err != nil {
		return err
	}
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	p.dc.SetFontFace(face)
	p.dc.DrawStringAnchored(glyph, cx, cy+(ascent-descent)/2, 0.5, 0)
	return nil
}

// fade parses a hex color and multiplies its alpha.
func fade(hex string, alpha float64) (color.NRGBA, error) {
	c, err := theme.ParseHex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	c.A = uint8(math.Round(float64(c.A) * math.Min(alpha, 1)))
	return c, nil
}
