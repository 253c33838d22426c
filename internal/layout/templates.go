package layout

import (
	"image"
	"strconv"

	"github.com/youruser/coverapp/internal/fonts"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/theme"
)

const (
	TemplateStandard = "standard"
	TemplateMinimal  = "minimal"
)

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var templates = []Template{
	{ID: TemplateStandard, Name: "Standard", Description: "Classic layout with profile info and games"},
	{ID: TemplateMinimal, Name: "Minimal", Description: "Clean, minimalist design focusing on your name and personality type"},
}

func Templates() []Template {
	return append([]Template(nil), templates...)
}

// TemplateByID falls back to the standard template for unknown ids.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return templates[0], false
}

var (
	standardFooter = footerSpec{
		quoteStyle:      fonts.Style{Size: 16, Italic: true},
		quoteLineHeight: 24,
		quoteShare:      0.6,
		chipShare:       0.5,
		chips: chipSpec{
			padX: 12, padY: 4, gap: 8, innerGap: 4, icon: 16,
			style: textSM, lineHeight: 20, maxText: 120,
		},
	}
	minimalFooter = footerSpec{
		quoteStyle:      fonts.Style{Size: 20, Italic: true},
		quoteLineHeight: 28,
		quoteShare:      0.8,
		chipShare:       0.3,
		chips: chipSpec{
			padX: 8, padY: 2, gap: 4, innerGap: 4, icon: 16,
			style: textXS, lineHeight: 16, maxText: 80,
		},
	}
)

// standard: photo, name, badges and age/hobbies on top, the games panel in
// the middle, quote and chips at the bottom. Rows are spaced like a
// justify-between column.
func (r *Renderer) standard(p *profile.Profile, photo image.Image, th theme.Theme, c Rect) *Node {
	body := group("content", c)

	info, infoW, infoH := r.info(p, th, c.W*0.4)

	leftX := c.X
	if photo != nil {
		leftX += photoSize + 16
	}
	nameMax := c.Right() - leftX
	if infoW > 0 {
		nameMax -= infoW + 16
	}
	ident, identH := r.identity(p, th, nameSpec{
		style:      fonts.Style{Size: 30, Weight: fonts.Bold},
		lineHeight: 36,
		gap:        4,
	}, nameMax)

	leftH := identH
	if photo != nil {
		leftH = max(leftH, photoSize)
		ph := photoBlock(photo, th)
		translate(ph, c.X, c.Y+(leftH-photoSize)/2)
		body.Children = append(body.Children, ph)
	}
	translate(ident, leftX, c.Y+(leftH-identH)/2)
	body.Children = append(body.Children, ident)

	if info != nil {
		translate(info, c.Right()-infoW, c.Y)
		body.Children = append(body.Children, info)
	}
	topH := max(leftH, infoH)

	foot, footH := r.footer(p, th, c, standardFooter)

	if games, gamesH := r.games(p, th, c.W); games != nil {
		const margin = 16
		gap := max((c.H-topH-(gamesH+2*margin)-footH)/2, 0)
		translate(games, c.X, c.Y+topH+gap+margin)
		body.Children = append(body.Children, games)
	}
	body.Children = append(body.Children, foot)
	return body
}

// minimal: name and badges only, then a larger quote with smaller chips.
func (r *Renderer) minimal(p *profile.Profile, th theme.Theme, c Rect) *Node {
	body := group("content", c)

	ident, _ := r.identity(p, th, nameSpec{
		style:      fonts.Style{Size: 36, Weight: fonts.Bold},
		lineHeight: 40,
		gap:        8,
	}, c.W)
	translate(ident, c.X, c.Y)

	foot, _ := r.footer(p, th, c, minimalFooter)
	body.Children = append(body.Children, ident, foot)
	return body
}

// info is the right-aligned age and hobbies block, at the origin.
func (r *Renderer) info(p *profile.Profile, th theme.Theme, maxW float64) (*Node, float64, float64) {
	type line struct {
		key, text  string
		style      fonts.Style
		lineHeight float64
		opacity    float64
	}
	var lines []line
	if p.Age != "" {
		lines = append(lines, line{"age", p.Age + " years old", textBase, 24, 1})
	}
	if p.Hobbies != "" {
		lines = append(lines, line{"hobbies", "Hobbies: " + p.Hobbies, textSM, 20, 0.8})
	}
	if len(lines) == 0 {
		return nil, 0, 0
	}

	var w float64
	for i := range lines {
		lines[i].text = truncate(r.measure, lines[i].style, lines[i].text, maxW)
		w = max(w, r.measure.Measure(lines[i].style, lines[i].text))
	}

	n := group("info", Rect{W: w})
	var y float64
	for i, l := range lines {
		if i > 0 {
			y += 4
		}
		lw := r.measure.Measure(l.style, l.text)
		t := textNode(l.key, Rect{X: w - lw, Y: y, W: lw, H: l.lineHeight}, l.text, l.style, th.Text)
		t.Opacity = l.opacity
		n.Children = append(n.Children, t)
		y += l.lineHeight
	}
	n.Rect.H = y
	return n, w, y
}

// games is the translucent panel listing non-empty games in two columns, at
// the origin. It returns nil when no game has a title or id.
func (r *Renderer) games(p *profile.Profile, th theme.Theme, width float64) (*Node, float64) {
	const (
		pad      = 16
		titleLH  = 28
		titleGap = 8
		rowH     = 24
		gap      = 8
		dot      = 8
	)
	var (
		titleStyle = fonts.Style{Size: 18, Weight: fonts.Bold}
		nameStyle  = fonts.Style{Size: 16, Weight: fonts.Medium}
		sepText    = "•"
		sepMargin  = 4.0
	)

	type entry struct {
		index int
		game  profile.Game
	}
	var entries []entry
	for i, g := range p.Games {
		if g.Title == "" && g.InGameID == "" {
			continue
		}
		entries = append(entries, entry{i, g})
	}
	if len(entries) == 0 {
		return nil, 0
	}

	rows := (len(entries) + 1) / 2
	h := pad + titleLH + titleGap + float64(rows)*rowH + float64(rows-1)*gap + pad
	panel := &Node{
		Kind:    KindRoundRect,
		Key:     "games",
		Rect:    Rect{W: width, H: h},
		Opacity: 1,
		Fill:    theme.WithAlpha(th.Primary, halfAlpha),
		Radius:  8,
	}
	panel.Children = append(panel.Children, textNode(
		"games:title",
		Rect{X: pad, Y: pad, W: r.measure.Measure(titleStyle, "Games I Play"), H: titleLH},
		"Games I Play", titleStyle, th.Text,
	))

	colW := (width - 2*pad - gap) / 2
	for k, e := range entries {
		x := pad + float64(k%2)*(colW+gap)
		y := pad + titleLH + titleGap + float64(k/2)*(rowH+gap)
		key := "game:" + strconv.Itoa(e.index)

		item := group(key, Rect{X: x, Y: y, W: colW, H: rowH},
			&Node{Kind: KindEllipse, Key: key + ":dot", Rect: Rect{X: x, Y: y + (rowH-dot)/2, W: dot, H: dot}, Opacity: 1, Fill: th.Accent},
		)

		cx := x + dot + 8
		remaining := colW - dot - 8
		if e.game.Title != "" {
			t := truncate(r.measure, nameStyle, e.game.Title, remaining)
			tw := r.measure.Measure(nameStyle, t)
			item.Children = append(item.Children, textNode(key+":title", Rect{X: cx, Y: y, W: tw, H: rowH}, t, nameStyle, th.Text))
			cx += tw
			remaining -= tw
		}
		if e.game.Title != "" && e.game.InGameID != "" {
			sw := r.measure.Measure(textBase, sepText)
			item.Children = append(item.Children, textNode(key+":sep", Rect{X: cx + sepMargin, Y: y, W: sw, H: rowH}, sepText, textBase, th.Text))
			cx += sw + 2*sepMargin
			remaining -= sw + 2*sepMargin
		}
		if e.game.InGameID != "" {
			if id := truncate(r.measure, textBase, e.game.InGameID, remaining); id != "" {
				t := textNode(key+":id", Rect{X: cx, Y: y, W: r.measure.Measure(textBase, id), H: rowH}, id, textBase, th.Text)
				t.Opacity = 0.8
				item.Children = append(item.Children, t)
			}
		}
		panel.Children = append(panel.Children, item)
	}
	return panel, h
}
