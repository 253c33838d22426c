package layout

import (
	"image"

	"github.com/youruser/coverapp/internal/fonts"
	"github.com/youruser/coverapp/internal/social"
)

type Kind uint8

const (
	KindGroup Kind = iota
	KindGradient
	KindEllipse
	KindRoundRect
	KindText
	KindImage
	KindIcon
)

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

type Gradient struct {
	From, To string
	Angle    float64
}

type Text struct {
	Content string
	Style   fonts.Style
	Color   string
}

// Node is one absolutely positioned element of the cover, in logical pixels.
// A node paints itself and then its children. Opacity multiplies down the
// tree.
type Node struct {
	Kind    Kind
	Key     string
	Rect    Rect
	Opacity float64

	// Fill is a hex color for ellipses, round rects and icon glyphs.
	Fill   string
	Radius float64

	Gradient *Gradient
	Text     *Text
	Image    image.Image
	Icon     social.Icon

	Children []*Node
}

// Find returns the first node with key in depth-first order.
func (n *Node) Find(key string) *Node {
	if n == nil {
		return nil
	}
	if n.Key == key {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(key); f != nil {
			return f
		}
	}
	return nil
}

// Walk visits n and its descendants depth first. Returning false skips the
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func group(key string, r Rect, children ...*Node) *Node {
	return &Node{Kind: KindGroup, Key: key, Rect: r, Opacity: 1, Children: children}
}

func textNode(key string, r Rect, content string, st fonts.Style, color string) *Node {
	return &Node{
		Kind:    KindText,
		Key:     key,
		Rect:    r,
		Opacity: 1,
		Text:    &Text{Content: content, Style: st, Color: color},
	}
}
