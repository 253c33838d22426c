// Package social holds the static registry of social platforms shown as chips
// on the cover.
package social

import (
	"net/url"
	"strings"
)

// Icon names a chip glyph. Icons are a closed set; anything unmapped draws
// as IconGlobe.
type Icon int

const (
	IconGlobe Icon = iota
	IconInstagram
	IconMusic
	IconTwitter
	IconYoutube
	IconTwitch
	IconMessageSquare
	IconZap
	IconFacebook
	IconLinkedin
	IconGithub
	IconSquareAsterisk
	IconPin
	IconGhost
)

// glyphs are the monograms drawn inside a chip icon slot.
var glyphs = map[Icon]string{
	IconInstagram:      "IG",
	IconMusic:          "♪",
	IconTwitter:        "X",
	IconYoutube:        "►",
	IconTwitch:         "T",
	IconMessageSquare:  "D",
	IconZap:            "K",
	IconFacebook:       "f",
	IconLinkedin:       "in",
	IconGithub:         "GH",
	IconSquareAsterisk: "*",
	IconPin:            "P",
	IconGhost:          "S",
}

var iconNames = [...]string{
	"Globe", "Instagram", "Music", "Twitter", "Youtube", "Twitch", "MessageSquare",
	"Zap", "Facebook", "Linkedin", "Github", "SquareAsterisk", "Pin", "Ghost",
}

func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconGlobe]
	}
	return iconNames[i]
}

func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Glyph returns the monogram for an icon. ok is false for IconGlobe and any
// unmapped icon, which callers draw as a globe.
func (i Icon) Glyph() (string, bool) {
	g, ok := glyphs[i]
	return g, ok
}

type Platform struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  Icon   `json:"icon"`
	Color string `json:"color"`
	// link is a profile URL pattern with %s for the handle.
	link string
}

var platforms = []Platform{
	{ID: "instagram", Name: "Instagram", Icon: IconInstagram, Color: "#E1306C", link: "https://instagram.com/%s"},
	{ID: "tiktok", Name: "TikTok", Icon: IconMusic, Color: "#000000", link: "https://www.tiktok.com/@%s"},
	{ID: "twitter", Name: "Twitter/X", Icon: IconTwitter, Color: "#1DA1F2", link: "https://x.com/%s"},
	{ID: "youtube", Name: "YouTube", Icon: IconYoutube, Color: "#FF0000", link: "https://www.youtube.com/@%s"},
	{ID: "twitch", Name: "Twitch", Icon: IconTwitch, Color: "#6441A4", link: "https://www.twitch.tv/%s"},
	{ID: "discord", Name: "Discord", Icon: IconMessageSquare, Color: "#5865F2"},
	{ID: "kick", Name: "Kick", Icon: IconZap, Color: "#53FC18", link: "https://kick.com/%s"},
	{ID: "facebook", Name: "Facebook", Icon: IconFacebook, Color: "#1877F2", link: "https://www.facebook.com/%s"},
	{ID: "linkedin", Name: "LinkedIn", Icon: IconLinkedin, Color: "#0A66C2", link: "https://www.linkedin.com/in/%s"},
	{ID: "github", Name: "GitHub", Icon: IconGithub, Color: "#333333", link: "https://github.com/%s"},
	{ID: "reddit", Name: "Reddit", Icon: IconSquareAsterisk, Color: "#FF4500", link: "https://www.reddit.com/user/%s"},
	{ID: "pinterest", Name: "Pinterest", Icon: IconPin, Color: "#E60023", link: "https://www.pinterest.com/%s"},
	{ID: "snapchat", Name: "Snapchat", Icon: IconGhost, Color: "#FFFC00", link: "https://www.snapchat.com/add/%s"},
	{ID: "other", Name: "Other", Icon: IconGlobe, Color: "#718096"},
}

// Platforms returns the registry in display order. Other is always last.
func Platforms() []Platform {
	return append([]Platform(nil), platforms...)
}

// Lookup resolves a platform id, falling back to Other.
func Lookup(id string) Platform {
	for _, p := range platforms {
		if p.ID == id {
			return p
		}
	}
	return platforms[len(platforms)-1]
}

// ProfileURL builds a link to handle on p. Platforms without a public profile
// URL return the bare handle.
func (p Platform) ProfileURL(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if p.link == "" || handle == "" {
		return handle
	}
	return strings.Replace(p.link, "%s", url.PathEscape(handle), 1)
}
