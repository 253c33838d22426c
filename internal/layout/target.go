package layout

import "strings"

// Target is a fixed logical canvas size.
type Target struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var (
	Desktop = Target{Name: "desktop", Width: 820, Height: 360}
	Mobile  = Target{Name: "mobile", Width: 640, Height: 360}
)

// TargetByName returns the named preset. ok is false for unknown names, in
// which case Desktop is returned.
func TargetByName(name string) (Target, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Desktop.Name:
		return Desktop, true
	case Mobile.Name:
		return Mobile, true
	}
	return Desktop, false
}

func Targets() []Target {
	return []Target{Desktop, Mobile}
}
