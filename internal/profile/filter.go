package profile

import "strings"

// Typology is an auxiliary personality badge that survived filtering.
// Key is the typology identifier, not its position, so badges keep their
// identity when neighbours toggle on or off.
type Typology struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

const (
	TypologyEnneagram   = "enneagram"
	TypologySocionics   = "socionics"
	TypologyTemperament = "temperament"
)

// ActiveTypologies walks the display flags in declared order and keeps the
// entries that are switched on and carry a non-blank value.
func ActiveTypologies(p *Profile) []Typology {
	candidates := []struct {
		key   string
		on    bool
		value string
	}{
		{TypologyEnneagram, p.Display.Enneagram, p.Enneagram},
		{TypologySocionics, p.Display.Socionics, p.Socionics},
		{TypologyTemperament, p.Display.Temperament, p.Temperament},
	}

	var out []Typology
	for _, c := range candidates {
		if !c.on {
			continue
		}
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		out = append(out, Typology{
			Key:   c.key,
			Name:  strings.ToUpper(c.key[:1]) + c.key[1:],
			Value: c.value,
		})
	}
	return out
}

// VisibleGames drops rows where neither title nor in-game id is set.
func VisibleGames(p *Profile) []Game {
	var out []Game
	for _, g := range p.Games {
		if g.Title == "" && g.InGameID == "" {
			continue
		}
		out = append(out, g)
	}
	return out
}

// VisibleSocials drops entries whose handle is blank.
func VisibleSocials(p *Profile) []Social {
	var out []Social
	for _, s := range p.Socials {
		if strings.TrimSpace(s.Handle) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
