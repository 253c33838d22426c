package profile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxGames   = 4
	MaxSocials = 2

	DefaultGradientAngle = 135
	DefaultPlatform      = "instagram"
)

// ErrInvalidProfile wraps every validation failure returned by Validate.
var ErrInvalidProfile = errors.New("invalid profile")

type Game struct {
	Title    string `json:"title" yaml:"title"`
	InGameID string `json:"in_game_id" yaml:"in_game_id"`
}

type Social struct {
	Platform string `json:"platform" yaml:"platform"`
	Handle   string `json:"handle" yaml:"handle"`
}

type CustomColors struct {
	Primary       string `json:"primary" yaml:"primary"`
	Secondary     string `json:"secondary" yaml:"secondary"`
	Accent        string `json:"accent" yaml:"accent"`
	GradientAngle int    `json:"gradient_angle" yaml:"gradient_angle"`
}

// Display toggles the auxiliary typology badges.
type Display struct {
	Enneagram   bool `json:"enneagram" yaml:"enneagram"`
	Socionics   bool `json:"socionics" yaml:"socionics"`
	Temperament bool `json:"temperament" yaml:"temperament"`
}

// Profile is everything the user entered plus presentation toggles.
// Photo holds a data URI, as produced by a file picker.
type Profile struct {
	Name              string       `json:"name" yaml:"name"`
	Personality       string       `json:"personality" yaml:"personality"`
	Enneagram         string       `json:"enneagram" yaml:"enneagram"`
	AttitudinalPsyche string       `json:"attitudinal_psyche" yaml:"attitudinal_psyche"`
	Socionics         string       `json:"socionics" yaml:"socionics"`
	Temperament       string       `json:"temperament" yaml:"temperament"`
	Display           Display      `json:"display" yaml:"display"`
	Games             []Game       `json:"games" yaml:"games"`
	Age               string       `json:"age" yaml:"age"`
	Hobbies           string       `json:"hobbies" yaml:"hobbies"`
	Socials           []Social     `json:"socials" yaml:"socials"`
	Quote             string       `json:"quote" yaml:"quote"`
	Photo             string       `json:"photo,omitempty" yaml:"photo,omitempty"`
	UseCustomColors   bool         `json:"use_custom_colors" yaml:"use_custom_colors"`
	CustomColors      CustomColors `json:"custom_colors" yaml:"custom_colors"`
}

// Default returns the state a fresh editing session starts from.
func Default() Profile {
	return Profile{
		Personality:       "INFJ",
		Enneagram:         "4w5",
		AttitudinalPsyche: "VLFE",
		Socionics:         "IEI",
		Temperament:       "Melancholic-Phlegmatic",
		Games:             []Game{{}},
		Socials:           []Social{{Platform: DefaultPlatform}},
		CustomColors: CustomColors{
			Primary:       "#4a148c",
			Secondary:     "#006064",
			Accent:        "#e91e63",
			GradientAngle: DefaultGradientAngle,
		},
	}
}

// Clone returns a deep copy so callers can render from a snapshot.
func (p Profile) Clone() Profile {
	out := p
	out.Games = append([]Game(nil), p.Games...)
	out.Socials = append([]Social(nil), p.Socials...)
	return out
}

// Validate checks the list bounds and the custom color state.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Personality) == "" {
		return fmt.Errorf("%w: personality is required", ErrInvalidProfile)
	}
	if len(p.Games) < 1 || len(p.Games) > MaxGames {
		return fmt.Errorf("%w: games must have 1 to %d entries, got %d", ErrInvalidProfile, MaxGames, len(p.Games))
	}
	if len(p.Socials) > MaxSocials {
		return fmt.Errorf("%w: socials must have at most %d entries, got %d", ErrInvalidProfile, MaxSocials, len(p.Socials))
	}
	if a := p.CustomColors.GradientAngle; a < 0 || a > 360 {
		return fmt.Errorf("%w: gradient angle %d out of range 0-360", ErrInvalidProfile, a)
	}
	if p.UseCustomColors {
		for label, c := range map[string]string{
			"primary":   p.CustomColors.Primary,
			"secondary": p.CustomColors.Secondary,
			"accent":    p.CustomColors.Accent,
		} {
			if !isHexColor(c) {
				return fmt.Errorf("%w: custom %s color %q is not a hex color", ErrInvalidProfile, label, c)
			}
		}
	}
	return nil
}

// AddGame appends an empty game row. It is a no-op once MaxGames is reached.
func (p *Profile) AddGame() bool {
	if len(p.Games) >= MaxGames {
		return false
	}
	p.Games = append(p.Games, Game{})
	return true
}

// RemoveGame drops the game at index i but always keeps one row.
func (p *Profile) RemoveGame(i int) bool {
	if len(p.Games) <= 1 || i < 0 || i >= len(p.Games) {
		return false
	}
	p.Games = append(p.Games[:i:i], p.Games[i+1:]...)
	return true
}

func (p *Profile) AddSocial() bool {
	if len(p.Socials) >= MaxSocials {
		return false
	}
	p.Socials = append(p.Socials, Social{Platform: DefaultPlatform})
	return true
}

func (p *Profile) RemoveSocial(i int) bool {
	if i < 0 || i >= len(p.Socials) {
		return false
	}
	p.Socials = append(p.Socials[:i:i], p.Socials[i+1:]...)
	return true
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
