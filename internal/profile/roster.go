package profile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// parseListCell splits a semicolon separated cell, dropping blanks and "-".
func parseListCell(s string) []string {
	s = strings.ReplaceAll(s, "；", ";")
	out := []string{}
	for _, p := range strings.Split(s, ";") {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

// LoadRoster reads one profile per CSV row for batch rendering. Every row
// starts from Default; blank cells keep the default value.
//
// Columns are matched by header name: name, personality, enneagram,
// attitudinal_psyche, socionics, temperament, show, age, hobbies, quote,
// games, socials and photo_file. games is "title|id; title|id", socials is
// "platform:handle; platform:handle" and show lists the typologies to badge.
func LoadRoster(path string) ([]Profile, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["personality"]; !ok {
		return nil, fmt.Errorf("csv %s has no personality column", path)
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	out := []Profile{}
	for i, row := range rows[1:] {
		line := i + 2
		p := Default()
		set(&p.Name, get(row, "name"))
		set(&p.Personality, get(row, "personality"))
		set(&p.Enneagram, get(row, "enneagram"))
		set(&p.AttitudinalPsyche, get(row, "attitudinal_psyche"))
		set(&p.Socionics, get(row, "socionics"))
		set(&p.Temperament, get(row, "temperament"))
		set(&p.Age, get(row, "age"))
		set(&p.Hobbies, get(row, "hobbies"))
		set(&p.Quote, get(row, "quote"))

		if show := get(row, "show"); show != "" {
			keys := parseListCell(strings.ToLower(show))
			p.Display = Display{
				Enneagram:   slices.Contains(keys, TypologyEnneagram),
				Socionics:   slices.Contains(keys, TypologySocionics),
				Temperament: slices.Contains(keys, TypologyTemperament),
			}
		}
		if cell := get(row, "games"); cell != "" {
			p.Games = p.Games[:0]
			for _, item := range parseListCell(cell) {
				title, id, _ := strings.Cut(item, "|")
				p.Games = append(p.Games, Game{Title: strings.TrimSpace(title), InGameID: strings.TrimSpace(id)})
			}
		}
		if cell := get(row, "socials"); cell != "" {
			p.Socials = p.Socials[:0]
			for _, item := range parseListCell(cell) {
				platform, handle, ok := strings.Cut(item, ":")
				if !ok {
					platform, handle = "other", item
				}
				p.Socials = append(p.Socials, Social{
					Platform: strings.ToLower(strings.TrimSpace(platform)),
					Handle:   strings.TrimSpace(handle),
				})
			}
		}
		if name := get(row, "photo_file"); name != "" {
			uri, err := photoFileURI(filepath.Dir(path), name)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, line, err)
			}
			p.Photo = uri
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// RosterFilter narrows a roster before rendering. Empty fields match
// everything.
type RosterFilter struct {
	Personalities []string
	// FreeWords must all appear in the name, quote or hobbies.
	FreeWords string
}

func FilterRoster(ps []Profile, opt RosterFilter) []Profile {
	var out []Profile
	for _, p := range ps {
		if len(opt.Personalities) > 0 {
			matched := false
			for _, code := range opt.Personalities {
				if strings.EqualFold(strings.TrimSpace(code), strings.TrimSpace(p.Personality)) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(p.Name + " " + p.Quote + " " + p.Hobbies)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
