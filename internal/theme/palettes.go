package theme

// DefaultCode is used when a personality code has no table entry.
const DefaultCode = "INFJ"

type Gradient struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Scheme is the deterministic per-code color set.
type Scheme struct {
	Gradient
	Text       string `json:"text"`
	AccentText string `json:"accent_text"`
}

// Group clusters four codes that share a palette family.
type Group struct {
	Name        string     `json:"name"`
	Types       []string   `json:"types"`
	Description string     `json:"description"`
	Gradients   []Gradient `json:"gradients"`
}

var Codes = []string{
	"INFJ", "INFP", "INTJ", "INTP",
	"ISFJ", "ISFP", "ISTJ", "ISTP",
	"ENFJ", "ENFP", "ENTJ", "ENTP",
	"ESFJ", "ESFP", "ESTJ", "ESTP",
}

var groups = []Group{
	{
		Name:        "Sentinel",
		Types:       []string{"ISTJ", "ISFJ", "ESTJ", "ESFJ"},
		Description: "Clean, trustworthy blue gradients",
		Gradients: []Gradient{
			{Primary: "#0d47a1", Secondary: "#1976d2", Accent: "#42a5f5"},
			{Primary: "#01579b", Secondary: "#0288d1", Accent: "#29b6f6"},
			{Primary: "#0277bd", Secondary: "#039be5", Accent: "#4fc3f7"},
		},
	},
	{
		Name:        "Explorer",
		Types:       []string{"ISTP", "ISFP", "ESTP", "ESFP"},
		Description: "Energetic orange-yellow gradients",
		Gradients: []Gradient{
			{Primary: "#e65100", Secondary: "#ff9800", Accent: "#ffb74d"},
			{Primary: "#ff6f00", Secondary: "#ffc107", Accent: "#ffca28"},
			{Primary: "#f57c00", Secondary: "#ff9800", Accent: "#ffb74d"},
		},
	},
	{
		Name:        "Diplomat",
		Types:       []string{"INFJ", "INFP", "ENFJ", "ENFP"},
		Description: "Harmonious green to teal gradients",
		Gradients: []Gradient{
			{Primary: "#00695c", Secondary: "#00897b", Accent: "#4db6ac"},
			{Primary: "#2e7d32", Secondary: "#43a047", Accent: "#66bb6a"},
			{Primary: "#00796b", Secondary: "#009688", Accent: "#4db6ac"},
		},
	},
	{
		Name:        "Analyst",
		Types:       []string{"INTJ", "INTP", "ENTJ", "ENTP"},
		Description: "Deep-thinking purple to indigo gradients",
		Gradients: []Gradient{
			{Primary: "#4a148c", Secondary: "#7b1fa2", Accent: "#ab47bc"},
			{Primary: "#1a237e", Secondary: "#303f9f", Accent: "#5c6bc0"},
			{Primary: "#311b92", Secondary: "#512da8", Accent: "#7e57c2"},
		},
	},
}

var schemes = map[string]Scheme{
	// Analysts
	"INTJ": {Gradient{"#1a237e", "#311b92", "#00bcd4"}, "#ffffff", "#000000"},
	"INTP": {Gradient{"#263238", "#004d40", "#4dd0e1"}, "#ffffff", "#000000"},
	"ENTJ": {Gradient{"#b71c1c", "#880e4f", "#ffc107"}, "#ffffff", "#000000"},
	"ENTP": {Gradient{"#4a148c", "#1a237e", "#ffeb3b"}, "#ffffff", "#000000"},

	// Diplomats
	"INFJ": {Gradient{"#4a148c", "#006064", "#e91e63"}, "#ffffff", "#ffffff"},
	"INFP": {Gradient{"#6a1b9a", "#ad1457", "#64ffda"}, "#ffffff", "#000000"},
	"ENFJ": {Gradient{"#ad1457", "#4a148c", "#00bcd4"}, "#ffffff", "#000000"},
	"ENFP": {Gradient{"#ff9800", "#ff5722", "#e91e63"}, "#ffffff", "#ffffff"},

	// Sentinels
	"ISTJ": {Gradient{"#212121", "#263238", "#0d47a1"}, "#ffffff", "#ffffff"},
	"ISFJ": {Gradient{"#5d4037", "#3e2723", "#8bc34a"}, "#ffffff", "#000000"},
	"ESTJ": {Gradient{"#0d47a1", "#01579b", "#ffc107"}, "#ffffff", "#000000"},
	"ESFJ": {Gradient{"#689f38", "#33691e", "#ff9800"}, "#ffffff", "#000000"},

	// Explorers
	"ISTP": {Gradient{"#37474f", "#263238", "#ff5722"}, "#ffffff", "#ffffff"},
	"ISFP": {Gradient{"#ad1457", "#880e4f", "#ffc107"}, "#ffffff", "#000000"},
	"ESTP": {Gradient{"#bf360c", "#b71c1c", "#ffeb3b"}, "#ffffff", "#000000"},
	"ESFP": {Gradient{"#ff5722", "#ff9800", "#e91e63"}, "#ffffff", "#ffffff"},
}

// GroupOf returns a copy of the group a code belongs to.
func GroupOf(code string) (Group, bool) {
	code = normalize(code)
	for _, g := range groups {
		for _, t := range g.Types {
			if t == code {
				return cloneGroup(g), true
			}
		}
	}
	return Group{}, false
}

// SchemeOf returns the per-code scheme, or the default code's scheme.
func SchemeOf(code string) Scheme {
	if s, ok := schemes[normalize(code)]; ok {
		return s
	}
	return schemes[DefaultCode]
}

func cloneGroup(g Group) Group {
	g.Types = append([]string(nil), g.Types...)
	g.Gradients = append([]Gradient(nil), g.Gradients...)
	return g
}
