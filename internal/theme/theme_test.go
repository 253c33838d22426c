package theme

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/coverapp/internal/profile"
)

func seeded() *Resolver {
	return NewResolver(rand.NewPCG(1, 2))
}

func TestResolvePersonalityUsesGroupGradients(t *testing.T) {
	t.Parallel()

	r := seeded()
	for _, code := range Codes {
		code := code
		p := profile.Default()
		p.Personality = code

		g, ok := GroupOf(code)
		require.True(t, ok, "every known code belongs to a group: %s", code)
		scheme := schemes[code]

		for i := 0; i < 20; i++ {
			th := r.Resolve(&p)
			assert.Contains(t, g.Gradients, Gradient{Primary: th.Primary, Secondary: th.Secondary, Accent: th.Accent}, code)
			assert.Equal(t, scheme.Text, th.Text, code)
			assert.Equal(t, scheme.AccentText, th.AccentText, code)
			assert.Equal(t, float64(DefaultAngle), th.GradientAngle)
		}
	}
}

func TestResolveRepicksEveryCall(t *testing.T) {
	t.Parallel()

	r := seeded()
	p := profile.Default()
	p.Personality = "ENTP"

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[r.Resolve(&p).Primary] = true
	}
	assert.Len(t, seen, 3, "all three Analyst gradients should come up")
}

func TestResolveIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	p := profile.Default()
	p.Personality = "ISFP"
	a, b := seeded(), seeded()
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Resolve(&p), b.Resolve(&p))
	}
}

func TestResolveCustomPassThrough(t *testing.T) {
	t.Parallel()

	tests := []profile.CustomColors{
		{Primary: "#000000", Secondary: "#ffffff", Accent: "#123456", GradientAngle: 0},
		{Primary: "#abc", Secondary: "#def", Accent: "#ff00ff80", GradientAngle: 360},
		{Primary: "#4a148c", Secondary: "#006064", Accent: "#e91e63", GradientAngle: 135},
	}
	r := seeded()
	for _, cc := range tests {
		p := profile.Default()
		p.Personality = "ESTP"
		p.UseCustomColors = true
		p.CustomColors = cc

		th := r.Resolve(&p)
		assert.Equal(t, Theme{
			Primary:       cc.Primary,
			Secondary:     cc.Secondary,
			Accent:        cc.Accent,
			Text:          "#ffffff",
			AccentText:    "#ffffff",
			GradientAngle: float64(cc.GradientAngle),
		}, th)
	}
}

func TestResolveUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	r := seeded()
	p := profile.Default()
	p.Personality = "XXXX"

	th := r.Resolve(&p)
	def := schemes[DefaultCode]
	assert.Equal(t, def.Primary, th.Primary)
	assert.Equal(t, def.Secondary, th.Secondary)
	assert.Equal(t, def.Accent, th.Accent)
	assert.Equal(t, def.Text, th.Text)
	assert.Equal(t, def.AccentText, th.AccentText)
}

func TestResolveNormalizesCode(t *testing.T) {
	t.Parallel()

	r := seeded()
	p := profile.Default()
	p.Personality = " intj "
	th := r.Resolve(&p)

	g, _ := GroupOf("INTJ")
	assert.Contains(t, g.Gradients, Gradient{th.Primary, th.Secondary, th.Accent})
	assert.Equal(t, "#000000", th.AccentText)
}

func TestGroupOfReturnsCopy(t *testing.T) {
	t.Parallel()

	g, ok := GroupOf("ISTJ")
	require.True(t, ok)
	assert.Equal(t, "Sentinel", g.Name)
	g.Gradients[0].Primary = "#000000"

	again, _ := GroupOf("ISTJ")
	assert.Equal(t, "#0d47a1", again.Gradients[0].Primary)
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{in: "#ffffff", want: [4]uint8{255, 255, 255, 255}},
		{in: "#718096", want: [4]uint8{0x71, 0x80, 0x96, 255}},
		{in: "#e91e6380", want: [4]uint8{0xe9, 0x1e, 0x63, 0x80}},
		{in: "abc", want: [4]uint8{0xaa, 0xbb, 0xcc, 255}},
		{in: "red", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		c, err := ParseHex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, [4]uint8{c.R, c.G, c.B, c.A}, tt.in)
	}
}

func TestWithAlpha(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#e91e6380", WithAlpha("#e91e63", 0x80))
	assert.Equal(t, "#aabbcc80", WithAlpha("#abc", 0x80))
	assert.Equal(t, "nope", WithAlpha("nope", 0x80))
}
