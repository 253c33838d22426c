package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, "INFJ", p.Personality)
	assert.Len(t, p.Games, 1)
	assert.Equal(t, []Social{{Platform: "instagram"}}, p.Socials)
	assert.Equal(t, DefaultGradientAngle, p.CustomColors.GradientAngle)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *Profile)
		ok     bool
	}{
		{name: "default", mutate: func(*Profile) {}, ok: true},
		{name: "no games", mutate: func(p *Profile) { p.Games = nil }},
		{name: "five games", mutate: func(p *Profile) { p.Games = make([]Game, 5) }},
		{name: "four games", mutate: func(p *Profile) { p.Games = make([]Game, 4) }, ok: true},
		{name: "no socials", mutate: func(p *Profile) { p.Socials = nil }, ok: true},
		{name: "three socials", mutate: func(p *Profile) { p.Socials = make([]Social, 3) }},
		{name: "blank personality", mutate: func(p *Profile) { p.Personality = "  " }},
		{name: "angle too large", mutate: func(p *Profile) { p.CustomColors.GradientAngle = 361 }},
		{name: "negative angle", mutate: func(p *Profile) { p.CustomColors.GradientAngle = -1 }},
		{name: "bad custom color ignored when off", mutate: func(p *Profile) { p.CustomColors.Accent = "red" }, ok: true},
		{name: "bad custom color", mutate: func(p *Profile) {
			p.UseCustomColors = true
			p.CustomColors.Accent = "red"
		}},
		{name: "short hex custom color", mutate: func(p *Profile) {
			p.UseCustomColors = true
			p.CustomColors.Accent = "#fff"
		}, ok: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Default()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
		})
	}
}

func TestFormOperations(t *testing.T) {
	t.Parallel()

	p := Default()
	for i := 0; i < 3; i++ {
		assert.True(t, p.AddGame())
	}
	assert.False(t, p.AddGame(), "fifth game must be refused")
	assert.Len(t, p.Games, MaxGames)

	for i := 0; i < 3; i++ {
		assert.True(t, p.RemoveGame(0))
	}
	assert.False(t, p.RemoveGame(0), "last game row must stay")
	assert.Len(t, p.Games, 1)

	assert.True(t, p.AddSocial())
	assert.False(t, p.AddSocial())
	assert.Equal(t, "instagram", p.Socials[1].Platform)
	assert.True(t, p.RemoveSocial(0))
	assert.True(t, p.RemoveSocial(0))
	assert.False(t, p.RemoveSocial(0))
	assert.NoError(t, p.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	p := Default()
	c := p.Clone()
	c.Games[0].Title = "changed"
	c.Socials[0].Handle = "changed"
	assert.Empty(t, p.Games[0].Title)
	assert.Empty(t, p.Socials[0].Handle)
}

func TestActiveTypologies(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Display = Display{Enneagram: true, Socionics: false, Temperament: true}
	p.Enneagram = ""
	p.Socionics = "ILE"
	p.Temperament = "Sanguine"

	got := ActiveTypologies(&p)
	require.Len(t, got, 1)
	assert.Equal(t, Typology{Key: "temperament", Name: "Temperament", Value: "Sanguine"}, got[0])

	p.Display = Display{Enneagram: true, Socionics: true, Temperament: true}
	p.Enneagram = "4w5"
	got = ActiveTypologies(&p)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"enneagram", "socionics", "temperament"}, []string{got[0].Key, got[1].Key, got[2].Key})
}

func TestVisibleGamesAndSocials(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Games = []Game{{}, {Title: "Celeste"}, {InGameID: "id-only"}}
	p.Socials = []Social{{Platform: "x", Handle: "  "}, {Platform: "xyz", Handle: "me"}}

	assert.Equal(t, []Game{{Title: "Celeste"}, {InGameID: "id-only"}}, VisibleGames(&p))
	assert.Equal(t, []Social{{Platform: "xyz", Handle: "me"}}, VisibleSocials(&p))

	p.Games = []Game{{}, {}}
	assert.Empty(t, VisibleGames(&p))
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	p, err := LoadFile(filepath.Join("testdata", "ada.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "INTJ", p.Personality)
	assert.Equal(t, "IEI", p.Socionics, "omitted fields keep defaults")
	assert.Len(t, p.Games, 2)

	active := ActiveTypologies(&p)
	require.Len(t, active, 1)
	assert.Equal(t, "5w6", active[0].Value)
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	p, err := LoadFile(filepath.Join("testdata", "grace.json"))
	require.NoError(t, err)
	assert.True(t, p.UseCustomColors)
	assert.Equal(t, 90, p.CustomColors.GradientAngle)
	assert.Empty(t, p.Socials)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join("testdata", "too_many_games.yaml"))
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFilePhoto(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Minimal GIF header is enough for content sniffing.
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "me.gif"), gif, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.yaml"), []byte("personality: ENFP\nphoto_file: me.gif\n"), 0o644))

	p, err := LoadFile(filepath.Join(dir, "p.yaml"))
	require.NoError(t, err)

	mime, b, err := DecodeDataURI(p.Photo)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", mime)
	assert.Equal(t, gif, b)
}

func TestDecodeDataURIMalformed(t *testing.T) {
	t.Parallel()

	for _, uri := range []string{"", "http://x", "data:image/png,abc", "data:image/png;base64", "data:image/png;base64,@@"} {
		_, _, err := DecodeDataURI(uri)
		assert.ErrorIs(t, err, ErrMalformedDataURI, uri)
	}
}
