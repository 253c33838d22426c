package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/profile"
)

var profileTestdata = filepath.Join("..", "..", "internal", "profile", "testdata")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderAllPresets(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "--file", filepath.Join(profileTestdata, "ada.yaml"), "--out", dir, "--seed", "3")
	require.NoError(t, err)

	desktop := filepath.Join(dir, "facebook-cover-Ada-desktop.png")
	mobile := filepath.Join(dir, "facebook-cover-Ada-mobile.png")
	assert.Equal(t, desktop+"\n"+mobile+"\n", out)

	img, err := imaging.Open(desktop)
	require.NoError(t, err)
	assert.Equal(t, 1640, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())

	img, err = imaging.Open(mobile)
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestRenderSinglePresetAndRatio(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "render", "-f", filepath.Join(profileTestdata, "grace.json"),
		"-o", dir, "--preset", "Mobile", "--template", "minimal", "--ratio", "1")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "-mobile.png"))

	img, err := imaging.Open(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestRenderRejectsBadFlags(t *testing.T) {
	file := filepath.Join(profileTestdata, "ada.yaml")
	dir := t.TempDir()

	_, err := execute(t, "render", "--file", file, "--out", dir, "--preset", "tablet")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "render", "--file", file, "--out", dir, "--template", "poster")
	assert.ErrorContains(t, err, "unknown template")

	_, err = execute(t, "render", "--file", file, "--out", dir, "--ratio", "0")
	assert.ErrorContains(t, err, "ratio")

	_, err = execute(t, "render", "--out", dir)
	assert.ErrorContains(t, err, "file")

	_, err = execute(t, "render", "--file", filepath.Join(profileTestdata, "too_many_games.yaml"), "--out", dir)
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatchFiltersRoster(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "batch", "--csv", filepath.Join(profileTestdata, "roster.csv"),
		"--out", dir, "--only", "intj, istp", "--preset", "desktop", "--ratio", "1")
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join(dir, "facebook-cover-001-Ada-desktop.png")+"\n"+
			filepath.Join(dir, "facebook-cover-002-Linus-desktop.png")+"\n",
		out)

	dir = t.TempDir()
	out, err = execute(t, "batch", "--csv", filepath.Join(profileTestdata, "roster.csv"),
		"--out", dir, "--match", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "No profiles matched\n", out)
}

func TestBatchInvalidRoster(t *testing.T) {
	_, err := execute(t, "batch", "--csv", filepath.Join(profileTestdata, "roster_bad.csv"), "--out", t.TempDir())
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
}

func TestRunnerSeedIsDeterministic(t *testing.T) {
	seed := uint64(9)
	r, err := newRunner(runnerOptions{Template: "standard", Ratio: 1, Seed: &seed, Workers: 2})
	require.NoError(t, err)

	p := profile.Default()
	p.Name = "Twin"
	a, b := t.TempDir(), t.TempDir()
	jobs := []job{{profile: p, name: p.Name, target: layout.Desktop}}

	pa, err := r.run(context.Background(), jobs, a)
	require.NoError(t, err)
	pb, err := r.run(context.Background(), jobs, b)
	require.NoError(t, err)

	ba, err := os.ReadFile(pa[0])
	require.NoError(t, err)
	bb, err := os.ReadFile(pb[0])
	require.NoError(t, err)
	assert.Equal(t, ba, bb)
}

func TestRunnerCancelled(t *testing.T) {
	r, err := newRunner(runnerOptions{Template: "standard", Ratio: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := r.run(ctx, []job{{profile: profile.Default(), name: "x", target: layout.Mobile}}, t.TempDir())
	assert.Empty(t, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPresetFilename(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "facebook-cover-Ada-mobile.png", presetFilename("facebook-cover-Ada.png", "mobile"))
	assert.Equal(t, []string{"INTJ", "ENTP"}, splitList(" INTJ,,ENTP ,"))
	assert.Nil(t, splitList(""))
}
