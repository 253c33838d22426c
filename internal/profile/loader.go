package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileProfile is the on-disk shape. photo_file points at an image next to the
// profile and is folded into Photo as a data URI.
type fileProfile struct {
	Profile   `yaml:",inline"`
	PhotoFile string `json:"photo_file" yaml:"photo_file"`
}

// LoadFile reads a YAML or JSON profile on top of Default, so omitted fields
// keep their starting values.
func LoadFile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	fp := fileProfile{Profile: Default()}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fp); err != nil {
			return Profile{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fp); err != nil {
			return Profile{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return Profile{}, fmt.Errorf("unsupported profile format %q", filepath.Ext(path))
	}

	if fp.PhotoFile != "" {
		uri, err := photoFileURI(filepath.Dir(path), fp.PhotoFile)
		if err != nil {
			return Profile{}, err
		}
		fp.Profile.Photo = uri
	}

	p := fp.Profile
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// photoFileURI reads an image referenced from a profile file. Relative names
// resolve against dir.
func photoFileURI(dir, name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("loading photo %s: %w", name, err)
	}
	return EncodeDataURI(b), nil
}
