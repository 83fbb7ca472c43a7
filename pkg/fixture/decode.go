package fixture

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/cosmos/internal/errors"
)

// Extensions lists the file extensions a Source recognizes.
var Extensions = []string{".yaml", ".yml", ".json"}

type document struct {
	Component string         `yaml:"component" json:"component"`
	Fixture   map[string]any `yaml:"fixture" json:"fixture"`
}

// IsFixtureFile reports whether path has a recognized fixture extension.
func IsFixtureFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NameFromPath derives the fixture name from its file path.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode parses a fixture document. ext selects the format.
func Decode(name, ext string, data []byte) (Named, error) {
	var doc document
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return Named{}, errors.New("E201").
			WithSubject(name).
			WithSuggestion("use one of " + strings.Join(Extensions, ", "))
	}
	if err != nil {
		return Named{}, errors.New("E201").WithSubject(name).Wrap(err)
	}
	if doc.Component == "" {
		return Named{}, errors.New("E201").
			WithSubject(name).
			WithSuggestion("add a top-level component: field")
	}

	f := Fixture(doc.Fixture)
	if f == nil {
		f = Fixture{}
	}
	return Named{Name: name, Component: doc.Component, Data: f}, nil
}
