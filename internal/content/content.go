package content

import (
	"embed"
	"io/fs"
	"path"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/DaanHessen/cramweek/internal/engine"
)

//go:embed catalog.yaml events/*.yaml
var files embed.FS

type eventFile struct {
	Events []engine.Event `yaml:"events"`
}

// Load parses the embedded tables into a validated catalog.
func Load() (*engine.Catalog, error) {
	return LoadFS(files)
}

// LoadFS reads catalog.yaml and every events/*.yaml from fsys. Event files are
// appended in name order so the catalog order is stable.
func LoadFS(fsys fs.FS) (*engine.Catalog, error) {
	raw, err := fs.ReadFile(fsys, "catalog.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	var c engine.Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	names, err := fs.Glob(fsys, "events/*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "list event files")
	}
	sort.Strings(names)
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		var ef eventFile
		if err := yaml.Unmarshal(raw, &ef); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path.Base(name))
		}
		c.Events = append(c.Events, ef.Events...)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate catalog")
	}
	return &c, nil
}

// MustLoad is Load for callers that cannot run without content.
func MustLoad() *engine.Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}
