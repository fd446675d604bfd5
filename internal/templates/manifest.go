package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	oerrors "github.com/aiimpact/tracker/internal/errors"
)

//go:embed manifest.yaml
var manifestYAML []byte

// TemplateEntry pairs a template file with its destination in a project.
type TemplateEntry struct {
	// Source is the file name under the template root. It identifies the entry.
	Source string `yaml:"source"`

	// Dest is the path relative to the project root.
	Dest string `yaml:"dest"`

	// Required marks files a working project cannot do without. A missing
	// required source is still not fatal, but it is reported louder.
	Required bool `yaml:"required"`

	// Description is shown next to the file in the creation report.
	Description string `yaml:"description,omitempty"`
}

// Category groups entries that are copied together.
type Category struct {
	Name    string          `yaml:"name"`
	Sets    []string        `yaml:"sets"`
	Entries []TemplateEntry `yaml:"entries"`
}

// Manifest is the ordered list of categories.
type Manifest struct {
	Categories []Category `yaml:"categories"`
}

// LoadManifest decodes and validates a manifest.
func LoadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

var defaultManifest = sync.OnceValues(func() (Manifest, error) {
	return LoadManifest(bytes.NewReader(manifestYAML))
})

// DefaultManifest returns the embedded manifest.
func DefaultManifest() (Manifest, error) {
	return defaultManifest()
}

// Entries flattens the manifest in copy order.
func (m Manifest) Entries() []TemplateEntry {
	var out []TemplateEntry
	for _, c := range m.Categories {
		out = append(out, c.Entries...)
	}
	return out
}

// ForTemplateSet returns the categories belonging to the named template set.
func (m Manifest) ForTemplateSet(name string) (Manifest, error) {
	if _, err := Get(name); err != nil {
		return Manifest{}, err
	}
	var out Manifest
	for _, c := range m.Categories {
		if slices.Contains(c.Sets, name) {
			out.Categories = append(out.Categories, c)
		}
	}
	return out, nil
}

// Validate checks that no two entries share a destination and that every
// destination stays inside the project root.
func (m Manifest) Validate() error {
	seenDest := make(map[string]string)
	seenSource := make(map[string]bool)
	for _, c := range m.Categories {
		if c.Name == "" {
			return oerrors.Wrap(oerrors.ErrValidation, "manifest category without a name")
		}
		for _, e := range c.Entries {
			if e.Source == "" || e.Dest == "" {
				return oerrors.Wrap(oerrors.ErrValidation,
					fmt.Sprintf("manifest entry in %s needs both source and dest", c.Name))
			}
			if seenSource[e.Source] {
				return oerrors.Wrap(oerrors.ErrValidation,
					fmt.Sprintf("duplicate manifest source %q", e.Source))
			}
			seenSource[e.Source] = true

			dest := filepath.Clean(filepath.FromSlash(e.Dest))
			if !filepath.IsLocal(dest) {
				return oerrors.Wrap(oerrors.ErrValidation,
					fmt.Sprintf("manifest destination %q escapes the project root", e.Dest))
			}
			if prev, ok := seenDest[dest]; ok {
				return oerrors.Wrap(oerrors.ErrValidation,
					fmt.Sprintf("manifest destination %q written by both %q and %q", e.Dest, prev, e.Source))
			}
			seenDest[dest] = e.Source
		}
	}
	return nil
}
