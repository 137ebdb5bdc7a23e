// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/source-linker/internal/document"
)

// Entry pairs a document with the key points extracted from it.
type Entry struct {
	// ID names the output file. Empty uses the document's base name.
	ID string `yaml:"id,omitempty"`

	// Text is the path of the original document.
	Text string `yaml:"text"`

	// KeyPoints is the path of the key-point batch.
	KeyPoints string `yaml:"key_points"`
}

// Manifest lists the documents of one batch run.
type Manifest struct {
	Documents []Entry `yaml:"documents"`
}

// LoadManifest reads a manifest file. Relative paths inside it resolve
// against the manifest's directory, and every entry gets an ID.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := m.resolve(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) resolve(dir string) error {
	seen := make(map[string]int, len(m.Documents))
	for i := range m.Documents {
		e := &m.Documents[i]
		if e.Text == "" || e.KeyPoints == "" {
			return fmt.Errorf("document %d: text and key_points are required", i+1)
		}
		if !filepath.IsAbs(e.Text) {
			e.Text = filepath.Join(dir, e.Text)
		}
		if !filepath.IsAbs(e.KeyPoints) {
			e.KeyPoints = filepath.Join(dir, e.KeyPoints)
		}
		if e.ID == "" {
			e.ID = document.DocumentID(e.Text)
		}
		if !validID(e.ID) {
			return fmt.Errorf("document %d: id %q must be a plain file name", i+1, e.ID)
		}
		if first, dup := seen[e.ID]; dup {
			return fmt.Errorf("document %d: id %q already used by document %d", i+1, e.ID, first+1)
		}
		seen[e.ID] = i
	}
	return nil
}

// validID reports whether id can name an output file inside the output
// directory. Without separators, "." and ".." are the only ways out.
func validID(id string) bool {
	return id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
