// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders link results for files and terminals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/source-linker/pkg/types"
)

// Format is an output format for link results.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, yaml (or yml) and markdown (or md).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use json, yaml or markdown)", s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "md"
	default:
		return "json"
	}
}

// Write renders result to w in format f.
func Write(w io.Writer, result *types.LinkResult, f Format) error {
	var data []byte
	var err error
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatMarkdown:
		data = []byte(Markdown(result))
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders result to path, creating parent directories.
func WriteFile(path string, result *types.LinkResult, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, result, f); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// OutputPath is where a document's references are written inside dir.
func OutputPath(dir, documentID string, f Format) string {
	return filepath.Join(dir, documentID+"-references."+f.Ext())
}

// Markdown renders one section per key point, in input order, with its
// references quoted in reading order.
func Markdown(result *types.LinkResult) string {
	var b strings.Builder

	title := result.DocumentID
	if title == "" {
		title = "document"
	}
	fmt.Fprintf(&b, "# References: %s\n\n", title)

	linked, total := 0, 0
	for _, kp := range result.KeyPoints {
		if n := result.References.Count(kp.ID); n > 0 {
			linked++
			total += n
		}
	}
	fmt.Fprintf(&b, "%d key points, %d linked, %d references.\n", len(result.KeyPoints), linked, total)

	for _, kp := range result.KeyPoints {
		refs := result.References[kp.ID]
		fmt.Fprintf(&b, "\n## %s (%s, confidence %.2f)\n\n", kp.ID, kp.Category, kp.Confidence)
		fmt.Fprintf(&b, "%s\n\n", kp.Text)

		switch len(refs) {
		case 0:
			b.WriteString("No supporting text found.\n")
			continue
		case 1:
			b.WriteString("1 reference\n")
		default:
			fmt.Fprintf(&b, "%d references\n", len(refs))
		}
		for _, ref := range refs {
			fmt.Fprintf(&b, "\n%s\n(bytes %d-%d)\n", quote(ref.SourceText), ref.StartPosition, ref.EndPosition)
		}
	}
	return b.String()
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("> "+line, " ")
	}
	return strings.Join(lines, "\n")
}

// Focus returns the first reference of key point id, the range a reader is
// taken to when the key point is selected.
func Focus(refs types.SourceReferenceMap, id string) (types.SourceReference, bool) {
	list := refs[id]
	if len(list) == 0 {
		return types.SourceReference{}, false
	}
	return list[0], true
}
