// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentFormat records how a document's text was obtained.
type DocumentFormat string

const (
	FormatText     DocumentFormat = "text"
	FormatMarkdown DocumentFormat = "markdown"
	FormatHTML     DocumentFormat = "html"
)

// Document holds the original text of an ingested file.
type Document struct {
	// ID is derived from the file name without its extension.
	ID string `json:"id" yaml:"id"`

	// Path is the local file the text was read from.
	Path string `json:"path" yaml:"path"`

	// Format is the source format of the file.
	Format DocumentFormat `json:"format" yaml:"format"`

	// Text is the original text that source references point into. For HTML
	// files this is the extracted visible text, not the markup.
	Text string `json:"-" yaml:"-"`
}
