// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category classifies a key point. The set is closed: any value not listed
// below is invalid.
type Category string

const (
	CategoryConcept    Category = "concept"
	CategoryFact       Category = "fact"
	CategoryDefinition Category = "definition"
	CategoryPerson     Category = "person"
	CategoryDate       Category = "date"
	CategoryFormula    Category = "formula"
)

// Categories lists every valid Category in display order.
var Categories = []Category{
	CategoryConcept,
	CategoryFact,
	CategoryDefinition,
	CategoryPerson,
	CategoryDate,
	CategoryFormula,
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConcept, CategoryFact, CategoryDefinition,
		CategoryPerson, CategoryDate, CategoryFormula:
		return true
	default:
		return false
	}
}

// KeyPoint is a short statement extracted from a document by the upstream
// summarization service.
type KeyPoint struct {
	// ID is an opaque identifier, unique within one extraction batch.
	ID string `json:"id" yaml:"id"`

	// Text is the natural-language statement.
	Text string `json:"text" yaml:"text"`

	// Category is one of concept, fact, definition, person, date, formula.
	Category Category `json:"category" yaml:"category"`

	// Confidence is the extractor's self-reported certainty in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// KeyPointBatch is the file format produced by the extraction step: all key
// points extracted from a single document.
type KeyPointBatch struct {
	// DocumentID names the document the key points were extracted from.
	DocumentID string `json:"document_id,omitempty" yaml:"document_id,omitempty"`

	KeyPoints []KeyPoint `json:"key_points" yaml:"key_points"`
}

// SourceReference points at a range of the original document text that
// supports a key point.
type SourceReference struct {
	// StartPosition is the zero-based byte offset of the first character.
	StartPosition int `json:"start_position" yaml:"start_position"`

	// EndPosition is the exclusive byte offset one past the last character.
	EndPosition int `json:"end_position" yaml:"end_position"`

	// SourceText is exactly text[StartPosition:EndPosition].
	SourceText string `json:"source_text" yaml:"source_text"`
}

// Len returns the length of the referenced range in bytes.
func (r SourceReference) Len() int {
	return r.EndPosition - r.StartPosition
}

// SourceReferenceMap maps a KeyPoint ID to its references in reading order.
// A key point without support maps to an empty, non-nil slice.
type SourceReferenceMap map[string][]SourceReference

// Count returns the number of references recorded for id.
func (m SourceReferenceMap) Count(id string) int {
	return len(m[id])
}

// LinkResult bundles a computed SourceReferenceMap with the inputs needed
// to render it.
type LinkResult struct {
	DocumentID string             `json:"document_id" yaml:"document_id"`
	KeyPoints  []KeyPoint         `json:"key_points" yaml:"key_points"`
	References SourceReferenceMap `json:"references" yaml:"references"`
}
