// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keypoints reads extraction batches written by the upstream
// summarization step and prepares them for linking.
package keypoints

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/source-linker/internal/linker"
	"github.com/pdiddy/source-linker/pkg/types"
)

// Load reads a key-point batch from a .yaml, .yml or .json file. The file
// holds either a mapping with document_id and key_points, or a bare list of
// key points. When the file names no document, DocumentID is left empty.
func Load(path string) (*types.KeyPointBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key points %s: %w", path, err)
	}

	var batch *types.KeyPointBatch
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		batch, err = decodeYAML(data)
	case ".json":
		batch, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("key points %s: unsupported extension %q (use .yaml, .yml or .json)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing key points %s: %w", path, err)
	}
	return batch, nil
}

func decodeYAML(data []byte) (*types.KeyPointBatch, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	batch := &types.KeyPointBatch{}
	if len(root.Content) == 0 {
		return batch, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&batch.KeyPoints); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		if err := doc.Decode(batch); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("line %d: expected a mapping or a list of key points", doc.Line)
	}
	return batch, nil
}

func decodeJSON(data []byte) (*types.KeyPointBatch, error) {
	batch := &types.KeyPointBatch{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &batch.KeyPoints); err != nil {
			return nil, err
		}
		return batch, nil
	}
	if err := json.Unmarshal(trimmed, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// AssignIDs gives every key point without an ID a stable one derived from
// the batch's document ID and the key point's text. Identical texts get a
// numeric suffix so IDs stay unique. It returns the number of IDs assigned.
func AssignIDs(batch *types.KeyPointBatch) int {
	taken := make(map[string]bool, len(batch.KeyPoints))
	for _, kp := range batch.KeyPoints {
		if kp.ID != "" {
			taken[kp.ID] = true
		}
	}

	assigned := 0
	for i := range batch.KeyPoints {
		kp := &batch.KeyPoints[i]
		if strings.TrimSpace(kp.ID) != "" {
			continue
		}
		id := stableID(batch.DocumentID, kp.Text)
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s-%d", stableID(batch.DocumentID, kp.Text), n)
		}
		kp.ID = id
		taken[id] = true
		assigned++
	}
	return assigned
}

// stableID is the first 12 hex characters of SHA-256(documentID + text).
func stableID(documentID, text string) string {
	h := sha256.New()
	h.Write([]byte(documentID))
	h.Write([]byte(text))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Problems returns a human-readable line for every validation failure in
// batch, using the same rules the linker enforces.
func Problems(batch *types.KeyPointBatch) []string {
	var out []string
	for _, p := range linker.CheckKeyPoints(batch.KeyPoints) {
		out = append(out, p.Error())
	}
	return out
}

// CategoryCounts tallies key points per category, in display order.
// Unknown categories are counted under their raw value after the known ones.
func CategoryCounts(batch *types.KeyPointBatch) []CategoryCount {
	counts := make(map[types.Category]int)
	var unknown []types.Category
	for _, kp := range batch.KeyPoints {
		if counts[kp.Category] == 0 && !kp.Category.Valid() {
			unknown = append(unknown, kp.Category)
		}
		counts[kp.Category]++
	}

	var out []CategoryCount
	for _, c := range append(append([]types.Category{}, types.Categories...), unknown...) {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	return out
}

// CategoryCount is one row of CategoryCounts.
type CategoryCount struct {
	Category types.Category
	Count    int
}
