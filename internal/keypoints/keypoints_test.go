// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keypoints

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/source-linker/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Load ---

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		wantDocID string
		wantCount int
		wantFirst types.KeyPoint
	}{
		{
			name: "yaml batch",
			file: "kp.yaml",
			content: `document_id: cells
key_points:
  - id: kp1
    text: Mitochondria produce energy.
    category: fact
    confidence: 0.9
  - id: kp2
    text: Ribosomes build proteins.
    category: fact
    confidence: 0.8
`,
			wantDocID: "cells",
			wantCount: 2,
			wantFirst: types.KeyPoint{ID: "kp1", Text: "Mitochondria produce energy.", Category: types.CategoryFact, Confidence: 0.9},
		},
		{
			name: "yaml bare list",
			file: "kp.yml",
			content: `- id: a
  text: Newton formulated gravity.
  category: person
  confidence: 1
`,
			wantCount: 1,
			wantFirst: types.KeyPoint{ID: "a", Text: "Newton formulated gravity.", Category: types.CategoryPerson, Confidence: 1},
		},
		{
			name:      "json batch",
			file:      "kp.json",
			content:   `{"document_id":"d1","key_points":[{"id":"x","text":"E = mc^2","category":"formula","confidence":0.7}]}`,
			wantDocID: "d1",
			wantCount: 1,
			wantFirst: types.KeyPoint{ID: "x", Text: "E = mc^2", Category: types.CategoryFormula, Confidence: 0.7},
		},
		{
			name:      "json bare list",
			file:      "kp.json",
			content:   "  \n[{\"id\":\"y\",\"text\":\"1969 moon landing\",\"category\":\"date\",\"confidence\":0.5}]",
			wantCount: 1,
			wantFirst: types.KeyPoint{ID: "y", Text: "1969 moon landing", Category: types.CategoryDate, Confidence: 0.5},
		},
		{
			name:    "empty yaml",
			file:    "kp.yaml",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if batch.DocumentID != tt.wantDocID {
				t.Errorf("DocumentID = %q, want %q", batch.DocumentID, tt.wantDocID)
			}
			if len(batch.KeyPoints) != tt.wantCount {
				t.Fatalf("got %d key points, want %d", len(batch.KeyPoints), tt.wantCount)
			}
			if tt.wantCount > 0 && batch.KeyPoints[0] != tt.wantFirst {
				t.Errorf("first key point = %+v, want %+v", batch.KeyPoints[0], tt.wantFirst)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown extension", "kp.csv", "id,text", "unsupported extension"},
		{"scalar yaml", "kp.yaml", "just a string", "expected a mapping"},
		{"malformed json", "kp.json", "{", "parsing key points"},
		{"malformed yaml", "kp.yaml", "key_points: [", "parsing key points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// --- stableID / AssignIDs ---

func TestStableID(t *testing.T) {
	id1 := stableID("doc", "Some claim.")
	id2 := stableID("doc", "Some claim.")
	id3 := stableID("doc", "Different claim.")
	id4 := stableID("other", "Some claim.")

	if id1 != id2 {
		t.Errorf("same inputs produced different IDs: %s vs %s", id1, id2)
	}
	if id1 == id3 || id1 == id4 {
		t.Errorf("different inputs produced the same ID: %s", id1)
	}
	if len(id1) != 12 {
		t.Errorf("ID length = %d, want 12", len(id1))
	}
}

func TestAssignIDs(t *testing.T) {
	batch := &types.KeyPointBatch{
		DocumentID: "doc",
		KeyPoints: []types.KeyPoint{
			{ID: "kept", Text: "Already named."},
			{Text: "Repeated point."},
			{Text: "Repeated point."},
			{ID: "  ", Text: "Blank id."},
		},
	}

	n := AssignIDs(batch)
	if n != 3 {
		t.Errorf("assigned %d IDs, want 3", n)
	}

	base := stableID("doc", "Repeated point.")
	want := []string{"kept", base, base + "-2", stableID("doc", "Blank id.")}
	for i, kp := range batch.KeyPoints {
		if kp.ID != want[i] {
			t.Errorf("KeyPoints[%d].ID = %q, want %q", i, kp.ID, want[i])
		}
	}

	if again := AssignIDs(batch); again != 0 {
		t.Errorf("second AssignIDs assigned %d, want 0", again)
	}
}

// --- Problems / CategoryCounts ---

func TestProblems(t *testing.T) {
	batch := &types.KeyPointBatch{KeyPoints: []types.KeyPoint{
		{ID: "a", Text: "Fine.", Category: types.CategoryFact, Confidence: 0.5},
		{ID: "a", Text: "Duplicate.", Category: types.CategoryFact, Confidence: 0.5},
		{ID: "b", Text: "Bad tag.", Category: "opinion", Confidence: 0.5},
	}}

	problems := Problems(batch)
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "duplicate id") {
		t.Errorf("problems[0] = %q, want duplicate id", problems[0])
	}
	if !strings.Contains(problems[1], "opinion") {
		t.Errorf("problems[1] = %q, want mention of the bad category", problems[1])
	}

	batch.KeyPoints = batch.KeyPoints[:1]
	if problems := Problems(batch); len(problems) != 0 {
		t.Errorf("valid batch reported problems: %v", problems)
	}
}

func TestCategoryCounts(t *testing.T) {
	batch := &types.KeyPointBatch{KeyPoints: []types.KeyPoint{
		{Category: types.CategoryPerson},
		{Category: types.CategoryConcept},
		{Category: "opinion"},
		{Category: types.CategoryPerson},
	}}

	got := CategoryCounts(batch)
	want := []CategoryCount{
		{Category: types.CategoryConcept, Count: 1},
		{Category: types.CategoryPerson, Count: 2},
		{Category: "opinion", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
