// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch links many documents in one run with bounded parallelism.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/source-linker/internal/document"
	"github.com/pdiddy/source-linker/internal/keypoints"
	"github.com/pdiddy/source-linker/internal/report"
	"github.com/pdiddy/source-linker/pkg/types"
)

// Computer produces a SourceReferenceMap. Both linker.Linker and
// linker.Memo satisfy it.
type Computer interface {
	Compute(originalText string, keyPoints []types.KeyPoint) (types.SourceReferenceMap, error)
}

// Fingerprinter is implemented by Computers whose output depends on
// settings. The fingerprint is stored next to each output so a settings
// change relinks documents whose inputs did not change.
type Fingerprinter interface {
	Fingerprint() string
}

// Options controls a batch run.
type Options struct {
	// OutputDir receives <id>-references.<ext> for every document.
	OutputDir string

	// Format of the output files.
	Format report.Format

	// Workers bounds concurrent documents. Values below 1 mean 1.
	Workers int

	// AssignIDs fills missing key-point IDs before linking.
	AssignIDs bool

	// Force relinks documents whose output is up to date.
	Force bool
}

// Summary holds counts from a batch run.
type Summary struct {
	Linked  int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Linked + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

type status int

const (
	statusLinked status = iota
	statusSkipped
	statusFailed
)

type outcome struct {
	status status
	refs   int
	err    error
}

// Run links every document in m and writes one report per document to
// opts.OutputDir. A failing document is reported on w and counted; it does
// not stop the others. Lines are written in manifest order once all
// scheduled documents finish. Cancelling ctx stops scheduling new
// documents and Run returns ctx.Err().
func Run(ctx context.Context, c Computer, m *Manifest, opts Options, w io.Writer) (Summary, error) {
	if opts.Format == "" {
		opts.Format = report.FormatJSON
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	outcomes := make([]*outcome, len(m.Documents))

	var g errgroup.Group
	g.SetLimit(max(opts.Workers, 1))
	for i, e := range m.Documents {
		if ctx.Err() != nil {
			break
		}
		i, e := i, e
		g.Go(func() error {
			outcomes[i] = runOne(ctx, c, e, opts)
			return nil
		})
	}
	_ = g.Wait()

	var summary Summary
	for i, o := range outcomes {
		if o == nil {
			continue
		}
		id := m.Documents[i].ID
		switch o.status {
		case statusSkipped:
			fmt.Fprintf(w, "skipped %s\n", id)
			summary.Skipped++
		case statusFailed:
			fmt.Fprintf(w, "failed  %s: %v\n", id, o.err)
			summary.Failed++
		default:
			fmt.Fprintf(w, "linked %s (%d references)\n", id, o.refs)
			summary.Linked++
		}
	}

	return summary, ctx.Err()
}

func runOne(ctx context.Context, c Computer, e Entry, opts Options) *outcome {
	if err := ctx.Err(); err != nil {
		return &outcome{status: statusFailed, err: err}
	}

	var fingerprint string
	if f, ok := c.(Fingerprinter); ok {
		fingerprint = f.Fingerprint()
	}

	outPath := report.OutputPath(opts.OutputDir, e.ID, opts.Format)
	if !opts.Force {
		changed, err := hasChanged(outPath, fingerprint, e.Text, e.KeyPoints)
		if err != nil {
			return &outcome{status: statusFailed, err: err}
		}
		if !changed {
			return &outcome{status: statusSkipped}
		}
	}

	doc, err := document.Load(e.Text)
	if err != nil {
		return &outcome{status: statusFailed, err: err}
	}
	kps, err := keypoints.Load(e.KeyPoints)
	if err != nil {
		return &outcome{status: statusFailed, err: err}
	}
	if kps.DocumentID == "" {
		kps.DocumentID = e.ID
	}
	if opts.AssignIDs {
		keypoints.AssignIDs(kps)
	}

	refs, err := c.Compute(doc.Text, kps.KeyPoints)
	if err != nil {
		return &outcome{status: statusFailed, err: err}
	}

	result := &types.LinkResult{
		DocumentID: e.ID,
		KeyPoints:  kps.KeyPoints,
		References: refs,
	}
	if err := report.WriteFile(outPath, result, opts.Format); err != nil {
		return &outcome{status: statusFailed, err: fmt.Errorf("write error: %w", err)}
	}
	if fingerprint != "" {
		if err := os.WriteFile(settingsPath(outPath), []byte(fingerprint+"\n"), 0o644); err != nil {
			return &outcome{status: statusFailed, err: fmt.Errorf("write error: %w", err)}
		}
	}

	total := 0
	for _, list := range refs {
		total += len(list)
	}
	return &outcome{status: statusLinked, refs: total}
}

// settingsPath is the file holding the fingerprint outPath was built with.
func settingsPath(outPath string) string {
	return outPath + ".settings"
}

// hasChanged reports whether outPath is missing, older than any input, or
// was built with settings other than fingerprint. An empty fingerprint
// skips the settings check.
func hasChanged(outPath, fingerprint string, inputs ...string) (bool, error) {
	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return false, fmt.Errorf("stat input %s: %w", in, err)
		}
		if info.ModTime().After(outInfo.ModTime()) {
			return true, nil
		}
	}

	if fingerprint == "" {
		return false, nil
	}
	stored, err := os.ReadFile(settingsPath(outPath))
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("reading settings for %s: %w", outPath, err)
	}
	return strings.TrimSpace(string(stored)) != fingerprint, nil
}
