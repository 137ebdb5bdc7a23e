// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linker maps extracted key points back to the ranges of the
// original document text that support them.
//
// The original text is split into sentence and paragraph spans. Each key
// point is scored against every span by token containment: the fraction of
// the key point's content words that also occur in the span. Spans scoring
// above the threshold are ranked, capped, and returned in reading order.
package linker

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pdiddy/source-linker/pkg/types"
)

// Linker computes SourceReferenceMaps. A Linker holds only immutable
// settings and is safe for concurrent use.
type Linker struct {
	threshold     float64
	maxReferences int
	keepStopwords bool
}

// New returns a Linker for cfg. Zero values in cfg use the defaults.
func New(cfg types.LinkerConfig) (*Linker, error) {
	cfg = cfg.WithDefaults()
	if cfg.Threshold < 0 || cfg.Threshold >= 1 {
		return nil, fmt.Errorf("threshold %v out of range [0,1)", cfg.Threshold)
	}
	if cfg.MaxReferences < 0 {
		return nil, fmt.Errorf("max references %d must not be negative", cfg.MaxReferences)
	}
	return &Linker{
		threshold:     cfg.Threshold,
		maxReferences: cfg.MaxReferences,
		keepStopwords: cfg.KeepStopwords,
	}, nil
}

// Config returns the effective settings of l.
func (l *Linker) Config() types.LinkerConfig {
	return types.LinkerConfig{
		Threshold:     l.threshold,
		MaxReferences: l.maxReferences,
		KeepStopwords: l.keepStopwords,
	}
}

// Fingerprint identifies the settings that affect Compute's output. Two
// Linkers with equal fingerprints return equal maps for equal inputs.
func (l *Linker) Fingerprint() string {
	return fmt.Sprintf("threshold=%s max_references=%d keep_stopwords=%t",
		strconv.FormatFloat(l.threshold, 'g', -1, 64), l.maxReferences, l.keepStopwords)
}

var defaultLinker = &Linker{
	threshold:     types.DefaultThreshold,
	maxReferences: types.DefaultMaxReferences,
}

// ComputeSourceReferences links keyPoints to originalText using the default
// settings: threshold 0.3, at most 3 references per key point, stopwords
// ignored.
func ComputeSourceReferences(originalText string, keyPoints []types.KeyPoint) (types.SourceReferenceMap, error) {
	return defaultLinker.Compute(originalText, keyPoints)
}

// candidate is a span that cleared the threshold for one key point.
type candidate struct {
	span
	score float64
}

// indexedSpan is a span with its tokens computed once per call.
type indexedSpan struct {
	span
	tokens map[string]struct{}
}

// Compute returns a map with one entry per key point ID. Invalid key points
// fail the whole call with an error matching ErrInvalidKeyPoint; no partial
// map is returned.
func (l *Linker) Compute(originalText string, keyPoints []types.KeyPoint) (types.SourceReferenceMap, error) {
	if err := ValidateKeyPoints(keyPoints); err != nil {
		return nil, err
	}

	refs := make(types.SourceReferenceMap, len(keyPoints))
	if len(keyPoints) == 0 {
		return refs, nil
	}

	spans := l.index(originalText)
	for _, kp := range keyPoints {
		refs[kp.ID] = l.link(originalText, spans, kp)
	}
	return refs, nil
}

func (l *Linker) index(text string) []indexedSpan {
	segments := segment(text)
	spans := make([]indexedSpan, len(segments))
	for i, s := range segments {
		spans[i] = indexedSpan{span: s, tokens: tokenSet(text[s.start:s.end])}
	}
	return spans
}

// link scores every span against kp and returns the kept references sorted
// by start offset.
func (l *Linker) link(text string, spans []indexedSpan, kp types.KeyPoint) []types.SourceReference {
	query := queryTokens(kp.Text, l.keepStopwords)

	var kept []candidate
	for _, s := range spans {
		if score := containment(query, s.tokens); score > l.threshold {
			kept = append(kept, candidate{span: s.span, score: score})
		}
	}

	// Best first; equal scores keep the earlier span.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].start < kept[j].start
	})
	if len(kept) > l.maxReferences {
		kept = kept[:l.maxReferences]
	}
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].start < kept[j].start
	})

	out := make([]types.SourceReference, 0, len(kept))
	for _, c := range kept {
		mustBeInRange(c.start, c.end, len(text))
		out = append(out, types.SourceReference{
			StartPosition: c.start,
			EndPosition:   c.end,
			SourceText:    text[c.start:c.end],
		})
	}
	return out
}
