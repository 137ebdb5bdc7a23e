// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pdiddy/source-linker/internal/cache"
	"github.com/pdiddy/source-linker/pkg/types"
)

// Memo wraps a Linker with a cache keyed on the text, the key points and the
// linker settings. Results are identical to calling the Linker directly; a
// failing cache only costs a recomputation.
type Memo struct {
	linker *Linker
	cache  cache.Cache
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo returns a Memo storing entries for ttl. A zero ttl uses the cache
// default.
func NewMemo(l *Linker, c cache.Cache, ttl time.Duration) *Memo {
	return &Memo{linker: l, cache: c, ttl: ttl}
}

// Compute returns the cached map for the inputs or computes and stores it.
func (m *Memo) Compute(originalText string, keyPoints []types.KeyPoint) (types.SourceReferenceMap, error) {
	key := m.key(originalText, keyPoints)

	if data, ok := m.cache.Get(key); ok {
		var refs types.SourceReferenceMap
		if err := json.Unmarshal(data, &refs); err == nil && refs != nil {
			m.hits.Add(1)
			return refs, nil
		}
		_ = m.cache.Delete(key)
	}
	m.misses.Add(1)

	refs, err := m.linker.Compute(originalText, keyPoints)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(refs); err == nil {
		_ = m.cache.Set(key, data, m.ttl)
	}
	return refs, nil
}

// Fingerprint returns the wrapped Linker's settings fingerprint.
func (m *Memo) Fingerprint() string {
	return m.linker.Fingerprint()
}

// Stats returns the number of cache hits and misses so far.
func (m *Memo) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}

func (m *Memo) key(text string, keyPoints []types.KeyPoint) string {
	parts := make([]string, 0, 2+4*len(keyPoints))
	parts = append(parts, m.linker.Fingerprint(), text)
	for _, kp := range keyPoints {
		parts = append(parts,
			kp.ID,
			kp.Text,
			string(kp.Category),
			strconv.FormatFloat(kp.Confidence, 'g', -1, 64),
		)
	}
	return cache.Key(parts...)
}
