// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"fmt"
	"strings"
	"unicode"
)

// span is a candidate sentence or paragraph in the original text. start and
// end are byte offsets of the trimmed span.
type span struct {
	start int
	end   int
}

// segment splits text into sentence-like spans. A span ends after '.', '!'
// or '?' (plus any closing quotes or brackets) when followed by whitespace
// or the end of text, and at paragraph breaks. Spans are trimmed of
// surrounding whitespace and whitespace-only spans are dropped.
func segment(text string) []span {
	var spans []span
	start := 0

	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '.' || c == '!' || c == '?':
			j := i + 1
			for j < len(text) && isCloser(text[j]) {
				j++
			}
			if j == len(text) || isSpace(text[j]) {
				spans = appendTrimmed(spans, text, start, j)
				start, i = j, j
				continue
			}
		case c == '\n':
			if next, ok := paragraphBreak(text, i); ok {
				spans = appendTrimmed(spans, text, start, i)
				start, i = next, next
				continue
			}
		}
		i++
	}

	return appendTrimmed(spans, text, start, len(text))
}

// paragraphBreak reports whether the newline at i starts a blank line and
// returns the offset just past the run of whitespace that follows.
func paragraphBreak(text string, i int) (int, bool) {
	j := i + 1
	for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\r') {
		j++
	}
	if j >= len(text) || text[j] != '\n' {
		return 0, false
	}
	for j < len(text) && isSpace(text[j]) {
		j++
	}
	return j, true
}

// appendTrimmed trims text[start:end] and appends it unless it is empty.
func appendTrimmed(spans []span, text string, start, end int) []span {
	raw := text[start:end]
	left := strings.TrimLeftFunc(raw, unicode.IsSpace)
	start += len(raw) - len(left)
	end = start + len(strings.TrimRightFunc(left, unicode.IsSpace))
	if start == end {
		return spans
	}
	mustBeInRange(start, end, len(text))
	return append(spans, span{start: start, end: end})
}

// mustBeInRange panics when a span falls outside the text. Segmentation
// only ever narrows ranges of the input, so this indicates a bug.
func mustBeInRange(start, end, length int) {
	if start < 0 || start >= end || end > length {
		panic(fmt.Sprintf("linker: span [%d,%d) outside text of length %d", start, end, length))
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isCloser(c byte) bool {
	switch c {
	case '"', '\'', ')', ']', '}':
		return true
	}
	return false
}
