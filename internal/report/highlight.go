// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/source-linker/pkg/types"
)

// checkRange reports an error when ref does not describe a slice of text.
func checkRange(text string, ref types.SourceReference) error {
	if ref.StartPosition < 0 || ref.StartPosition >= ref.EndPosition || ref.EndPosition > len(text) {
		return fmt.Errorf("reference %d-%d out of range for text of length %d",
			ref.StartPosition, ref.EndPosition, len(text))
	}
	if text[ref.StartPosition:ref.EndPosition] != ref.SourceText {
		return fmt.Errorf("reference %d-%d does not match the document text", ref.StartPosition, ref.EndPosition)
	}
	return nil
}

// Highlight returns text with the referenced range wrapped in open and
// close markers.
func Highlight(text string, ref types.SourceReference, open, close string) (string, error) {
	if err := checkRange(text, ref); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text) + len(open) + len(close))
	b.WriteString(text[:ref.StartPosition])
	b.WriteString(open)
	b.WriteString(ref.SourceText)
	b.WriteString(close)
	b.WriteString(text[ref.EndPosition:])
	return b.String(), nil
}

// Excerpt returns the referenced range with up to window bytes of context
// on each side, trimmed to word boundaries. Elided context is marked with
// "...".
func Excerpt(text string, ref types.SourceReference, window int) (string, error) {
	if err := checkRange(text, ref); err != nil {
		return "", err
	}
	if window < 0 {
		window = 0
	}

	ctxStart := max(ref.StartPosition-window, 0)
	for ctxStart > 0 && !utf8.RuneStart(text[ctxStart]) {
		ctxStart--
	}
	ctxEnd := min(ref.EndPosition+window, len(text))
	for ctxEnd < len(text) && !utf8.RuneStart(text[ctxEnd]) {
		ctxEnd++
	}

	before := text[ctxStart:ref.StartPosition]
	after := text[ref.EndPosition:ctxEnd]

	// Drop a word cut by either edge of the window.
	if ctxStart > 0 && !isSpaceByte(text[ctxStart-1]) {
		if i := strings.IndexAny(before, wordBreaks); i >= 0 {
			before = before[i+1:]
		} else {
			before = ""
		}
	}
	if ctxEnd < len(text) && !isSpaceByte(text[ctxEnd]) {
		if i := strings.LastIndexAny(after, wordBreaks); i >= 0 {
			after = after[:i]
		} else {
			after = ""
		}
	}

	snippet := strings.TrimSpace(before + ref.SourceText + after)
	if ctxStart > 0 {
		snippet = "..." + snippet
	}
	if ctxEnd < len(text) {
		snippet += "..."
	}
	return snippet, nil
}

const wordBreaks = " \t\r\n"

func isSpaceByte(b byte) bool {
	return strings.IndexByte(wordBreaks, b) >= 0
}
