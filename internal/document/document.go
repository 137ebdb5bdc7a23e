// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document loads original document text from local files.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pdiddy/source-linker/pkg/types"
)

// FormatFor maps a file extension to a document format.
func FormatFor(path string) (types.DocumentFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".txt", ".text":
		return types.FormatText, nil
	case ".md", ".markdown":
		return types.FormatMarkdown, nil
	case ".html", ".htm":
		return types.FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", ext)
	}
}

// Load reads the document at path. Text and Markdown files are returned
// verbatim so reference offsets line up with the file contents. HTML files
// are reduced to their visible text with block elements separated by blank
// lines.
func Load(path string) (*types.Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	var text string
	switch format {
	case types.FormatHTML:
		text, err = VisibleText(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing HTML %s: %w", path, err)
		}
	default:
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("document %s is not valid UTF-8", path)
		}
		text = string(data)
	}

	return &types.Document{
		ID:     DocumentID(path),
		Path:   path,
		Format: format,
		Text:   text,
	}, nil
}

// DocumentID is the file's base name without its extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"template": true,
}

// block elements start and end a paragraph.
var block = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// VisibleText parses HTML from r and returns its visible text, one
// paragraph per block element, paragraphs separated by a blank line.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.Data] {
				return
			}
			if block[n.Data] {
				buf.WriteString("\n\n")
				defer buf.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(collapse(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var paras []string
	for _, p := range strings.Split(buf.String(), "\n\n") {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			paras = append(paras, p)
		}
	}
	return strings.Join(paras, "\n\n"), nil
}

// collapse folds whitespace runs in s to single spaces, keeping one space
// at either end when s had whitespace there.
func collapse(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) {
		out = " " + out
	}
	if last, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(last) {
		out += " "
	}
	return out
}
