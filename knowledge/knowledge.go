// Package knowledge loads the university document corpus and answers
// retrieval queries over it with a keyword index.
package knowledge

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Document is one source file of the corpus.
type Document struct {
	Source string // slash-separated path relative to the corpus root
	Text   string
}

// DefaultPatterns selects the text formats the loader understands.
var DefaultPatterns = []string{"**/*.md", "**/*.txt"}

// Load reads every file of fsys matching any of patterns. Matches are
// deduplicated and returned in path order. Empty files are skipped.
func Load(fsys fs.FS, patterns ...string) ([]Document, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	seen := make(map[string]bool)
	var paths []string
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("knowledge: invalid pattern %q", p)
		}
		matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("knowledge: glob %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	slices.Sort(paths)

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("knowledge: read %s: %w", p, err)
		}
		text := strings.ReplaceAll(string(data), "\r\n", "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{Source: p, Text: text})
	}
	return docs, nil
}
