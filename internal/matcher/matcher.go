// Package matcher selects the guideline documents governing a file path.
package matcher

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/docsteer/docsteer/internal/corpus"
)

// Matcher answers which documents in a store govern a candidate path.
// Patterns are validated when the store is loaded, so matching never
// fails.
type Matcher struct {
	store *corpus.Store
}

// New creates a matcher over a loaded store.
func New(store *corpus.Store) *Matcher {
	return &Matcher{store: store}
}

// Match returns every document whose applyTo glob matches the candidate
// path, in path-sorted order. No precedence is defined among matches;
// merge/override policy is left to the consumer.
func (m *Matcher) Match(filePath string) []*corpus.Document {
	candidate := Normalize(filePath)

	var out []*corpus.Document
	for doc := range m.store.All() {
		if PatternMatches(doc.ApplyTo, candidate) {
			out = append(out, doc)
		}
	}
	return out
}

// Normalize converts a candidate path to the clean, slash-separated,
// root-relative form patterns are matched against. Backslash separators
// are rewritten unconditionally; candidates are queries about target
// files, not names on the local filesystem.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

// PatternMatches reports whether a single applyTo glob matches a
// normalized path. Patterns without a slash also match against the
// basename, so `*.java` governs nested Java files the way editor
// guideline scoping does.
func PatternMatches(pattern, candidate string) bool {
	if pattern == "" || pattern == corpus.MatchAll {
		return true
	}

	ok, err := doublestar.Match(pattern, candidate)
	if err != nil {
		// Unreachable for patterns validated at load time.
		return false
	}
	if ok {
		return true
	}

	if !strings.Contains(pattern, "/") {
		ok, _ = doublestar.Match(pattern, path.Base(candidate))
		return ok
	}
	return false
}
