// Package corpus loads and holds a guideline document corpus.
//
// A corpus is a directory tree of Markdown instruction files. Each file may
// declare, via YAML frontmatter, an applyTo glob naming the target file
// paths it governs. Documents are loaded once and immutable afterwards; a
// loaded Store is safe for concurrent readers without locking.
package corpus

import "strings"

// MatchAll is the applyTo pattern that governs every path. Documents
// without an applyTo key behave as if they declared it.
const MatchAll = "**"

// Document is a single guideline file in the corpus.
type Document struct {
	// Path is the slash-separated path relative to the corpus root.
	Path string `json:"path"`
	// ApplyTo is the glob declaring which file paths this document
	// governs. Never empty after load; defaults to MatchAll.
	ApplyTo string `json:"apply_to"`
	// Description is the optional frontmatter description.
	Description string `json:"description,omitempty"`
	// Body is the document text with the frontmatter block removed.
	Body string `json:"-"`
	// HasFrontmatter reports whether a frontmatter block was present.
	HasFrontmatter bool `json:"-"`
}

// Name returns the document's base file name without the .md suffix.
// "java.instructions.md" becomes "java.instructions".
func (d *Document) Name() string {
	name := d.Path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".md")
}

// AppliesToAll reports whether the document governs every path.
func (d *Document) AppliesToAll() bool {
	return d.ApplyTo == MatchAll
}
