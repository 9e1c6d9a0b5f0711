// Package catalog extracts structured rule entries from guideline
// document bodies.
//
// Extraction is advisory, never authoritative: the source text is prose
// written for humans and AI context windows, not a machine grammar.
// Recognition is best-effort; anything that does not match the expected
// heading/bullet shape is skipped silently, and Parse never fails.
package catalog

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/docsteer/docsteer/internal/corpus"
)

// Snippet tags for example code blocks.
const (
	SnippetDo   = "do"
	SnippetDont = "dont"
)

// Snippet is an example code block attached to a rule entry.
type Snippet struct {
	Tag      string `json:"tag"` // "do" or "dont"
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
}

// Entry is a structured rule record extracted from a document.
type Entry struct {
	DocPath   string    `json:"doc_path"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Rationale string    `json:"rationale,omitempty"`
	Snippets  []Snippet `json:"snippets,omitempty"`
}

// Recognition patterns
var (
	// ## Vulnerabilities
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	// - **Never build SQL by concatenation**: use parameterized queries
	bulletPattern = regexp.MustCompile(`^\s*[-*+]\s+\*\*(.+?)\*\*[:.]?\s*(.*)$`)
	// **Never build SQL by concatenation.** Use parameterized queries.
	leadPattern = regexp.MustCompile(`^\*\*(.+?)\*\*[:.]?\s*(.*)$`)
	// ``` or ```java
	fencePattern = regexp.MustCompile("^```\\s*([A-Za-z0-9_+-]*)\\s*$")
)

// dont markers are checked first so "don't" never hits the "do" prefix.
var (
	dontMarkers = []string{"don't", "dont", "bad", "avoid", "incorrect", "never"}
	doMarkers   = []string{"do", "good", "prefer", "correct", "instead"}
)

// Parse extracts rule entries from a document body. It is pure and
// idempotent; parsing the same document twice yields identical results.
// Unparseable documents degrade to an empty slice.
func Parse(doc *corpus.Document) []Entry {
	var entries []Entry

	var (
		category   Category
		inCategory bool
		headingLvl int
		current    *Entry // last started entry, still accepting snippets
		snippetTag string // tag for the next fence, from a marker line
		inFence    bool
		fenceLang  string
		fenceLines []string
		wantRat    bool // current entry has no rationale yet
	)

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
		wantRat = false
	}

	scanner := bufio.NewScanner(strings.NewReader(doc.Body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if inFence {
			if fencePattern.MatchString(line) {
				if current != nil {
					tag := snippetTag
					if tag == "" {
						tag = SnippetDo
					}
					current.Snippets = append(current.Snippets, Snippet{
						Tag:      tag,
						Language: fenceLang,
						Code:     strings.Join(fenceLines, "\n"),
					})
				}
				inFence = false
				snippetTag = ""
				fenceLines = nil
				continue
			}
			fenceLines = append(fenceLines, line)
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			level := len(m[1])
			if c, ok := ParseCategory(m[2]); ok {
				category = c
				inCategory = true
				headingLvl = level
			} else if inCategory && level <= headingLvl {
				// A sibling or higher heading ends the category section;
				// deeper headings stay inside it.
				inCategory = false
			}
			continue
		}

		if m := fencePattern.FindStringSubmatch(line); m != nil {
			inFence = true
			fenceLang = m[1]
			fenceLines = nil
			continue
		}

		if !inCategory {
			continue
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &Entry{
				DocPath:   doc.Path,
				Category:  category,
				Title:     strings.TrimSpace(m[1]),
				Rationale: strings.TrimSpace(m[2]),
			}
			wantRat = current.Rationale == ""
			continue
		}

		if m := leadPattern.FindStringSubmatch(line); m != nil {
			if tag := markerTag(m[1]); tag != "" {
				snippetTag = tag
				continue
			}
			flush()
			current = &Entry{
				DocPath:   doc.Path,
				Category:  category,
				Title:     strings.TrimSpace(m[1]),
				Rationale: strings.TrimSpace(m[2]),
			}
			wantRat = current.Rationale == ""
			continue
		}

		if tag := markerTag(line); tag != "" {
			snippetTag = tag
			continue
		}

		// A plain text line directly after a bare title is its rationale.
		if wantRat && current != nil {
			if text := strings.TrimSpace(line); text != "" {
				current.Rationale = firstLine(text)
				wantRat = false
			}
		}
	}
	// Scanner errors cannot occur on a strings.Reader with a sized buffer;
	// a pathological line just ends extraction early, which is acceptable
	// for advisory parsing.
	flush()

	return entries
}

// ParseAll extracts entries from every document in the store, in the
// store's path order.
func ParseAll(store *corpus.Store) []Entry {
	var entries []Entry
	for doc := range store.All() {
		entries = append(entries, Parse(doc)...)
	}
	return entries
}

// ByCategory groups entries into a category-keyed map, preserving the
// input order within each category.
func ByCategory(entries []Entry) map[Category][]Entry {
	grouped := make(map[Category][]Entry)
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e)
	}
	return grouped
}

// markerTag classifies a short marker line ("Don't:", "**Good**",
// "❌ Bad") as a snippet tag. Returns "" for ordinary prose.
func markerTag(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.Trim(s, "*_`>#✅❌✓✗ \t")
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 24 {
		return ""
	}
	for _, m := range dontMarkers {
		if s == m || strings.HasPrefix(s, m+" ") {
			return SnippetDont
		}
	}
	for _, m := range doMarkers {
		if s == m || strings.HasPrefix(s, m+" ") {
			return SnippetDo
		}
	}
	return ""
}

// firstLine truncates a rationale to its first sentence-ish line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
