package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds parallel file reads during Load.
const loadConcurrency = 8

// Store is an immutable, in-memory view of a loaded corpus.
type Store struct {
	docs  map[string]*Document
	paths []string // sorted relative paths
}

// Load walks dir, reads every Markdown file, and builds the store.
// Load is all-or-nothing: any unreadable file, malformed frontmatter, or
// invalid applyTo glob fails the whole load with an error naming the
// offending path. The returned store is read-only.
func Load(dir string) (*Store, error) {
	paths, err := discover(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, len(paths))

	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, relPath := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(relPath)))
			if err != nil {
				return &ParseError{Path: relPath, Err: err}
			}
			doc, err := parseDocument(relPath, content)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPath := make(map[string]*Document, len(docs))
	for _, doc := range docs {
		byPath[doc.Path] = doc
	}

	return &Store{docs: byPath, paths: paths}, nil
}

// discover collects the sorted relative paths of all corpus files in dir.
// Hidden files and directories are skipped, as are non-Markdown files.
func discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// parseDocument builds a Document from raw file content, validating the
// encoding and the applyTo pattern.
func parseDocument(relPath string, content []byte) (*Document, error) {
	if !utf8.Valid(content) {
		return nil, &ParseError{Path: relPath, Err: errors.New("content is not valid UTF-8")}
	}

	result, err := ExtractFrontmatter(string(content))
	if err != nil {
		// Attach the file to frontmatter errors for the load report.
		switch fe := err.(type) {
		case *FrontmatterError:
			fe.File = relPath
		case *UnknownFieldError:
			fe.File = relPath
		}
		return nil, &ParseError{Path: relPath, Err: err}
	}

	applyTo := strings.TrimSpace(result.Meta.ApplyTo)
	if applyTo == "" {
		applyTo = MatchAll
	}
	if !doublestar.ValidatePattern(applyTo) {
		return nil, &PatternError{Path: relPath, Pattern: applyTo}
	}

	return &Document{
		Path:           relPath,
		ApplyTo:        applyTo,
		Description:    strings.TrimSpace(result.Meta.Description),
		Body:           result.Body,
		HasFrontmatter: result.HasYAML,
	}, nil
}

// Get returns the document stored under the given relative path.
func (s *Store) Get(path string) (*Document, error) {
	doc, ok := s.docs[filepath.ToSlash(path)]
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return doc, nil
}

// All returns an iterator over all documents in path-sorted order.
// The sequence is finite and restartable.
func (s *Store) All() iter.Seq[*Document] {
	return func(yield func(*Document) bool) {
		for _, p := range s.paths {
			if !yield(s.docs[p]) {
				return
			}
		}
	}
}

// Paths returns the sorted relative paths of all documents.
func (s *Store) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of documents in the corpus.
func (s *Store) Len() int {
	return len(s.paths)
}
