package corpus

import (
	"os"
	"path/filepath"
)

// Issue is one problem found while verifying a corpus.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Verify reads every corpus file under dir and collects all load
// problems instead of stopping at the first, the way Load does. It
// returns the issues and the number of documents that parsed cleanly.
func Verify(dir string) ([]Issue, int, error) {
	paths, err := discover(dir)
	if err != nil {
		return nil, 0, err
	}

	var issues []Issue
	clean := 0
	for _, relPath := range paths {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(relPath)))
		if err != nil {
			issues = append(issues, Issue{Path: relPath, Message: err.Error(), Err: err})
			continue
		}
		if _, err := parseDocument(relPath, content); err != nil {
			issues = append(issues, Issue{Path: relPath, Message: err.Error(), Err: err})
			continue
		}
		clean++
	}

	return issues, clean, nil
}
