package corpus

import (
	"errors"
	"fmt"
)

// Sentinel errors for corpus operations. The typed errors below unwrap to
// these, so callers can branch with errors.Is without caring which file
// triggered the failure.
var (
	// ErrNotFound indicates a lookup of a path absent from the store.
	ErrNotFound = errors.New("document not found")
	// ErrParse indicates a document that failed structural load.
	ErrParse = errors.New("document parse error")
	// ErrPattern indicates a syntactically invalid applyTo glob.
	ErrPattern = errors.New("invalid applyTo pattern")
)

// NotFoundError reports a Get for a path not present in the corpus.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %q not found in corpus", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ParseError reports a document that failed to load: unreadable content,
// invalid encoding, or malformed frontmatter. Load is all-or-nothing, so
// one ParseError fails the whole corpus and names the offending path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// PatternError reports a document whose applyTo value is not a valid
// glob. Raised at load time, never at match time.
type PatternError struct {
	Path    string
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: applyTo pattern %q is not a valid glob", e.Path, e.Pattern)
}

func (e *PatternError) Unwrap() error { return ErrPattern }
