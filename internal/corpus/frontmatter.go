package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents the parsed YAML frontmatter of a guideline
// document. Unknown fields cause parse errors.
type Frontmatter struct {
	ApplyTo     string `yaml:"applyTo"`
	Description string `yaml:"description"`
}

// FrontmatterResult holds the result of frontmatter extraction.
type FrontmatterResult struct {
	Meta    *Frontmatter
	Body    string // document text after the frontmatter block
	HasYAML bool   // whether a frontmatter block was found
}

// frontmatterPattern matches a leading --- ... --- block. The content
// group may be empty, so a bare `---\n---` header still counts as
// frontmatter.
var frontmatterPattern = regexp.MustCompile(`(?s)\A\s*---\s*\n((?:.*?\n)?)---\s*(?:\n|\z)`)

// ExtractFrontmatter extracts YAML frontmatter from document content.
// Content without a frontmatter block is returned as-is with an empty
// Frontmatter; a present but malformed block is an error.
func ExtractFrontmatter(content string) (*FrontmatterResult, error) {
	result := &FrontmatterResult{
		Meta: &Frontmatter{},
		Body: content,
	}

	matches := frontmatterPattern.FindStringSubmatch(content)
	if matches == nil {
		return result, nil
	}

	result.HasYAML = true
	result.Body = strings.TrimLeft(frontmatterPattern.ReplaceAllString(content, ""), "\n")

	meta, err := parseFrontmatterYAML(matches[1])
	if err != nil {
		return nil, err
	}

	result.Meta = meta
	return result, nil
}

// parseFrontmatterYAML parses YAML content with strict field validation.
func parseFrontmatterYAML(yamlContent string) (*Frontmatter, error) {
	// First, decode into a map to check for unknown fields
	var rawMap map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &rawMap); err != nil {
		return nil, &FrontmatterError{
			Message: fmt.Sprintf("invalid YAML: %v", err),
		}
	}

	knownFields := map[string]bool{
		"applyTo":     true,
		"description": true,
	}

	for field := range rawMap {
		if !knownFields[field] {
			return nil, &UnknownFieldError{Field: field}
		}
	}

	var meta Frontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return nil, &FrontmatterError{
			Message: fmt.Sprintf("failed to parse frontmatter: %v", err),
		}
	}

	return &meta, nil
}

// FrontmatterError represents a frontmatter parsing error.
type FrontmatterError struct {
	File    string
	Message string
}

func (e *FrontmatterError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError represents an error for unknown frontmatter fields.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q in frontmatter", e.Field)
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}
