package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category labels a rule entry with one of the fixed severity/kind
// buckets used across guideline documents.
type Category int

// The fixed category set. Entries under any other heading are skipped.
const (
	CategoryVulnerability Category = iota
	CategoryBug
	CategoryCodeSmell
	CategorySecurityHotspot
	CategoryBestPractice
	CategoryAccessibility
	CategoryConvention
)

// String returns the canonical display label of the category.
func (c Category) String() string {
	switch c {
	case CategoryVulnerability:
		return "Vulnerability"
	case CategoryBug:
		return "Bug"
	case CategoryCodeSmell:
		return "Code Smell"
	case CategorySecurityHotspot:
		return "Security Hotspot"
	case CategoryBestPractice:
		return "Best Practice"
	case CategoryAccessibility:
		return "Accessibility"
	case CategoryConvention:
		return "Convention"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so categories serialize
// as their display label in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryVulnerability,
		CategoryBug,
		CategoryCodeSmell,
		CategorySecurityHotspot,
		CategoryBestPractice,
		CategoryAccessibility,
		CategoryConvention,
	}
}

var titleCaser = cases.Title(language.English)

// categoryByLabel maps title-cased singular labels to categories.
var categoryByLabel = map[string]Category{
	"Vulnerability":    CategoryVulnerability,
	"Bug":              CategoryBug,
	"Code Smell":       CategoryCodeSmell,
	"Security Hotspot": CategorySecurityHotspot,
	"Best Practice":    CategoryBestPractice,
	"Accessibility":    CategoryAccessibility,
	"Convention":       CategoryConvention,
}

// ParseCategory converts a heading label to a Category. Matching is
// case-insensitive and accepts plural forms ("Code Smells", "bugs").
// Returns the category and true if valid.
func ParseCategory(s string) (Category, bool) {
	label := titleCaser.String(strings.TrimSpace(s))
	if c, ok := categoryByLabel[label]; ok {
		return c, true
	}
	// Plural headings are the common form in guideline documents.
	if stem, ok := strings.CutSuffix(label, "ies"); ok {
		if c, ok := categoryByLabel[stem+"y"]; ok {
			return c, true
		}
	}
	if singular, ok := strings.CutSuffix(label, "s"); ok {
		if c, ok := categoryByLabel[singular]; ok {
			return c, true
		}
	}
	return CategoryConvention, false
}
