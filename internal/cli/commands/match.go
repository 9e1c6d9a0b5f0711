package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/catalog"
	"github.com/docsteer/docsteer/internal/cli/output"
	"github.com/docsteer/docsteer/internal/corpus"
	"github.com/docsteer/docsteer/internal/matcher"
)

// MatchOptions holds options for the match command.
type MatchOptions struct {
	Rules       bool // Include extracted rule entries per match
	Interactive bool // Start the match REPL
}

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	opts := &MatchOptions{}
	cmd := &cobra.Command{
		Use:   "match [path...]",
		Short: "Show which guideline documents govern a file path",
		Long: `For each given path, print the guideline documents whose applyTo
pattern matches it. All matches are returned; no precedence is defined
among them.

With --rules, each match also lists its extracted rule entries grouped
by category.`,
		Example: `  # Which guidelines govern a Java file?
  docsteer match src/main/java/Foo.java

  # Several paths at once, with rule entries
  docsteer match --rules src/app.ts src/app.component.html

  # Interactive query session
  docsteer match -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Interactive {
				return runMatchREPL(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("requires at least one path (or --interactive)")
			}
			return runMatch(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Rules, "rules", false, "Include extracted rule entries per match")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Start an interactive match session")

	return cmd
}

func runMatch(cmd *cobra.Command, paths []string, opts *MatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	m := matcher.New(cmdCtx.Store)

	results := make([]MatchResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, newMatchResult(p, m.Match(p), opts.Rules))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return matchJSON(r, results)
	case output.ModeMarkdown:
		return matchMarkdown(r, results, opts.Rules)
	default:
		return matchText(r, results, opts.Rules)
	}
}

// MatchResult is the outcome of matching one queried path.
type MatchResult struct {
	Path    string       `json:"path"`
	Matches []MatchedDoc `json:"matches"`
}

// MatchedDoc is one matching document, optionally with its rules
// grouped by category.
type MatchedDoc struct {
	Path        string                 `json:"path"`
	ApplyTo     string                 `json:"apply_to"`
	Description string                 `json:"description,omitempty"`
	Rules       map[string][]RuleBrief `json:"rules,omitempty"` // category label -> entries
}

// RuleBrief is the {title, rationale} record of the query output.
type RuleBrief struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale,omitempty"`
}

func newMatchResult(path string, docs []*corpus.Document, withRules bool) MatchResult {
	res := MatchResult{Path: path, Matches: make([]MatchedDoc, 0, len(docs))}
	for _, doc := range docs {
		md := MatchedDoc{
			Path:        doc.Path,
			ApplyTo:     doc.ApplyTo,
			Description: doc.Description,
		}
		if withRules {
			md.Rules = groupRules(catalog.Parse(doc))
		}
		res.Matches = append(res.Matches, md)
	}
	return res
}

// groupRules maps category labels to ordered {title, rationale} records.
func groupRules(entries []catalog.Entry) map[string][]RuleBrief {
	if len(entries) == 0 {
		return nil
	}
	grouped := make(map[string][]RuleBrief)
	for _, e := range entries {
		label := e.Category.String()
		grouped[label] = append(grouped[label], RuleBrief{
			Title:     e.Title,
			Rationale: e.Rationale,
		})
	}
	return grouped
}

func matchText(r *output.Renderer, results []MatchResult, withRules bool) error {
	styles := r.Styles()

	for _, res := range results {
		r.Println("")
		r.Println(styles.Header2.Render(res.Path))

		if len(res.Matches) == 0 {
			r.Println(styles.Muted.Render("  no matching guidelines"))
			continue
		}

		for _, md := range res.Matches {
			r.Printf("  %s  %s\n", styles.Bold.Render(md.Path), styles.Muted.Render(md.ApplyTo))
			if md.Description != "" {
				r.Println(styles.Muted.Render("      " + md.Description))
			}
			if withRules {
				for _, cat := range catalog.Categories() {
					for _, rb := range md.Rules[cat.String()] {
						r.Printf("      [%s] %s\n", cat, rb.Title)
					}
				}
			}
		}
	}
	r.Println("")

	return nil
}

func matchMarkdown(r *output.Renderer, results []MatchResult, withRules bool) error {
	for _, res := range results {
		r.Println(output.FormatHeader(2, res.Path))
		r.Println("")

		if len(res.Matches) == 0 {
			r.Println("No matching guidelines.")
			r.Println("")
			continue
		}

		for _, md := range res.Matches {
			r.Printf("- **%s** (`%s`)\n", md.Path, md.ApplyTo)
			if md.Description != "" {
				r.Printf("  %s\n", md.Description)
			}
			if withRules {
				for _, cat := range catalog.Categories() {
					for _, rb := range md.Rules[cat.String()] {
						r.Printf("  - [%s] %s\n", cat, rb.Title)
					}
				}
			}
		}
		r.Println("")
	}

	return nil
}

// MatchJSONOutput is the JSON output structure for the match command.
type MatchJSONOutput struct {
	Results []MatchResult `json:"results"`
}

func matchJSON(r *output.Renderer, results []MatchResult) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(MatchJSONOutput{Results: results})
}
