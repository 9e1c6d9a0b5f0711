package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/catalog"
	"github.com/docsteer/docsteer/internal/cli/output"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Category string // Filter by category label
	Doc      string // Filter by document path
	Format   string // Output format override
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [title]",
		Short: "List rule entries extracted from the corpus",
		Long: `List the structured rule entries extracted from guideline documents,
grouped by category (Vulnerability, Bug, Code Smell, Security Hotspot,
Best Practice, Accessibility, Convention).

Extraction is advisory: entries that do not match the recognized
heading/bullet shape are skipped, and a prose-only document simply
contributes no entries.

Given a title argument, show that entry in full, including its do/don't
example snippets.`,
		Example: `  # List all extracted rules
  docsteer rules

  # List only vulnerabilities
  docsteer rules --category Vulnerability

  # Rules from one document
  docsteer rules --doc java.instructions.md

  # Show one rule in full
  docsteer rules "Never build SQL by concatenation"

  # Output as JSON
  docsteer rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, strings.Join(args, " "), opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category")
	cmd.Flags().StringVar(&opts.Doc, "doc", "", "Filter by document path")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	entries := catalog.ParseAll(cmdCtx.Store)
	entries, err = filterEntries(entries, opts)
	if err != nil {
		return err
	}

	// The global -v flag also expands the listing with rationales.
	verbose := cmdCtx.Config.Verbose

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, entries)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, entries, verbose)
	default:
		return listRulesText(r, entries, verbose)
	}
}

func filterEntries(entries []catalog.Entry, opts *RulesOptions) ([]catalog.Entry, error) {
	if opts.Category == "" && opts.Doc == "" {
		return entries, nil
	}

	var wantCategory catalog.Category
	if opts.Category != "" {
		c, ok := catalog.ParseCategory(opts.Category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", opts.Category)
		}
		wantCategory = c
	}

	var filtered []catalog.Entry
	for _, e := range entries {
		if opts.Category != "" && e.Category != wantCategory {
			continue
		}
		if opts.Doc != "" && e.DocPath != opts.Doc {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func showRule(cmd *cobra.Command, title string, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	var rule *catalog.Entry
	for _, e := range catalog.ParseAll(cmdCtx.Store) {
		if strings.EqualFold(e.Title, title) {
			rule = &e
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", title)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, rule)
	default:
		return showRuleText(r, rule)
	}
}

// listRulesText outputs rules in styled text format, grouped by category.
func listRulesText(r *output.Renderer, entries []catalog.Entry, verbose bool) error {
	styles := r.Styles()
	grouped := catalog.ByCategory(entries)

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Rule Entries (%d total)", len(entries))))
	r.Println("")

	for _, cat := range catalog.Categories() {
		catEntries := grouped[cat]
		if len(catEntries) == 0 {
			continue
		}
		r.Println(styles.Header2.Render(cat.String()))
		for _, e := range catEntries {
			r.Printf("  %s  %s\n", styles.Muted.Render(e.DocPath), e.Title)
			if verbose && e.Rationale != "" {
				r.Println(styles.Muted.Render("      " + e.Rationale))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(`Use 'docsteer rules "<title>"' for detailed documentation`))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, entries []catalog.Entry, verbose bool) error {
	grouped := catalog.ByCategory(entries)

	r.Println(output.FormatHeader(1, "Rule Entries"))
	r.Println("")

	for _, cat := range catalog.Categories() {
		catEntries := grouped[cat]
		if len(catEntries) == 0 {
			continue
		}
		r.Println(output.FormatHeader(2, cat.String()))
		r.Println("")
		for _, e := range catEntries {
			r.Printf("- **%s** (`%s`)\n", e.Title, e.DocPath)
			if verbose && e.Rationale != "" {
				r.Println("  > " + e.Rationale)
			}
		}
		r.Println("")
	}

	return nil
}

// RulesJSONOutput is the JSON output structure for the rules listing.
type RulesJSONOutput struct {
	Rules []catalog.Entry `json:"rules"`
	Count map[string]int  `json:"count"` // category label -> entries
	Total int             `json:"total"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, entries []catalog.Entry) error {
	jsonOutput := RulesJSONOutput{
		Rules: entries,
		Count: make(map[string]int),
		Total: len(entries),
	}
	for _, e := range entries {
		jsonOutput.Count[e.Category.String()]++
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *catalog.Entry) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(rule.Title))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Category"), rule.Category)
	r.Printf("  %s: %s\n", styles.Bold.Render("Document"), rule.DocPath)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	for _, s := range rule.Snippets {
		label := "Do"
		style := styles.Success
		if s.Tag == catalog.SnippetDont {
			label = "Don't"
			style = styles.Error
		}
		r.Println(styles.Bold.Render(label))
		for _, line := range strings.Split(s.Code, "\n") {
			r.Println(style.Render("  " + line))
		}
		r.Println("")
	}

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *catalog.Entry) error {
	r.Printf("# %s\n\n", rule.Title)
	r.Printf("**Category:** %s | **Document:** `%s`\n\n", rule.Category, rule.DocPath)

	if rule.Rationale != "" {
		r.Println(rule.Rationale)
		r.Println("")
	}

	for _, s := range rule.Snippets {
		label := "Do"
		if s.Tag == catalog.SnippetDont {
			label = "Don't"
		}
		r.Println(output.FormatHeader(2, label))
		r.Println("")
		r.Println("```" + s.Language)
		r.Println(s.Code)
		r.Println("```")
		r.Println("")
	}

	return nil
}
