package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/catalog"
	"github.com/docsteer/docsteer/internal/cli/output"
	"github.com/docsteer/docsteer/internal/corpus"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all guideline documents in the corpus",
		Long: `List all loaded guideline documents with their applyTo pattern,
description, and extracted rule count.

Output adapts to environment:
  - Terminal: Styled table output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all documents (auto-detect output format)
  docsteer list

  # List documents as JSON
  docsteer list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(cmdCtx.Store, r)
	case output.ModeMarkdown:
		return listMarkdown(cmdCtx.Store, r)
	default:
		return listText(cmdCtx.Store, r)
	}
}

// listText outputs documents as a styled table.
func listText(store *corpus.Store, r *output.Renderer) error {
	r.Header(1, fmt.Sprintf("Guideline Documents (%d total)", store.Len()))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Document", "Applies To", "Rules", "Description"})

	for doc := range store.All() {
		t.AppendRow(table.Row{
			doc.Path,
			doc.ApplyTo,
			len(catalog.Parse(doc)),
			doc.Description,
		})
	}

	t.Render()
	return nil
}

// listMarkdown outputs documents in markdown format.
func listMarkdown(store *corpus.Store, r *output.Renderer) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Guideline Documents (%d total)", store.Len())))
	r.Println("")

	for doc := range store.All() {
		r.Println(output.FormatHeader(2, doc.Path))
		r.Println(output.FormatKeyValue("Applies To", "`"+doc.ApplyTo+"`"))
		if doc.Description != "" {
			r.Println(output.FormatKeyValue("Description", doc.Description))
		}
		if n := len(catalog.Parse(doc)); n > 0 {
			r.Println(output.FormatKeyValue("Rules", fmt.Sprintf("%d", n)))
		}
		r.Println("")
	}

	return nil
}

// DocumentInfo is the JSON shape of a listed document.
type DocumentInfo struct {
	Path        string `json:"path"`
	ApplyTo     string `json:"apply_to"`
	Description string `json:"description,omitempty"`
	RuleCount   int    `json:"rule_count"`
}

// ListOutput is the JSON output structure for the list command.
type ListOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Total     int            `json:"total"`
}

// listJSON outputs documents in JSON format.
func listJSON(store *corpus.Store, r *output.Renderer) error {
	out := ListOutput{
		Documents: make([]DocumentInfo, 0, store.Len()),
		Total:     store.Len(),
	}

	for doc := range store.All() {
		out.Documents = append(out.Documents, DocumentInfo{
			Path:        doc.Path,
			ApplyTo:     doc.ApplyTo,
			Description: doc.Description,
			RuleCount:   len(catalog.Parse(doc)),
		})
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
