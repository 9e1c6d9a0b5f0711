package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsteer/docsteer/internal/cli/config"
	"github.com/docsteer/docsteer/internal/cli/testutil"
)

// runCLI executes the root command with captured output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestListJSON(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "list", "-d", dir, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Documents []struct {
			Path      string `json:"path"`
			ApplyTo   string `json:"apply_to"`
			RuleCount int    `json:"rule_count"`
		} `json:"documents"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Documents, 3)
	assert.Equal(t, "general.md", got.Documents[0].Path)
	assert.Equal(t, "java.instructions.md", got.Documents[1].Path)
	assert.Equal(t, "notes.md", got.Documents[2].Path)

	assert.Equal(t, "**/*.java", got.Documents[1].ApplyTo)
	assert.Equal(t, 1, got.Documents[1].RuleCount)
	// Missing applyTo defaults to the catch-all pattern.
	assert.Equal(t, "**", got.Documents[2].ApplyTo)
	assert.Equal(t, 0, got.Documents[2].RuleCount)
}

func TestListMarkdown(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "list", "-d", dir, "-o", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Guideline Documents (3 total)")
	assert.Contains(t, stdout, "## java.instructions.md")
	assert.Contains(t, stdout, "- **Applies To:** `**/*.java`")
	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
}

func TestListAutoResolvesToMarkdownWhenPiped(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	// No -o flag; buffers are not a TTY, so auto must pick markdown.
	stdout, _, err := runCLI(t, "list", "-d", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Guideline Documents (3 total)")
	testutil.AssertNoANSI(t, stdout)
}

func TestMatchJSON(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "match", "-d", dir, "-o", "json", "src/main/java/Foo.java")
	require.NoError(t, err)

	var got struct {
		Results []struct {
			Path    string `json:"path"`
			Matches []struct {
				Path    string `json:"path"`
				ApplyTo string `json:"apply_to"`
			} `json:"matches"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	require.Len(t, got.Results, 1)
	assert.Equal(t, "src/main/java/Foo.java", got.Results[0].Path)

	var paths []string
	for _, m := range got.Results[0].Matches {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"general.md", "java.instructions.md", "notes.md"}, paths)
}

func TestMatchNoMatches(t *testing.T) {
	dir := t.TempDir()
	content := "---\napplyTo: '**/*.java'\n---\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "java.md"), []byte(content), 0644))

	stdout, _, err := runCLI(t, "match", "-d", dir, "-o", "markdown", "src/app.ts")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No matching guidelines")
}

func TestMatchWithRules(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "match", "-d", dir, "-o", "markdown", "--rules", "src/Foo.java")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[Vulnerability] Never build SQL by concatenation")
	assert.Contains(t, stdout, "[Convention] Use descriptive names")
}

func TestMatchRequiresPath(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	_, _, err := runCLI(t, "match", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least one path")
}

func TestRulesJSON(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "rules", "-d", dir, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Rules []struct {
			DocPath  string `json:"doc_path"`
			Category string `json:"category"`
			Title    string `json:"title"`
		} `json:"rules"`
		Count map[string]int `json:"count"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Count["Vulnerability"])
	assert.Equal(t, 1, got.Count["Convention"])
}

func TestRulesCategoryFilter(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "rules", "-d", dir, "-o", "json", "--category", "vulnerabilities")
	require.NoError(t, err)

	var got struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 1, got.Total)
}

func TestRulesUnknownCategory(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	_, _, err := runCLI(t, "rules", "-d", dir, "--category", "Performance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestRulesDocFilter(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "rules", "-d", dir, "-o", "json", "--doc", "general.md")
	require.NoError(t, err)

	var got struct {
		Rules []struct {
			DocPath string `json:"doc_path"`
		} `json:"rules"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Equal(t, 1, got.Total)
	assert.Equal(t, "general.md", got.Rules[0].DocPath)
}

func TestRulesShow(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "rules", "-d", dir, "-o", "json", "never build sql by concatenation")
	require.NoError(t, err)

	var got struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Snippets []struct {
			Tag      string `json:"tag"`
			Language string `json:"language"`
		} `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, "Never build SQL by concatenation", got.Title)
	assert.Equal(t, "Vulnerability", got.Category)
	require.Len(t, got.Snippets, 2)
	assert.Equal(t, "do", got.Snippets[0].Tag)
	assert.Equal(t, "dont", got.Snippets[1].Tag)
	assert.Equal(t, "java", got.Snippets[0].Language)
}

func TestRulesShowNotFound(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	_, _, err := runCLI(t, "rules", "-d", dir, "No Such Rule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckValidCorpus(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)

	stdout, _, err := runCLI(t, "check", "-d", dir, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Issues []any `json:"issues"`
		Clean  int   `json:"clean"`
		Total  int   `json:"total"`
		OK     bool  `json:"ok"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.True(t, got.OK)
	assert.Equal(t, 3, got.Clean)
	assert.Empty(t, got.Issues)
}

func TestCheckBrokenCorpus(t *testing.T) {
	dir := testutil.SetupTestCorpus(t)
	testutil.WriteDoc(t, dir, "bad.md", "---\napplyTo: '**/[unclosed'\n---\n")

	stdout, _, err := runCLI(t, "check", "-d", dir, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")

	var got struct {
		Issues []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"issues"`
		OK bool `json:"ok"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.False(t, got.OK)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "bad.md", got.Issues[0].Path)
	assert.Contains(t, got.Issues[0].Message, "not a valid glob")
}

func TestCheckFindsAllIssues(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDoc(t, dir, "one.md", "---\napplyTo: '**/[a'\n---\n")
	testutil.WriteDoc(t, dir, "two.md", "---\nunknown_key: true\n---\n")
	testutil.WriteDoc(t, dir, "three.md", "# Fine\n")

	stdout, _, err := runCLI(t, "check", "-d", dir, "-o", "json")
	require.Error(t, err)

	var got struct {
		Issues []any `json:"issues"`
		Clean  int   `json:"clean"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Len(t, got.Issues, 2)
	assert.Equal(t, 1, got.Clean)
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, Version, got.Version)
	assert.NotEmpty(t, got.GoVersion)
}

func TestLoadErrorNamesOffendingFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDoc(t, dir, "broken.md", "---\napplyTo: [unclosed\n---\n")

	_, _, err := runCLI(t, "list", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}
