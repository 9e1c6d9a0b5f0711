package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCorpus lays out files under a fresh temp directory.
func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"java.md":      "---\napplyTo: '**/*.java'\ndescription: 'Java rules'\n---\n\n# Java\n",
		"nested/ts.md": "---\napplyTo: '**/*.ts'\n---\n\n# TypeScript\n",
		"plain.md":     "# No Frontmatter\n\nProse only.\n",
		"ignored.txt":  "not markdown",
		".hidden.md":   "---\napplyTo: '**'\n---\n",
	})

	store, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []string{"java.md", "nested/ts.md", "plain.md"}, store.Paths())

	doc, err := store.Get("java.md")
	require.NoError(t, err)
	assert.Equal(t, "**/*.java", doc.ApplyTo)
	assert.Equal(t, "Java rules", doc.Description)
	assert.True(t, doc.HasFrontmatter)
	assert.Equal(t, "java", doc.Name())
}

func TestLoadMissingApplyTo(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"plain.md":   "# Prose\n",
		"partial.md": "---\ndescription: 'Described but unscoped'\n---\n\n# Partial\n",
	})

	store, err := Load(dir)
	require.NoError(t, err)

	for doc := range store.All() {
		assert.Equal(t, MatchAll, doc.ApplyTo, "document %s", doc.Path)
		assert.True(t, doc.AppliesToAll())
	}

	doc, err := store.Get("partial.md")
	require.NoError(t, err)
	assert.Equal(t, "Described but unscoped", doc.Description)
}

func TestLoadInvalidPattern(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"good.md": "---\napplyTo: '**/*.go'\n---\n",
		"bad.md":  "---\napplyTo: '**/[unclosed'\n---\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPattern)

	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.md", pe.Path)
	assert.Equal(t, "**/[unclosed", pe.Pattern)
}

func TestLoadMalformedFrontmatter(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"broken.md": "---\napplyTo: [unclosed\n---\n\nBody.\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestLoadUnknownFrontmatterField(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"extra.md": "---\napplyTo: '**'\npriority: 1\n---\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "priority")
}

func TestLoadInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.md"), []byte{0xff, 0xfe, 0x00}, 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadDirErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = Load(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadEmptyDir(t *testing.T) {
	store, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Paths())
}

func TestGetNotFound(t *testing.T) {
	store, err := Load(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("nope.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "nope.md", nfe.Path)
}

func TestAllIsRestartable(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "# A\n",
		"b.md": "# B\n",
		"c.md": "# C\n",
	})
	store, err := Load(dir)
	require.NoError(t, err)

	collect := func() []string {
		var paths []string
		for doc := range store.All() {
			paths = append(paths, doc.Path)
		}
		return paths
	}

	first := collect()
	second := collect()
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, first)
	assert.Equal(t, first, second)

	// Early break must not poison later iterations.
	for range store.All() {
		break
	}
	assert.Equal(t, first, collect())
}

func TestVerify(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"good.md":  "---\napplyTo: '**/*.go'\n---\n",
		"bad.md":   "---\napplyTo: '**/[unclosed'\n---\n",
		"worse.md": "---\napplyTo: [unclosed\n---\n",
	})

	issues, clean, err := Verify(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, clean)
	require.Len(t, issues, 2)

	// Issues come back in path order.
	assert.Equal(t, "bad.md", issues[0].Path)
	assert.Equal(t, "worse.md", issues[1].Path)
	assert.ErrorIs(t, issues[0].Err, ErrPattern)
	assert.ErrorIs(t, issues[1].Err, ErrParse)
}

func TestVerifyCleanCorpus(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "# Fine\n",
	})

	issues, clean, err := Verify(dir)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 1, clean)
}
