package matcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsteer/docsteer/internal/corpus"
)

func loadStore(t *testing.T, files map[string]string) *corpus.Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	store, err := corpus.Load(dir)
	require.NoError(t, err)
	return store
}

func matchPaths(m *Matcher, p string) []string {
	var out []string
	for _, doc := range m.Match(p) {
		out = append(out, doc.Path)
	}
	return out
}

func TestMatch(t *testing.T) {
	m := New(loadStore(t, map[string]string{
		"java.md":    "---\napplyTo: '**/*.java'\n---\n",
		"html.md":    "---\napplyTo: '**/*.html'\n---\n",
		"ts.md":      "---\napplyTo: '**/*.ts'\n---\n",
		"general.md": "# No frontmatter, governs everything\n",
	}))

	assert.Equal(t, []string{"general.md", "java.md"}, matchPaths(m, "src/main/java/Foo.java"))
	assert.Equal(t, []string{"general.md", "ts.md"}, matchPaths(m, "src/app.ts"))
	assert.Equal(t, []string{"general.md", "html.md"}, matchPaths(m, "src/app.component.html"))
	assert.Equal(t, []string{"general.md"}, matchPaths(m, "README.md"))
}

func TestMatchOrderIsPathSorted(t *testing.T) {
	m := New(loadStore(t, map[string]string{
		"zz.md": "---\napplyTo: '**/*.go'\n---\n",
		"aa.md": "---\napplyTo: '**/*.go'\n---\n",
		"mm.md": "---\napplyTo: '**/*.go'\n---\n",
	}))

	assert.Equal(t, []string{"aa.md", "mm.md", "zz.md"}, matchPaths(m, "pkg/x.go"))
}

func TestMatchEmptyCorpus(t *testing.T) {
	store, err := corpus.Load(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, New(store).Match("anything/at/all.go"))
}

func TestMatchPathNormalization(t *testing.T) {
	// The pattern contains a slash, so the basename fallback never
	// applies; every variant below must match through normalization.
	m := New(loadStore(t, map[string]string{
		"go.md": "---\napplyTo: 'pkg/**/*.go'\n---\n",
	}))

	for _, p := range []string{
		"pkg/util/strings.go",
		"./pkg/util/strings.go",
		"/pkg/util/strings.go",
		"pkg//util/strings.go",
		`pkg\util\strings.go`,
	} {
		assert.Equal(t, []string{"go.md"}, matchPaths(m, p), "path %q", p)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/app.ts", "src/app.ts"},
		{"./src/app.ts", "src/app.ts"},
		{"/src/app.ts", "src/app.ts"},
		{"src//app.ts", "src/app.ts"},
		{"src/../app.ts", "app.ts"},
		{`src\app.ts`, "src/app.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		pattern   string
		candidate string
		want      bool
	}{
		{"**", "anything/anywhere.txt", true},
		{"", "anything.txt", true},
		{"**/*.java", "src/main/java/Foo.java", true},
		{"**/*.java", "Foo.java", true},
		{"**/*.java", "src/app.ts", false},
		{"docs/**", "docs/guide/intro.md", true},
		{"docs/**", "src/docs.md", false},
		{"src/*.go", "src/main.go", true},
		{"src/*.go", "src/sub/main.go", false},
		{"**/*.{ts,html}", "src/app.component.html", true},
		{"**/*.{ts,html}", "src/app.css", false},

		// Slashless patterns also match the basename.
		{"*.java", "src/main/java/Foo.java", true},
		{"Makefile", "build/Makefile", true},
		{"*.java", "src/Foo.kt", false},
	}

	for _, tt := range tests {
		got := PatternMatches(tt.pattern, tt.candidate)
		assert.Equal(t, tt.want, got, "pattern %q candidate %q", tt.pattern, tt.candidate)
	}
}
