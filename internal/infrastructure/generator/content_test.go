package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContentFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# page\n"), 0o644))
}

func TestListPagesDirectoryAwareMapping(t *testing.T) {
	root := t.TempDir()
	writeContentFile(t, root, "pages/index.md")
	writeContentFile(t, root, "pages/about.md")
	writeContentFile(t, root, "pages/products/index.md")
	writeContentFile(t, root, "pages/products/item1.md")
	writeContentFile(t, root, "pages/notes.markdown")
	writeContentFile(t, root, "layouts/default.md") // not under pages/
	writeContentFile(t, root, "pages/readme.txt")   // not markdown

	pages, err := listPages(root)
	require.NoError(t, err)

	assert.Len(t, pages, 5)
	assert.Contains(t, pages, "/")
	assert.Contains(t, pages, "/about/")
	assert.Contains(t, pages, "/products/")
	assert.Contains(t, pages, "/products/item1/")
	assert.Contains(t, pages, "/notes/")
	assert.NotContains(t, pages, "/readme/")
}

func TestListPagesMissingRoot(t *testing.T) {
	pages, err := listPages(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestURLPathFor(t *testing.T) {
	cases := map[string]string{
		"index.md":          "/",
		"about.md":          "/about/",
		"products/index.md": "/products/",
		"products/item1.md": "/products/item1/",
		"a/b/c.markdown":    "/a/b/c/",
	}
	for rel, want := range cases {
		assert.Equal(t, want, urlPathFor(rel), "rel %q", rel)
	}
}

func TestContentTreeListsMarkdownFiles(t *testing.T) {
	root := t.TempDir()
	writeContentFile(t, root, "pages/about.md")
	writeContentFile(t, root, "layouts/default.md")

	tree := contentTree(root)
	assert.Contains(t, tree, "pages/about.md")
	assert.Contains(t, tree, "layouts/default.md")
}

func TestContentTreeEmptyRoot(t *testing.T) {
	assert.Equal(t, "(no content files found)", contentTree(t.TempDir()))
}
