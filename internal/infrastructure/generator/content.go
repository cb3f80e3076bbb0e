package generator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markdownExtensions are the content file suffixes the site serves.
var markdownExtensions = []string{".md", ".markdown"}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// contentTree renders a sorted listing of the markdown files under root for
// inclusion in the generation prompt. A missing root is not an error: the
// model is instructed to produce a helpful page either way.
func contentTree(root string) string {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil || len(files) == 0 {
		return "(no content files found)"
	}
	sort.Strings(files)
	return strings.Join(files, "\n")
}

// listPages maps every markdown file under the pages directory to its URL
// path using directory-aware mapping: about.md serves /about/,
// products/index.md serves /products/, and the top-level index.md serves
// the site root.
func listPages(root string) (map[string]string, error) {
	pagesRoot := filepath.Join(root, "pages")
	pages := make(map[string]string)

	if _, err := os.Stat(pagesRoot); os.IsNotExist(err) {
		return pages, nil
	}

	err := filepath.WalkDir(pagesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(pagesRoot, path)
		if relErr != nil {
			return relErr
		}
		pages[urlPathFor(filepath.ToSlash(rel))] = filepath.ToSlash(path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content root %s: %w", root, err)
	}
	return pages, nil
}

// urlPathFor converts a pages-relative markdown path to its URL path.
func urlPathFor(rel string) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	parts := strings.Split(base, "/")

	if parts[len(parts)-1] == "index" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/") + "/"
}
