// Package fs exports crawled documentation as markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hasna/docdex"
)

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// FormatPage formats a crawled page with YAML frontmatter.
func FormatPage(page *docdex.CrawledPage) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\ncrawled: ")
	b.WriteString(page.CrawledAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	return b.String()
}

// Writer writes crawled pages as markdown files to a directory,
// mirroring the site's URL structure.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WritePage writes one page to disk as a markdown file.
func (w *Writer) WritePage(ctx context.Context, page *docdex.CrawledPage) error {
	if page.URL == "" {
		return docdex.Errorf(docdex.EINVALID, "page URL required")
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatPage(page)), 0644)
}

// WritePages writes all pages, stopping at the first failure.
func (w *Writer) WritePages(ctx context.Context, pages []*docdex.CrawledPage) error {
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WritePage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}
