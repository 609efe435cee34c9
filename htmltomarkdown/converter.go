// Package htmltomarkdown converts extracted HTML content to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/hasna/docdex"
)

// Ensure Converter implements docdex.Converter at compile time.
var _ docdex.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. The commonmark plugin preserves
// fenced code blocks (inferring the language from language-* classes)
// and backtick-escapes inline code, doubling backticks when the code
// text itself contains one.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into normalized Markdown: trailing
// whitespace stripped per line, runs of 4+ blank lines collapsed to 2,
// exactly one trailing newline.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return normalize(result), nil
}

// normalize cleans up converter output without touching content lines.
func normalize(markdown string) string {
	lines := strings.Split(markdown, "\n")

	var out []string
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			continue
		}
		out = append(out, expandBlankRun(blanks)...)
		out = append(out, line)
		blanks = 0
	}

	return strings.Join(out, "\n") + "\n"
}

// expandBlankRun collapses runs of 4 or more blank lines to 2; shorter
// runs pass through unchanged.
func expandBlankRun(n int) []string {
	if n >= 4 {
		n = 2
	}
	return make([]string, n)
}
