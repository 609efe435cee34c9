// Package chunker splits markdown documents into bounded, addressable
// chunks for embedding. Chunks follow heading boundaries, carry their
// ancestor heading path, and never split a fenced code block.
package chunker

import (
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hasna/docdex"
)

// DefaultTargetTokens is the default chunk size budget in estimated
// tokens (see docdex.EstimateTokens).
const DefaultTargetTokens = 512

// Chunker splits markdown documents into chunks.
type Chunker struct {
	// TargetTokens is the chunk size budget. Chunks may be smaller at
	// section boundaries but only a single oversized code block may
	// exceed it.
	TargetTokens int
}

// New creates a Chunker with the default target size.
func New() *Chunker {
	return &Chunker{TargetTokens: DefaultTargetTokens}
}

// Split chunks each document along heading boundaries. Chunking is
// deterministic: identical input reproduces identical chunks, including
// their IDs.
func (c *Chunker) Split(files []docdex.DocFile) ([]docdex.Chunk, error) {
	target := c.TargetTokens
	if target <= 0 {
		target = DefaultTargetTokens
	}

	var chunks []docdex.Chunk
	for _, file := range files {
		if file.Path == "" {
			return nil, docdex.Errorf(docdex.EINVALID, "document file path required")
		}
		chunks = append(chunks, splitDocument(file, target)...)
	}
	return chunks, nil
}

// heading is one entry in the ancestor heading stack.
type heading struct {
	level int
	title string
}

// block is a parsed markdown block: a heading, a fenced code block, or a
// paragraph.
type block struct {
	kind     blockKind
	text     string // full block text, including fence markers for code
	level    int    // heading level, for kind == blockHeading
	language string // fence language tag, for kind == blockCode
}

type blockKind int

const (
	blockHeading blockKind = iota
	blockCode
	blockParagraph
)

func splitDocument(file docdex.DocFile, target int) []docdex.Chunk {
	var (
		chunks []docdex.Chunk
		stack  []heading
		buf    strings.Builder
	)

	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		chunks = append(chunks, newChunk(file.Path, stack, content, docdex.ChunkTypeText, ""))
	}

	for _, b := range parseBlocks(file.Content) {
		switch b.kind {
		case blockHeading:
			flush()
			for len(stack) > 0 && stack[len(stack)-1].level >= b.level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, heading{level: b.level, title: b.text})

		case blockCode:
			// A fence stays with its preceding prose when the
			// combination fits the budget; otherwise it becomes a
			// standalone code chunk, kept whole even when oversized.
			combined := docdex.EstimateTokens(buf.String()) + docdex.EstimateTokens(b.text) + 1
			if buf.Len() > 0 && combined <= target {
				buf.WriteString("\n\n")
				buf.WriteString(b.text)
				continue
			}
			flush()
			chunks = append(chunks, newChunk(file.Path, stack, b.text, docdex.ChunkTypeCode, b.language))

		case blockParagraph:
			for _, part := range splitLongText(b.text, target) {
				if buf.Len() > 0 && docdex.EstimateTokens(buf.String())+docdex.EstimateTokens(part)+1 > target {
					flush()
				}
				if buf.Len() > 0 {
					buf.WriteString("\n\n")
				}
				buf.WriteString(part)
			}
		}
	}
	flush()

	return chunks
}

func newChunk(filePath string, stack []heading, content string, typ docdex.ChunkType, language string) docdex.Chunk {
	hierarchy := make([]string, len(stack))
	for i, h := range stack {
		hierarchy[i] = h.title
	}

	title := path.Base(filePath)
	if len(hierarchy) > 0 {
		title = hierarchy[len(hierarchy)-1]
	}

	return docdex.Chunk{
		ID:               chunkID(filePath, hierarchy, content),
		Content:          content,
		Title:            title,
		Type:             typ,
		FilePath:         filePath,
		HeadingHierarchy: hierarchy,
		CodeLanguage:     language,
		TokenCount:       docdex.EstimateTokens(content),
	}
}

// chunkID derives a stable chunk identity from the source region, so
// re-chunking unchanged text reproduces identical IDs and re-indexing
// stays idempotent.
func chunkID(filePath string, hierarchy []string, content string) string {
	var sb strings.Builder
	sb.WriteString(filePath)
	sb.WriteByte(0)
	sb.WriteString(strings.Join(hierarchy, "\x1f"))
	sb.WriteByte(0)
	sb.WriteString(content)
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}

// parseBlocks splits markdown into heading, code fence, and paragraph
// blocks. Fences are never split; an unclosed fence runs to end of
// input.
func parseBlocks(markdown string) []block {
	lines := strings.Split(markdown, "\n")
	var blocks []block

	var para []string
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		blocks = append(blocks, block{
			kind: blockParagraph,
			text: strings.TrimSpace(strings.Join(para, "\n")),
		})
		para = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushPara()
			language := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			fence := []string{line}
			for i++; i < len(lines); i++ {
				fence = append(fence, lines[i])
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
			}
			blocks = append(blocks, block{
				kind:     blockCode,
				text:     strings.Join(fence, "\n"),
				language: language,
			})

		case headingLevel(trimmed) > 0:
			flushPara()
			level := headingLevel(trimmed)
			blocks = append(blocks, block{
				kind:  blockHeading,
				text:  strings.TrimSpace(trimmed[level:]),
				level: level,
			})

		case trimmed == "":
			flushPara()

		default:
			para = append(para, line)
		}
	}
	flushPara()

	return blocks
}

// headingLevel returns the ATX heading level (1-6) of a line, or 0 if
// the line is not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0
	}
	if level == len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

// splitLongText splits prose that alone exceeds the budget into pieces
// at whitespace near the character limit. Most paragraphs pass through
// unchanged.
func splitLongText(text string, targetTokens int) []string {
	limit := targetTokens * docdex.CharsPerToken
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := strings.LastIndexAny(text[:limit], " \t\n")
		if cut <= 0 {
			cut = limit
		}
		parts = append(parts, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
