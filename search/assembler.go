// Package search implements semantic retrieval: embedding a query,
// fetching nearest chunks from the vector index, and assembling a
// token-budgeted markdown context for consumption by language models.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/hasna/docdex"
)

// Retrieval defaults.
const (
	DefaultTopK      = 10
	DefaultMaxTokens = 8000

	// dedupPrefixLen is the number of leading content characters used
	// to detect near-duplicate chunks across pages.
	dedupPrefixLen = 100

	truncationMarker = "\n\n[content truncated]"
)

// Options configures a semantic search.
type Options struct {
	// TopK is the number of chunks to retrieve. Defaults to DefaultTopK.
	TopK int

	// MaxTokens is the approximate token budget for the assembled
	// context. Defaults to DefaultMaxTokens.
	MaxTokens int
}

// Assembler retrieves relevant chunks for a query and assembles them
// into a readable markdown context.
type Assembler struct {
	Embedder docdex.Embedder
	Index    docdex.VectorIndex
}

// NewAssembler creates an Assembler.
func NewAssembler(embedder docdex.Embedder, index docdex.VectorIndex) *Assembler {
	return &Assembler{Embedder: embedder, Index: index}
}

// SemanticSearch embeds the query, retrieves the nearest chunks from
// the named index, and assembles them into markdown grouped by source
// file, within the token budget.
//
// An empty index yields an empty result, not an error. Embedding or
// index failures are returned as-is.
func (a *Assembler) SemanticSearch(ctx context.Context, indexName, query string, opts Options) (*docdex.QueryResult, error) {
	if query == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "query required")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	results, err := a.retrieve(ctx, indexName, query, topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &docdex.QueryResult{Sources: []string{}, Chunks: []docdex.SearchResult{}}, nil
	}

	groups := groupByFile(results)
	content, sources, included := assemble(groups, maxTokens*docdex.CharsPerToken)

	return &docdex.QueryResult{
		Content: content,
		Sources: sources,
		Chunks:  included,
	}, nil
}

// SearchAsJSON embeds the query and returns the deduplicated top-K
// chunks verbatim, without markdown assembly.
func (a *Assembler) SearchAsJSON(ctx context.Context, indexName, query string, topK int) ([]docdex.SearchResult, error) {
	if query == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "query required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return a.retrieve(ctx, indexName, query, topK)
}

// retrieve embeds the query and returns up to topK deduplicated
// results in descending score order. The index is over-fetched at 2x so
// deduplication doesn't starve the final result set.
func (a *Assembler) retrieve(ctx context.Context, indexName, query string, topK int) ([]docdex.SearchResult, error) {
	vector, err := a.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := a.Index.Query(ctx, indexName, vector, topK*2)
	if err != nil {
		return nil, err
	}

	deduped := dedupByContentPrefix(results)
	if len(deduped) > topK {
		deduped = deduped[:topK]
	}
	return deduped, nil
}

// dedupByContentPrefix drops results whose leading content matches an
// earlier result. Results arrive in descending score order, so the
// highest-scoring copy of duplicated content survives.
func dedupByContentPrefix(results []docdex.SearchResult) []docdex.SearchResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]docdex.SearchResult, 0, len(results))
	for _, r := range results {
		prefix := r.Metadata.Content
		if len(prefix) > dedupPrefixLen {
			prefix = prefix[:dedupPrefixLen]
		}
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		deduped = append(deduped, r)
	}
	return deduped
}

// fileGroup is the chunks retrieved from one source file.
type fileGroup struct {
	filePath string
	title    string
	topScore float64
	chunks   []docdex.SearchResult
}

// groupByFile buckets results by source file, ordering groups by their
// best chunk's score so the most relevant file leads the context.
func groupByFile(results []docdex.SearchResult) []*fileGroup {
	byPath := make(map[string]*fileGroup)
	var groups []*fileGroup

	for _, r := range results {
		g, ok := byPath[r.Metadata.FilePath]
		if !ok {
			g = &fileGroup{
				filePath: r.Metadata.FilePath,
				title:    r.Metadata.Title,
				topScore: r.Score,
			}
			byPath[r.Metadata.FilePath] = g
			groups = append(groups, g)
		}
		if r.Score > g.topScore {
			g.topScore = r.Score
		}
		g.chunks = append(g.chunks, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].topScore > groups[j].topScore
	})

	return groups
}

// assemble renders chunks as markdown under the character budget,
// appending chunk by chunk across file groups and stopping at the first
// chunk that no longer fits. It returns the content, the source files
// that contributed, and the chunks actually included. The Sources
// trailer is appended after budget accounting so it never crowds out
// content.
func assemble(groups []*fileGroup, budget int) (string, []string, []docdex.SearchResult) {
	var sb strings.Builder
	sources := []string{}
	included := []docdex.SearchResult{}
	remaining := budget

	for _, g := range groups {
		contributed := false
		for _, chunk := range g.chunks {
			piece := renderChunk(g, chunk, !contributed)

			if len(piece) > remaining {
				// The very first chunk must contribute something even
				// when it alone exceeds the budget.
				if len(included) == 0 && remaining > len(truncationMarker) {
					sb.WriteString(piece[:remaining-len(truncationMarker)])
					sb.WriteString(truncationMarker)
					included = append(included, chunk)
					sources = append(sources, g.filePath)
				}
				return withSources(&sb, sources), sources, included
			}

			sb.WriteString(piece)
			remaining -= len(piece)
			included = append(included, chunk)
			if !contributed {
				sources = append(sources, g.filePath)
				contributed = true
			}
		}
	}

	return withSources(&sb, sources), sources, included
}

// withSources appends the trailer listing contributing source files, in
// first-contribution order.
func withSources(sb *strings.Builder, sources []string) string {
	if sb.Len() == 0 {
		return ""
	}
	sb.WriteString("\nSources:\n")
	for _, s := range sources {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderChunk renders one chunk, preceded by its file's section heading
// when the chunk is the file's first contribution.
func renderChunk(g *fileGroup, chunk docdex.SearchResult, first bool) string {
	var sb strings.Builder

	heading := g.title
	if heading == "" {
		heading = g.filePath
	}
	if first {
		sb.WriteString("## ")
		sb.WriteString(heading)
		sb.WriteString("\n\n")
	}
	if chunk.Metadata.Title != "" && chunk.Metadata.Title != heading {
		sb.WriteString("### ")
		sb.WriteString(chunk.Metadata.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.TrimSpace(chunk.Metadata.Content))
	sb.WriteString("\n\n")

	return sb.String()
}
