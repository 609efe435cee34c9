package docdex

import "context"

// QueryResult is the terminal artifact of a semantic query: assembled
// answer text, the distinct source file paths that contributed to it (in
// first-contribution order), and the raw matches actually used.
type QueryResult struct {
	Content string         `json:"content"`
	Sources []string       `json:"sources"`
	Chunks  []SearchResult `json:"chunks"`
}

// Answerer produces a natural-language answer to a question, grounded on
// previously retrieved documentation context.
type Answerer interface {
	Answer(ctx context.Context, docsContext, question string) (string, error)
}
