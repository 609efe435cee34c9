package mock

import (
	"context"

	"github.com/hasna/docdex"
)

var _ docdex.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of docdex.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, docsContext, question string) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, docsContext, question string) (string, error) {
	return a.AnswerFn(ctx, docsContext, question)
}
