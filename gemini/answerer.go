package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/hasna/docdex"
	"google.golang.org/genai"
)

const answerModel = "gemini-2.5-flash"

var _ docdex.Answerer = (*Answerer)(nil)

// Answerer implements docdex.Answerer using Google Gemini.
type Answerer struct {
	client *genai.Client
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(client *genai.Client) *Answerer {
	return &Answerer{client: client}
}

// Answer answers a natural language question grounded in the given
// documentation context.
func (a *Answerer) Answer(ctx context.Context, docsContext, question string) (string, error) {
	if docsContext == "" {
		return "", docdex.Errorf(docdex.EINVALID, "documentation context required")
	}
	if question == "" {
		return "", docdex.Errorf(docdex.EINVALID, "question required")
	}

	result, err := a.client.Models.GenerateContent(ctx, answerModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(docsContext, question)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docdex.Errorf(docdex.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software library documentation. Answer based only on the documentation provided. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved
// documentation and the question.
func BuildUserPrompt(docsContext, question string) string {
	var sb strings.Builder
	sb.WriteString("<documentation>\n")
	sb.WriteString(docsContext)
	sb.WriteString("\n</documentation>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
