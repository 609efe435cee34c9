package docdex

// CharsPerToken is the fixed characters-per-token ratio used to
// approximate language-model token counts. Retrieval budgets and chunk
// sizing both depend on this exact ratio; changing it changes observable
// output sizes everywhere.
const CharsPerToken = 4

// EstimateTokens returns a deterministic token estimate for text based
// on the CharsPerToken ratio. It is intentionally not a real tokenizer.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}
