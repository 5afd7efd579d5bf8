package chat

// EstimateTokens approximates the token count of text as ceil(len/4).
// This is deliberately crude, not a real tokenizer: budgets derived from it
// are soft, and nothing in the pipeline assumes token-exactness.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
