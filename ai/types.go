package ai

// EmbeddingResponse is the result of one embedding call.
type EmbeddingResponse struct {
	// Vectors holds one embedding per input text, in input order.
	Vectors [][]float32

	// TokensUsed is the token count billed by the provider for this call.
	TokensUsed int
}
