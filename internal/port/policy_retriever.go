package port

import "context"

// PolicySnippet is one matched policy passage for a chunk, consumed only as
// a compliance-mention hint.
type PolicySnippet struct {
	Regime string
	Text   string
	Score  float64
}

// PolicyRetriever returns policy passages matching a chunk's text.
type PolicyRetriever interface {
	MatchPolicies(ctx context.Context, chunkText string) ([]PolicySnippet, error)
}
