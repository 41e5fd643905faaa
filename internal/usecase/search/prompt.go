package search

import (
	"fmt"
	"strings"
)

// noHistoryText stands in for the HISTORY block when the user has no prior
// searches (or history could not be read).
const noHistoryText = "No previous searches"

// promptTemplate is the single instruction prompt for the relevance filter.
// The output contract is strict: a comma-separated list of numeric product
// IDs drawn from the context, most relevant first, at most ten.
const promptTemplate = `You are a helpful fashion assistant for the StyleMe e-commerce store. Analyze the context and provide relevant product recommendations.

PRODUCT CONTEXT:
%s

USER SEARCH HISTORY:
%s

CURRENT QUERY: %s

TASK: Return only a comma-separated list of the most relevant product IDs (numbers only) from the context above. Consider the user's query and search history to provide personalized recommendations. Maximum %d product IDs, ordered by relevance.

RESPONSE FORMAT: Only product IDs separated by commas (example: 12, 45, 8)

Product IDs:`

// BuildPrompt assembles the relevance-filter prompt from the formatted
// context, the user's recent queries (most recent first), and the current
// query.
func BuildPrompt(contextBlock string, history []string, query string, maxIDs int) string {
	return fmt.Sprintf(promptTemplate, contextBlock, FormatHistory(history), query, maxIDs)
}

// FormatHistory joins prior queries for the prompt's HISTORY block.
func FormatHistory(history []string) string {
	if len(history) == 0 {
		return noHistoryText
	}
	return strings.Join(history, ", ")
}
