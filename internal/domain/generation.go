package domain

import "context"

// Generator is the text-generation contract. A single prompt in, the raw
// model reply out. Callers own prompt construction and reply parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
