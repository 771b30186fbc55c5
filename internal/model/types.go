// Package model talks to the hosted language model that extracts poster
// content from a source document. Its output is an opaque string; the
// ingestion pipeline makes no assumption that it is well-formed.
package model

import "context"

// Generator produces raw poster replies from model providers.
type Generator interface {
	// GeneratePoster asks the model to extract a poster from source text,
	// steered by a free-form style prompt.
	GeneratePoster(ctx context.Context, source, stylePrompt string) (string, error)

	// RevisePoster asks the model to revise an existing poster document
	// according to an instruction. currentJSON is the serialized document.
	RevisePoster(ctx context.Context, currentJSON, instruction string) (string, error)
}
