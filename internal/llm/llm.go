// Package llm defines the hosted-model capabilities the RAG pipeline calls.
package llm

import "context"

// EmbedTask tells the embedding model how the vectors will be used.
type EmbedTask string

const (
	TaskDocument EmbedTask = "RETRIEVAL_DOCUMENT"
	TaskQuery    EmbedTask = "RETRIEVAL_QUERY"
)

// Embedder turns texts into vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string, task EmbedTask) ([][]float32, error)
}

// Generator produces text for a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
