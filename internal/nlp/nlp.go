// Package nlp defines the text capabilities the grouping engine depends on
// and adapters for the model services that provide them.
package nlp

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned when an embedder answers with a different
// number of vectors than texts it was given.
var ErrLengthMismatch = errors.New("embedding count does not match input count")

// Embedder maps texts to fixed-size dense vectors. Encode is batched and
// order-preserving: result[i] belongs to texts[i].
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Tokenizer extracts the noun tokens used as the lexical vocabulary.
type Tokenizer interface {
	Nouns(ctx context.Context, text string) ([]string, error)
}

// EmbedderFunc adapts a plain function to Embedder.
type EmbedderFunc func(ctx context.Context, texts []string) ([][]float64, error)

// Encode calls f.
func (f EmbedderFunc) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(ctx context.Context, text string) ([]string, error)

// Nouns calls f.
func (f TokenizerFunc) Nouns(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// Normalize scales v to unit length in place. Zero vectors are left untouched.
func Normalize(v []float64) []float64 {
	if norm := floats.Norm(v, 2); norm > 0 {
		floats.Scale(1/norm, v)
	}
	return v
}
