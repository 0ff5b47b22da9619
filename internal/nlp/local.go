package nlp

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// WordTokenizer is an offline Tokenizer that splits on non-letter runes and
// keeps tokens of at least MinRunes runes. It does no morphological analysis,
// so Korean particles stay attached to their nouns.
type WordTokenizer struct {
	MinRunes  int
	Stopwords map[string]struct{}
}

// NewWordTokenizer creates a tokenizer keeping tokens of two or more runes.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{MinRunes: 2}
}

// Nouns returns the lower-cased word tokens of text.
func (w *WordTokenizer) Nouns(_ context.Context, text string) ([]string, error) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < w.MinRunes {
			continue
		}
		if _, stop := w.Stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens, nil
}

// HashingEmbedder is an offline Embedder built on feature hashing of the
// tokens of a Tokenizer. Vectors are L2-normalised.
type HashingEmbedder struct {
	Dimensions int
	Tokenizer  Tokenizer
}

// NewHashingEmbedder creates a hashing embedder with the given dimension.
func NewHashingEmbedder(dimensions int, tokenizer Tokenizer) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = 512
	}
	if tokenizer == nil {
		tokenizer = NewWordTokenizer()
	}
	return &HashingEmbedder{Dimensions: dimensions, Tokenizer: tokenizer}
}

// Encode embeds every text independently.
func (h *HashingEmbedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		tokens, err := h.Tokenizer.Nouns(ctx, text)
		if err != nil {
			return nil, err
		}
		vec := make([]float64, h.Dimensions)
		for _, tok := range tokens {
			hasher := fnv.New32a()
			_, _ = hasher.Write([]byte(tok))
			vec[int(hasher.Sum32()%uint32(h.Dimensions))]++
		}
		vectors[i] = Normalize(vec)
	}
	return vectors, nil
}
