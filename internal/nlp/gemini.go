package nlp

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultGeminiEmbeddingModel is the Gemini model used for article embeddings.
	DefaultGeminiEmbeddingModel = "text-embedding-004"
	// geminiMaxBatch is the request limit of BatchEmbedContents.
	geminiMaxBatch = 100
)

// GeminiEmbedder produces embeddings with the Gemini batch embedding API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	batchSize int
}

// NewGeminiEmbedder creates an embedder for the given model name.
func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY or embedding.api_key)")
	}
	if modelName == "" {
		modelName = DefaultGeminiEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeClustering

	return &GeminiEmbedder{
		client:    client,
		model:     model,
		batchSize: geminiMaxBatch,
	}, nil
}

// Encode embeds texts, splitting them into API-sized batches.
func (g *GeminiEmbedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))

	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))

		batch := g.model.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := g.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("%w: sent %d, got %d", ErrLengthMismatch, end-start, len(resp.Embeddings))
		}

		for _, emb := range resp.Embeddings {
			vec := make([]float64, len(emb.Values))
			for i, v := range emb.Values {
				vec[i] = float64(v)
			}
			vectors = append(vectors, vec)
		}
	}

	return vectors, nil
}

// Close releases the underlying client.
func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}
