package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ServiceClient talks to an external model service that hosts the sentence
// embedding model (POST /encode) and the morphological analyzer (POST /nouns).
type ServiceClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Embedder = (*ServiceClient)(nil)
var _ Tokenizer = (*ServiceClient)(nil)

// NewServiceClient creates a reusable HTTP client. A zero timeout means no timeout.
func NewServiceClient(endpoint, apiKey string, timeout time.Duration) *ServiceClient {
	return &ServiceClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Encode sends the whole batch in one request.
func (c *ServiceClient) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	var resp struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := c.post(ctx, "/encode", map[string]any{"texts": texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrLengthMismatch, len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

// Nouns asks the service for the nouns of text.
func (c *ServiceClient) Nouns(ctx context.Context, text string) ([]string, error) {
	var resp struct {
		Nouns []string `json:"nouns"`
	}
	if err := c.post(ctx, "/nouns", map[string]any{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Nouns, nil
}

func (c *ServiceClient) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
