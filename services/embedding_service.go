package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/docuchat/ragserver/models"
)

// EmbeddingModel is the model name sent in every embedContent request.
const EmbeddingModel = "models/embedding-001"

// Embedder converts a text into a numeric vector. A returned error means "no
// embedding"; it never carries partial results.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder calls the Gemini embedContent REST endpoint, one request
// per text unit.
type GeminiEmbedder struct {
	httpClient *http.Client
	url        string
	apiKey     string
	log        *zap.Logger
}

func NewGeminiEmbedder(client *http.Client, url, apiKey string, log *zap.Logger) *GeminiEmbedder {
	return &GeminiEmbedder{
		httpClient: client,
		url:        url,
		apiKey:     apiKey,
		log:        log,
	}
}

// Embed implements Embedder. All failure modes (transport errors, non-200
// statuses, missing response fields) are logged and surfaced as a plain
// error for the caller to short-circuit on.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(models.EmbedContentRequest{
		Model: EmbeddingModel,
		Content: models.EmbedContent{
			Parts: []models.EmbedPart{{Text: text}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	url := e.url + "?key=" + e.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		e.log.Error("embedding api call failed", zap.Error(err))
		return nil, fmt.Errorf("failed to call embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		e.log.Error("embedding api returned non-200 status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", bodyBytes))
		return nil, fmt.Errorf("embedding api returned status %d", resp.StatusCode)
	}

	var embedResp models.EmbedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		e.log.Error("failed to decode embedding response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(embedResp.Embedding.Values) == 0 {
		e.log.Error("embedding response missing values")
		return nil, fmt.Errorf("embedding response missing values")
	}
	return embedResp.Embedding.Values, nil
}
