package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Generator produces a natural-language answer for a query given retrieved
// context chunks. It never returns an error: failures come back as a marked
// placeholder string that is still a valid answer.
type Generator interface {
	Generate(ctx context.Context, query string, contextChunks []string) string
}

// GeminiGenerator answers via a single-turn Gemini chat completion. Session
// history is deliberately not forwarded; every call is one user-role message.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGeminiGenerator(client *genai.Client, model string, log *zap.Logger) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model, log: log}
}

// buildPrompt assembles the fixed instruction, the context chunks separated
// by blank lines, and the literal query.
func buildPrompt(query string, contextChunks []string) string {
	return "Use the following context to answer the user query.\n\n" +
		"Context:\n" + strings.Join(contextChunks, "\n\n") + "\n\n" +
		"Query:\n" + query
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, query string, contextChunks []string) string {
	prompt := buildPrompt(query, contextChunks)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.log.Error("gemini api call failed", zap.Error(err))
		return fmt.Sprintf("[ERROR] Failed to generate response: %v", err)
	}

	if len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		g.log.Warn("gemini returned no candidates")
		return "I'm sorry, I couldn't generate a response."
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	g.log.Info("generated response from gemini")
	return sb.String()
}
