package services

import (
	"context"

	"go.uber.org/zap"
)

// DefaultTopK is how many chunks are retrieved per query.
const DefaultTopK = 5

// Fixed answers for the two early-exit states of the pipeline.
const (
	MsgEmbeddingFailed = "Could not generate embedding for your query."
	MsgNoContext       = "No relevant information found."
)

// RAGService answers a query by embedding it, retrieving the most similar
// stored chunks, and forwarding both to the answer generator.
type RAGService interface {
	Answer(ctx context.Context, query string) (answer string, chunksUsed []string)
}

type ragServiceImpl struct {
	embedder  Embedder
	store     VectorStore
	generator Generator
	topK      int
	log       *zap.Logger
}

// NewRAGService wires the pipeline stages together. topK <= 0 falls back to
// DefaultTopK.
func NewRAGService(embedder Embedder, store VectorStore, generator Generator, topK int, log *zap.Logger) RAGService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ragServiceImpl{
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
		log:       log,
	}
}

// Answer runs the pipeline. Every step gets a single attempt; a failure
// short-circuits with a fixed message and no chunks.
func (s *ragServiceImpl) Answer(ctx context.Context, query string) (string, []string) {
	s.log.Info("starting rag pipeline")

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn("could not embed query", zap.Error(err))
		return MsgEmbeddingFailed, []string{}
	}

	chunks := s.store.QueryTopK(ctx, queryEmbedding, s.topK)
	if len(chunks) == 0 {
		s.log.Info("no relevant chunks retrieved")
		return MsgNoContext, []string{}
	}

	answer := s.generator.Generate(ctx, query, chunks)
	s.log.Info("rag response generated", zap.Int("chunks_used", len(chunks)))
	return answer, chunks
}
