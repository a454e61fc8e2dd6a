package services

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VectorStore persists (chunk, embedding, metadata) records and retrieves
// the chunks most similar to a query embedding.
type VectorStore interface {
	// AddRecords bulk-inserts one record per chunk. chunks and vectors must
	// have the same length; metadata carries the owning file id and the
	// chunk's position within it.
	AddRecords(ctx context.Context, chunks []string, vectors [][]float32, fileID, contentHash string) error
	// QueryTopK returns up to k chunk texts, most-similar first. Store
	// errors are logged and yield an empty result.
	QueryTopK(ctx context.Context, embedding []float32, k int) []string
	// IndexedHashes returns the content hashes of every indexed document.
	IndexedHashes(ctx context.Context) (map[string]struct{}, error)
}

// ChromaStore is the VectorStore adapter over a ChromaDB collection,
// delegating similarity ranking to the store's native nearest-neighbor
// search.
type ChromaStore struct {
	collection chromago.Collection
	log        *zap.Logger
}

func NewChromaStore(collection chromago.Collection, log *zap.Logger) *ChromaStore {
	return &ChromaStore{collection: collection, log: log}
}

// AddRecords implements VectorStore. Each record gets a fresh uuid; partial
// insert behavior on error is whatever the store itself guarantees.
func (s *ChromaStore) AddRecords(ctx context.Context, chunks []string, vectors [][]float32, fileID, contentHash string) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no records to add")
	}

	ids := make([]chromago.DocumentID, len(chunks))
	embs := make([]embeddings.Embedding, len(chunks))
	metadatas := make([]chromago.DocumentMetadata, len(chunks))
	for i := range chunks {
		ids[i] = chromago.DocumentID(uuid.New().String())
		embs[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metadatas[i] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("file_id", fileID),
			chromago.NewStringAttribute("content_hash", contentHash),
			chromago.NewIntAttribute("chunk_index", int64(i)),
		)
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(chunks...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metadatas...),
	)
	if err != nil {
		s.log.Error("failed to add records to chromadb",
			zap.String("file_id", fileID),
			zap.Int("chunks", len(chunks)),
			zap.Error(err))
		return fmt.Errorf("failed to add records to chromadb: %w", err)
	}
	s.log.Info("inserted chunks into chromadb",
		zap.String("file_id", fileID),
		zap.Int("chunks", len(chunks)))
	return nil
}

// QueryTopK implements VectorStore.
func (s *ChromaStore) QueryTopK(ctx context.Context, embedding []float32, k int) []string {
	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(k),
	)
	if err != nil {
		s.log.Error("chromadb query failed", zap.Error(err))
		return nil
	}

	groups := results.GetDocumentsGroups()
	if len(groups) == 0 {
		s.log.Info("chromadb returned no result group")
		return nil
	}

	chunks := make([]string, 0, len(groups[0]))
	for _, doc := range groups[0] {
		if doc.ContentString() != "" {
			chunks = append(chunks, doc.ContentString())
		}
	}
	s.log.Info("chromadb returned relevant chunks", zap.Int("count", len(chunks)))
	return chunks
}

// IndexedHashes implements VectorStore by reading every record's metadata.
// The DocumentMetadata type exposes no map accessor, so it goes through a
// JSON round-trip.
func (s *ChromaStore) IndexedHashes(ctx context.Context) (map[string]struct{}, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection metadata: %w", err)
	}

	hashes := make(map[string]struct{})
	for _, meta := range results.GetMetadatas() {
		if meta == nil {
			continue
		}
		jsonBytes, err := json.Marshal(meta)
		if err != nil {
			continue
		}
		var metaMap map[string]interface{}
		if err := json.Unmarshal(jsonBytes, &metaMap); err != nil {
			continue
		}
		if hash, ok := metaMap["content_hash"].(string); ok && hash != "" {
			hashes[hash] = struct{}{}
		}
	}
	return hashes, nil
}
