package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
)

// ErrNoEmbeddings means a document produced no usable chunks or no chunk
// could be embedded. It is the only ingestion failure surfaced to the
// uploader as a server error.
var ErrNoEmbeddings = errors.New("no embeddings generated")

// IngestService runs the document ingestion pipeline: extract, normalize,
// chunk, embed each chunk in sequence, then bulk insert.
type IngestService struct {
	extractor *Extractor
	embedder  Embedder
	store     VectorStore
	chunkSize int
	log       *zap.Logger
}

func NewIngestService(extractor *Extractor, embedder Embedder, store VectorStore, chunkSize int, log *zap.Logger) *IngestService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &IngestService{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		log:       log,
	}
}

// IngestFile processes one saved file and returns the number of chunks it
// was split into. Extraction errors degrade to empty text; zero chunks or
// zero successful embeddings is ErrNoEmbeddings. A store-level insert
// failure is logged but does not fail the ingestion.
func (s *IngestService) IngestFile(ctx context.Context, path, fileID string) (int, error) {
	raw, err := s.extractor.ExtractText(path)
	if err != nil {
		s.log.Warn("extraction failed, treating as empty document",
			zap.String("path", path), zap.Error(err))
		raw = ""
	}

	cleaned := NormalizeText(raw)
	s.log.Info("extracted text", zap.String("file_id", fileID), zap.Int("length", len(cleaned)))

	chunks := ChunkText(cleaned, s.chunkSize)
	s.log.Info("generated chunks", zap.String("file_id", fileID), zap.Int("chunks", len(chunks)))
	if len(chunks) == 0 {
		return 0, ErrNoEmbeddings
	}

	// One embedding call per chunk, in order. Failed chunks are skipped but
	// the kept chunk/vector sequences stay aligned.
	kept := make([]string, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			s.log.Warn("failed to embed chunk",
				zap.String("file_id", fileID), zap.Int("chunk", i), zap.Error(err))
			continue
		}
		kept = append(kept, chunk)
		vectors = append(vectors, vec)
	}
	if len(kept) == 0 {
		s.log.Warn("no embeddings generated, skipping insert", zap.String("file_id", fileID))
		return 0, ErrNoEmbeddings
	}

	hash, err := fileSHA256(path)
	if err != nil {
		s.log.Warn("could not hash file", zap.String("path", path), zap.Error(err))
	}

	if err := s.store.AddRecords(ctx, kept, vectors, fileID, hash); err != nil {
		// The store logs the cause; the document can be re-ingested later.
		s.log.Warn("insert failed, document not indexed", zap.String("file_id", fileID))
	}
	return len(chunks), nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
