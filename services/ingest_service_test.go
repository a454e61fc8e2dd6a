package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seqEmbedder fails on configured call indexes and otherwise returns a
// distinct vector per call.
type seqEmbedder struct {
	failOn map[int]bool
	calls  int
}

func (e *seqEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	i := e.calls
	e.calls++
	if e.failOn[i] {
		return nil, errors.New("embedding failed")
	}
	return []float32{float32(i)}, nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestFileEmptyDocument(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "   \n\t ")
	store := &fakeStore{}
	svc := NewIngestService(NewExtractor(zap.NewNop()), &seqEmbedder{}, store, 2, zap.NewNop())

	_, err := svc.IngestFile(context.Background(), path, "file-1")

	assert.ErrorIs(t, err, ErrNoEmbeddings)
	assert.Equal(t, 0, store.addCalls)
}

func TestIngestFileAllEmbeddingsFail(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "one two three four")
	embedder := &seqEmbedder{failOn: map[int]bool{0: true, 1: true}}
	store := &fakeStore{}
	svc := NewIngestService(NewExtractor(zap.NewNop()), embedder, store, 2, zap.NewNop())

	_, err := svc.IngestFile(context.Background(), path, "file-1")

	assert.ErrorIs(t, err, ErrNoEmbeddings)
	assert.Equal(t, 0, store.addCalls)
}

func TestIngestFileSkipsFailedChunksKeepingAlignment(t *testing.T) {
	// Three chunks of two words; the middle embedding fails.
	path := writeTempFile(t, "doc.txt", "a b c d e f")
	embedder := &seqEmbedder{failOn: map[int]bool{1: true}}
	store := &fakeStore{}
	svc := NewIngestService(NewExtractor(zap.NewNop()), embedder, store, 2, zap.NewNop())

	count, err := svc.IngestFile(context.Background(), path, "file-1")

	require.NoError(t, err)
	assert.Equal(t, 3, count, "chunk count reflects the full split")
	require.Equal(t, 1, store.addCalls)
	assert.Equal(t, []string{"a b", "e f"}, store.lastChunks)
	require.Len(t, store.lastVecs, 2)
	assert.Equal(t, []float32{0}, store.lastVecs[0])
	assert.Equal(t, []float32{2}, store.lastVecs[1])
	assert.Equal(t, "file-1", store.lastFileID)
}

func TestIngestFileRecordsContentHash(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "hello world")
	store := &fakeStore{}
	svc := NewIngestService(NewExtractor(zap.NewNop()), &seqEmbedder{}, store, 200, zap.NewNop())

	count, err := svc.IngestFile(context.Background(), path, "file-1")

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.lastHash, 64, "sha256 hex digest")
}

func TestIngestFileStoreFailureDoesNotFailIngestion(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "hello world")
	store := &fakeStore{addErr: errors.New("chroma down")}
	svc := NewIngestService(NewExtractor(zap.NewNop()), &seqEmbedder{}, store, 200, zap.NewNop())

	count, err := svc.IngestFile(context.Background(), path, "file-1")

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestFileSequentialEmbeddingCalls(t *testing.T) {
	var words string
	for i := 0; i < 10; i++ {
		words += fmt.Sprintf("w%d ", i)
	}
	path := writeTempFile(t, "doc.txt", words)
	embedder := &seqEmbedder{}
	svc := NewIngestService(NewExtractor(zap.NewNop()), embedder, &fakeStore{}, 2, zap.NewNop())

	count, err := svc.IngestFile(context.Background(), path, "file-1")

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, 5, embedder.calls, "one embedding call per chunk")
}
