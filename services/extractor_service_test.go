package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("doc.pdf"))
	assert.True(t, IsSupported("doc.txt"))
	assert.True(t, IsSupported("DOC.PDF"))
	assert.False(t, IsSupported("doc.md"))
	assert.False(t, IsSupported("doc.docx"))
	assert.False(t, IsSupported("doc"))
}

func TestExtractTextPlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "line one\nline two\n")
	ex := NewExtractor(zap.NewNop())

	text, err := ex.ExtractText(path)

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", text)
}

func TestExtractTextMissingFile(t *testing.T) {
	ex := NewExtractor(zap.NewNop())
	_, err := ex.ExtractText("/nonexistent/notes.txt")
	assert.Error(t, err)
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	ex := NewExtractor(zap.NewNop())
	_, err := ex.ExtractText("notes.docx")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestExtractionFailureYieldsEmptyPipeline(t *testing.T) {
	// A missing file degrades to empty text, which the ingest pipeline
	// treats as its failure case.
	svc := NewIngestService(NewExtractor(zap.NewNop()), &seqEmbedder{}, &fakeStore{}, 200, zap.NewNop())
	_, err := svc.IngestFile(context.Background(), "/nonexistent/notes.txt", "file-1")
	assert.ErrorIs(t, err, ErrNoEmbeddings)
}
