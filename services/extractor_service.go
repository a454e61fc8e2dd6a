package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"
)

// Extractor turns an uploaded file into best-effort plain text.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: log}
}

// IsSupported reports whether the file extension is one we can ingest.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt":
		return true
	default:
		return false
	}
}

// ExtractText reads a file and returns its text content based on the
// extension. Unsupported extensions are rejected by the callers before this
// point, but it guards anyway.
func (e *Extractor) ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			e.log.Error("failed to read text file", zap.String("path", path), zap.Error(err))
			return "", err
		}
		return string(content), nil
	case ".pdf":
		text, err := e.extractPDF(path)
		if err != nil {
			e.log.Error("failed to read pdf", zap.String("path", path), zap.Error(err))
			return "", err
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// extractPDF uses UniPDF to pull text from every page in page order.
func (e *Extractor) extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
