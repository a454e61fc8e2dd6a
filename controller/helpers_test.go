package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docuchat/ragserver/services"
)

const (
	testUser = "admin"
	testPass = "changeme"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return r
}

// doJSON sends a JSON request, replaying any session cookies collected so far.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"username": testUser,
		"password": testPass,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// multipartFile builds a multipart body with one "file" part.
func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = strings.NewReader(content).WriteTo(fw)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

// fakeRAG implements services.RAGService with a canned answer.
type fakeRAG struct {
	answer string
	chunks []string
	calls  int
}

func (f *fakeRAG) Answer(_ context.Context, _ string) (string, []string) {
	f.calls++
	return f.answer, f.chunks
}

// okEmbedder always succeeds; failEmbedder always fails. Both count calls.
type okEmbedder struct{ calls int }

func (e *okEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	return []float32{0.1}, nil
}

type failEmbedder struct{ calls int }

func (e *failEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	return nil, errors.New("embedding failed")
}

// nullStore implements services.VectorStore and records adds.
type nullStore struct {
	addCalls int
}

func (s *nullStore) AddRecords(_ context.Context, _ []string, _ [][]float32, _, _ string) error {
	s.addCalls++
	return nil
}

func (s *nullStore) QueryTopK(_ context.Context, _ []float32, _ int) []string {
	return nil
}

func (s *nullStore) IndexedHashes(_ context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func newIngest(embedder services.Embedder, store services.VectorStore) *services.IngestService {
	return services.NewIngestService(services.NewExtractor(zap.NewNop()), embedder, store, services.DefaultChunkSize, zap.NewNop())
}
