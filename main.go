package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unidoc/unipdf/v3/common/license"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/docuchat/ragserver/config"
	"github.com/docuchat/ragserver/controller"
	"github.com/docuchat/ragserver/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		log.Fatalf("FATAL: failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.UnidocLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UnidocLicenseKey); err != nil {
			logger.Warn("failed to set unidoc license key, pdf extraction will fail", zap.Error(err))
		}
	} else {
		logger.Warn("UNIDOC_LICENSE_KEY not set, pdf extraction will fail")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// External clients are built once here and injected everywhere.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		logger.Fatal("failed to create chroma client", zap.Error(err))
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			logger.Warn("failed to close chroma client", zap.Error(err))
		}
	}()

	collection, err := getOrCreateCollection(ctx, chromaClient, cfg.Collection)
	if err != nil {
		logger.Fatal("failed to get or create collection",
			zap.String("collection", cfg.Collection), zap.Error(err))
	}

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("failed to create gemini client", zap.Error(err))
	}
	logger.Info("connected to google gemini", zap.String("model", cfg.ChatModel))

	extractor := services.NewExtractor(logger)
	embedder := services.NewGeminiEmbedder(httpClient, cfg.EmbeddingURL, cfg.GeminiAPIKey, logger)
	store := services.NewChromaStore(collection, logger)
	generator := services.NewGeminiGenerator(geminiClient, cfg.ChatModel, logger)
	ragService := services.NewRAGService(embedder, store, generator, services.DefaultTopK, logger)
	ingestService := services.NewIngestService(extractor, embedder, store, services.DefaultChunkSize, logger)
	watcher := services.NewWatcherService(ingestService, store, cfg.UploadDir, logger)

	authController := controller.NewAuthController(cfg.AdminUsername, cfg.AdminPassword, logger)
	uploadController := controller.NewUploadController(ingestService, cfg.UploadDir, logger)
	chatController := controller.NewChatController(ragService, logger)

	router := gin.Default()
	router.MaxMultipartMemory = controller.MaxUploadBytes
	router.Use(sessions.Sessions("ragchat_session", cookie.NewStore([]byte(cfg.SessionSecret))))

	router.GET("/health", authController.Health)
	router.POST("/login", authController.Login)

	protected := router.Group("/", controller.RequireLogin())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/upload", uploadController.Upload)
		protected.POST("/chat", chatController.Chat)
	}

	go watcher.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// getOrCreateCollection looks up the collection by name, creating it on
// first run.
func getOrCreateCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	return client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "RAG chatbot document collection"),
				chromago.NewStringAttribute("created_by", "ragserver"),
			),
		),
	)
}
