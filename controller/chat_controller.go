package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docuchat/ragserver/models"
	"github.com/docuchat/ragserver/services"
	"github.com/docuchat/ragserver/session"
)

// ChatController answers queries via the RAG pipeline and tracks the
// session's chat history.
type ChatController struct {
	rag services.RAGService
	log *zap.Logger
}

func NewChatController(rag services.RAGService, log *zap.Logger) *ChatController {
	return &ChatController{rag: rag, log: log}
}

// Chat handles POST /chat. The pipeline never fails the request: embedding
// and retrieval failures come back as fixed answers, generation failures as
// placeholder strings, all of which are appended to the history like any
// other answer.
func (cc *ChatController) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		cc.log.Warn("empty query received")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	cc.log.Info("received query", zap.String("query", req.Query))

	answer, chunksUsed := cc.rag.Answer(c.Request.Context(), req.Query)

	st := session.FromContext(c)
	history := st.AppendTurn(models.ChatTurn{User: req.Query, Bot: answer})
	if err := st.Save(); err != nil {
		cc.log.Error("failed to save chat history", zap.Error(err))
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:   answer,
		ChunksUsed: chunksUsed,
		History:    history,
	})
}
