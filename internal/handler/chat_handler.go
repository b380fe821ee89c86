package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/casetrail/casetrail/internal/model"
	"github.com/casetrail/casetrail/internal/pkg/errcode"
	"github.com/casetrail/casetrail/internal/pkg/response"
	"github.com/casetrail/casetrail/internal/rag"
)

type ChatHandler struct {
	rag *rag.Service
}

func NewChatHandler(ragSvc *rag.Service) *ChatHandler {
	return &ChatHandler{rag: ragSvc}
}

type chatRequest struct {
	Query   string           `json:"query"`
	History []model.ChatTurn `json:"history"`
}

// Chat answers a question grounded on the indexed case files.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		response.Error(c, errcode.ErrInvalid, "query is required")
		return
	}
	answer, chunks := h.rag.Answer(c.Request.Context(), req.Query, req.History)
	response.Success(c, gin.H{"answer": answer, "chunks": chunks})
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Search returns raw matching chunks without synthesis.
func (h *ChatHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		response.Error(c, errcode.ErrInvalid, "query is required")
		return
	}
	chunks := h.rag.FindChunks(c.Request.Context(), req.Query, req.Limit)
	response.Success(c, gin.H{"chunks": chunks})
}
