package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/casetrail/casetrail/internal/pkg/errcode"
	"github.com/casetrail/casetrail/internal/pkg/response"
	"github.com/casetrail/casetrail/internal/service"
)

type DocumentHandler struct {
	docs *service.DocumentService
}

func NewDocumentHandler(docs *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// Upload ingests a multipart case file: blob store, ledger receipt,
// document record, chunk index.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "cannot open uploaded file")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "cannot read uploaded file")
		return
	}
	filename := filepath.Base(fileHeader.Filename)

	result, err := h.docs.Ingest(c.Request.Context(), getUserID(c), filename, content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"document":    result.Document,
		"chunk_count": result.ChunkCount,
		"indexed":     result.Indexed,
		"index_error": result.IndexError,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit := uint(0)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = uint(parsed)
	}
	docs, err := h.docs.List(c.Request.Context(), getUserID(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.docs.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

func (h *DocumentHandler) GetByReceipt(c *gin.Context) {
	doc, err := h.docs.GetByReceipt(c.Request.Context(), getUserID(c), c.Param("receipt"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

// Download streams back the original uploaded bytes.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, content, err := h.docs.OpenBlob(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", content)
}
