package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/internal/service"
)

// ExportHandler 导出 Handler
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler 创建 Handler
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportDoc 下载 Word 文档
func (h *ExportHandler) ExportDoc(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	result, err := h.exportService.ExportDoc(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ExportText 纯文本导出
func (h *ExportHandler) ExportText(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	text, err := h.exportService.ExportText(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.String(http.StatusOK, text)
}

func (h *ExportHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrFormNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
