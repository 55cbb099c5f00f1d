package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/internal/service"
)

// 单次上传音频的大小上限
const maxAudioBytes = 25 << 20

// TranscriptionHandler 口述转写 Handler
type TranscriptionHandler struct {
	transcriptionService service.TranscriptionService
}

// NewTranscriptionHandler 创建 Handler
func NewTranscriptionHandler(transcriptionService service.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{transcriptionService: transcriptionService}
}

// Transcribe 上传音频并回填表单
// 音频走 multipart 的 audio 字段，MIME 类型取自上传部件
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio file"})
		return
	}
	if fileHeader.Size > maxAudioBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read audio file"})
		return
	}

	result, err := h.transcriptionService.Transcribe(c.Request.Context(), currentUserID(c), id, service.TranscribeRequest{
		Audio:    audio,
		MIMEType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Summarize 生成分区摘要
func (h *TranscriptionHandler) Summarize(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	form, err := h.transcriptionService.SummarizeSection(c.Request.Context(), currentUserID(c), id, c.Param("sectionKey"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// SuggestDiagnosis 生成诊断建议
func (h *TranscriptionHandler) SuggestDiagnosis(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	form, err := h.transcriptionService.SuggestDiagnosis(c.Request.Context(), currentUserID(c), id, c.Param("sectionKey"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

func (h *TranscriptionHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
	case errors.Is(err, service.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
