package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/internal/service"
)

// FormHandler 表单 Handler
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler 创建 Handler
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// List 获取表单列表
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.formService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": forms})
}

// Get 获取表单详情
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	form, err := h.formService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// Create 从模板创建表单
func (h *FormHandler) Create(c *gin.Context) {
	var req service.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.CreateFromTemplate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": form})
}

// Rename 重命名表单
func (h *FormHandler) Rename(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.Rename(c.Request.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// UpdateSection 手工编辑分区内容
func (h *FormHandler) UpdateSection(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	var req service.UpdateSectionContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.UpdateSectionContent(c.Request.Context(), currentUserID(c), id, c.Param("sectionKey"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// UpdateSummary 手工编辑分区摘要
func (h *FormHandler) UpdateSummary(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.UpdateSectionSummary(c.Request.Context(), currentUserID(c), id, c.Param("sectionKey"), req.Summary)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// ResetSection 恢复分区为模板初始内容
func (h *FormHandler) ResetSection(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	form, err := h.formService.ResetSection(c.Request.Context(), currentUserID(c), id, c.Param("sectionKey"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": form})
}

// Delete 删除表单
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := formID(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *FormHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
	case errors.Is(err, service.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
	case errors.Is(err, service.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
	case errors.Is(err, service.ErrFormQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "free form limit reached"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// formID 解析路径里的表单 ID，非法时直接写 400
func formID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
