package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/internal/service"
)

// Stripe 事件体大小上限，签名校验前先限长
const maxWebhookBytes = 64 << 10

// BillingHandler 订阅计费 Handler
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler 创建 Handler
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateCheckout 发起订阅支付
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	result, err := h.billingService.CreateCheckoutSession(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Webhook Stripe 回调入口，不走认证中间件
// 签名校验需要原始请求体，这里不做 JSON 绑定
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read payload"})
		return
	}

	err = h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrWebhookSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		// 处理失败返回 5xx，Stripe 会按退避策略重试
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
