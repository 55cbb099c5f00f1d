package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"
	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/config"
	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/repository"
)

var ErrWebhookSignature = errors.New("invalid webhook signature")

// CheckoutResult 发起订阅的结果，前端跳转到 URL 完成支付
type CheckoutResult struct {
	URL string `json:"url"`
}

// BillingService 订阅计费服务接口
// 订阅状态以 Stripe 为准，通过 Webhook 单向同步到本地用户表；
// 本地只读取状态，从不直接修改 Stripe 侧数据
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID uint) (*CheckoutResult, error)
	// HandleWebhook 校验签名并处理 Stripe 事件，签名不合法返回 ErrWebhookSignature
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	userRepo repository.UserRepository
	cfg      config.BillingConfig
}

// NewBillingService 创建服务实例
func NewBillingService(userRepo repository.UserRepository, cfg config.BillingConfig) BillingService {
	stripe.Key = cfg.StripeSecretKey
	return &billingService{userRepo: userRepo, cfg: cfg}
}

// CreateCheckoutSession 为用户创建订阅支付会话
// 用户没有 Stripe Customer 时先创建并落库，保证 Webhook 能按 Customer 找回用户
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID uint) (*CheckoutResult, error) {
	user, err := s.userRepo.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{Email: stripe.String(user.Email)})
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe customer: %w", err)
		}
		user.StripeCustomerID = cus.ID
		if err := s.userRepo.Save(user); err != nil {
			return nil, fmt.Errorf("failed to save stripe customer id: %w", err)
		}
	}

	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Metadata: map[string]string{"userId": strconv.FormatUint(uint64(user.ID), 10)},
		},
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(user.StripeCustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.cfg.DefaultPriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.cfg.CheckoutBaseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.CheckoutBaseURL + "/billing/cancel"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutResult{URL: sess.URL}, nil
}

// HandleWebhook 处理 Stripe Webhook 事件
// 只关心订阅生命周期事件，其余事件记日志后忽略
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		klog.V(6).Infof("Webhook 签名校验失败: %v", err)
		return ErrWebhookSignature
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription event: %w", err)
		}
		return s.syncSubscription(&sub)
	case "checkout.session.completed":
		klog.V(6).Infof("结账完成，等待订阅事件同步状态")
		return nil
	default:
		klog.V(6).Infof("忽略 Webhook 事件: %s", event.Type)
		return nil
	}
}

// syncSubscription 把 Stripe 订阅状态写入用户表
// 找不到对应用户时忽略（可能是其他环境的 Customer），不让 Stripe 重试
func (s *billingService) syncSubscription(sub *stripe.Subscription) error {
	if sub.Customer == nil {
		return nil
	}
	user, err := s.userRepo.GetByStripeCustomerID(sub.Customer.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			klog.V(6).Infof("订阅事件对应的用户不存在: customer=%s", sub.Customer.ID)
			return nil
		}
		return fmt.Errorf("failed to get user by customer: %w", err)
	}

	applySubscription(user, sub)
	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to save subscription state: %w", err)
	}
	klog.V(6).Infof("订阅状态已同步: user=%d status=%s", user.ID, user.SubscriptionStatus)
	return nil
}

// applySubscription 订阅字段映射，deleted 事件的状态是 canceled
func applySubscription(user *model.User, sub *stripe.Subscription) {
	user.SubscriptionStatus = string(sub.Status)
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		user.SubscriptionPriceID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0)
		user.SubscriptionPeriodEnd = &end
	}
}
