package model

import "time"

// 订阅状态，与 Stripe subscription status 对齐
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// User 用户表
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 订阅信息，由 Stripe Webhook 同步
	StripeCustomerID      string     `json:"-" gorm:"size:64;index"`
	SubscriptionStatus    string     `json:"subscription_status" gorm:"size:32;default:''"`
	SubscriptionPriceID   string     `json:"subscription_price_id" gorm:"size:64;default:''"`
	SubscriptionPeriodEnd *time.Time `json:"subscription_period_end"`
}

// HasActiveSubscription 是否有生效中的订阅
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionStatusActive
}
