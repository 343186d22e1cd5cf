package domain

import "time"

// SubscriptionTier identifies a paid plan.
type SubscriptionTier string

const (
	TierBasic   SubscriptionTier = "basic"
	TierPremium SubscriptionTier = "premium"
	TierPro     SubscriptionTier = "pro"
)

// PaymentRequest is a subscription charge. Amount is in minor currency units (cents).
type PaymentRequest struct {
	UserID           string           `json:"user_id"`
	Amount           int64            `json:"amount"`
	Currency         string           `json:"currency"`
	PaymentMethod    string           `json:"payment_method"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
}

// PaymentResult is the uniform outcome of every payment operation.
type PaymentResult struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transaction_id,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
