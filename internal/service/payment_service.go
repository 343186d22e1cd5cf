package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/logger"

	"github.com/google/uuid"
)

const (
	minChargeAmount   = 100    // $1.00
	maxChargeAmount   = 100000 // $1000.00
	settlementSuccess = 0.9

	// Reserved identities that force a settlement outcome, for client testing.
	TestUserCardDeclined     = "test_fail_user"
	TestUserInsufficientFund = "test_insufficient_funds"

	msgCardDeclined      = "Card declined"
	msgInsufficientFunds = "Insufficient funds"
	msgProcessingFailed  = "Payment processing failed"
	msgInvalidTxnID      = "Invalid transaction_id"
	msgInvalidRefund     = "Invalid refund amount"
)

// subscriptionPricing in cents per month.
var subscriptionPricing = map[domain.SubscriptionTier]int64{
	domain.TierBasic:   999,
	domain.TierPremium: 1999,
	domain.TierPro:     2999,
}

var (
	supportedCurrencies     = []string{"usd", "eur", "gbp"}
	supportedPaymentMethods = []string{"card", "paypal", "apple_pay", "google_pay"}
)

// --- Service Interface ---
type PaymentService interface {
	ProcessPayment(req domain.PaymentRequest) domain.PaymentResult
	ValidatePaymentRequest(req domain.PaymentRequest) error
	GetSubscriptionPrice(tier domain.SubscriptionTier) (int64, error)
	CancelSubscription(userID, subscriptionID string) (bool, error)
	RefundPayment(transactionID string, amount *int64) domain.PaymentResult
}

// --- Service Implementation ---

// paymentService validates requests and simulates settlement. It never talks to a
// real gateway.
type paymentService struct {
	rng    RandomSource
	logger *logger.Logger
}

// NewPaymentService creates a new instance of paymentService. A nil rng uses DefaultRandom.
func NewPaymentService(rng RandomSource, log *logger.Logger) PaymentService {
	if rng == nil {
		rng = DefaultRandom()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &paymentService{rng: rng, logger: log}
}

// ProcessPayment validates and settles a subscription charge. Every failure, including
// validation, is reported in the result; it never returns an error.
func (s *paymentService) ProcessPayment(req domain.PaymentRequest) domain.PaymentResult {
	if err := s.ValidatePaymentRequest(req); err != nil {
		s.logger.Infow("Payment rejected", "user_id", req.UserID, "reason", err.Error())
		return failedResult(err.Error())
	}
	return s.settle(req)
}

// GetSubscriptionPrice returns the monthly price of tier in cents.
func (s *paymentService) GetSubscriptionPrice(tier domain.SubscriptionTier) (int64, error) {
	price, ok := subscriptionPricing[tier]
	if !ok {
		return 0, paymentErr(ErrInvalidTier, fmt.Sprintf("Invalid subscription tier: %s", tier))
	}
	return price, nil
}

// ValidatePaymentRequest runs the checks in a fixed order; the first failure wins.
func (s *paymentService) ValidatePaymentRequest(req domain.PaymentRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return paymentErr(ErrInvalidUserID, "Invalid user_id: must be a non-empty string")
	}
	if req.Amount <= 0 {
		return paymentErr(ErrInvalidAmount, "Invalid amount: must be a positive number")
	}
	if req.Amount < minChargeAmount || req.Amount > maxChargeAmount {
		return paymentErr(ErrInvalidAmount, "Invalid amount: must be between $1 and $1000")
	}
	if !contains(supportedCurrencies, strings.ToLower(req.Currency)) {
		return paymentErr(ErrUnsupportedCurrency, fmt.Sprintf("Unsupported currency: %s. Supported: %s",
			req.Currency, strings.Join(supportedCurrencies, ", ")))
	}
	if !contains(supportedPaymentMethods, req.PaymentMethod) {
		return paymentErr(ErrUnsupportedPaymentMethod, fmt.Sprintf("Unsupported payment method: %s. Supported: %s",
			req.PaymentMethod, strings.Join(supportedPaymentMethods, ", ")))
	}

	expected, err := s.GetSubscriptionPrice(req.SubscriptionTier)
	if err != nil {
		return paymentErr(ErrInvalidTier, fmt.Sprintf("Invalid subscription tier: %s. Must be basic, premium, or pro",
			req.SubscriptionTier))
	}
	if req.Amount != expected {
		return paymentErr(ErrAmountMismatch, fmt.Sprintf("Amount mismatch: expected %d cents for %s tier, got %d",
			expected, req.SubscriptionTier, req.Amount))
	}
	return nil
}

// CancelSubscription always succeeds once both ids are present.
func (s *paymentService) CancelSubscription(userID, subscriptionID string) (bool, error) {
	if userID == "" || subscriptionID == "" {
		return false, paymentErr(ErrInvalidArgument, "Invalid user_id or subscription_id")
	}
	s.logger.Infow("Subscription cancelled", "user_id", userID, "subscription_id", subscriptionID)
	return true, nil
}

// RefundPayment refunds a transaction in full (nil amount) or in part.
func (s *paymentService) RefundPayment(transactionID string, amount *int64) domain.PaymentResult {
	if strings.TrimSpace(transactionID) == "" {
		return failedResult(msgInvalidTxnID)
	}
	if amount != nil && (*amount <= 0 || *amount > maxChargeAmount) {
		return failedResult(msgInvalidRefund)
	}
	return domain.PaymentResult{
		Success:       true,
		TransactionID: "refund_" + transactionID,
		Timestamp:     time.Now().UTC(),
	}
}

// settle decides the outcome of a validated charge. The random draw happens on every
// call so the reserved identities do not change the distribution for anyone else.
func (s *paymentService) settle(req domain.PaymentRequest) domain.PaymentResult {
	approved := s.rng.Float64() < settlementSuccess

	switch req.UserID {
	case TestUserCardDeclined:
		return failedResult(msgCardDeclined)
	case TestUserInsufficientFund:
		return failedResult(msgInsufficientFunds)
	}

	if !approved {
		s.logger.Warnw("Payment settlement failed", "user_id", req.UserID, "tier", req.SubscriptionTier)
		return failedResult(msgProcessingFailed)
	}

	result := domain.PaymentResult{
		Success:       true,
		TransactionID: newTransactionID(),
		Timestamp:     time.Now().UTC(),
	}
	s.logger.Infow("Payment settled", "user_id", req.UserID, "tier", req.SubscriptionTier, "transaction_id", result.TransactionID)
	return result
}

// IsPaymentError reports whether err came from payment validation.
func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}

func failedResult(message string) domain.PaymentResult {
	return domain.PaymentResult{
		Success:      false,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC(),
	}
}

func newTransactionID() string {
	return "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
