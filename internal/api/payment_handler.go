package api

import (
	"net/http"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/metrics"
	"wellity/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Payment outcomes as recorded in metrics.
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
)

// PaymentHandler serves the payment simulator.
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: log}
}

// --- DTOs ---

// SubscribeRequest is the body of a subscription charge. Business rules (amount range,
// currency, pricing) are checked by the service and reported as PAYMENT_FAILED.
type SubscribeRequest struct {
	UserID           string `json:"user_id" binding:"required"`
	Amount           int64  `json:"amount" binding:"required,min=1"`
	Currency         string `json:"currency" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	SubscriptionTier string `json:"subscription_tier" binding:"required,oneof=basic premium pro"`
}

func (r SubscribeRequest) toDomain() domain.PaymentRequest {
	return domain.PaymentRequest{
		UserID:           r.UserID,
		Amount:           r.Amount,
		Currency:         r.Currency,
		PaymentMethod:    r.PaymentMethod,
		SubscriptionTier: domain.SubscriptionTier(r.SubscriptionTier),
	}
}

type SubscribeResponse struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type PriceResponse struct {
	Tier     domain.SubscriptionTier `json:"tier"`
	Amount   int64                   `json:"amount"` // cents
	Currency string                  `json:"currency"`
}

type CancelRequest struct {
	UserID         string `json:"user_id"`
	SubscriptionID string `json:"subscription_id"`
}

type CancelResponse struct {
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message"`
}

// RefundRequest refunds in full when Amount is omitted.
type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        *int64 `json:"amount,omitempty"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Message  string `json:"message"`
}

// --- Handler Methods ---

// Subscribe godoc
// @Summary Process a subscription payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Payment details"
// @Success 200 {object} SuccessResponse{data=SubscribeResponse}
// @Failure 400 {object} ErrorResponse "Invalid payment data"
// @Failure 422 {object} ErrorResponse "Payment processing failed"
// @Router /payments/subscribe [post]
func (h *PaymentHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	result := h.paymentService.ProcessPayment(req.toDomain())
	if !result.Success {
		metrics.RecordPayment(outcomeFailed)
		abortWithError(c, http.StatusUnprocessableEntity, CodePaymentFailed, result.ErrorMessage)
		return
	}
	metrics.RecordPayment(outcomeSucceeded)

	respondOK(c, SubscribeResponse{TransactionID: result.TransactionID, Message: "Payment processed successfully"})
}

// Validate godoc
// @Summary Check a payment request without charging
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body domain.PaymentRequest true "Payment details"
// @Success 200 {object} SuccessResponse{data=ValidateResponse}
// @Failure 400 {object} ErrorResponse "Malformed body"
// @Failure 422 {object} ErrorResponse "Rule violated; code names the rule"
// @Router /payments/validate [post]
func (h *PaymentHandler) Validate(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	if err := h.paymentService.ValidatePaymentRequest(req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, ValidateResponse{Valid: true, Message: "Payment request is valid"})
}

// GetPrice godoc
// @Summary Monthly price of a subscription tier
// @Tags Payments
// @Produce json
// @Param tier path string true "basic, premium or pro"
// @Success 200 {object} SuccessResponse{data=PriceResponse}
// @Failure 404 {object} ErrorResponse "Unknown tier"
// @Router /payments/price/{tier} [get]
func (h *PaymentHandler) GetPrice(c *gin.Context) {
	tier := domain.SubscriptionTier(c.Param("tier"))
	price, err := h.paymentService.GetSubscriptionPrice(tier)
	if err != nil {
		abortWithError(c, http.StatusNotFound, CodeInvalidTier, err.Error())
		return
	}
	respondOK(c, PriceResponse{Tier: tier, Amount: price, Currency: "usd"})
}

// Cancel godoc
// @Summary Cancel a subscription
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body CancelRequest true "User and subscription IDs"
// @Success 200 {object} SuccessResponse{data=CancelResponse}
// @Failure 400 {object} ErrorResponse "Malformed body"
// @Failure 422 {object} ErrorResponse "Missing user or subscription ID"
// @Router /payments/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	cancelled, err := h.paymentService.CancelSubscription(req.UserID, req.SubscriptionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, CancelResponse{Cancelled: cancelled, Message: "Subscription cancelled successfully"})
}

// Refund godoc
// @Summary Refund a transaction in full or in part
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body RefundRequest true "Transaction and optional amount"
// @Success 200 {object} SuccessResponse{data=RefundResponse}
// @Failure 400 {object} ErrorResponse "Malformed body"
// @Failure 422 {object} ErrorResponse "Refund failed"
// @Router /payments/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	result := h.paymentService.RefundPayment(req.TransactionID, req.Amount)
	if !result.Success {
		abortWithError(c, http.StatusUnprocessableEntity, CodeRefundFailed, result.ErrorMessage)
		return
	}
	respondOK(c, RefundResponse{RefundID: result.TransactionID, Message: "Refund processed successfully"})
}
