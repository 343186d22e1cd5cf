package api

import (
	"errors"
	"net/http"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/repository"
	"wellity/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes returned in the error envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeNotImplemented      = "NOT_IMPLEMENTED"
	CodeNoSuitableExercises = "NO_SUITABLE_EXERCISES"
	CodeInvalidFitnessLevel = "INVALID_FITNESS_LEVEL"
	CodePaymentFailed       = "PAYMENT_FAILED"
	CodeRefundFailed        = "REFUND_FAILED"
	CodeInvalidUserID       = "INVALID_USER_ID"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeUnsupportedCurrency = "UNSUPPORTED_CURRENCY"
	CodeUnsupportedMethod   = "UNSUPPORTED_PAYMENT_METHOD"
	CodeInvalidTier         = "INVALID_TIER"
	CodeAmountMismatch      = "AMOUNT_MISMATCH"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeVerificationFailed  = "VERIFICATION_FAILED"
)

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the envelope for every failure.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// VerificationFailure is the details payload of VERIFICATION_FAILED.
type VerificationFailure struct {
	FailedChecks    []string `json:"failed_checks"`
	Recommendations []string `json:"recommendations"`
}

// FieldError describes one failed binding rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// abortWithBindError reports a request body that failed to decode or bind.
func abortWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abortWithError(c, http.StatusBadRequest, CodeValidation, "Invalid request body: "+err.Error())
		return
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fe.Namespace(),
			Message: fieldMessage(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeValidation,
			Message: details[0].Field + ": " + details[0].Message,
			Details: details,
		},
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "excludesall", "excludes":
		return "must not contain " + fe.Param()
	}
	return "failed the " + fe.Tag() + " rule"
}

// respondError maps service errors to status codes and envelope codes.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *service.VerificationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeVerificationFailed,
				Message: service.ErrVerificationFailed.Error(),
				Details: VerificationFailure{FailedChecks: verr.FailedChecks, Recommendations: verr.Recommendations},
			},
		})
	case errors.Is(err, service.ErrNoSuitableExercises):
		abortWithError(c, http.StatusUnprocessableEntity, CodeNoSuitableExercises, err.Error())
	case errors.Is(err, service.ErrInvalidFitnessLevel):
		abortWithError(c, http.StatusBadRequest, CodeInvalidFitnessLevel, err.Error())
	case errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrWorkoutRequired),
		errors.Is(err, service.ErrWorkoutIDRequired),
		errors.Is(err, service.ErrVerifierRequired),
		errors.Is(err, repository.ErrInvalidID):
		abortWithError(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutLookupUnavail):
		abortWithError(c, http.StatusNotImplemented, CodeNotImplemented, err.Error())

	case errors.Is(err, service.ErrInvalidUserID):
		abortWithError(c, http.StatusUnprocessableEntity, CodeInvalidUserID, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		abortWithError(c, http.StatusUnprocessableEntity, CodeInvalidAmount, err.Error())
	case errors.Is(err, service.ErrUnsupportedCurrency):
		abortWithError(c, http.StatusUnprocessableEntity, CodeUnsupportedCurrency, err.Error())
	case errors.Is(err, service.ErrUnsupportedPaymentMethod):
		abortWithError(c, http.StatusUnprocessableEntity, CodeUnsupportedMethod, err.Error())
	case errors.Is(err, service.ErrInvalidTier):
		abortWithError(c, http.StatusUnprocessableEntity, CodeInvalidTier, err.Error())
	case errors.Is(err, service.ErrAmountMismatch):
		abortWithError(c, http.StatusUnprocessableEntity, CodeAmountMismatch, err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		abortWithError(c, http.StatusUnprocessableEntity, CodeInvalidArgument, err.Error())

	default:
		log.Errorw("Unhandled error", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
