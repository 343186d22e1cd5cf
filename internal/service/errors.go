package service

import "errors"

// --- Workout Error Definitions ---
var (
	ErrNoSuitableExercises  = errors.New("no suitable exercises found for user constraints")
	ErrInvalidFitnessLevel  = errors.New("invalid fitness level")
	ErrInvalidDuration      = errors.New("preferred duration must be greater than zero")
	ErrInvalidRating        = errors.New("difficulty rating must be between 1 and 5")
	ErrWorkoutRequired      = errors.New("workout plan is required")
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrWorkoutLookupUnavail = errors.New("saved workout lookup is not supported by the configured store")
	ErrWorkoutIDRequired    = errors.New("workout id is required")
	ErrVerifierRequired     = errors.New("verified_by is required")
	ErrVerificationFailed   = errors.New("workout did not pass automated safety and quality checks")
)

// --- Payment Error Definitions ---
var (
	ErrInvalidUserID            = errors.New("invalid user id")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrUnsupportedCurrency      = errors.New("unsupported currency")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidTier              = errors.New("invalid subscription tier")
	ErrAmountMismatch           = errors.New("amount mismatch")
	ErrInvalidArgument          = errors.New("invalid argument")
)

// PaymentError carries the client-facing message for a failed payment check.
// errors.Is matches it against the sentinel in Kind.
type PaymentError struct {
	Kind    error
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Kind
}

func paymentErr(kind error, message string) error {
	return &PaymentError{Kind: kind, Message: message}
}
