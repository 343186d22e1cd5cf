package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/repository"
	"wellity/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approveAll makes every settlement draw succeed.
type approveAll struct{}

func (approveAll) IntN(int) int                { return 0 }
func (approveAll) Float64() float64            { return 0 }
func (approveAll) Shuffle(int, func(i, j int)) {}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorDetail    `json:"error"`
}

type mapStore struct {
	plans map[string]domain.WorkoutPlan
}

func (m *mapStore) Save(_ context.Context, plan *domain.WorkoutPlan) (string, error) {
	m.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (m *mapStore) GetByID(_ context.Context, id string) (*domain.WorkoutPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *mapStore) GetByUserID(_ context.Context, userID string) ([]domain.WorkoutPlan, error) {
	out := []domain.WorkoutPlan{}
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// rejectingStore refuses every ID, like a key-based store given an unsafe one.
type rejectingStore struct{}

func (rejectingStore) Save(_ context.Context, plan *domain.WorkoutPlan) (string, error) {
	return "", fmt.Errorf("%w: %q", repository.ErrInvalidID, plan.UserID)
}

func newTestRouter(store repository.WorkoutStore, limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	_ = router.SetTrustedProxies(nil)
	workouts := service.NewWorkoutService(store, rand.New(rand.NewPCG(1, 2)), nil)
	payments := service.NewPaymentService(approveAll{}, nil)
	SetupRoutes(router, workouts, payments, limiter, nil)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func userData() map[string]any {
	return map[string]any{
		"user_id":                    "user_1",
		"fitness_level":              "intermediate",
		"age":                        28,
		"injuries":                   []string{"none"},
		"available_equipment":        []string{"dumbbells"},
		"preferred_duration_minutes": 30,
		"goals":                      []string{"muscle_gain"},
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, serviceName, body.Service)
	assert.NotEmpty(t, body.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)
	doRequest(t, router, http.MethodGet, "/api/v1/adaptive/exercises", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wellity_http_requests_total")
}

func TestNotFound(t *testing.T) {
	router := newTestRouter(nil, nil)
	w, env := doRequest(t, router, http.MethodGet, "/api/v1/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNotFound, env.Error.Code)
}

func TestRecommend(t *testing.T) {
	router := newTestRouter(nil, nil)
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", map[string]any{"user_data": userData()})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var data WorkoutResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Workout generated successfully", data.Message)
	require.NotNil(t, data.Workout)
	assert.True(t, strings.HasPrefix(data.Workout.ID, "workout_"))
	assert.Equal(t, domain.LevelIntermediate, data.Workout.Difficulty)
	assert.Equal(t, 6, data.Workout.DifficultyScore)
	assert.NotEmpty(t, data.Workout.Exercises)
	assert.Contains(t, data.Workout.Tags, "strength")
}

func TestRecommend_BadRequests(t *testing.T) {
	router := newTestRouter(nil, nil)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"user_data":`},
		{"missing user_data", map[string]any{}},
		{"bad fitness level", map[string]any{"user_data": func() map[string]any {
			u := userData()
			u["fitness_level"] = "olympian"
			return u
		}()}},
		{"bad injury", map[string]any{"user_data": func() map[string]any {
			u := userData()
			u["injuries"] = []string{"elbow"}
			return u
		}()}},
		{"zero duration", map[string]any{"user_data": func() map[string]any {
			u := userData()
			u["preferred_duration_minutes"] = 0
			return u
		}()}},
		{"user id with a slash", map[string]any{"user_data": func() map[string]any {
			u := userData()
			u["user_id"] = "alice/evil"
			return u
		}()}},
		{"user id climbing directories", map[string]any{"user_data": func() map[string]any {
			u := userData()
			u["user_id"] = "../../etc"
			return u
		}()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, CodeValidation, env.Error.Code)
		})
	}
}

func TestRecommend_NoSuitableExercises(t *testing.T) {
	router := newTestRouter(nil, nil)
	u := map[string]any{
		"user_id":                    "user_1",
		"fitness_level":              "expert",
		"injuries":                   []string{"knee", "shoulder"},
		"preferred_duration_minutes": 30,
	}
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", map[string]any{"user_data": u})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNoSuitableExercises, env.Error.Code)
}

func TestAdapt(t *testing.T) {
	router := newTestRouter(nil, nil)
	body := map[string]any{
		"workout": map[string]any{
			"id":               "workout_prev",
			"user_id":          "user_1",
			"difficulty":       "intermediate",
			"difficulty_score": 6,
		},
		"rating": map[string]any{
			"workout_id":        "workout_prev",
			"user_id":           "user_1",
			"difficulty_rating": 1,
		},
		"user_data": userData(),
	}

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/adapt", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data WorkoutResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, domain.LevelAdvanced, data.Workout.Difficulty)
	assert.Equal(t, 8, data.Workout.DifficultyScore)
	assert.Equal(t, service.DirectionHarder, data.Direction)
	assert.NotEqual(t, "workout_prev", data.Workout.ID)
}

func TestAdapt_InvalidRating(t *testing.T) {
	router := newTestRouter(nil, nil)
	body := map[string]any{
		"workout":   map[string]any{"id": "w", "difficulty_score": 6},
		"rating":    map[string]any{"difficulty_rating": 9},
		"user_data": userData(),
	}
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/adapt", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestGetIntensity(t *testing.T) {
	router := newTestRouter(nil, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/intensity/advanced", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data IntensityResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 8, data.Intensity)

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/adaptive/intensity/olympian", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidFitnessLevel, env.Error.Code)
}

func TestListExercises(t *testing.T) {
	router := newTestRouter(nil, nil)
	w, env := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/exercises", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data ExerciseListResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 12, data.Count)
	assert.Len(t, data.Exercises, 12)
}

func TestSavedWorkoutLookup(t *testing.T) {
	t.Run("store without lookups", func(t *testing.T) {
		router := newTestRouter(nil, nil)
		w, env := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/workouts/workout_x", nil)
		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Equal(t, CodeNotImplemented, env.Error.Code)
	})

	t.Run("round trip", func(t *testing.T) {
		store := &mapStore{plans: make(map[string]domain.WorkoutPlan)}
		router := newTestRouter(store, nil)

		_, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", map[string]any{"user_data": userData()})
		var created WorkoutResponse
		require.NoError(t, json.Unmarshal(env.Data, &created))

		w, env := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/workouts/"+created.Workout.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got domain.WorkoutPlan
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, created.Workout.ID, got.ID)

		w, env = doRequest(t, router, http.MethodGet, "/api/v1/adaptive/users/user_1/workouts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list WorkoutListResponse
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 1, list.Count)

		w, env = doRequest(t, router, http.MethodGet, "/api/v1/adaptive/workouts/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeNotFound, env.Error.Code)
	})
}

func TestRecommend_StoreRejectsID(t *testing.T) {
	router := newTestRouter(rejectingStore{}, nil)
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", map[string]any{"user_data": userData()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestVerifyWorkout(t *testing.T) {
	store := &mapStore{plans: make(map[string]domain.WorkoutPlan)}
	router := newTestRouter(store, nil)

	_, env := doRequest(t, router, http.MethodPost, "/api/v1/adaptive/recommend", map[string]any{"user_data": userData()})
	var created WorkoutResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/workouts/" + created.Workout.ID + "/verify"

	t.Run("approved", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, path, map[string]any{
			"verified_by":        "admin789",
			"verification_notes": "Excellent form demonstrations, clear instructions",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res domain.VerificationResult
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.True(t, res.IsVerified)
		assert.Equal(t, domain.VerificationApproved, res.VerificationStatus)
		assert.Equal(t, 98, res.Details.SafetyScore)
		assert.Equal(t, 92, res.Details.QualityScore)
		assert.Len(t, res.NextSteps, 3)
	})

	t.Run("automated checks failed", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, path, map[string]any{
			"verified_by":        "admin789",
			"auto_checks_passed": false,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, CodeVerificationFailed, env.Error.Code)

		details, ok := env.Error.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"videoQuality", "safetyGuidelines"}, details["failed_checks"])
	})

	t.Run("missing reviewer", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, path, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, env.Error.Code)
	})

	t.Run("unknown workout", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, "/api/v1/workouts/nonexistent/verify", map[string]any{"verified_by": "admin789"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeNotFound, env.Error.Code)
	})
}

func subscribeBody() map[string]any {
	return map[string]any{
		"user_id":           "user_1",
		"amount":            1999,
		"currency":          "usd",
		"payment_method":    "card",
		"subscription_tier": "premium",
	}
}

func TestSubscribe(t *testing.T) {
	router := newTestRouter(nil, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/payments/subscribe", subscribeBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data SubscribeResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, strings.HasPrefix(data.TransactionID, "txn_"))
	assert.Equal(t, "Payment processed successfully", data.Message)
}

func TestSubscribe_Failures(t *testing.T) {
	router := newTestRouter(nil, nil)

	declined := subscribeBody()
	declined["user_id"] = service.TestUserCardDeclined
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/payments/subscribe", declined)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, CodePaymentFailed, env.Error.Code)
	assert.Equal(t, "Card declined", env.Error.Message)

	mismatch := subscribeBody()
	mismatch["amount"] = 999
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/payments/subscribe", mismatch)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Amount mismatch: expected 1999 cents for premium tier, got 999", env.Error.Message)

	badTier := subscribeBody()
	badTier["subscription_tier"] = "gold"
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/payments/subscribe", badTier)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestValidatePayment(t *testing.T) {
	router := newTestRouter(nil, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/payments/validate", subscribeBody())
	require.Equal(t, http.StatusOK, w.Code)
	var data ValidateResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Valid)

	tests := []struct {
		field string
		value any
		code  string
	}{
		{"user_id", "", CodeInvalidUserID},
		{"amount", 50, CodeInvalidAmount},
		{"currency", "jpy", CodeUnsupportedCurrency},
		{"payment_method", "cash", CodeUnsupportedMethod},
		{"subscription_tier", "gold", CodeInvalidTier},
		{"amount", 2999, CodeAmountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			body := subscribeBody()
			body[tt.field] = tt.value
			w, env := doRequest(t, router, http.MethodPost, "/api/v1/payments/validate", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestGetPrice(t *testing.T) {
	router := newTestRouter(nil, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/payments/price/pro", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data PriceResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(2999), data.Amount)

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/payments/price/gold", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeInvalidTier, env.Error.Code)
}

func TestCancelAndRefund(t *testing.T) {
	router := newTestRouter(nil, nil)

	w, _ := doRequest(t, router, http.MethodPost, "/api/v1/payments/cancel", map[string]any{"user_id": "user_1", "subscription_id": "sub_1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/payments/cancel", map[string]any{"user_id": "user_1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, CodeInvalidArgument, env.Error.Code)

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/payments/refund", map[string]any{"transaction_id": "txn_1"})
	require.Equal(t, http.StatusOK, w.Code)
	var refund RefundResponse
	require.NoError(t, json.Unmarshal(env.Data, &refund))
	assert.Equal(t, "refund_txn_1", refund.RefundID)

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/payments/refund", map[string]any{"transaction_id": "txn_1", "amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, CodeRefundFailed, env.Error.Code)
	assert.Equal(t, "Invalid refund amount", env.Error.Message)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(nil, NewRateLimiter(1, 2, nil))

	for i := 0; i < 2; i++ {
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/exercises", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, env := doRequest(t, router, http.MethodGet, "/api/v1/adaptive/exercises", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, CodeRateLimited, env.Error.Code)

	// Health checks are not limited.
	w, _ = doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
