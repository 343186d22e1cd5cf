package api

import (
	"net/http"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/metrics"
	"wellity/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AdaptiveHandler serves the adaptive workout engine.
type AdaptiveHandler struct {
	workoutService service.WorkoutService
	logger         *logger.Logger
}

// NewAdaptiveHandler creates a new AdaptiveHandler.
func NewAdaptiveHandler(workoutService service.WorkoutService, log *logger.Logger) *AdaptiveHandler {
	return &AdaptiveHandler{workoutService: workoutService, logger: log}
}

// --- DTOs ---

// RecommendRequest asks for a fresh plan.
type RecommendRequest struct {
	UserData *domain.UserProfile `json:"user_data" binding:"required"`
}

// AdaptRequest carries the previous plan and the user's rating of it.
type AdaptRequest struct {
	Workout  *domain.WorkoutPlan   `json:"workout" binding:"required"`
	Rating   *domain.WorkoutRating `json:"rating" binding:"required"`
	UserData *domain.UserProfile   `json:"user_data" binding:"required"`
}

// WorkoutResponse is returned by recommend and adapt.
type WorkoutResponse struct {
	Workout   *domain.WorkoutPlan `json:"workout"`
	Message   string              `json:"message"`
	Direction string              `json:"direction,omitempty"` // adapt only
}

type IntensityResponse struct {
	Level     domain.FitnessLevel `json:"level"`
	Intensity int                 `json:"intensity"`
}

type ExerciseListResponse struct {
	Exercises []domain.Exercise `json:"exercises"`
	Count     int               `json:"count"`
}

type WorkoutListResponse struct {
	Workouts []domain.WorkoutPlan `json:"workouts"`
	Count    int                  `json:"count"`
}

// --- Handler Methods ---

// Recommend godoc
// @Summary Generate a personalized adaptive workout
// @Tags Adaptive Workouts
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "User profile"
// @Success 200 {object} SuccessResponse{data=WorkoutResponse}
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 422 {object} ErrorResponse "No exercise fits the user's constraints"
// @Router /adaptive/recommend [post]
func (h *AdaptiveHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	plan, err := h.workoutService.GenerateWorkout(*req.UserData)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !h.save(c, plan) {
		return
	}
	metrics.RecordWorkoutGenerated(string(plan.Difficulty))

	respondOK(c, WorkoutResponse{Workout: plan, Message: "Workout generated successfully"})
}

// Adapt godoc
// @Summary Regenerate a workout from the user's difficulty rating
// @Description Ratings of 1-2 make the next plan harder, 4-5 easier, 3 keeps the level.
// @Tags Adaptive Workouts
// @Accept json
// @Produce json
// @Param request body AdaptRequest true "Previous workout, rating and profile"
// @Success 200 {object} SuccessResponse{data=WorkoutResponse}
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 422 {object} ErrorResponse "No exercise fits the user's constraints"
// @Router /adaptive/adapt [post]
func (h *AdaptiveHandler) Adapt(c *gin.Context) {
	var req AdaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	plan, err := h.workoutService.AdaptDifficulty(*req.Rating, req.Workout, *req.UserData)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !h.save(c, plan) {
		return
	}

	direction := service.AdaptationDirection(req.Rating.DifficultyRating)
	metrics.RecordWorkoutAdapted(direction)

	respondOK(c, WorkoutResponse{Workout: plan, Message: "Workout adapted successfully", Direction: direction})
}

// GetIntensity godoc
// @Summary Intensity score for a fitness level
// @Tags Adaptive Workouts
// @Produce json
// @Param level path string true "beginner, intermediate, advanced or expert"
// @Success 200 {object} SuccessResponse{data=IntensityResponse}
// @Failure 400 {object} ErrorResponse "Unknown fitness level"
// @Router /adaptive/intensity/{level} [get]
func (h *AdaptiveHandler) GetIntensity(c *gin.Context) {
	level := c.Param("level")
	if !domain.IsValidFitnessLevel(level) {
		abortWithError(c, http.StatusBadRequest, CodeInvalidFitnessLevel, "Invalid fitness level: "+level)
		return
	}
	fl := domain.FitnessLevel(level)
	respondOK(c, IntensityResponse{Level: fl, Intensity: h.workoutService.CalculateIntensity(fl)})
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Adaptive Workouts
// @Produce json
// @Success 200 {object} SuccessResponse{data=ExerciseListResponse}
// @Router /adaptive/exercises [get]
func (h *AdaptiveHandler) ListExercises(c *gin.Context) {
	catalog := h.workoutService.Catalog()
	respondOK(c, ExerciseListResponse{Exercises: catalog, Count: len(catalog)})
}

// GetWorkout godoc
// @Summary Fetch a saved workout
// @Tags Adaptive Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} SuccessResponse{data=domain.WorkoutPlan}
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Failure 501 {object} ErrorResponse "Configured store cannot look workouts up"
// @Router /adaptive/workouts/{id} [get]
func (h *AdaptiveHandler) GetWorkout(c *gin.Context) {
	plan, err := h.workoutService.GetSavedWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, plan)
}

// ListUserWorkouts godoc
// @Summary List a user's saved workouts, newest first
// @Tags Adaptive Workouts
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} SuccessResponse{data=WorkoutListResponse}
// @Failure 501 {object} ErrorResponse "Configured store cannot look workouts up"
// @Router /adaptive/users/{userId}/workouts [get]
func (h *AdaptiveHandler) ListUserWorkouts(c *gin.Context) {
	plans, err := h.workoutService.GetSavedWorkoutsForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, WorkoutListResponse{Workouts: plans, Count: len(plans)})
}

// VerifyWorkout godoc
// @Summary Record a moderator's quality and safety review of a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param request body domain.VerificationRequest true "Reviewer and notes"
// @Success 200 {object} SuccessResponse{data=domain.VerificationResult}
// @Failure 400 {object} ErrorResponse "Invalid request or failed automated checks"
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /workouts/{id}/verify [post]
func (h *AdaptiveHandler) VerifyWorkout(c *gin.Context) {
	var req domain.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	result, err := h.workoutService.VerifyWorkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	metrics.RecordWorkoutVerified(string(result.VerificationStatus))

	respondOK(c, result)
}

// save persists the plan and writes the stored ID back onto it. On failure the
// error response is already written.
func (h *AdaptiveHandler) save(c *gin.Context, plan *domain.WorkoutPlan) bool {
	id, err := h.workoutService.SaveWorkout(c.Request.Context(), plan)
	if err != nil {
		respondError(c, h.logger, err)
		return false
	}
	plan.ID = id
	return true
}
