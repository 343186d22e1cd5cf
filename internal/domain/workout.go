package domain

import (
	"errors"
	"time"
)

// WorkoutPlan is a generated session for one user. Plans are never edited in place;
// adapting a plan produces a new one.
type WorkoutPlan struct {
	ID                   string       `bson:"_id,omitempty" json:"id"`
	UserID               string       `bson:"userId" json:"user_id"`
	Title                string       `bson:"title" json:"title"`
	Description          string       `bson:"description,omitempty" json:"description,omitempty"`
	Exercises            []Exercise   `bson:"exercises" json:"exercises"`
	TotalDurationMinutes int          `bson:"totalDurationMinutes" json:"total_duration_minutes"`
	EstimatedCalories    int          `bson:"estimatedCalories" json:"estimated_calories"`
	Difficulty           FitnessLevel `bson:"difficulty" json:"difficulty"`
	DifficultyScore      int          `bson:"difficultyScore" json:"difficulty_score"` // 1-10
	CreatedAt            time.Time    `bson:"createdAt" json:"created_at"`
	IsVerified           bool         `bson:"isVerified" json:"is_verified"`
	Tags                 []string     `bson:"tags" json:"tags"`
}

var (
	ErrPlanUserRequired = errors.New("workout user id is required")
	ErrPlanNoExercises  = errors.New("workout must contain at least one exercise")
	ErrPlanTooShort     = errors.New("workout must last at least 5 minutes")
	ErrPlanScoreRange   = errors.New("workout difficulty score must be between 1 and 10")
	ErrPlanInvalidLevel = errors.New("workout difficulty is not a known fitness level")
)

// MinPlanMinutes is the shortest plan considered well-formed.
const MinPlanMinutes = 5

// Validate checks the plan is well-formed, including every exercise in it.
func (w *WorkoutPlan) Validate() error {
	if w.UserID == "" {
		return ErrPlanUserRequired
	}
	if len(w.Exercises) == 0 {
		return ErrPlanNoExercises
	}
	for _, ex := range w.Exercises {
		if err := ex.Validate(); err != nil {
			return err
		}
	}
	if w.TotalDurationMinutes < MinPlanMinutes {
		return ErrPlanTooShort
	}
	if w.DifficultyScore < 1 || w.DifficultyScore > 10 {
		return ErrPlanScoreRange
	}
	if !IsValidFitnessLevel(string(w.Difficulty)) {
		return ErrPlanInvalidLevel
	}
	return nil
}
