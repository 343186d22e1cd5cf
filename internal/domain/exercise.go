// internal/domain/exercise.go
package domain

import "errors"

// Exercise represents a single catalog entry the workout engine can pick from.
// DurationSeconds is a fixed hold time (planks, wall sits), Difficulty runs 1-10,
// an empty Equipment means bodyweight, and AffectedAreas holds tags like "legs" or "core".
type Exercise struct {
	Name            string   `bson:"name" json:"name"`
	Sets            int      `bson:"sets" json:"sets"`
	Reps            int      `bson:"reps" json:"reps"`
	DurationSeconds *int     `bson:"durationSeconds,omitempty" json:"duration_seconds,omitempty"`
	RestSeconds     int      `bson:"restSeconds" json:"rest_seconds"`
	Difficulty      int      `bson:"difficulty" json:"difficulty"`
	Equipment       string   `bson:"equipment,omitempty" json:"equipment,omitempty"`
	AffectedAreas   []string `bson:"affectedAreas" json:"affected_areas"`
	CaloriesBurned  *int     `bson:"caloriesBurned,omitempty" json:"calories_burned,omitempty"`
}

var (
	ErrExerciseNameRequired  = errors.New("exercise name is required")
	ErrExerciseSetsRange     = errors.New("exercise sets must be between 1 and 10")
	ErrExerciseRepsRange     = errors.New("exercise reps must be between 1 and 100")
	ErrExerciseRestRange     = errors.New("exercise rest must be between 0 and 600 seconds")
	ErrExerciseDifficulty    = errors.New("exercise difficulty must be between 1 and 10")
	ErrExerciseAreasRequired = errors.New("exercise must affect at least one area")
)

// RequiresEquipment reports whether the exercise needs anything beyond bodyweight.
func (e Exercise) RequiresEquipment() bool {
	return e.Equipment != ""
}

// Calories returns the calorie cost, treating a missing value as zero.
func (e Exercise) Calories() int {
	if e.CaloriesBurned == nil {
		return 0
	}
	return *e.CaloriesBurned
}

// Affects reports whether any of the given areas is worked by this exercise.
func (e Exercise) Affects(areas map[string]struct{}) bool {
	for _, a := range e.AffectedAreas {
		if _, ok := areas[a]; ok {
			return true
		}
	}
	return false
}

// Validate checks the exercise against catalog sanity bounds.
func (e Exercise) Validate() error {
	switch {
	case e.Name == "":
		return ErrExerciseNameRequired
	case e.Sets < 1 || e.Sets > 10:
		return ErrExerciseSetsRange
	case e.Reps < 1 || e.Reps > 100:
		return ErrExerciseRepsRange
	case e.RestSeconds < 0 || e.RestSeconds > 600:
		return ErrExerciseRestRange
	case e.Difficulty < 1 || e.Difficulty > 10:
		return ErrExerciseDifficulty
	case len(e.AffectedAreas) == 0:
		return ErrExerciseAreasRequired
	}
	return nil
}
