package domain

import "time"

// FitnessLevel type for the user's self-reported training level
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
	LevelExpert       FitnessLevel = "expert"
)

// IsValidFitnessLevel reports whether level is one of the known levels.
func IsValidFitnessLevel(level string) bool {
	switch FitnessLevel(level) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// InjuryType names a body region the user needs to protect.
type InjuryType string

const (
	InjuryKnee     InjuryType = "knee"
	InjuryShoulder InjuryType = "shoulder"
	InjuryBack     InjuryType = "back"
	InjuryAnkle    InjuryType = "ankle"
	InjuryWrist    InjuryType = "wrist"
	InjuryNone     InjuryType = "none"
)

// Goal tags that influence plan tagging.
const (
	GoalWeightLoss = "weight_loss"
	GoalMuscleGain = "muscle_gain"
)

// UserProfile holds everything the engine needs to personalize a plan.
type UserProfile struct {
	UserID                   string          `json:"user_id" binding:"required,excludesall=/\\,excludes=.."`
	FitnessLevel             FitnessLevel    `json:"fitness_level" binding:"required,oneof=beginner intermediate advanced expert"`
	Age                      int             `json:"age" binding:"omitempty,min=0"`
	WeightKg                 *float64        `json:"weight_kg,omitempty"`
	HeightCm                 *float64        `json:"height_cm,omitempty"`
	Injuries                 []InjuryType    `json:"injuries" binding:"dive,oneof=knee shoulder back ankle wrist none"`
	AvailableEquipment       []string        `json:"available_equipment"`
	PreferredDurationMinutes int             `json:"preferred_duration_minutes" binding:"required,gt=0"`
	Goals                    []string        `json:"goals"`
	PastRatings              []WorkoutRating `json:"past_ratings"`
}

// HasEquipment reports whether the user listed the given equipment tag.
func (p UserProfile) HasEquipment(tag string) bool {
	for _, e := range p.AvailableEquipment {
		if e == tag {
			return true
		}
	}
	return false
}

// HasGoal reports whether the user listed the given goal tag.
func (p UserProfile) HasGoal(goal string) bool {
	for _, g := range p.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

// WithRating returns a copy of the profile with the rating appended to its history
// and the fitness level replaced. The receiver's history slice is not shared.
func (p UserProfile) WithRating(level FitnessLevel, rating WorkoutRating) UserProfile {
	history := make([]WorkoutRating, 0, len(p.PastRatings)+1)
	history = append(history, p.PastRatings...)
	history = append(history, rating)
	p.FitnessLevel = level
	p.PastRatings = history
	return p
}

// WorkoutRating is the user's feedback on a completed plan.
// DifficultyRating: 1-2 too easy, 3 about right, 4-5 too hard.
type WorkoutRating struct {
	WorkoutID             string    `bson:"workoutId" json:"workout_id"`
	UserID                string    `bson:"userId" json:"user_id"`
	DifficultyRating      int       `bson:"difficultyRating" json:"difficulty_rating" binding:"required,min=1,max=5"`
	EnjoymentRating       *int      `bson:"enjoymentRating,omitempty" json:"enjoyment_rating,omitempty" binding:"omitempty,min=1,max=5"`
	CompletionTimeSeconds *int      `bson:"completionTimeSeconds,omitempty" json:"completion_time_seconds,omitempty"`
	Notes                 string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp             time.Time `bson:"timestamp" json:"timestamp"`
}

// IsValidDifficultyRating reports whether r is on the 1-5 scale.
func IsValidDifficultyRating(r int) bool {
	return r >= 1 && r <= 5
}
