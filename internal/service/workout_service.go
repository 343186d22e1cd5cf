package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/repository"

	"github.com/google/uuid"
)

const (
	secondsPerRep       = 3 // Assumed time for one repetition
	maxExercisesPerPlan = 8
	minExercisesPerPlan = 3
	difficultyWindow    = 3   // Max distance between exercise difficulty and intensity score
	durationUpperFactor = 1.2 // Never exceed 120% of the preferred duration
	durationLowerFactor = 0.8 // Good enough once 80% is reached
	ratingStep          = 2
	minScore            = 1
	maxScore            = 10
)

// Adaptation directions, as reported by AdaptationDirection.
const (
	DirectionHarder = "harder"
	DirectionEasier = "easier"
	DirectionSame   = "same"
)

// --- Service Interface ---
type WorkoutService interface {
	CalculateIntensity(level domain.FitnessLevel) int
	GenerateWorkout(profile domain.UserProfile) (*domain.WorkoutPlan, error)
	AdaptDifficulty(rating domain.WorkoutRating, current *domain.WorkoutPlan, profile domain.UserProfile) (*domain.WorkoutPlan, error)
	SaveWorkout(ctx context.Context, plan *domain.WorkoutPlan) (string, error)
	GetSavedWorkout(ctx context.Context, id string) (*domain.WorkoutPlan, error)
	GetSavedWorkoutsForUser(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
	VerifyWorkout(ctx context.Context, id string, req domain.VerificationRequest) (*domain.VerificationResult, error)
	Catalog() []domain.Exercise
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	store  repository.WorkoutStore
	rng    RandomSource
	logger *logger.Logger
}

// NewWorkoutService creates a new instance of workoutService.
// A nil store acknowledges plans without persisting them; a nil rng uses DefaultRandom.
func NewWorkoutService(store repository.WorkoutStore, rng RandomSource, log *logger.Logger) WorkoutService {
	if store == nil {
		store = repository.AckStore{}
	}
	if rng == nil {
		rng = DefaultRandom()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &workoutService{
		store:  store,
		rng:    rng,
		logger: log,
	}
}

// CalculateIntensity maps a fitness level to its 1-10 intensity score.
// Unknown levels map to 0.
func (s *workoutService) CalculateIntensity(level domain.FitnessLevel) int {
	return intensityByLevel[level]
}

// GenerateWorkout builds a plan that fits the user's level, equipment, injuries and
// preferred duration. It fails with ErrNoSuitableExercises when nothing in the catalog
// is eligible.
func (s *workoutService) GenerateWorkout(profile domain.UserProfile) (*domain.WorkoutPlan, error) {
	intensity := s.CalculateIntensity(profile.FitnessLevel)
	if intensity == 0 {
		return nil, ErrInvalidFitnessLevel
	}
	if profile.PreferredDurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	eligible := filterExercises(profile, intensity)
	if len(eligible) == 0 {
		return nil, ErrNoSuitableExercises
	}

	selected := s.selectExercises(eligible, profile.PreferredDurationMinutes)
	if len(selected) == 0 {
		// The eligible set was too small for the fallback and every exercise overshoots
		// the duration cap. A plan must hold at least one exercise.
		return nil, ErrNoSuitableExercises
	}

	plan := &domain.WorkoutPlan{
		ID:                   newWorkoutID(),
		UserID:               profile.UserID,
		Title:                s.pickTitle(profile.FitnessLevel),
		Description:          fmt.Sprintf("Personalized %s workout", profile.FitnessLevel),
		Exercises:            selected,
		TotalDurationMinutes: totalDurationMinutes(selected),
		EstimatedCalories:    estimatedCalories(selected),
		Difficulty:           profile.FitnessLevel,
		DifficultyScore:      intensity,
		CreatedAt:            time.Now().UTC(),
		IsVerified:           true,
		Tags:                 planTags(profile),
	}

	s.logger.Debugw("Generated workout",
		"workout_id", plan.ID,
		"user_id", plan.UserID,
		"level", plan.Difficulty,
		"eligible", len(eligible),
		"exercises", len(plan.Exercises),
		"minutes", plan.TotalDurationMinutes)

	return plan, nil
}

// AdaptDifficulty shifts the previous plan's score by the rating and regenerates a
// whole new plan at the resulting level. Neither the current plan nor the profile
// passed in are modified.
func (s *workoutService) AdaptDifficulty(rating domain.WorkoutRating, current *domain.WorkoutPlan, profile domain.UserProfile) (*domain.WorkoutPlan, error) {
	if current == nil {
		return nil, ErrWorkoutRequired
	}
	if !domain.IsValidDifficultyRating(rating.DifficultyRating) {
		return nil, ErrInvalidRating
	}

	newScore := AdjustScore(current.DifficultyScore, rating.DifficultyRating)
	newLevel := LevelForScore(newScore)

	s.logger.Debugw("Adapting workout",
		"workout_id", current.ID,
		"rating", rating.DifficultyRating,
		"old_score", current.DifficultyScore,
		"new_score", newScore,
		"new_level", newLevel)

	return s.GenerateWorkout(profile.WithRating(newLevel, rating))
}

// SaveWorkout hands the plan to the configured store, minting an ID first if the
// plan has none. The caller's plan is not modified.
func (s *workoutService) SaveWorkout(ctx context.Context, plan *domain.WorkoutPlan) (string, error) {
	if plan == nil {
		return "", ErrWorkoutRequired
	}
	toSave := *plan
	if toSave.ID == "" {
		toSave.ID = newWorkoutID()
	}

	id, err := s.store.Save(ctx, &toSave)
	if err != nil {
		s.logger.Errorw("Failed to save workout", "workout_id", toSave.ID, "error", err)
		return "", err
	}
	return id, nil
}

// GetSavedWorkout reads a plan back from stores that support lookups.
func (s *workoutService) GetSavedWorkout(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	finder, ok := s.store.(repository.WorkoutFinder)
	if !ok {
		return nil, ErrWorkoutLookupUnavail
	}
	plan, err := finder.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetSavedWorkoutsForUser lists a user's stored plans, newest first.
func (s *workoutService) GetSavedWorkoutsForUser(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	finder, ok := s.store.(repository.WorkoutFinder)
	if !ok {
		return nil, ErrWorkoutLookupUnavail
	}
	return finder.GetByUserID(ctx, userID)
}

// Catalog returns a copy of the exercise library.
func (s *workoutService) Catalog() []domain.Exercise {
	out := make([]domain.Exercise, len(exerciseCatalog))
	copy(out, exerciseCatalog)
	return out
}

// AdjustScore moves a difficulty score in response to a 1-5 rating:
// 1-2 (too easy) raises it, 4-5 (too hard) lowers it, 3 keeps it. The result stays in 1-10.
func AdjustScore(score, rating int) int {
	switch {
	case rating <= 2:
		return min(maxScore, score+ratingStep)
	case rating >= 4:
		return max(minScore, score-ratingStep)
	}
	return score
}

// LevelForScore maps a 1-10 score back to a fitness level band.
func LevelForScore(score int) domain.FitnessLevel {
	switch {
	case score <= 3:
		return domain.LevelBeginner
	case score <= 6:
		return domain.LevelIntermediate
	case score <= 8:
		return domain.LevelAdvanced
	}
	return domain.LevelExpert
}

// AdaptationDirection names the effect a rating has on difficulty.
func AdaptationDirection(rating int) string {
	switch {
	case rating <= 2:
		return DirectionHarder
	case rating >= 4:
		return DirectionEasier
	}
	return DirectionSame
}

// filterExercises keeps catalog entries within the difficulty window that the user has
// the equipment for and that avoid every injured area. Catalog order is preserved.
func filterExercises(profile domain.UserProfile, intensity int) []domain.Exercise {
	restricted := restrictedAreas(profile.Injuries)

	var eligible []domain.Exercise
	for _, ex := range exerciseCatalog {
		if abs(ex.Difficulty-intensity) > difficultyWindow {
			continue
		}
		if ex.RequiresEquipment() && !profile.HasEquipment(ex.Equipment) {
			continue
		}
		if ex.Affects(restricted) {
			continue
		}
		eligible = append(eligible, ex)
	}
	return eligible
}

// selectExercises shuffles the eligible set and greedily fills the session up to 120% of
// the target, stopping once 80% is reached. If that yields fewer than three exercises
// while three are available, the first three eligible ones are used instead.
func (s *workoutService) selectExercises(eligible []domain.Exercise, preferredMinutes int) []domain.Exercise {
	target := float64(preferredMinutes * 60)

	shuffled := make([]domain.Exercise, len(eligible))
	copy(shuffled, eligible)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var selected []domain.Exercise
	current := 0
	for _, ex := range shuffled {
		if len(selected) >= maxExercisesPerPlan {
			break
		}
		d := exerciseSeconds(ex)
		if float64(current+d) <= target*durationUpperFactor {
			selected = append(selected, ex)
			current += d
		}
		if float64(current) >= target*durationLowerFactor {
			break
		}
	}

	if len(selected) < minExercisesPerPlan && len(eligible) >= minExercisesPerPlan {
		fallback := make([]domain.Exercise, minExercisesPerPlan)
		copy(fallback, eligible[:minExercisesPerPlan])
		return fallback
	}
	return selected
}

// exerciseSeconds estimates time for all sets including rest.
func exerciseSeconds(ex domain.Exercise) int {
	return ex.Sets * (ex.Reps*secondsPerRep + ex.RestSeconds)
}

func totalDurationMinutes(exercises []domain.Exercise) int {
	total := 0
	for _, ex := range exercises {
		total += exerciseSeconds(ex)
	}
	return int(math.Ceil(float64(total) / 60))
}

func estimatedCalories(exercises []domain.Exercise) int {
	total := 0
	for _, ex := range exercises {
		total += ex.Calories()
	}
	return total
}

func (s *workoutService) pickTitle(level domain.FitnessLevel) string {
	titles := titlesByLevel[level]
	return titles[s.rng.IntN(len(titles))]
}

func planTags(profile domain.UserProfile) []string {
	tags := []string{string(profile.FitnessLevel)}
	if profile.HasGoal(domain.GoalWeightLoss) {
		tags = append(tags, "fat-burn")
	}
	if profile.HasGoal(domain.GoalMuscleGain) {
		tags = append(tags, "strength")
	}
	if len(profile.AvailableEquipment) == 0 {
		tags = append(tags, "bodyweight")
	}
	return tags
}

func newWorkoutID() string {
	return "workout_" + uuid.NewString()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
