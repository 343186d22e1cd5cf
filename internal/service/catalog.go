package service

import "wellity/backend/internal/domain"

// exerciseCatalog is the fixed library the engine selects from. Order matters: it is
// the fallback order when the duration-bounded pick comes up short.
// Shared read-only; never modify entries.
var exerciseCatalog = []domain.Exercise{
	// Beginner
	{Name: "Push-ups", Sets: 3, Reps: 10, RestSeconds: 60, Difficulty: 3, AffectedAreas: []string{"chest", "arms"}, CaloriesBurned: intPtr(50)},
	{Name: "Bodyweight Squats", Sets: 3, Reps: 15, RestSeconds: 60, Difficulty: 2, AffectedAreas: []string{"legs"}, CaloriesBurned: intPtr(60)},
	{Name: "Plank", Sets: 3, Reps: 1, DurationSeconds: intPtr(30), RestSeconds: 60, Difficulty: 3, AffectedAreas: []string{"core"}, CaloriesBurned: intPtr(30)},
	{Name: "Wall Sits", Sets: 3, Reps: 1, DurationSeconds: intPtr(30), RestSeconds: 60, Difficulty: 3, AffectedAreas: []string{"legs"}, CaloriesBurned: intPtr(40)},

	// Intermediate
	{Name: "Burpees", Sets: 3, Reps: 12, RestSeconds: 60, Difficulty: 6, AffectedAreas: []string{"full_body"}, CaloriesBurned: intPtr(100)},
	{Name: "Lunges", Sets: 3, Reps: 12, RestSeconds: 60, Difficulty: 5, AffectedAreas: []string{"legs"}, CaloriesBurned: intPtr(70)},
	{Name: "Mountain Climbers", Sets: 3, Reps: 20, RestSeconds: 45, Difficulty: 6, AffectedAreas: []string{"core", "cardio"}, CaloriesBurned: intPtr(80)},
	{Name: "Dumbbell Rows", Sets: 3, Reps: 12, RestSeconds: 60, Difficulty: 5, Equipment: "dumbbells", AffectedAreas: []string{"back"}, CaloriesBurned: intPtr(60)},

	// Advanced
	{Name: "Pull-ups", Sets: 4, Reps: 8, RestSeconds: 90, Difficulty: 8, Equipment: "pull-up bar", AffectedAreas: []string{"back", "arms"}, CaloriesBurned: intPtr(90)},
	{Name: "Pistol Squats", Sets: 3, Reps: 8, RestSeconds: 90, Difficulty: 9, AffectedAreas: []string{"legs"}, CaloriesBurned: intPtr(80)},
	{Name: "Handstand Push-ups", Sets: 3, Reps: 6, RestSeconds: 120, Difficulty: 10, AffectedAreas: []string{"shoulders", "arms"}, CaloriesBurned: intPtr(100)},
	{Name: "Box Jumps", Sets: 4, Reps: 10, RestSeconds: 90, Difficulty: 7, Equipment: "box", AffectedAreas: []string{"legs", "cardio"}, CaloriesBurned: intPtr(90)},
}

// injuryRestrictions maps an injury to the affected areas it rules out.
var injuryRestrictions = map[domain.InjuryType][]string{
	domain.InjuryKnee:     {"legs"},
	domain.InjuryShoulder: {"shoulders", "arms"},
	domain.InjuryBack:     {"back", "core"},
	domain.InjuryAnkle:    {"legs"},
	domain.InjuryWrist:    {"arms"},
	domain.InjuryNone:     {},
}

var intensityByLevel = map[domain.FitnessLevel]int{
	domain.LevelBeginner:     3,
	domain.LevelIntermediate: 6,
	domain.LevelAdvanced:     8,
	domain.LevelExpert:       10,
}

var titlesByLevel = map[domain.FitnessLevel][]string{
	domain.LevelBeginner:     {"Starter Workout", "Foundation Builder", "Beginner Blast"},
	domain.LevelIntermediate: {"Power Routine", "Strength Session", "Balanced Workout"},
	domain.LevelAdvanced:     {"Intense Training", "Advanced Circuit", "Elite Routine"},
	domain.LevelExpert:       {"Extreme Challenge", "Master Workout", "Peak Performance"},
}

// restrictedAreas is the union of areas ruled out by the given injuries.
func restrictedAreas(injuries []domain.InjuryType) map[string]struct{} {
	areas := make(map[string]struct{})
	for _, injury := range injuries {
		for _, area := range injuryRestrictions[injury] {
			areas[area] = struct{}{}
		}
	}
	return areas
}

func intPtr(v int) *int { return &v }
