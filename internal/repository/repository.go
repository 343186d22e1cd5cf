package repository

import (
	"context"
	"wellity/backend/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound   = RepositoryError("not found")
	ErrSaveFailed = RepositoryError("save failed")
	ErrInvalidID  = RepositoryError("invalid id")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutStore persists or acknowledges a generated plan and returns its identifier.
// The plan passed in always carries an ID.
type WorkoutStore interface {
	Save(ctx context.Context, plan *domain.WorkoutPlan) (string, error)
}

// WorkoutFinder is implemented by stores that can read plans back.
type WorkoutFinder interface {
	GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
}

// WorkoutRepository is a store that supports both writes and lookups.
type WorkoutRepository interface {
	WorkoutStore
	WorkoutFinder
}

// AckStore is the no-persistence store: it accepts every plan and echoes its ID.
type AckStore struct{}

func (AckStore) Save(_ context.Context, plan *domain.WorkoutPlan) (string, error) {
	return plan.ID, nil
}
