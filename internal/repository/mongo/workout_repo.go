// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new WorkoutPlan repository.
// Call EnsureWorkoutIndexes once at startup.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Save upserts the plan keyed by its ID, so saving the same plan twice is harmless.
func (r *mongoWorkoutRepository) Save(ctx context.Context, plan *domain.WorkoutPlan) (string, error) {
	if plan.ID == "" || plan.UserID == "" {
		return "", errors.New("workout plan requires id and userId")
	}

	filter := bson.M{"_id": plan.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, plan, opts); err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrSaveFailed, err)
	}
	return plan.ID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByUserID retrieves all plans generated for a user, newest first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	return plans, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's plans, newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
		{
			Keys:    bson.D{{Key: "difficulty", Value: 1}},
			Options: options.Index().SetName("difficulty"),
		},
	}
	_, err := db.Collection(workoutCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
