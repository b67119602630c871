package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const logCollectionName = "workout_logs"

// mongoLogRepository implements repository.LogRepository
type mongoLogRepository struct {
	collection *mongo.Collection
}

func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		collection: db.Collection(logCollectionName),
	}
}

// Create inserts a new workout log.
func (r *mongoLogRepository) Create(ctx context.Context, l *domain.WorkoutLog) (string, error) {
	if l.UserID == "" || l.ExerciseID == "" || l.WorkoutSessionID == "" {
		return "", errors.New("workout log requires user_id, exercise_id and workout_session_id")
	}
	l.ID = uuid.NewString()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, l); err != nil {
		return "", mapError(err)
	}
	return l.ID, nil
}

func (r *mongoLogRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutLog, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// ListByUserAndExercises fetches the logs of many exercises in one query.
func (r *mongoLogRepository) ListByUserAndExercises(ctx context.Context, userID string, exerciseIDs []string) ([]domain.WorkoutLog, error) {
	if len(exerciseIDs) == 0 {
		return []domain.WorkoutLog{}, nil
	}
	return r.find(ctx, bson.M{"user_id": userID, "exercise_id": bson.M{"$in": exerciseIDs}})
}

func (r *mongoLogRepository) ListBySession(ctx context.Context, userID, sessionID string) ([]domain.WorkoutLog, error) {
	return r.find(ctx, bson.M{"user_id": userID, "workout_session_id": sessionID})
}

// find sorts newest first; _id breaks ties between logs created in the same instant.
func (r *mongoLogRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	logs := []domain.WorkoutLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureLogIndexes creates necessary indexes. Call during startup.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "workout_session_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
