// internal/repository/mongo/session_repo.go
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

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new WorkoutSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// FindByUserAndDate returns the session of userID on date or ErrNotFound.
func (r *mongoSessionRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"user_id": userID, "session_date": date}
	if err := r.collection.FindOne(ctx, filter).Decode(&session); err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

// Create inserts a new session. The unique (user_id, session_date) index
// turns a concurrent second insert into ErrDuplicate.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (string, error) {
	if session.UserID == "" || session.SessionDate == "" {
		return "", errors.New("session requires user_id and session_date")
	}
	session.ID = uuid.NewString()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return "", mapError(err)
	}
	return session.ID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

// ListByUser returns the sessions of userID, newest session date first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "session_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update renames a session and sets its duration.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	if session.ID == "" {
		return errors.New("session ID is required for update")
	}
	session.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"session_name":     session.SessionName,
			"duration_minutes": session.DurationMinutes,
			"updated_at":       session.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One session per user per calendar day
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "session_date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_session_date"),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
