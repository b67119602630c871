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

const setCollectionName = "workout_sets"

// mongoSetRepository implements repository.SetRepository
type mongoSetRepository struct {
	collection *mongo.Collection
}

func NewMongoSetRepository(db *mongo.Database) repository.SetRepository {
	return &mongoSetRepository{
		collection: db.Collection(setCollectionName),
	}
}

// CreateMany bulk-inserts sets, assigning IDs in place.
func (r *mongoSetRepository) CreateMany(ctx context.Context, sets []domain.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(sets))
	for i := range sets {
		if sets[i].WorkoutLogID == "" || sets[i].UserID == "" {
			return errors.New("workout set requires user_id and workout_log_id")
		}
		sets[i].ID = uuid.NewString()
		sets[i].CreatedAt = now
		docs[i] = sets[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return mapError(err)
}

func (r *mongoSetRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSet, error) {
	var set domain.WorkoutSet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&set); err != nil {
		return nil, mapError(err)
	}
	return &set, nil
}

// ListByLogIDs fetches the sets of many logs in one query.
func (r *mongoSetRepository) ListByLogIDs(ctx context.Context, logIDs []string) ([]domain.WorkoutSet, error) {
	if len(logIDs) == 0 {
		return []domain.WorkoutSet{}, nil
	}
	return r.find(ctx, bson.M{"workout_log_id": bson.M{"$in": logIDs}})
}

func (r *mongoSetRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSet, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// Update changes weight and reps of a set.
func (r *mongoSetRepository) Update(ctx context.Context, set *domain.WorkoutSet) error {
	if set.ID == "" {
		return errors.New("set ID is required for update")
	}
	update := bson.M{"$set": bson.M{"weight": set.Weight, "reps": set.Reps}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": set.ID}, update)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSetRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutSet, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "workout_log_id", Value: 1}, {Key: "set_number", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	sets := []domain.WorkoutSet{}
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// EnsureSetIndexes creates necessary indexes. Call during startup.
func EnsureSetIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workout_log_id", Value: 1}, {Key: "set_number", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
