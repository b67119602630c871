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

const shareCollectionName = "program_shares"

// mongoShareRepository implements repository.ShareRepository
type mongoShareRepository struct {
	collection *mongo.Collection
}

func NewMongoShareRepository(db *mongo.Database) repository.ShareRepository {
	return &mongoShareRepository{
		collection: db.Collection(shareCollectionName),
	}
}

func (r *mongoShareRepository) FindByProgramAndRecipient(ctx context.Context, programID, sharedWithUserID string) (*domain.ProgramShare, error) {
	var share domain.ProgramShare
	filter := bson.M{"program_id": programID, "shared_with_user_id": sharedWithUserID}
	if err := r.collection.FindOne(ctx, filter).Decode(&share); err != nil {
		return nil, mapError(err)
	}
	return &share, nil
}

// Create inserts a share. The unique (program_id, shared_with_user_id) index
// rejects duplicates that slip past the caller's existence check.
func (r *mongoShareRepository) Create(ctx context.Context, share *domain.ProgramShare) (string, error) {
	if share.ProgramID == "" || share.SharedByUserID == "" || share.SharedWithUserID == "" {
		return "", errors.New("share requires program_id, shared_by_user_id and shared_with_user_id")
	}
	share.ID = uuid.NewString()
	share.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, share); err != nil {
		return "", mapError(err)
	}
	return share.ID, nil
}

func (r *mongoShareRepository) GetByID(ctx context.Context, id string) (*domain.ProgramShare, error) {
	var share domain.ProgramShare
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&share); err != nil {
		return nil, mapError(err)
	}
	return &share, nil
}

// ListForUser returns shares sent or received by userID, newest first.
func (r *mongoShareRepository) ListForUser(ctx context.Context, userID string) ([]domain.ProgramShare, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"shared_by_user_id": userID},
		bson.M{"shared_with_user_id": userID},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	shares := []domain.ProgramShare{}
	if err = cursor.All(ctx, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (r *mongoShareRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoShareRepository) DeleteByProgram(ctx context.Context, programID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"program_id": programID})
	return mapError(err)
}

// EnsureShareIndexes creates necessary indexes. Call during startup.
func EnsureShareIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "program_id", Value: 1}, {Key: "shared_with_user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_program_recipient"),
		},
		{
			Keys:    bson.D{{Key: "shared_by_user_id", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "shared_with_user_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
