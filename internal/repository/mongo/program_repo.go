// internal/repository/mongo/program_repo.go
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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (string, error) {
	if program.UserID == "" || program.Name == "" {
		return "", errors.New("program requires user_id and name")
	}
	program.ID = uuid.NewString()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, program); err != nil {
		return "", mapError(err)
	}
	return program.ID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	var program domain.Program
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program); err != nil {
		return nil, mapError(err)
	}
	return &program, nil
}

// ListByUser retrieves the programs owned by userID, newest first.
func (r *mongoProgramRepository) ListByUser(ctx context.Context, userID string) ([]domain.Program, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	programs := []domain.Program{}
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// Update sets the editable fields of a program. Owner and creation time never change.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == "" {
		return errors.New("program ID is required for update")
	}
	program.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        program.Name,
			"focus_area":  program.FocusArea,
			"level":       program.Level,
			"description": program.Description,
			"updated_at":  program.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": program.ID}, updateDoc)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program, ensuring it belongs to userID.
func (r *mongoProgramRepository) Delete(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return errors.New("program ID and user ID are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
