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

const programExerciseCollectionName = "program_exercises"

// mongoProgramExerciseRepository implements repository.ProgramExerciseRepository
type mongoProgramExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramExerciseRepository(db *mongo.Database) repository.ProgramExerciseRepository {
	return &mongoProgramExerciseRepository{
		collection: db.Collection(programExerciseCollectionName),
	}
}

func (r *mongoProgramExerciseRepository) Create(ctx context.Context, pe *domain.ProgramExercise) (string, error) {
	if pe.ProgramID == "" || pe.ExerciseID == "" {
		return "", errors.New("program exercise requires program_id and exercise_id")
	}
	pe.ID = uuid.NewString()
	pe.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, pe); err != nil {
		return "", mapError(err)
	}
	return pe.ID, nil
}

func (r *mongoProgramExerciseRepository) GetByID(ctx context.Context, id string) (*domain.ProgramExercise, error) {
	var pe domain.ProgramExercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pe); err != nil {
		return nil, mapError(err)
	}
	return &pe, nil
}

func (r *mongoProgramExerciseRepository) CountByProgram(ctx context.Context, programID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"program_id": programID})
	if err != nil {
		return 0, mapError(err)
	}
	return int(n), nil
}

// ListByPrograms fetches the exercises of many programs in one query.
func (r *mongoProgramExerciseRepository) ListByPrograms(ctx context.Context, programIDs []string) ([]domain.ProgramExercise, error) {
	if len(programIDs) == 0 {
		return []domain.ProgramExercise{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "program_id", Value: 1}, {Key: "order_index", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"program_id": bson.M{"$in": programIDs}}, findOptions)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	items := []domain.ProgramExercise{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoProgramExerciseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgramExerciseRepository) DeleteByProgram(ctx context.Context, programID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"program_id": programID})
	return mapError(err)
}

// EnsureProgramExerciseIndexes creates necessary indexes. Call during startup.
func EnsureProgramExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "program_id", Value: 1}, {Key: "order_index", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
