package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// unauthorizedCode is the server error code returned when the connected
// role lacks the privilege for an operation.
const unauthorizedCode = 13

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every collection-backed repository of db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Exercises:        NewMongoExerciseRepository(db),
		Sessions:         NewMongoSessionRepository(db),
		Logs:             NewMongoLogRepository(db),
		Sets:             NewMongoSetRepository(db),
		Programs:         NewMongoProgramRepository(db),
		ProgramExercises: NewMongoProgramExerciseRepository(db),
		Shares:           NewMongoShareRepository(db),
		Users:            NewMongoUserRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection, including the
// unique indexes on (user_id, session_date) and (program_id, shared_with_user_id).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := []struct {
		collection string
		fn         func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{sessionCollectionName, EnsureSessionIndexes},
		{logCollectionName, EnsureLogIndexes},
		{setCollectionName, EnsureSetIndexes},
		{programCollectionName, EnsureProgramIndexes},
		{programExerciseCollectionName, EnsureProgramExerciseIndexes},
		{shareCollectionName, EnsureShareIndexes},
	}

	var err error
	for _, e := range ensure {
		if indexErr := e.fn(ctx, db.Collection(e.collection)); indexErr != nil {
			log.Warnf("failed to create indexes for collection %s: %s", e.collection, indexErr)
			err = multierr.Append(err, indexErr)
		}
	}
	return err
}

// mapError converts driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(unauthorizedCode) {
		return repository.ErrPermissionDenied
	}
	return err
}
