package main

import (
	"context"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"alcyxob/workout-tracker/internal/repository/postgres"

	log "github.com/sirupsen/logrus"
)

// openStore connects the configured backend. migrate also creates indexes or
// tables. The returned func releases the connection.
func openStore(ctx context.Context, db config.DatabaseConfig, migrate bool) (*repository.Store, func(), error) {
	switch db.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(db.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() {
			log.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.WithError(err).Error("Failed to disconnect MongoDB")
			}
		}
		appDB := client.Database(db.Name)
		if migrate {
			indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
				closeFn()
				return nil, nil, fmt.Errorf("ensure indexes: %w", err)
			}
			log.Info("MongoDB indexes ensured")
		}
		log.WithField("database", db.Name).Info("MongoDB connection established")
		return mongo.NewStore(appDB), closeFn, nil

	case config.DriverPostgres:
		conn, err := postgres.Connect(ctx, db.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closeFn := func() {
			if err := conn.Close(); err != nil {
				log.WithError(err).Error("Failed to close postgres pool")
			}
		}
		if migrate {
			if err := postgres.Migrate(ctx, conn); err != nil {
				closeFn()
				return nil, nil, fmt.Errorf("migrate postgres: %w", err)
			}
			log.Info("Postgres schema migrated")
		}
		log.Info("Postgres connection established")
		return postgres.NewStore(conn), closeFn, nil

	case config.DriverMemory:
		log.Warn("Using the in-memory store; data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", db.Driver)
}
