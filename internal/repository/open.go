package repository

import (
	"context"
	"fmt"

	"socialdesk/config"
	"socialdesk/pkg/database"
	"socialdesk/pkg/logger"
)

// Open connects to the store chosen by cfg.DBDriver and returns its
// collections together with a function that releases the connection.
func Open(ctx context.Context, cfg *config.Config, media Destroyer, l *logger.Logger) (*Collections, func(context.Context) error, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoCollections(db, media, l), client.Disconnect, nil
	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresCollections(pool, media, l), func(context.Context) error {
			pool.Close()
			return nil
		}, nil
	case config.DriverMemory:
		l.Warnf("using the in-memory store, data is lost on restart")
		return NewMemoryCollections(media, l), func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
