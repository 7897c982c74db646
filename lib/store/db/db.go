// Package db implements the opening and graceful closing of database connections.
package db

import (
	"context"
	"fmt"

	"github.com/BaR488/Raiblocks.Api/lib/store"
	"github.com/BaR488/Raiblocks.Api/lib/store/memory"
	"github.com/BaR488/Raiblocks.Api/lib/store/mongo"
	"github.com/BaR488/Raiblocks.Api/lib/store/postgres"
)

const (
	MEMORY   string = "memory"
	MONGODB  string = "mongodb"
	POSTGRES string = "postgresql"
)

// New returns a new database connection according to the options (database type).
func New(options, connection string) (store.DB, error) {
	switch options {
	case MEMORY:
		return memory.New(), nil
	case MONGODB:
		return mongo.New(connection)
	case POSTGRES:
		return postgres.New(connection)
	}

	return nil, fmt.Errorf("unsupported database type %q", options)
}

// Close gracefully closes the database connection.
func Close(ctx context.Context, dh store.DB) error {
	if dh == nil {
		return nil
	}

	return dh.Close(ctx)
}
