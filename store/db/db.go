package db

import (
	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/store"
	"github.com/workbenchhq/workbench/store/db/postgres"
	"github.com/workbenchhq/workbench/store/db/sqlite"
)

// PostgreSQL is the primary database: full support including vector search
// via pgvector. SQLite is supported for development and testing; it has no
// vector index, so similarity search reports unsupported and the chat
// pipeline falls back to recency-based retrieval.

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
