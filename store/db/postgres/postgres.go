package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/store"
)

// PostgreSQL is the primary database for production use. All features are
// fully supported, including vector similarity search via the pgvector
// extension. When adding new features, PostgreSQL is the reference
// implementation.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{
		db:      db,
		profile: profile,
	}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the latest schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	dims := d.profile.AIEmbeddingDims
	if dims <= 0 {
		dims = 1536
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS document (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			tenant_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_document_tenant_created ON document (tenant_id, created_ts DESC)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_embedding (
			id SERIAL PRIMARY KEY,
			document_id INTEGER NOT NULL REFERENCES document(id) ON DELETE CASCADE,
			embedding vector(%d) NOT NULL,
			model TEXT NOT NULL,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			UNIQUE (document_id, model)
		)`, dims),
		`CREATE TABLE IF NOT EXISTS alert (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			tenant_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL DEFAULT 'LOW',
			status TEXT NOT NULL DEFAULT 'OPEN',
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_tenant_updated ON alert (tenant_id, updated_ts DESC)`,
		`CREATE TABLE IF NOT EXISTS chat_session (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			tenant_id TEXT NOT NULL,
			creator_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_message (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			session_id INTEGER NOT NULL REFERENCES chat_session(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			citations TEXT NOT NULL DEFAULT '[]',
			created_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS response_cache (
			id SERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			query_hash TEXT NOT NULL,
			context_hash TEXT NOT NULL,
			answer TEXT NOT NULL DEFAULT '',
			citations TEXT NOT NULL DEFAULT '[]',
			tokens_used INTEGER NOT NULL DEFAULT 0,
			model TEXT NOT NULL DEFAULT '',
			expires_at BIGINT NOT NULL,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			UNIQUE (tenant_id, query_hash, context_hash)
		)`,
		`CREATE TABLE IF NOT EXISTS usage_log (
			id SERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			model TEXT NOT NULL,
			tokens_used INTEGER NOT NULL DEFAULT 0,
			cited_titles TEXT NOT NULL DEFAULT '[]',
			created_ts BIGINT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute migration: %s", firstLine(stmt))
		}
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx > 0 {
		return s[:idx]
	}
	return s
}

// placeholder returns the n-th placeholder for PostgreSQL ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}
