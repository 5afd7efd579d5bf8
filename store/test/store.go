// Package test provides store-level tests against the sqlite driver.
package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/store"
	"github.com/workbenchhq/workbench/store/db"
)

// NewTestingStore returns a migrated in-memory store.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
