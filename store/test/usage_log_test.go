package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/store"
)

func TestUsageLogFilters(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	now := time.Now().Unix()
	seed := []*store.UsageLog{
		{TenantID: "t1", UserID: "u1", Model: "gpt-4o-mini", TokensUsed: 120, CitedTitles: []string{"Runbook"}, CreatedTs: now - 3},
		{TenantID: "t1", UserID: "u2", Model: "gpt-4o", TokensUsed: 900, CreatedTs: now - 2},
		{TenantID: "t1", UserID: "u1", Model: store.UsageModelCache, TokensUsed: 0, CreatedTs: now - 1},
		{TenantID: "t2", UserID: "u9", Model: "gpt-4o-mini", TokensUsed: 50, CreatedTs: now},
	}
	for _, log := range seed {
		_, err := ts.CreateUsageLog(ctx, log)
		require.NoError(t, err)
	}

	tenant := "t1"
	logs, err := ts.ListUsageLogs(ctx, &store.FindUsageLog{TenantID: &tenant})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// Most recent first.
	require.Equal(t, store.UsageModelCache, logs[0].Model)
	require.Equal(t, []string{"Runbook"}, logs[2].CitedTitles)

	user := "u1"
	logs, err = ts.ListUsageLogs(ctx, &store.FindUsageLog{TenantID: &tenant, UserID: &user})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	model := store.UsageModelCache
	logs, err = ts.ListUsageLogs(ctx, &store.FindUsageLog{TenantID: &tenant, Model: &model})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Zero(t, logs[0].TokensUsed)

	logs, err = ts.ListUsageLogs(ctx, &store.FindUsageLog{TenantID: &tenant, Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 2)
}
