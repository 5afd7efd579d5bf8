package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/store"
)

func TestRecentDocumentsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	now := time.Now().Unix()
	for i := 0; i < 7; i++ {
		_, err := ts.CreateDocument(ctx, &store.Document{
			UID:       fmt.Sprintf("doc-%d", i),
			TenantID:  "t1",
			Title:     fmt.Sprintf("Doc %d", i),
			Content:   "content",
			CreatedTs: now + int64(i),
			UpdatedTs: now + int64(i),
		})
		require.NoError(t, err)
	}
	_, err := ts.CreateDocument(ctx, &store.Document{
		UID:       "other-tenant-doc",
		TenantID:  "t2",
		Title:     "Other",
		Content:   "content",
		CreatedTs: now + 100,
		UpdatedTs: now + 100,
	})
	require.NoError(t, err)

	documents, err := ts.RecentDocuments(ctx, "t1", 5)
	require.NoError(t, err)
	require.Len(t, documents, 5)
	// Newest first; t2's document never leaks in.
	require.Equal(t, "Doc 6", documents[0].Title)
	require.Equal(t, "Doc 2", documents[4].Title)
	for _, doc := range documents {
		require.Equal(t, "t1", doc.TenantID)
	}
}

func TestAlertStatusFilter(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	now := time.Now().Unix()
	statuses := []store.AlertStatus{store.AlertStatusOpen, store.AlertStatusResolved, store.AlertStatusOpen}
	for i, status := range statuses {
		_, err := ts.CreateAlert(ctx, &store.Alert{
			UID:       fmt.Sprintf("alert-%d", i),
			TenantID:  "t1",
			Title:     fmt.Sprintf("Alert %d", i),
			Severity:  store.AlertSeverityHigh,
			Status:    status,
			CreatedTs: now + int64(i),
			UpdatedTs: now + int64(i),
		})
		require.NoError(t, err)
	}

	tenant := "t1"
	open := store.AlertStatusOpen
	alerts, err := ts.ListAlerts(ctx, &store.FindAlert{TenantID: &tenant, Status: &open})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, alert := range alerts {
		require.Equal(t, store.AlertStatusOpen, alert.Status)
	}

	alerts, err = ts.ListAlerts(ctx, &store.FindAlert{TenantID: &tenant, Status: &open, Limit: 1})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Alert 2", alerts[0].Title)
}
