package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/store"
)

func TestReconcileCitationsDocumentMatch(t *testing.T) {
	items := []*RetrievedItem{
		{UID: "doc-1", Title: "Incident Response Runbook"},
	}

	citations := ReconcileCitations([]ai.ProviderCitation{{RefID: "incident response"}}, items, nil)
	require.Len(t, citations, 1)
	require.Equal(t, "incident response", citations[0].RefID)
	require.Equal(t, "doc-1", citations[0].SourceUID)
	require.Equal(t, "Incident Response Runbook", citations[0].Title)
	require.Equal(t, "/documents/doc-1", citations[0].Link)
	require.Equal(t, "document", citations[0].Kind)
}

func TestReconcileCitationsAlertMatch(t *testing.T) {
	alerts := []*store.Alert{
		{UID: "alert-1", Title: "Prod DB outage"},
	}

	citations := ReconcileCitations([]ai.ProviderCitation{{RefID: "prod db"}}, nil, alerts)
	require.Len(t, citations, 1)
	require.Equal(t, "alert-1", citations[0].SourceUID)
	require.Equal(t, "/alerts/alert-1", citations[0].Link)
	require.Equal(t, "alert", citations[0].Kind)
}

func TestReconcileCitationsDocumentsBeforeAlerts(t *testing.T) {
	items := []*RetrievedItem{
		{UID: "doc-1", Title: "Outage postmortem"},
	}
	alerts := []*store.Alert{
		{UID: "alert-1", Title: "Outage in progress"},
	}

	citations := ReconcileCitations([]ai.ProviderCitation{{RefID: "outage"}}, items, alerts)
	require.Equal(t, "doc-1", citations[0].SourceUID)
	require.Equal(t, "document", citations[0].Kind)
}

func TestReconcileCitationsFirstMatchWins(t *testing.T) {
	items := []*RetrievedItem{
		{UID: "doc-1", Title: "Deployment guide"},
		{UID: "doc-2", Title: "Deployment checklist"},
	}

	citations := ReconcileCitations([]ai.ProviderCitation{{RefID: "deployment"}}, items, nil)
	require.Equal(t, "doc-1", citations[0].SourceUID)
}

func TestReconcileCitationsPassThrough(t *testing.T) {
	items := []*RetrievedItem{
		{UID: "doc-1", Title: "Runbook"},
	}

	citations := ReconcileCitations([]ai.ProviderCitation{{RefID: "nonexistent title"}}, items, nil)
	require.Len(t, citations, 1)
	require.Equal(t, "nonexistent title", citations[0].RefID)
	require.Empty(t, citations[0].SourceUID)
	require.Empty(t, citations[0].Link)
	require.Empty(t, citations[0].Kind)
}

func TestReconcileCitationsEmpty(t *testing.T) {
	require.Empty(t, ReconcileCitations(nil, nil, nil))
}
