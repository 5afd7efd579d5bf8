package chat

import (
	"strings"

	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/store"
)

// Internal link paths for reconciled citations.
const (
	documentLinkPrefix = "/documents/"
	alertLinkPrefix    = "/alerts/"
)

// ReconcileCitations maps provider citations back to internal records.
// The provider RefID is usually a title fragment, so matching is best-effort
// case-insensitive substring search: documents first, then alerts, first hit
// wins. A citation that matches nothing passes through with only its RefID,
// which is lossy but not an error.
func ReconcileCitations(provider []ai.ProviderCitation, items []*RetrievedItem, alerts []*store.Alert) []*store.Citation {
	citations := make([]*store.Citation, 0, len(provider))
	for _, pc := range provider {
		citations = append(citations, reconcileOne(pc, items, alerts))
	}
	return citations
}

func reconcileOne(pc ai.ProviderCitation, items []*RetrievedItem, alerts []*store.Alert) *store.Citation {
	needle := strings.ToLower(pc.RefID)

	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			return &store.Citation{
				RefID:     pc.RefID,
				SourceUID: item.UID,
				Title:     item.Title,
				Link:      documentLinkPrefix + item.UID,
				Kind:      "document",
			}
		}
	}

	for _, alert := range alerts {
		if strings.Contains(strings.ToLower(alert.Title), needle) {
			return &store.Citation{
				RefID:     pc.RefID,
				SourceUID: alert.UID,
				Title:     alert.Title,
				Link:      alertLinkPrefix + alert.UID,
				Kind:      "alert",
			}
		}
	}

	return &store.Citation{RefID: pc.RefID}
}
