package chat

import (
	"strings"

	"github.com/workbenchhq/workbench/store"
)

// maxInjectedAlerts caps how many alerts are injected into context.
const maxInjectedAlerts = 3

// securityKeywords trigger alert injection when present in the normalized
// query, regardless of lexical overlap with any specific alert.
var securityKeywords = []string{
	"alert",
	"security",
	"incident",
	"vulnerability",
	"breach",
	"risk",
	"severity",
	"cve",
	"threat",
}

// FilterRelevantAlerts decides which alerts to inject into context. Alerts
// are opt-in context, not always-on: they make the cut only when the query
// contains a security keyword, or when a query word longer than 3 characters
// appears in an alert's title or description. At most maxInjectedAlerts are
// returned, in the given order.
func FilterRelevantAlerts(normalizedQuery string, alerts []*store.Alert) []*store.Alert {
	if len(alerts) == 0 {
		return nil
	}

	if !alertsRelevant(normalizedQuery, alerts) {
		return nil
	}

	if len(alerts) > maxInjectedAlerts {
		alerts = alerts[:maxInjectedAlerts]
	}
	return alerts
}

func alertsRelevant(normalizedQuery string, alerts []*store.Alert) bool {
	for _, keyword := range securityKeywords {
		if strings.Contains(normalizedQuery, keyword) {
			return true
		}
	}

	terms := []string{}
	for _, word := range strings.Fields(normalizedQuery) {
		if len(word) > 3 {
			terms = append(terms, word)
		}
	}
	if len(terms) == 0 {
		return false
	}

	for _, alert := range alerts {
		haystack := strings.ToLower(alert.Title + " " + alert.Description)
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
	}
	return false
}
