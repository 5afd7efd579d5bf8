package chat

import (
	"fmt"
	"strings"

	"github.com/workbenchhq/workbench/store"
)

const (
	// contextTokenBudget is the soft token budget for assembled context.
	contextTokenBudget = 2000
	// snippetMaxChars bounds a single document snippet.
	snippetMaxChars = 800
	// alertsSectionHeader introduces the alert lines appended after documents.
	alertsSectionHeader = "Security Alerts:"
)

// AssembleContext packs ranked documents and alerts into a bounded context
// string. Packing is a greedy prefix, not bin-packing: the first line whose
// estimated tokens would overflow the budget stops its section, even if a
// later, smaller line would still fit. Alerts are appended after documents
// and compete for the same total budget, so documents are prioritized.
func AssembleContext(header string, items []*RetrievedItem, alerts []*store.Alert, tokenBudget int) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	usedTokens := EstimateTokens(b.String())

	for _, item := range items {
		line := fmt.Sprintf("- [%s] (Score: %.2f): %s\n", item.Title, item.Score, snippet(item))
		lineTokens := EstimateTokens(line)
		if usedTokens+lineTokens > tokenBudget {
			break
		}
		b.WriteString(line)
		usedTokens += lineTokens
	}

	if len(alerts) > 0 {
		b.WriteString(alertsSectionHeader)
		b.WriteString("\n")
		usedTokens = EstimateTokens(b.String())

		for _, alert := range alerts {
			line := fmt.Sprintf("- %s [%s]: %s (Status: %s)\n",
				alert.Title, alert.Severity, clamp(alert.Description, snippetMaxChars), alert.Status)
			lineTokens := EstimateTokens(line)
			if usedTokens+lineTokens > tokenBudget {
				break
			}
			b.WriteString(line)
			usedTokens += lineTokens
		}
	}

	return strings.TrimSpace(b.String())
}

// snippet prefers the document summary over its full content.
func snippet(item *RetrievedItem) string {
	text := item.Summary
	if text == "" {
		text = item.Content
	}
	return clamp(text, snippetMaxChars)
}

func clamp(text string, max int) string {
	clamped := truncateChars(text, max)
	if clamped == text {
		return text
	}
	return clamped + "..."
}

// truncateChars cuts text to at most max characters, never splitting a rune.
func truncateChars(text string, max int) string {
	if len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
