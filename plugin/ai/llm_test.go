package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSourceMarkers(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected []string
	}{
		{
			name:     "no markers",
			answer:   "The deployment checklist lives in the runbook.",
			expected: nil,
		},
		{
			name:     "single marker",
			answer:   "Rotate the key quarterly. [Source: Key Rotation Policy]",
			expected: []string{"Key Rotation Policy"},
		},
		{
			name:     "multiple markers",
			answer:   "See [Source: Runbook] and [Source: Incident Playbook] for details.",
			expected: []string{"Runbook", "Incident Playbook"},
		},
		{
			name:     "duplicates collapsed case-insensitively",
			answer:   "[Source: Runbook] ... [Source: runbook]",
			expected: []string{"Runbook"},
		},
		{
			name:     "whitespace trimmed",
			answer:   "[Source:   Onboarding Guide  ]",
			expected: []string{"Onboarding Guide"},
		},
		{
			name:     "empty marker ignored",
			answer:   "[Source: ] nothing here",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			citations := ParseSourceMarkers(tt.answer)
			refs := []string(nil)
			for _, c := range citations {
				refs = append(refs, c.RefID)
			}
			require.Equal(t, tt.expected, refs)
		})
	}
}

func TestTotalTokens(t *testing.T) {
	require.Equal(t, 0, totalTokens(nil))
	require.Equal(t, 42, totalTokens(map[string]any{"TotalTokens": 42}))
	require.Equal(t, 30, totalTokens(map[string]any{"PromptTokens": 20, "CompletionTokens": 10}))
}
