package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testDefaultModel = "gpt-4o-mini"
	testHardModel    = "gpt-4o"
)

func TestRouteModelDefault(t *testing.T) {
	choice := RouteModel("what is our sla?", "small context", 800, testDefaultModel, testHardModel)
	require.Equal(t, testDefaultModel, choice.Model)
	require.Equal(t, ReasonDefault, choice.Reason)
	require.Empty(t, choice.MatchedKeyword)
}

func TestRouteModelHardTopicKeyword(t *testing.T) {
	choice := RouteModel("compare our architecture options", "tiny", 100, testDefaultModel, testHardModel)
	require.Equal(t, testHardModel, choice.Model)
	require.Equal(t, ReasonHardTopicKeyword, choice.Reason)
	require.NotEmpty(t, choice.MatchedKeyword)
}

func TestRouteModelTokenThresholds(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		context   string
		maxTokens int
		expected  string
	}{
		{
			name:      "context tokens at threshold",
			query:     "short",
			context:   strings.Repeat("x", routeContextTokensThreshold*4),
			maxTokens: 100,
			expected:  testHardModel,
		},
		{
			name:      "context tokens just under threshold",
			query:     "short",
			context:   strings.Repeat("x", (routeContextTokensThreshold-200)*4),
			maxTokens: 100,
			expected:  testDefaultModel,
		},
		{
			name:      "max tokens at threshold",
			query:     "short",
			context:   "small",
			maxTokens: routeMaxTokensThreshold,
			expected:  testHardModel,
		},
		{
			name:      "query tokens at threshold",
			query:     strings.Repeat("x", routeQueryTokensThreshold*4),
			context:   "small",
			maxTokens: 100,
			expected:  testHardModel,
		},
		{
			name:      "total requested at threshold",
			query:     strings.Repeat("x", 700*4-4),
			context:   strings.Repeat("x", 1200*4),
			maxTokens: 800,
			expected:  testHardModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice := RouteModel(tt.query, tt.context, tt.maxTokens, testDefaultModel, testHardModel)
			require.Equal(t, tt.expected, choice.Model)
			if tt.expected == testHardModel {
				require.Equal(t, ReasonHighTokenDemand, choice.Reason)
			}
		})
	}
}

func TestRouteModelDiagnostics(t *testing.T) {
	choice := RouteModel("abcdefgh", "abcd", 100, testDefaultModel, testHardModel)
	require.Equal(t, 2, choice.QueryTokens)
	require.Equal(t, 1, choice.ContextTokens)
	require.Equal(t, 103, choice.TotalRequested)
}
