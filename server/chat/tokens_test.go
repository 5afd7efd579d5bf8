package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 8000), 2000},
		{strings.Repeat("x", 8001), 2001},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, EstimateTokens(tt.text))
	}
}
