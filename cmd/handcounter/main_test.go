package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcthang03/hand-counter/internal/game"
)

func TestParseContributions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected []game.Contribution
		hasError bool
	}{
		{
			name:  "plain and folded",
			input: []string{"A=100", "B=300:folded", "C=300"},
			expected: []game.Contribution{
				{Player: "A", Committed: 100},
				{Player: "B", Committed: 300, Folded: true},
				{Player: "C", Committed: 300},
			},
		},
		{
			name:     "short folded flag",
			input:    []string{"A=0:f"},
			expected: []game.Contribution{{Player: "A", Folded: true}},
		},
		{name: "missing equals", input: []string{"A100"}, hasError: true},
		{name: "missing name", input: []string{"=100"}, hasError: true},
		{name: "negative chips", input: []string{"A=-5"}, hasError: true},
		{name: "unknown flag", input: []string{"A=5:allin"}, hasError: true},
		{name: "duplicate player", input: []string{"A=5", "A=6"}, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseContributions(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatSettlement(t *testing.T) {
	t.Parallel()

	contributions, err := parseContributions([]string{"A=100", "B=200", "C=300"})
	require.NoError(t, err)
	s, err := game.BuildPots(contributions)
	require.NoError(t, err)

	assert.Equal(t, "main 300 [A, B, C]\nside1 200 [B, C]\nrefund C 100\ntotal 500, returned 100", formatSettlement(s))
}
