package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		xp           int
		expectedTier string
		expectedNext string
	}{
		{"Negative clamps to Rookie", -10, "Rookie", "Bronze"},
		{"Zero XP", 0, "Rookie", "Bronze"},
		{"Just below Bronze", 499, "Rookie", "Bronze"},
		{"Exactly Bronze", 500, "Bronze", "Silver"},
		{"Mid Silver", 2000, "Silver", "Gold"},
		{"Top tier", 10000, "Platinum", ""},
		{"Beyond top tier", 99999, "Platinum", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProgressionFor(tt.xp)
			assert.Equal(t, tt.expectedTier, p.Tier.Name)
			if tt.expectedNext == "" {
				assert.Nil(t, p.NextTier)
				assert.EqualValues(t, 100, p.Percent)
			} else {
				assert.Equal(t, tt.expectedNext, p.NextTier.Name)
			}
		})
	}
}

func TestProgressionPercent(t *testing.T) {
	t.Parallel()

	// Bronze spans 500-1500; 1000 XP is halfway.
	p := ProgressionFor(1000)
	assert.Equal(t, "Bronze", p.Tier.Name)
	assert.InDelta(t, 50, p.Percent, 0.01)
}
