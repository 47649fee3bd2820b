package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForScore(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, TierForScore(0.81))
	assert.Equal(t, ConfidenceMedium, TierForScore(0.8))
	assert.Equal(t, ConfidenceMedium, TierForScore(0.61))
	assert.Equal(t, ConfidenceLow, TierForScore(0.6))
	assert.Equal(t, ConfidenceLow, TierForScore(0))
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.123, Round3(0.1234))
	assert.Equal(t, 0.124, Round3(0.1236))
	assert.Equal(t, 1.0, Round3(0.9999))
	assert.Equal(t, 0.0, Round3(0.0004))
}
