package botdetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoaxlens/models"
)

func newTestEngine() *Engine {
	e := NewEngine(0.6)
	e.now = func() time.Time {
		return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return e
}

func TestDetect_SuspiciousProfile(t *testing.T) {
	e := newTestEngine()

	profile := models.AuthorProfile{
		Username:       "user8675309",
		FollowersCount: 0,
		FollowingCount: 3000,
	}

	result := e.Detect(profile)

	assert.True(t, result.Positive, "profile should classify as bot")
	assert.Greater(t, result.Probability, 0.6)
	assert.NotEmpty(t, result.RiskFactors)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
}

func TestDetect_EstablishedProfile(t *testing.T) {
	e := newTestEngine()

	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	profile := models.AuthorProfile{
		Username:        "maria_chen",
		DisplayName:     "Maria Chen",
		Bio:             "Science journalist covering public health and climate policy.",
		FollowersCount:  50000,
		FollowingCount:  500,
		PostCount:       1200,
		Verified:        true,
		ProfileImageURL: "https://example.com/avatar.jpg",
		CreatedAt:       &created,
	}

	result := e.Detect(profile)

	assert.False(t, result.Positive)
	assert.Less(t, result.Probability, 0.3)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
}

func TestScoreUsername(t *testing.T) {
	tests := []struct {
		username string
		want     float64
	}{
		{"", 0.5},
		{"bot12345", 0.8},
		{"account2024", 0.8},
		{"jsmith_20240101", 0.8},
		{"aaaaaaaabb", 0.6},
		{"averyverylongusername", 0.4},
		{"maria_chen", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreUsername(tt.username))
		})
	}
}

func TestScoreFollowerRatio(t *testing.T) {
	tests := []struct {
		name                 string
		followers, following int
		want                 float64
	}{
		{"empty shell", 0, 0, 0.7},
		{"no followers", 0, 3000, 0.8},
		{"extreme following", 100, 1500, 0.9},
		{"high following", 100, 600, 0.7},
		{"moderate following", 100, 300, 0.5},
		{"mass followed", 50000, 500, 0.3},
		{"balanced", 1000, 900, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreFollowerRatio(tt.followers, tt.following))
		})
	}
}

func TestScoreBio(t *testing.T) {
	assert.Equal(t, 0.4, scoreBio(""))
	assert.Equal(t, 0.6, scoreBio("hi there"))
	assert.Equal(t, 0.9, scoreBio("official automated news feed for updates"))
	assert.Equal(t, 0.7, scoreBio("links: http://a.co/x http://b.co/y http://c.co/z promo deals"))
	assert.Equal(t, 0.1, scoreBio("Science journalist covering public health and climate policy."))
}

func TestDetect_WeightBudgetNormalized(t *testing.T) {
	e := newTestEngine()

	// Worst possible profile must still score within [0,1].
	profile := models.AuthorProfile{
		Username:       "bot99999999",
		FollowingCount: 50000,
	}
	result := e.Detect(profile)

	require.GreaterOrEqual(t, result.Probability, 0.0)
	require.LessOrEqual(t, result.Probability, 1.0)
}

func TestDetect_Deterministic(t *testing.T) {
	e := newTestEngine()
	profile := models.AuthorProfile{Username: "user8675309", FollowingCount: 3000}

	first := e.Detect(profile)
	second := e.Detect(profile)

	assert.Equal(t, first.Probability, second.Probability)
	assert.Equal(t, first.RiskFactors, second.RiskFactors)
}
