package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))

	// Rune-based slicing never splits a multi-byte character.
	wide := strings.Repeat("🔥", 10)
	got := Truncate(wide, 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("🔥", 4), got)
}

func TestFactCheckSummaryVerdicts(t *testing.T) {
	one := SearchResult{}

	disputed := &FactCheckResults{Contradicting: []SearchResult{one, one}, Supporting: []SearchResult{one}}
	assert.Equal(t, "high", disputed.Summary()["confidence"])

	supported := &FactCheckResults{Supporting: []SearchResult{one, one, one}, Neutral: []SearchResult{one}}
	assert.Equal(t, "medium", supported.Summary()["confidence"])
	assert.Contains(t, supported.Summary()["summary"], "support")

	empty := &FactCheckResults{}
	assert.Equal(t, "low", empty.Summary()["confidence"])
}
