package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoaxlens/models"
)

func TestSampleSearchByTopic(t *testing.T) {
	client := NewBraveClient(Config{})

	tests := []struct {
		name       string
		query      string
		wantSource string
	}{
		{"health topic", "fact check vaksin mengandung chip 5g", "www.kompas.com"},
		{"politics topic", "fact check harga bbm naik besok", "www.liputan6.com"},
		{"disaster topic", "fact check gempa besar diprediksi paranormal", "www.bmkg.go.id"},
		{"general topic", "fact check kopi baik untuk jantung", "www.halodoc.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := client.Search(context.Background(), tt.query)
			require.NoError(t, err)
			require.NotEmpty(t, results.Results)
			assert.Equal(t, tt.query, results.Query)
			assert.Equal(t, tt.wantSource, results.Results[0].Source)
			assert.Equal(t, len(results.Results), results.TotalResults)
		})
	}
}

func TestSearchGroupsByStance(t *testing.T) {
	client := NewBraveClient(Config{})

	results, err := client.Search(context.Background(), "fact check vaksin chip 5g")
	require.NoError(t, err)

	assert.Len(t, results.Contradicting, 2)
	assert.Len(t, results.Neutral, 1)
	assert.Empty(t, results.Supporting)

	for _, r := range results.Results {
		assert.NotEmpty(t, r.Credibility, "result from %s missing a credibility tier", r.Source)
	}
}

func TestRealSearchParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "fact check vaccine claim", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"web": {"results": [
			{"title": "Claim dibantah oleh ahli", "url": "https://www.kompas.com/a", "description": "Fakta atau hoax soal vaccine"},
			{"title": "Studi vaccine terbaru", "url": "https://example.org/b", "description": "Penelitian menunjukkan hasil baik"}
		]}}`))
	}))
	defer server.Close()

	client := NewBraveClient(Config{APIKey: "secret", BaseURL: server.URL, UseRealAPI: true})

	results, err := client.Search(context.Background(), "fact check vaccine claim")
	require.NoError(t, err)
	require.Len(t, results.Results, 2)
	assert.Equal(t, models.StanceContradicting, results.Results[0].Stance)
	assert.Equal(t, models.StanceSupporting, results.Results[1].Stance)
	assert.Equal(t, "www.kompas.com", results.Results[0].Source)
	assert.Equal(t, "medium", results.Results[0].Credibility)
}

func TestRealSearchFallsBackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewBraveClient(Config{APIKey: "secret", BaseURL: server.URL, UseRealAPI: true})

	results, err := client.Search(context.Background(), "fact check vaksin rumor")
	require.NoError(t, err)
	assert.NotEmpty(t, results.Results)
}

func TestSourceCredibility(t *testing.T) {
	assert.Equal(t, "high", SourceCredibility("kemkes.go.id"))
	assert.Equal(t, "high", SourceCredibility("mit.edu"))
	assert.Equal(t, "low", SourceCredibility("blogspot.com"))
	assert.Equal(t, "medium", SourceCredibility("random-site.com"))
	assert.Equal(t, "medium", SourceCredibility("example.org"))
}

func TestSummaryVerdicts(t *testing.T) {
	mostlyContradicting := assembleResults("q", []models.SearchResult{
		{Stance: models.StanceContradicting},
		{Stance: models.StanceContradicting},
		{Stance: models.StanceSupporting},
	})
	summary := mostlyContradicting.Summary()
	assert.Equal(t, "high", summary["confidence"])

	empty := assembleResults("q", nil)
	summary = empty.Summary()
	assert.Equal(t, "low", summary["confidence"])
}
