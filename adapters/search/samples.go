package search

import (
	"strings"

	"hoaxlens/models"
)

// Sample-result topics, matched against the query text in order.
const (
	topicHealth   = "health"
	topicPolitics = "politics"
	topicDisaster = "disaster"
	topicGeneral  = "general"
)

var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{topicHealth, []string{"vaksin", "covid", "obat", "kesehatan", "virus", "chip 5g", "vaccine"}},
	{topicPolitics, []string{"pemerintah", "bbm", "harga", "politik", "menteri", "government"}},
	{topicDisaster, []string{"gempa", "bencana", "tsunami", "banjir", "darurat", "paranormal", "earthquake"}},
}

// sampleSearch serves deterministic canned results keyed by query topic.
func (c *BraveClient) sampleSearch(query string) *models.FactCheckResults {
	return assembleResults(query, sampleResults(queryTopic(query)))
}

func queryTopic(query string) string {
	lower := strings.ToLower(query)
	for _, entry := range topicKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.topic
			}
		}
	}
	return topicGeneral
}

func sampleResults(topic string) []models.SearchResult {
	switch topic {
	case topicHealth:
		return []models.SearchResult{
			{
				Title:       "Fakta atau Hoax: Klaim Vaksin Mengandung Chip 5G",
				URL:         "https://www.kompas.com/tren/read/2023/10/15/fakta-vaksin-chip-5g",
				Description: "Klaim bahwa vaksin COVID-19 mengandung chip 5G telah dibantah oleh berbagai ahli kesehatan dan organisasi kesehatan dunia.",
				Source:      "www.kompas.com",
				Relevance:   0.9,
				Stance:      models.StanceContradicting,
			},
			{
				Title:       "WHO Bantah Rumor Vaksin Berbahaya",
				URL:         "https://www.who.int/news/item/vaccine-safety-facts",
				Description: "World Health Organization memberikan klarifikasi mengenai keamanan vaksin COVID-19.",
				Source:      "www.who.int",
				Relevance:   0.85,
				Stance:      models.StanceContradicting,
			},
			{
				Title:       "Vaksin COVID-19: Manfaat dan Efek Samping",
				URL:         "https://www.kemkes.go.id/article/view/21060300002/vaksin-covid-19",
				Description: "Kementerian Kesehatan RI menjelaskan manfaat dan efek samping vaksin COVID-19.",
				Source:      "www.kemkes.go.id",
				Relevance:   0.8,
				Stance:      models.StanceNeutral,
			},
		}
	case topicPolitics:
		return []models.SearchResult{
			{
				Title:       "Kenaikan Harga BBM: Fakta dan Rumor",
				URL:         "https://www.liputan6.com/bisnis/read/4567890/kenaikan-bbm-fakta-rumor",
				Description: "Pemerintah belum mengumumkan kenaikan harga BBM. Informasi yang beredar di media sosial belum dikonfirmasi.",
				Source:      "www.liputan6.com",
				Relevance:   0.9,
				Stance:      models.StanceContradicting,
			},
			{
				Title:       "Klarifikasi Kementerian ESDM tentang Harga BBM",
				URL:         "https://www.esdm.go.id/id/media-center/arsip-berita/klarifikasi-harga-bbm",
				Description: "Kementerian ESDM memberikan klarifikasi resmi mengenai rumor kenaikan harga BBM.",
				Source:      "www.esdm.go.id",
				Relevance:   0.85,
				Stance:      models.StanceContradicting,
			},
		}
	case topicDisaster:
		return []models.SearchResult{
			{
				Title:       "BMKG Bantah Prediksi Gempa Bumi Berdasarkan Paranormal",
				URL:         "https://www.bmkg.go.id/press-release/prediksi-gempa-paranormal",
				Description: "BMKG menegaskan bahwa prediksi gempa bumi tidak dapat dilakukan berdasarkan hal-hal yang tidak ilmiah.",
				Source:      "www.bmkg.go.id",
				Relevance:   0.95,
				Stance:      models.StanceContradicting,
			},
			{
				Title:       "Cara Kerja Sistem Peringatan Dini Gempa",
				URL:         "https://www.bmkg.go.id/edukasi/gempa-bumi/sistem-peringatan-dini",
				Description: "BMKG menjelaskan bagaimana sistem peringatan dini gempa bumi bekerja.",
				Source:      "www.bmkg.go.id",
				Relevance:   0.8,
				Stance:      models.StanceNeutral,
			},
		}
	default:
		return []models.SearchResult{
			{
				Title:       "Manfaat Kopi untuk Kesehatan Jantung",
				URL:         "https://www.halodoc.com/artikel/manfaat-kopi-untuk-jantung",
				Description: "Penelitian menunjukkan bahwa konsumsi kopi dalam jumlah sedang dapat memberikan manfaat untuk kesehatan jantung.",
				Source:      "www.halodoc.com",
				Relevance:   0.7,
				Stance:      models.StanceSupporting,
			},
			{
				Title:       "Studi: Kopi Dapat Mengurangi Risiko Penyakit Jantung",
				URL:         "https://www.cnnindonesia.com/gaya-hidup/studi-kopi-jantung",
				Description: "Studi terbaru dari European Society of Cardiology menunjukkan hubungan positif antara konsumsi kopi dan kesehatan jantung.",
				Source:      "www.cnnindonesia.com",
				Relevance:   0.8,
				Stance:      models.StanceSupporting,
			},
		}
	}
}
