package fetch

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"hoaxlens/models"
)

// samplePost builds a deterministic content+author pair keyed by the post
// id, so repeated analyses of one URL agree.
func samplePost(postID, postURL string) (*models.ContentItem, *models.AuthorProfile) {
	rng := rand.New(rand.NewSource(int64(seed(postID))))

	post := samplePosts[rng.Intn(len(samplePosts))]
	user := sampleUsers[rng.Intn(len(sampleUsers))]

	created := time.Now().Add(-time.Duration(1+rng.Intn(72)) * time.Hour)
	accountCreated := time.Now().AddDate(0, 0, -user.accountAgeDays)

	content := &models.ContentItem{
		PostID:       postID,
		URL:          postURL,
		Text:         post,
		CreatedAt:    &created,
		ReshareCount: rng.Intn(500),
		LikeCount:    rng.Intn(2000),
		ReplyCount:   rng.Intn(200),
		QuoteCount:   rng.Intn(50),
	}
	author := &models.AuthorProfile{
		UserID:          fmt.Sprintf("user_%d", seed(postID)%900000+100000),
		Username:        user.username,
		DisplayName:     user.displayName,
		Bio:             user.bio,
		FollowersCount:  user.followers,
		FollowingCount:  user.following,
		PostCount:       user.posts,
		Verified:        user.verified,
		ProfileImageURL: user.profileImage,
		CreatedAt:       &accountCreated,
	}
	return content, author
}

// sampleSpreadGraph builds a deterministic interaction graph keyed by the
// post id: one original node plus resharers, repliers, and mentioners.
func sampleSpreadGraph(postID string) *models.SpreadGraph {
	rng := rand.New(rand.NewSource(int64(seed(postID)) + 1))

	originID := fmt.Sprintf("user_%d", seed(postID)%900000+100000)
	graph := &models.SpreadGraph{
		Nodes: []models.SpreadNode{{
			ID:        originID,
			Label:     "@" + originID,
			Role:      models.RoleOriginal,
			Followers: 1000 + rng.Intn(49000),
			Influence: 0.5 + rng.Float64()*0.5,
		}},
	}

	resharers := 5 + rng.Intn(46)
	for i := 0; i < resharers; i++ {
		id := fmt.Sprintf("resharer_%d", i)
		graph.Nodes = append(graph.Nodes, models.SpreadNode{
			ID:        id,
			Label:     "@" + id,
			Role:      models.RoleResharer,
			Followers: 100 + rng.Intn(9900),
			Influence: 0.1 + rng.Float64()*0.6,
		})
		graph.Edges = append(graph.Edges, models.SpreadEdge{
			From: originID, To: id, Type: models.InteractionReshare, Weight: 0.5 + rng.Float64()*0.5,
		})
	}

	repliers := 3 + rng.Intn(18)
	for i := 0; i < repliers; i++ {
		id := fmt.Sprintf("replier_%d", i)
		graph.Nodes = append(graph.Nodes, models.SpreadNode{
			ID:        id,
			Label:     "@" + id,
			Role:      models.RoleReplier,
			Followers: 50 + rng.Intn(4950),
			Influence: 0.1 + rng.Float64()*0.4,
		})
		graph.Edges = append(graph.Edges, models.SpreadEdge{
			From: originID, To: id, Type: models.InteractionReply, Weight: 0.3 + rng.Float64()*0.5,
		})
	}

	mentioners := 1 + rng.Intn(10)
	for i := 0; i < mentioners; i++ {
		id := fmt.Sprintf("mentioner_%d", i)
		graph.Nodes = append(graph.Nodes, models.SpreadNode{
			ID:        id,
			Label:     "@" + id,
			Role:      models.RoleMentioner,
			Followers: 200 + rng.Intn(7800),
			Influence: 0.2 + rng.Float64()*0.4,
		})
		graph.Edges = append(graph.Edges, models.SpreadEdge{
			From: id, To: originID, Type: models.InteractionMention, Weight: 0.2 + rng.Float64()*0.4,
		})
	}

	return graph
}

func seed(postID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return h.Sum32()
}

var samplePosts = []string{
	"BREAKING: Pemerintah akan menaikkan harga BBM hingga 50% minggu depan! Siap-siap ya guys. #BBM #Kenaikan",
	"URGENT: Pajak motor naik 200% mulai bulan depan! Buruan bayar sebelum terlambat! #PajakMotor #Urgent",
	"Vaksin COVID-19 ternyata mengandung chip 5G yang bisa mengontrol pikiran manusia. Jangan percaya pemerintah!",
	"VIRAL: Air putih hangat dengan lemon bisa menyembuhkan kanker dalam 3 hari! Dokter tidak mau kasih tahu!",
	"Gempa bumi dahsyat akan terjadi besok di Jakarta berdasarkan prediksi paranormal terkenal. Segera evakuasi!",
	"PERINGATAN: Tsunami setinggi 50 meter akan menerjang Bali minggu depan! Ahli spiritual sudah memperingatkan!",
	"SHOCKING: Artis A meninggal dunia karena overdosis! Keluarga masih merahasiakan! #RIPArtisA",
	"Selamat pagi! Hari ini cuaca sangat cerah. Semoga hari kalian menyenangkan",
	"Lagi nyoba resep nasi goreng baru nih, hasilnya enak banget! Mau coba juga?",
	"Penelitian terbaru menunjukkan bahwa minum kopi secara teratur dapat mengurangi risiko penyakit jantung hingga 20%. Sumber: Journal of Medical Research 2024",
	"Menurut data BPS, inflasi bulan ini turun 0.2% dibanding bulan lalu. Harga sembako mulai stabil. #EkonomiIndonesia",
	"Apple baru saja merilis iPhone 15 Pro dengan fitur AI yang canggih. Harga mulai dari $999. #iPhone15Pro #Apple",
	"Indonesia menang 3-1 lawan Thailand di SEA Games 2024! Timnas kita makin keren! #TimnasIndonesia",
}

type sampleUser struct {
	username       string
	displayName    string
	bio            string
	followers      int
	following      int
	posts          int
	verified       bool
	profileImage   string
	accountAgeDays int
}

var sampleUsers = []sampleUser{
	{
		username:       "berita_update",
		displayName:    "Berita Update",
		bio:            "Akun berita terpercaya Indonesia",
		followers:      120000,
		following:      400,
		posts:          8500,
		verified:       false,
		profileImage:   "https://example.com/avatars/berita_update.jpg",
		accountAgeDays: 1400,
	},
	{
		username:       "info_viral",
		displayName:    "Info Viral",
		bio:            "Berbagi informasi viral terkini",
		followers:      45000,
		following:      32000,
		posts:          2100,
		verified:       false,
		profileImage:   "",
		accountAgeDays: 200,
	},
	{
		username:       "breaking_news24",
		displayName:    "Breaking News 24",
		bio:            "Breaking news dari seluruh dunia",
		followers:      150000,
		following:      80000,
		posts:          6200,
		verified:       false,
		profileImage:   "",
		accountAgeDays: 90,
	},
	{
		username:       "user8675309",
		displayName:    "",
		bio:            "",
		followers:      0,
		following:      3000,
		posts:          450,
		verified:       false,
		profileImage:   "",
		accountAgeDays: 14,
	},
	{
		username:       "maria_chen",
		displayName:    "Maria Chen",
		bio:            "City hall reporter covering local politics and budgets since 2015.",
		followers:      5200,
		following:      480,
		posts:          3100,
		verified:       true,
		profileImage:   "https://example.com/avatars/maria_chen.jpg",
		accountAgeDays: 3600,
	},
	{
		username:       "budi_santoso",
		displayName:    "Budi Santoso",
		bio:            "Penggemar kuliner dan jalan-jalan. Jakarta.",
		followers:      820,
		following:      350,
		posts:          1900,
		verified:       false,
		profileImage:   "https://example.com/avatars/budi.jpg",
		accountAgeDays: 2500,
	},
}
