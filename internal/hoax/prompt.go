package hoax

import (
	"fmt"
	"strings"

	"hoaxlens/models"
)

// buildPrompt embeds the post text and an author summary into the fixed
// instruction template. The template demands a strict JSON payload so the
// reply can be parsed into analysisPayload.
func buildPrompt(text string, author models.AuthorProfile) string {
	verified := "No"
	if author.Verified {
		verified = "Yes"
	}
	bio := author.Bio
	if bio == "" {
		bio = "none"
	}

	var b strings.Builder
	b.WriteString("Analyze the following social-media post for potential hoax or misinformation:\n\n")
	fmt.Fprintf(&b, "POST: %q\n\n", text)
	b.WriteString("AUTHOR INFORMATION:\n")
	fmt.Fprintf(&b, "- Username: @%s\n", author.Username)
	fmt.Fprintf(&b, "- Display Name: %s\n", author.DisplayName)
	fmt.Fprintf(&b, "- Bio: %s\n", bio)
	fmt.Fprintf(&b, "- Followers: %d\n", author.FollowersCount)
	fmt.Fprintf(&b, "- Following: %d\n", author.FollowingCount)
	fmt.Fprintf(&b, "- Total Posts: %d\n", author.PostCount)
	fmt.Fprintf(&b, "- Verified: %s\n\n", verified)
	b.WriteString(`ANALYSIS CRITERIA:
1. Claims unsupported by evidence
2. Sensational or clickbait language
3. Medical/health information without sources
4. Unverified political claims
5. Unofficial disaster or emergency information
6. Baseless conspiracy theories
7. Suspicious financial/economic information

RESPOND WITH A JSON OBJECT:
{
    "hoax_probability": 0.0,
    "is_hoax": false,
    "confidence_level": "low|medium|high",
    "analysis_summary": "short summary of the analysis",
    "red_flags": ["list", "of", "warning", "signs"],
    "reasons": ["reason 1", "reason 2"],
    "category": "political|health|disaster|celebrity|financial|conspiracy|normal",
    "recommendations": ["advice for readers"]
}

Respond with valid JSON only.`)

	return b.String()
}
