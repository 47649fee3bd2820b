// Package render writes analysis artifacts to disk and returns their
// locations. Reports render as HTML documents via a markdown intermediate;
// network data exports as an Excel workbook.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"hoaxlens/internal"
	"hoaxlens/models"
	"hoaxlens/ports"
)

// Renderer implements ports.ReportRenderer on the local filesystem.
type Renderer struct {
	reportsDir string
	vizDir     string
	logger     *internal.Logger
}

func NewRenderer(reportsDir, vizDir string) (*Renderer, error) {
	for _, dir := range []string{reportsDir, vizDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
		}
	}
	return &Renderer{
		reportsDir: reportsDir,
		vizDir:     vizDir,
		logger:     internal.NewDefaultLogger("render"),
	}, nil
}

var _ ports.ReportRenderer = (*Renderer)(nil)

// RenderReport writes the analysis report as an HTML document and returns
// its path.
func (r *Renderer) RenderReport(data map[string]interface{}) (string, error) {
	md := reportMarkdown(data)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	opts := html.RendererOptions{Flags: html.CommonFlags | html.CompletePage, Title: "Misinformation Risk Report"}
	htmlDoc := markdown.ToHTML([]byte(md), p, html.NewRenderer(opts))

	path := filepath.Join(r.reportsDir, fmt.Sprintf("hoax_report_%d.html", time.Now().UnixNano()))
	if err := os.WriteFile(path, htmlDoc, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	r.logger.Info("report written to %s", path)
	return path, nil
}

// reportMarkdown builds the markdown source for one report.
func reportMarkdown(data map[string]interface{}) string {
	var b strings.Builder

	b.WriteString("# Misinformation Risk Report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format(time.RFC1123))

	if url, ok := data["post_url"].(string); ok {
		fmt.Fprintf(&b, "**Post:** %s\n\n", url)
	}

	if content, ok := data["content"].(*models.ContentItem); ok && content != nil {
		b.WriteString("## Content\n\n")
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(content.Text, "\n", " "))
		fmt.Fprintf(&b, "- Reshares: %d, Likes: %d, Replies: %d\n\n",
			content.ReshareCount, content.LikeCount, content.ReplyCount)
	}

	if author, ok := data["author"].(*models.AuthorProfile); ok && author != nil {
		b.WriteString("## Author\n\n")
		fmt.Fprintf(&b, "- Username: @%s\n", author.Username)
		fmt.Fprintf(&b, "- Followers: %d, Following: %d\n", author.FollowersCount, author.FollowingCount)
		fmt.Fprintf(&b, "- Verified: %t\n\n", author.Verified)
	}

	if verdict, ok := data["hoax_analysis"].(models.HoaxVerdict); ok {
		b.WriteString("## Content Credibility\n\n")
		fmt.Fprintf(&b, "- Hoax probability: **%.3f** (%s confidence)\n", verdict.Probability, verdict.Confidence)
		fmt.Fprintf(&b, "- Flagged as hoax: %t\n", verdict.IsHoax)
		if verdict.Category != "" {
			fmt.Fprintf(&b, "- Category: %s\n", verdict.Category)
		}
		if verdict.Summary != "" {
			fmt.Fprintf(&b, "\n%s\n", verdict.Summary)
		}
		writeList(&b, "Red flags", verdict.RedFlags)
		writeList(&b, "Reasons", verdict.Reasons)
		writeList(&b, "Recommendations", verdict.Recommendations)
		b.WriteString("\n")
	}

	if bot, ok := data["bot_detection"].(models.ScoreResult); ok {
		b.WriteString("## Account Automation\n\n")
		fmt.Fprintf(&b, "- Bot probability: **%.3f** (%s confidence)\n", bot.Probability, bot.Confidence)
		fmt.Fprintf(&b, "- Flagged as bot: %t\n", bot.Positive)
		if bot.Explanation != "" {
			fmt.Fprintf(&b, "\n%s\n", bot.Explanation)
		}
		writeList(&b, "Risk factors", bot.RiskFactors)
		b.WriteString("\n")
	}

	if facts, ok := data["fact_check_results"].(*models.FactCheckResults); ok && facts != nil {
		b.WriteString("## Fact Check\n\n")
		fmt.Fprintf(&b, "Query: `%s` (%d results)\n\n", facts.Query, facts.TotalResults)
		fmt.Fprintf(&b, "- Supporting sources: %d\n", len(facts.Supporting))
		fmt.Fprintf(&b, "- Contradicting sources: %d\n", len(facts.Contradicting))
		fmt.Fprintf(&b, "- Neutral sources: %d\n\n", len(facts.Neutral))
		verdict := facts.Summary()
		fmt.Fprintf(&b, "%s %s\n\n", verdict["summary"], verdict["recommendation"])
		for _, result := range facts.Results {
			credibility := result.Credibility
			if credibility == "" {
				credibility = "unrated"
			}
			fmt.Fprintf(&b, "- [%s](%s) (%s, %s, %s credibility)\n",
				result.Title, result.URL, result.Source, result.Stance, credibility)
		}
		b.WriteString("\n")
	}

	if network, ok := data["network_analysis"].(*models.NetworkReport); ok && network != nil {
		b.WriteString("## Spread Network\n\n")
		fmt.Fprintf(&b, "- Nodes: %d, Edges: %d, Density: %.3f\n",
			network.TotalNodes, network.TotalEdges, network.Metrics.Density)
		fmt.Fprintf(&b, "- Spread type: **%s**\n", network.SpreadType)
		fmt.Fprintf(&b, "- Network risk: **%.3f** (%s)\n", network.RiskScore, network.RiskLevel)
		fmt.Fprintf(&b, "- Communities: %d (%s, modularity %.3f)\n\n",
			network.Communities.NumCommunities, network.Communities.Method, network.Communities.Modularity)
		if len(network.InfluentialNodes) > 0 {
			b.WriteString("### Most influential accounts\n\n")
			for _, node := range network.InfluentialNodes {
				fmt.Fprintf(&b, "- %s (%s): influence %.3f\n", node.Label, node.Role, node.InfluenceScore)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
