package ports

import (
	"context"

	"hoaxlens/models"
)

// ContentFetcher resolves a post URL to its content and author snapshots, and
// serves the spread-event graph around a post. Unresolvable URLs surface as
// NOT_FOUND errors.
type ContentFetcher interface {
	Fetch(ctx context.Context, postURL string) (*models.ContentItem, *models.AuthorProfile, error)
	SpreadGraph(ctx context.Context, postID string) (*models.SpreadGraph, error)
}

// ReasoningPort is the external reasoning collaborator. Complete returns the
// raw reply text; it may fail or return unparsable output, and callers must
// degrade gracefully.
type ReasoningPort interface {
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)
}

// SearchPort is the web-search collaborator used for fact-checking.
type SearchPort interface {
	Search(ctx context.Context, query string) (*models.FactCheckResults, error)
}

// ReportRenderer turns structured analysis data into stored artifacts,
// returning storage locators. The pipeline never inspects the artifact
// contents.
type ReportRenderer interface {
	RenderReport(data map[string]interface{}) (string, error)
	RenderNetworkWorkbook(report *models.NetworkReport) (string, error)
}
