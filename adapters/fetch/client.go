// Package fetch resolves post URLs to content snapshots and spread graphs.
// With no API credentials configured it serves deterministic sample data
// keyed by the post id, so repeated analyses of one URL agree.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"hoaxlens/internal"
	"hoaxlens/internal/errors"
	"hoaxlens/models"
	"hoaxlens/ports"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Config holds the content-API connection settings.
type Config struct {
	BearerToken string
	BaseURL     string
	UseRealAPI  bool
	Timeout     time.Duration
}

// Client implements ports.ContentFetcher.
type Client struct {
	bearerToken string
	baseURL     string
	useRealAPI  bool
	httpClient  *http.Client
	logger      *internal.Logger
}

func NewClient(config Config) *Client {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		bearerToken: config.BearerToken,
		baseURL:     baseURL,
		useRealAPI:  config.UseRealAPI && config.BearerToken != "",
		httpClient:  &http.Client{Timeout: timeout},
		logger:      internal.NewDefaultLogger("fetch"),
	}
}

var _ ports.ContentFetcher = (*Client)(nil)

var postURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`twitter\.com/\w+/status/(\d+)`),
	regexp.MustCompile(`x\.com/\w+/status/(\d+)`),
	regexp.MustCompile(`mobile\.twitter\.com/\w+/status/(\d+)`),
}

// ExtractPostID pulls the numeric post id out of a status URL.
func ExtractPostID(postURL string) (string, error) {
	for _, pattern := range postURLPatterns {
		if match := pattern.FindStringSubmatch(postURL); match != nil {
			return match[1], nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("not a recognizable post URL: %s", postURL))
}

// Fetch resolves a post URL to its content and author snapshots.
func (c *Client) Fetch(ctx context.Context, postURL string) (*models.ContentItem, *models.AuthorProfile, error) {
	postID, err := ExtractPostID(postURL)
	if err != nil {
		return nil, nil, err
	}

	if c.useRealAPI {
		return c.realFetch(ctx, postID, postURL)
	}
	content, author := samplePost(postID, postURL)
	return content, author, nil
}

// SpreadGraph serves the interaction graph around one post.
func (c *Client) SpreadGraph(ctx context.Context, postID string) (*models.SpreadGraph, error) {
	if postID == "" {
		return nil, errors.InvalidInput("post id must not be empty")
	}
	// The v2 API rations interaction expansion heavily, so the graph is
	// sample-generated in both modes.
	return sampleSpreadGraph(postID), nil
}

func (c *Client) realFetch(ctx context.Context, postID, postURL string) (*models.ContentItem, *models.AuthorProfile, error) {
	url := fmt.Sprintf("%s/tweets/%s?tweet.fields=created_at,public_metrics&user.fields=username,name,description,public_metrics,verified,created_at,profile_image_url&expansions=author_id",
		strings.TrimRight(c.baseURL, "/"), postID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, errors.ExternalService("content api", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, errors.NotFound("post")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, errors.ExternalService("content api", fmt.Errorf("http %d: %s", resp.StatusCode, string(raw)))
	}

	var decoded struct {
		Data struct {
			ID            string     `json:"id"`
			Text          string     `json:"text"`
			CreatedAt     *time.Time `json:"created_at"`
			PublicMetrics struct {
				RetweetCount int `json:"retweet_count"`
				LikeCount    int `json:"like_count"`
				ReplyCount   int `json:"reply_count"`
				QuoteCount   int `json:"quote_count"`
			} `json:"public_metrics"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID              string     `json:"id"`
				Username        string     `json:"username"`
				Name            string     `json:"name"`
				Description     string     `json:"description"`
				Verified        bool       `json:"verified"`
				ProfileImageURL string     `json:"profile_image_url"`
				CreatedAt       *time.Time `json:"created_at"`
				PublicMetrics   struct {
					FollowersCount int `json:"followers_count"`
					FollowingCount int `json:"following_count"`
					TweetCount     int `json:"tweet_count"`
				} `json:"public_metrics"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if decoded.Data.ID == "" {
		return nil, nil, errors.NotFound("post")
	}

	content := &models.ContentItem{
		PostID:       decoded.Data.ID,
		URL:          postURL,
		Text:         decoded.Data.Text,
		CreatedAt:    decoded.Data.CreatedAt,
		ReshareCount: decoded.Data.PublicMetrics.RetweetCount,
		LikeCount:    decoded.Data.PublicMetrics.LikeCount,
		ReplyCount:   decoded.Data.PublicMetrics.ReplyCount,
		QuoteCount:   decoded.Data.PublicMetrics.QuoteCount,
	}

	author := &models.AuthorProfile{}
	if len(decoded.Includes.Users) > 0 {
		u := decoded.Includes.Users[0]
		author = &models.AuthorProfile{
			UserID:          u.ID,
			Username:        u.Username,
			DisplayName:     u.Name,
			Bio:             u.Description,
			FollowersCount:  u.PublicMetrics.FollowersCount,
			FollowingCount:  u.PublicMetrics.FollowingCount,
			PostCount:       u.PublicMetrics.TweetCount,
			Verified:        u.Verified,
			ProfileImageURL: u.ProfileImageURL,
			CreatedAt:       u.CreatedAt,
		}
	}
	return content, author, nil
}
