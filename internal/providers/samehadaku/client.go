package samehadaku

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	providerhttp "github.com/justchokingaround/anistream/internal/providers/http"
)

// DefaultBaseURL is the public Samehadaku mirror
const DefaultBaseURL = "https://www.sankavollerei.com/anime/samehadaku"

// Client talks to the Samehadaku JSON API
type Client struct {
	baseURL    string
	httpClient *providerhttp.Client
	logger     *slog.Logger
}

// New creates a Samehadaku client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, httpClient *providerhttp.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = providerhttp.NewClient(providerhttp.DefaultClientConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Name() string {
	return "samehadaku"
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Home fetches the recently released list
func (c *Client) Home(ctx context.Context) (*HomeResponse, error) {
	var response HomeResponse
	if err := c.get(ctx, "/home", nil, &response); err != nil {
		return nil, fmt.Errorf("home failed: %w", err)
	}
	return &response, nil
}

// Search runs a paged title search
func (c *Client) Search(ctx context.Context, query string, page int) (*ListResponse, error) {
	params := map[string]string{
		"q":    query,
		"page": strconv.Itoa(page),
	}

	var response ListResponse
	if err := c.get(ctx, "/search", params, &response); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return &response, nil
}

// Ongoing fetches a page of currently airing titles
func (c *Client) Ongoing(ctx context.Context, page int) (*ListResponse, error) {
	params := map[string]string{
		"page": strconv.Itoa(page),
	}

	var response ListResponse
	if err := c.get(ctx, "/ongoing", params, &response); err != nil {
		return nil, fmt.Errorf("ongoing failed: %w", err)
	}
	return &response, nil
}

// Anime fetches the detail page of a title
func (c *Client) Anime(ctx context.Context, slug string) (*AnimeResponse, error) {
	var response AnimeResponse
	if err := c.get(ctx, "/anime/"+url.PathEscape(slug), nil, &response); err != nil {
		return nil, fmt.Errorf("get anime failed: %w", err)
	}
	return &response, nil
}

// Episode fetches streams, servers and downloads of one episode
func (c *Client) Episode(ctx context.Context, slug string) (*EpisodeResponse, error) {
	var response EpisodeResponse
	if err := c.get(ctx, "/episode/"+url.PathEscape(slug), nil, &response); err != nil {
		return nil, fmt.Errorf("get episode failed: %w", err)
	}
	return &response, nil
}

// Batch fetches the batch download page
func (c *Client) Batch(ctx context.Context, slug string) (*BatchResponse, error) {
	var response BatchResponse
	if err := c.get(ctx, "/batch/"+url.PathEscape(slug), nil, &response); err != nil {
		return nil, fmt.Errorf("get batch failed: %w", err)
	}
	return &response, nil
}

// Server resolves a server id into an embeddable stream URL
func (c *Client) Server(ctx context.Context, serverID string) (*ServerResponse, error) {
	var response ServerResponse
	if err := c.get(ctx, "/server/"+url.PathEscape(serverID), nil, &response); err != nil {
		return nil, fmt.Errorf("get server failed: %w", err)
	}
	return &response, nil
}

// HealthCheck verifies the upstream answers /home
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Home(ctx)
	return err
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	c.logger.Debug("samehadaku request", "path", path, "params", params)
	return c.httpClient.GetJSON(ctx, c.baseURL, path, params, result)
}
