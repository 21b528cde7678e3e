package kuramanime

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	providerhttp "github.com/justchokingaround/anistream/internal/providers/http"
)

const (
	// DefaultBaseURL is the public Kuramanime mirror
	DefaultBaseURL = "https://www.sankavollerei.com/anime/kura"
	// DefaultHealthQuery is the search used to probe the upstream
	DefaultHealthQuery = "naruto"
)

// Client talks to the Kuramanime JSON API
type Client struct {
	baseURL     string
	healthQuery string
	httpClient  *providerhttp.Client
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHealthQuery overrides the search used by HealthCheck
func WithHealthQuery(q string) Option {
	return func(c *Client) {
		if q != "" {
			c.healthQuery = q
		}
	}
}

// New creates a Kuramanime client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, httpClient *providerhttp.Client, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = providerhttp.NewClient(providerhttp.DefaultClientConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:     baseURL,
		healthQuery: DefaultHealthQuery,
		httpClient:  httpClient,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return "kuramanime"
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs a title search. The upstream has no paging.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var response SearchResponse
	if err := c.get(ctx, "/search/"+url.PathEscape(query), &response); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return &response, nil
}

// Anime fetches the detail page of a title by numeric id and slug
func (c *Client) Anime(ctx context.Context, id int, slug string) (*AnimeResponse, error) {
	path := fmt.Sprintf("/anime/%d/%s", id, url.PathEscape(slug))

	var response AnimeResponse
	if err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("get anime failed: %w", err)
	}
	return &response, nil
}

// Watch fetches the streams and downloads of one episode
func (c *Client) Watch(ctx context.Context, id int, slug string, episode int) (*WatchResponse, error) {
	path := fmt.Sprintf("/watch/%d/%s/%s", id, url.PathEscape(slug), strconv.Itoa(episode))

	var response WatchResponse
	if err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("watch failed: %w", err)
	}
	return &response, nil
}

// HealthCheck verifies the upstream answers a search
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Search(ctx, c.healthQuery)
	return err
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	c.logger.Debug("kuramanime request", "path", path)
	return c.httpClient.GetJSON(ctx, c.baseURL, path, nil, result)
}
