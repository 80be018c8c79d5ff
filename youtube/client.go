// Package youtube wraps the YouTube Data API v3 calls the tools need.
//
// The API interface is what tools depend on; Client is the production
// implementation backed by google.golang.org/api/youtube/v3. Responses are
// returned in the library's own types so that their JSON form is the raw
// upstream payload shape.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// DefaultTimeout bounds a single upstream call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// DefaultEndpoint is the public Data API base URL.
const DefaultEndpoint = "https://youtube.googleapis.com/"

// MaxPageSize is the largest page the Data API returns for list calls.
const MaxPageSize = 50

// ErrNotConfigured is returned by tools when no API key was provided.
var ErrNotConfigured = errors.New("YouTube API key is not configured")

// SearchRequest holds the parameters of a video search.
type SearchRequest struct {
	Query      string
	MaxResults int64
	Order      string
	PageToken  string
}

// API is the subset of the YouTube Data API used by the tools.
type API interface {
	Search(ctx context.Context, req SearchRequest) (*yt.SearchListResponse, error)
	Videos(ctx context.Context, ids ...string) (*yt.VideoListResponse, error)
	Channels(ctx context.Context, ids ...string) (*yt.ChannelListResponse, error)
	PlaylistItems(ctx context.Context, playlistID string, maxResults int64, pageToken string) (*yt.PlaylistItemListResponse, error)
}

// Config configures a Client.
type Config struct {
	// APIKey is the Data API key. Required.
	APIKey string

	// Endpoint overrides the API base URL. Used in tests.
	Endpoint string

	// Timeout bounds each upstream call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithLogger sets the logger used for upstream call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client implements API over the Data API v3 service.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
	logger  *slog.Logger
}

var _ API = (*Client)(nil)

// New creates a Client. The key is sent with every request; no OAuth flow is involved.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(strings.TrimSuffix(cfg.Endpoint, "/")+"/"))
	}

	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c := &Client{
		svc:     svc,
		timeout: cfg.Timeout,
		logger:  slog.Default(),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search runs search.list restricted to videos.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*yt.SearchListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.svc.Search.List([]string{"snippet"}).
		Q(req.Query).
		Type("video").
		MaxResults(clampPage(req.MaxResults))
	if req.Order != "" {
		call = call.Order(req.Order)
	}
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	start := time.Now()
	resp, err := call.Context(ctx).Do()
	c.logCall(ctx, "search.list", start, err)
	return resp, err
}

// Videos runs videos.list for the given IDs.
func (c *Client) Videos(ctx context.Context, ids ...string) (*yt.VideoListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	c.logCall(ctx, "videos.list", start, err)
	return resp, err
}

// Channels runs channels.list for the given IDs.
func (c *Client) Channels(ctx context.Context, ids ...string) (*yt.ChannelListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	c.logCall(ctx, "channels.list", start, err)
	return resp, err
}

// PlaylistItems runs playlistItems.list for one page of a playlist.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, maxResults int64, pageToken string) (*yt.PlaylistItemListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(clampPage(maxResults))
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	start := time.Now()
	resp, err := call.Context(ctx).Do()
	c.logCall(ctx, "playlistItems.list", start, err)
	return resp, err
}

func (c *Client) logCall(ctx context.Context, method string, start time.Time, err error) {
	attrs := []any{
		"method", method,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.logger.WarnContext(ctx, "youtube api call failed", append(attrs, "error", err)...)
		return
	}
	c.logger.DebugContext(ctx, "youtube api call", attrs...)
}

// clampPage keeps a page size inside the range the API accepts.
func clampPage(n int64) int64 {
	switch {
	case n <= 0:
		return 5
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}
