package tikwm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tiksave-bot/domain/media"
)

// DefaultBaseURL is the public extraction API endpoint
const DefaultBaseURL = "https://www.tikwm.com/api/"

// defaultUserAgent mimics a desktop browser; the API rejects obvious bots
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// Client implements media.Extractor against the tikwm API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option is a functional option for configuring Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for timeouts and tests)
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL points the client at a different endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Interface compliance check
var _ media.Extractor = (*Client)(nil)

type lookupRequest struct {
	URL string `json:"url"`
	HD  int    `json:"hd"`
}

type apiResponse struct {
	Code int      `json:"code"`
	Msg  string   `json:"msg"`
	Data *apiData `json:"data"`
}

type apiData struct {
	Title       string     `json:"title"`
	Cover       string     `json:"cover"`
	OriginCover string     `json:"origin_cover"`
	Duration    int        `json:"duration"`
	Play        string     `json:"play"`
	Hdplay      string     `json:"hdplay"`
	Images      []string   `json:"images"`
	Author      *apiAuthor `json:"author"`
}

type apiAuthor struct {
	UniqueID string `json:"unique_id"`
	Nickname string `json:"nickname"`
}

// Lookup resolves a post link through the API. Success is exactly a 200
// response with envelope code 0 and a data object; everything else comes
// back as a *media.ResolutionError.
func (c *Client) Lookup(ctx context.Context, url string) (*media.Lookup, error) {
	body, err := json.Marshal(lookupRequest{URL: url, HD: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &media.ResolutionError{URL: url, Reason: "extraction request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &media.ResolutionError{URL: url, Reason: fmt.Sprintf("extraction API returned status %d", resp.StatusCode)}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &media.ResolutionError{URL: url, Reason: "malformed extraction response", Err: err}
	}

	if parsed.Code != 0 {
		reason := parsed.Msg
		if reason == "" {
			reason = fmt.Sprintf("extraction API returned code %d", parsed.Code)
		}
		return nil, &media.ResolutionError{URL: url, Reason: reason}
	}
	if parsed.Data == nil {
		return nil, &media.ResolutionError{URL: url, Reason: "extraction response has no data"}
	}

	return toLookup(parsed.Data), nil
}

func toLookup(data *apiData) *media.Lookup {
	cover := data.OriginCover
	if cover == "" {
		cover = data.Cover
	}

	var author string
	if data.Author != nil {
		author = data.Author.Nickname
		if author == "" {
			author = data.Author.UniqueID
		}
	}

	return &media.Lookup{
		Title:     data.Title,
		Author:    author,
		Cover:     cover,
		Duration:  data.Duration,
		PlayURL:   data.Play,
		HDPlayURL: data.Hdplay,
		Images:    data.Images,
	}
}
