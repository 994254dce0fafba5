package reddit

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mentionscli/internal/config"
)

// Client provides read-only access to the Reddit OAuth API.
type Client struct {
	baseURL    string
	tokenURL   string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	authenticated bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the API at baseURL. Requests made before
// Authenticate succeeds are sent without a bearer token.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenURL: config.RedditTokenURL,
		httpClient: &http.Client{
			Timeout: config.DefaultHTTPTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig creates a client from the reddit section of the config.
// An empty cfg.UserAgent leaves the credentials profile's agent in effect.
func NewClientFromConfig(cfg config.RedditConfig, logger *slog.Logger) *Client {
	return NewClient(cfg.APIBaseURL,
		WithTokenURL(cfg.TokenURL),
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithLogger(logger),
	)
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenURL sets the OAuth token endpoint.
func WithTokenURL(u string) ClientOption {
	return func(c *Client) {
		c.tokenURL = u
	}
}

// WithUserAgent sets the User-Agent sent on every request, overriding the
// one in the credentials profile. Empty keeps the profile's.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Authenticated reports whether Authenticate has succeeded
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// userAgentTransport stamps the configured User-Agent on outgoing requests.
// Reddit throttles requests carrying a generic agent.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

func withUserAgent(hc *http.Client, ua string) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	out := *hc
	out.Transport = &userAgentTransport{base: base, userAgent: ua}
	return &out
}
