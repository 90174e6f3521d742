package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxDownloadSize caps the size of a downloaded attachment.
	MaxDownloadSize = 25 << 20
)

// Client wraps the go-github client with rate limiting and lazy
// authentication.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	http          *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	cfg           Config
}

// NewClient creates a GitHub API client. tokenProvider may be nil for
// anonymous access to public repositories.
func NewClient(tokenProvider driven.TokenProvider, cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiterWithRate(cfg.RequestRate),
		http:          &http.Client{Timeout: DefaultTimeout},
		cfg:           cfg,
	}
}

// ensureClient initialises the go-github client on first use so the token
// is only read when a request is made.
func (c *Client) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if c.cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/") + "/")
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = base
	}
	c.gh = client
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokenProvider == nil || !c.tokenProvider.IsAuthenticated() {
		return "", nil
	}
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// Authenticated reports whether requests carry credentials.
func (c *Client) Authenticated() bool {
	return c.tokenProvider != nil && c.tokenProvider.IsAuthenticated()
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, c.wrapError(err, "get issue")
	}

	c.updateRateLimitFromResponse(resp)
	return issue, nil
}

// ListIssueEvents lists every event of an issue, oldest first.
func (c *Client) ListIssueEvents(ctx context.Context, owner, repo string, number int) ([]*gh.IssueEvent, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	var all []*gh.IssueEvent
	opts := &gh.ListOptions{PerPage: 100}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		events, resp, err := c.gh.Issues.ListIssueEvents(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, c.wrapError(err, "list issue events")
		}

		c.updateRateLimitFromResponse(resp)
		all = append(all, events...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListIssueComments lists every comment of an issue in thread order.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*gh.IssueComment, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	var all []*gh.IssueComment
	opts := &gh.IssueListCommentsOptions{
		Sort:        gh.Ptr("created"),
		Direction:   gh.Ptr("asc"),
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, c.wrapError(err, "list comments")
		}

		c.updateRateLimitFromResponse(resp)
		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// RenderMarkdown renders GitHub-flavoured markdown to HTML. repoContext
// ("owner/repo") resolves issue references and relative links.
func (c *Client) RenderMarkdown(ctx context.Context, text, repoContext string) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.MarkdownOptions{Mode: "gfm", Context: repoContext}
	out, resp, err := c.gh.Markdown.Render(ctx, text, opts)
	if err != nil {
		return "", c.wrapError(err, "render markdown")
	}

	c.updateRateLimitFromResponse(resp)
	return out, nil
}

// Fetch downloads rawURL, sending the session token when authenticated is
// true. Redirects to other hosts drop the token.
func (c *Client) Fetch(ctx context.Context, rawURL string, authenticated bool) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if authenticated {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, fmt.Errorf("download %s: %w", rawURL, errNoToken)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status, URL: rawURL}
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if n > MaxDownloadSize {
		return nil, fmt.Errorf("download %s: %w (%d bytes)", rawURL, ErrTooLarge, MaxDownloadSize)
	}
	return buf.Bytes(), nil
}

// WebURL returns the web (non-API) base URL without a trailing slash.
func (c *Client) WebURL() string {
	return c.cfg.WebURL
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
