package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/jobradar/internal/identity"
)

// DefaultTimeout is the per-request timeout for ATS API calls.
const DefaultTimeout = 15 * time.Second

// Client executes ATS API requests through the identity rotator. Every call
// draws a fresh proxy + header identity, so a retry after failure naturally
// arrives with a different persona.
type Client struct {
	rotator *identity.Rotator
	timeout time.Duration
}

// NewClient constructs a Client. A nil rotator disables proxying and header
// randomization, which is convenient in tests.
func NewClient(rotator *identity.Rotator, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{rotator: rotator, timeout: timeout}
}

// getJSON performs a GET and decodes the body into v, classifying failures
// into the package error taxonomy.
func (c *Client) getJSON(ctx context.Context, platform Platform, company, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}

	var id identity.Identity
	if c.rotator != nil {
		id = c.rotator.Next()
		for key, value := range id.Headers {
			req.Header.Set(key, value)
		}
	}

	httpClient := &http.Client{Timeout: c.timeout}
	if id.ProxyURL != nil {
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(id.ProxyURL)}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if c.rotator != nil {
			c.rotator.ReportFailure(id)
		}
		return &TransientError{Platform: platform, Company: company, Message: "http GET", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if c.rotator != nil {
			c.rotator.ReportFailure(id)
		}
		return &TransientError{Platform: platform, Company: company, Message: "read body", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Platform: platform, Company: company}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{Platform: platform, Company: company, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 500:
		return &TransientError{
			Platform: platform, Company: company,
			Message: fmt.Sprintf("status %d", resp.StatusCode),
		}
	default:
		return fmt.Errorf("%s: unexpected status %d fetching %q", platform, resp.StatusCode, company)
	}

	if c.rotator != nil {
		c.rotator.ReportSuccess(id)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedError{Platform: platform, Company: company, Cause: err}
	}
	return nil
}
