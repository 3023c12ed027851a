// Package tally talks to a Tally Prime server over its XML-over-HTTP interface.
package tally

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultOrigin    = "http://localhost"

	contentTypeXML = "text/xml"
)

// Client posts envelopes to Tally. Tally serves one request at a time, so calls are throttled.
// There are no retries.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	origin  string
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*Client)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit allows perSecond requests with a burst of one. Zero or less disables throttling.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTracerProvider traces outgoing requests with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.http.Transport = otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp))
	}
}

// WithHTTPClient replaces the underlying client. Its Transport is used as is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithOrigin sets the Origin header Tally sees; its CORS check rejects requests without one.
func WithOrigin(origin string) ClientOption {
	return func(c *Client) {
		c.origin = origin
	}
}

// NewClient creates a Tally client with the provided options
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		origin:  DefaultOrigin,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portsrepo.TallyTransport = (*Client)(nil)

// CheckReachable posts the List of Accounts request. Any 2xx answer means reachable.
// Refusals, timeouts and error statuses are logged and reported as false.
func (c *Client) CheckReachable(ctx context.Context, baseURL string) bool {
	resp, err := c.post(ctx, baseURL, envelope.ReachabilityRequest())
	if err != nil {
		slog.WarnContext(ctx, "Tally connection failed", slog.String("base_url", baseURL), slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		slog.WarnContext(ctx, "Tally connection failed", slog.String("base_url", baseURL), slog.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// Send posts payload and parses the response.
// Non-2xx statuses return *apperrors.TransportError; network failures wrap apperrors.ErrTransport;
// unparsable bodies wrap apperrors.ErrMalformedResponse.
func (c *Client) Send(ctx context.Context, baseURL, payload string) (*envelope.Node, error) {
	resp, err := c.post(ctx, baseURL, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &apperrors.TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", apperrors.ErrTransport, err)
	}

	doc, err := envelope.Parse(string(body))
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Tally request completed", slog.String("base_url", baseURL), slog.Int("bytes", len(body)))
	return doc, nil
}

func (c *Client) post(ctx context.Context, baseURL, payload string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeXML)
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	return c.http.Do(req)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
