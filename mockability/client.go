// Package mockability is a client for a mockability server: an HTTP mock
// server that is told, over its own control endpoints, which responses to
// give and is later asked which requests it received.
//
// A Client is bound to one adapter.Adapter, so callers prepare responses and
// read reported requests in whichever HTTP representation they already use.
//
// A Client holds one transport for its whole life and does no locking of its
// own; use it from one goroutine at a time, or give each goroutine its own.
package mockability

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/internal/httpx"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	"github.com/IvanTurko/mockability-sdk-go/transport"
	"github.com/IvanTurko/mockability-sdk-go/wire"
)

const (
	subsys = "mockability"

	// ControlPath is the root of the mock server's control endpoints.
	ControlPath = "/mockability"
)

// Client talks to one mockability server through adapter a.
type Client[Q, S any] struct {
	adapter adapter.Adapter[Q, S]
	origin  string
	client  transport.HTTPClient
	logger  Logger
}

// New creates a Client for the server at baseURL.
//
// Only the scheme, host and port of baseURL are used; the scheme defaults
// to http. An unparseable URL or one without a host is a configuration
// error.
func New[Q, S any](a adapter.Adapter[Q, S], baseURL string, opts ...Option) (*Client[Q, S], error) {
	const op = "New"

	if a == nil {
		return nil, configError(op, "adapter must not be nil", nil)
	}
	origin, err := parseOrigin(baseURL)
	if err != nil {
		return nil, configError(op, fmt.Sprintf("invalid base URL %q", baseURL), err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = httpx.NewDefaultHTTPClient(o.timeout)
	}
	if o.metrics {
		o.client = transport.NewInstrumentedClient(o.client, o.registry)
	}
	if o.logger == nil {
		o.logger = nopLogger{}
	}

	return &Client[Q, S]{
		adapter: a,
		origin:  origin,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

// BaseURL returns the scheme, host and port the client sends to.
func (c *Client[Q, S]) BaseURL() string {
	return c.origin
}

// Clear tells the server to forget what was prepared and recorded for
// method and uri. It returns the server's text answer.
func (c *Client[Q, S]) Clear(ctx context.Context, method, uri string) (string, error) {
	body, err := c.exchange(ctx, "Client.Clear", http.MethodDelete, controlTarget(method, uri), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ClearAll tells the server to forget everything prepared and recorded for
// this client.
func (c *Client[Q, S]) ClearAll(ctx context.Context) (string, error) {
	body, err := c.exchange(ctx, "Client.ClearAll", http.MethodDelete, ControlPath, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Prepare queues resp as the server's next answer to method and uri.
// Repeated calls queue further responses, handed out in call order.
func (c *Client[Q, S]) Prepare(ctx context.Context, method, uri string, resp S) (string, error) {
	const op = "Client.Prepare"

	canonical, err := adapter.ToResponse(c.adapter, resp)
	if err != nil {
		return "", conversionError(op, err)
	}
	payload, err := wire.EncodeResponse(canonical)
	if err != nil {
		return "", conversionError(op, err)
	}

	body, err := c.exchange(ctx, op, http.MethodPost, controlTarget(method, uri), payload)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Report returns the requests the server received for method and uri, in
// the order it received them.
func (c *Client[Q, S]) Report(ctx context.Context, method, uri string) ([]Q, error) {
	const op = "Client.Report"

	body, err := c.exchange(ctx, op, http.MethodGet, controlTarget(method, uri), nil)
	if err != nil {
		return nil, err
	}

	reqs, err := wire.DecodeRequests(body)
	if err != nil {
		c.logger.Errorf("mockability: %s: %v", op, err)
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrDecodeError).
			WithCause(err)
	}

	out := make([]Q, 0, len(reqs))
	for _, r := range reqs {
		q, err := adapter.FromRequest(c.adapter, r)
		if err != nil {
			return nil, conversionError(op, err)
		}
		out = append(out, q)
	}
	c.logger.Debugf("mockability: %s %s %s: %d request(s)", op, method, uri, len(out))
	return out, nil
}

func (c *Client[Q, S]) exchange(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	b := httpx.NewRequestBuilder(c.origin).
		WithMethod(method).
		WithPath(target)
	if payload != nil {
		b = b.WithHeader("Content-Type", "application/json").
			WithBody(bytes.NewReader(payload))
	}

	c.logger.Debugf("mockability: %s %s%s", method, c.origin, target)
	resp, err := c.client.Do(ctx, b.Build())
	if err != nil {
		c.logger.Errorf("mockability: %s %s failed: %v", method, target, err)
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrRequestFailed).
			WithCause(err)
	}
	if resp == nil {
		c.logger.Errorf("mockability: %s %s: transport returned no response", method, target)
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrRequestFailed).
			WithMessage("transport returned no response")
	}

	if err := checkResponseError(op, resp.StatusCode, resp.Body); err != nil {
		c.logger.Errorf("mockability: %s %s: server answered %d", method, target, resp.StatusCode)
		return nil, err
	}
	return resp.Body, nil
}

// checkResponseError turns any status but 200 into an error carrying the
// server's explanation verbatim.
func checkResponseError(op string, status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrServerRejected).
		WithVerbatimMessage(string(body))
}

// EnsureLeadingSlash returns uri with exactly the slash prefix the control
// path needs. It is idempotent.
func EnsureLeadingSlash(uri string) string {
	if strings.HasPrefix(uri, "/") {
		return uri
	}
	return "/" + uri
}

func controlTarget(method, uri string) string {
	return ControlPath + "/" + method + EnsureLeadingSlash(uri)
}

func parseOrigin(baseURL string) (string, error) {
	raw := strings.TrimSpace(baseURL)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("no host in %q", baseURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.Scheme + "://" + u.Host, nil
}

func configError(op, msg string, cause error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrConfiguration).
		WithMessage(msg).
		WithCause(cause)
}

func conversionError(op string, cause error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrConversion).
		WithCause(cause)
}
