package transport

import (
	"context"
	"io"
	"net/http"
)

// HTTPClient is the minimal interface a mockability client needs to reach
// the mock server. Callers may inject any implementation, such as a fake in
// tests or an instrumented wrapper.
type HTTPClient interface {
	// Do executes an HTTP request. The implementation must respect the context.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request is a control-plane request to the mock server.
type Request struct {
	Method  string
	FullURL string
	Headers http.Header
	Body    io.Reader
}

// Response is the fully-buffered answer of the mock server.
type Response struct {
	Body       []byte
	StatusCode int
	Headers    http.Header
}

type stdClient struct {
	client *http.Client
}

// NewHTTPClient wraps a standard *http.Client into an HTTPClient.
// If nil is provided, a default http.Client is used.
func NewHTTPClient(c *http.Client) HTTPClient {
	if c == nil {
		c = &http.Client{}
	}
	return &stdClient{client: c}
}

// Do executes the request using the underlying standard http.Client.
func (s *stdClient) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.FullURL, req.Body)
	if err != nil {
		return nil, err
	}
	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Body:       body,
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}, nil
}
