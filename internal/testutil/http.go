package testutil

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/transport"
	"github.com/stretchr/testify/require"
)

// ParseURL parses fullURL, failing the test if it is malformed.
func ParseURL(t *testing.T, fullURL string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(fullURL)
	require.NoError(t, err)
	return parsed
}

// ReadBody drains req.Body, returning nil when there is none.
func ReadBody(t *testing.T, req *transport.Request) []byte {
	t.Helper()
	if req.Body == nil {
		return nil
	}
	b, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	return b
}

type FakeHTTPClient struct {
	DoFunc func(ctx context.Context, req *transport.Request) (*transport.Response, error)

	Calls []*transport.Request
}

func (f *FakeHTTPClient) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	f.Calls = append(f.Calls, req)
	return f.DoFunc(ctx, req)
}

// Respond returns a FakeHTTPClient that answers every call with status and body.
func Respond(status int, body string) *FakeHTTPClient {
	return &FakeHTTPClient{
		DoFunc: func(context.Context, *transport.Request) (*transport.Response, error) {
			return &transport.Response{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}
