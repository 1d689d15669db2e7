package mockability

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/IvanTurko/mockability-sdk-go/internal/testutil"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	"github.com/IvanTurko/mockability-sdk-go/transport"
	"github.com/IvanTurko/mockability-sdk-go/wire"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const baseURL = "http://baseUrl:1234"

func newSimpleClient(t *testing.T, fake *testutil.FakeHTTPClient, opts ...Option) *Client[*simple.Request, *simple.Response] {
	t.Helper()
	c, err := NewSimple(baseURL, append([]Option{WithHTTPClient(fake)}, opts...)...)
	require.NoError(t, err)
	return c
}

func assertSentTo(t *testing.T, req *transport.Request, method, requestURI string) {
	t.Helper()
	u := testutil.ParseURL(t, req.FullURL)
	assert.Equal(t, method, req.Method)
	assert.Equal(t, "baseUrl", u.Hostname())
	assert.Equal(t, "1234", u.Port())
	assert.Equal(t, requestURI, u.RequestURI())
}

func TestNew_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"host and port", "http://baseUrl:1234", "http://baseUrl:1234"},
		{"path and query are ignored", "http://baseUrl:1234/some/path?x=1", "http://baseUrl:1234"},
		{"scheme defaults to http", "localhost:9000", "http://localhost:9000"},
		{"https kept", "https://mocks.example.com", "https://mocks.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewSimple(tt.baseURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"no host", "http://"},
		{"unsupported scheme", "ftp://baseUrl:1234"},
		{"unparseable", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewSimple(tt.baseURL)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.ErrorIs(t, err, sdkerr.ErrConfiguration)
		})
	}

	t.Run("nil adapter", func(t *testing.T) {
		_, err := New[*simple.Request, *simple.Response](nil, baseURL)
		assert.ErrorIs(t, err, sdkerr.ErrConfiguration)
	})
}

func TestClient_Clear(t *testing.T) {
	t.Run("specific", func(t *testing.T) {
		fake := testutil.Respond(http.StatusOK, "cleared")
		c := newSimpleClient(t, fake)

		text, err := c.Clear(context.Background(), "GLOMPETY", "/wiggle")

		require.NoError(t, err)
		assert.Equal(t, "cleared", text)
		require.Len(t, fake.Calls, 1)
		assertSentTo(t, fake.Calls[0], http.MethodDelete, "/mockability/GLOMPETY/wiggle")
		assert.Nil(t, fake.Calls[0].Body)
	})

	t.Run("uri without leading slash", func(t *testing.T) {
		fake := testutil.Respond(http.StatusOK, "cleared")
		c := newSimpleClient(t, fake)

		_, err := c.Clear(context.Background(), "GLOMPETY", "wiggle")

		require.NoError(t, err)
		assertSentTo(t, fake.Calls[0], http.MethodDelete, "/mockability/GLOMPETY/wiggle")
	})

	t.Run("query is sent verbatim", func(t *testing.T) {
		fake := testutil.Respond(http.StatusOK, "cleared")
		c := newSimpleClient(t, fake)

		_, err := c.Clear(context.Background(), "GET", "/blibbety?type=silly&definition=mouth+noise")

		require.NoError(t, err)
		assert.Equal(t, baseURL+"/mockability/GET/blibbety?type=silly&definition=mouth+noise", fake.Calls[0].FullURL)
	})

	t.Run("everything", func(t *testing.T) {
		fake := testutil.Respond(http.StatusOK, "cleared")
		c := newSimpleClient(t, fake)

		text, err := c.ClearAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "cleared", text)
		assertSentTo(t, fake.Calls[0], http.MethodDelete, "/mockability")
	})

	t.Run("server refuses", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(http.StatusBadRequest, "Your mother wears army boots"))

		text, err := c.Clear(context.Background(), "GLOMPETY", "/wiggle")

		assert.Empty(t, text)
		assert.EqualError(t, err, "Your mother wears army boots")
		assert.ErrorIs(t, err, sdkerr.ErrServerRejected)
		assert.True(t, sdkerr.IsClientState(err))
	})
}

func TestClient_Prepare(t *testing.T) {
	t.Run("posts the encoded response", func(t *testing.T) {
		fake := testutil.Respond(http.StatusOK, "prepared")
		c := newSimpleClient(t, fake)

		resp := simple.NewResponse(503, adapter.NewHeaderPair("gurble", "flop")).
			WithBody([]byte("biggety-boo"))
		text, err := c.Prepare(context.Background(), "GLOMPETY", "/wiggle", resp)

		require.NoError(t, err)
		assert.Equal(t, "prepared", text)
		require.Len(t, fake.Calls, 1)

		req := fake.Calls[0]
		assertSentTo(t, req, http.MethodPost, "/mockability/GLOMPETY/wiggle")
		assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))

		var payload []struct {
			Status  int `json:"status"`
			Headers []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"headers"`
			Body string `json:"body"`
		}
		require.NoError(t, json.Unmarshal(testutil.ReadBody(t, req), &payload))
		require.Len(t, payload, 1)
		assert.Equal(t, 503, payload[0].Status)
		require.Len(t, payload[0].Headers, 1)
		assert.Equal(t, "gurble", payload[0].Headers[0].Name)
		assert.Equal(t, "flop", payload[0].Headers[0].Value)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("biggety-boo")), payload[0].Body)
	})

	t.Run("server refuses", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(http.StatusBadRequest, "I don't like you.  You smell funny."))

		_, err := c.Prepare(context.Background(), "GLOMPETY", "/wiggle", simple.NewResponse(503))

		assert.EqualError(t, err, "I don't like you.  You smell funny.")
		assert.ErrorIs(t, err, sdkerr.ErrServerRejected)
	})
}

func TestClient_Report(t *testing.T) {
	t.Run("rebuilds requests in order", func(t *testing.T) {
		payload, err := wire.EncodeRequests([]adapter.Request{
			{Method: "POST", URI: "/wiggle", Headers: []adapter.HeaderPair{adapter.NewHeaderPair("molly", "woo")},
				Body: []byte("booga-booga, flarpjack")},
			{Method: "PUT", URI: "/wobble", Headers: []adapter.HeaderPair{adapter.NewHeaderPair("woo", "molly")}},
		})
		require.NoError(t, err)

		fake := testutil.Respond(http.StatusOK, string(payload))
		c := newSimpleClient(t, fake)

		reqs, err := c.Report(context.Background(), "GLOMPETY", "/wiggle")

		require.NoError(t, err)
		assertSentTo(t, fake.Calls[0], http.MethodGet, "/mockability/GLOMPETY/wiggle")
		require.Len(t, reqs, 2)
		assert.Equal(t, simple.NewRequest("POST", "/wiggle", adapter.NewHeaderPair("molly", "woo")).
			WithBody([]byte("booga-booga, flarpjack")), reqs[0])
		assert.Equal(t, simple.NewRequest("PUT", "/wobble", adapter.NewHeaderPair("woo", "molly")), reqs[1])
	})

	t.Run("nothing received", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(http.StatusOK, "[]"))

		reqs, err := c.Report(context.Background(), "GET", "/wiggle")

		require.NoError(t, err)
		assert.Empty(t, reqs)
	})

	t.Run("server refuses", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(499, "\nReport was demanded for:\n..."))

		_, err := c.Report(context.Background(), "GET", "/wiggle")

		assert.EqualError(t, err, "\nReport was demanded for:\n...")
		assert.ErrorIs(t, err, sdkerr.ErrServerRejected)
	})

	t.Run("malformed payload", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(http.StatusOK, "<html>oops</html>"))

		_, err := c.Report(context.Background(), "GET", "/wiggle")

		require.Error(t, err)
		assert.ErrorIs(t, err, sdkerr.ErrDecodeError)
		assert.True(t, sdkerr.IsClientState(err))
	})

	t.Run("unsupported method in payload", func(t *testing.T) {
		c := newSimpleClient(t, testutil.Respond(http.StatusOK, `[{"method":"PETYGLOM","uri":"/wobble","headers":[]}]`))

		_, err := c.Report(context.Background(), "GET", "/wobble")

		require.Error(t, err)
		assert.ErrorIs(t, err, sdkerr.ErrConversion)
		assert.ErrorIs(t, err, sdkerr.ErrValidation)
		assert.Contains(t, err.Error(), "Unexpected request method PETYGLOM")
	})
}

func TestClient_TransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	c := newSimpleClient(t, &testutil.FakeHTTPClient{
		DoFunc: func(context.Context, *transport.Request) (*transport.Response, error) {
			return nil, boom
		},
	})

	_, err := c.ClearAll(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, sdkerr.ErrRequestFailed)
	assert.ErrorIs(t, err, boom)

	var sdkErr *sdkerr.SDKError
	require.ErrorAs(t, err, &sdkErr)
	assert.Equal(t, "Client.ClearAll", sdkErr.Op())
}

func TestClient_TransportReturnsNoResponse(t *testing.T) {
	c := newSimpleClient(t, &testutil.FakeHTTPClient{
		DoFunc: func(context.Context, *transport.Request) (*transport.Response, error) {
			return nil, nil
		},
	})

	_, err := c.Report(context.Background(), "GET", "/wiggle")

	require.Error(t, err)
	assert.ErrorIs(t, err, sdkerr.ErrRequestFailed)
	assert.Contains(t, err.Error(), "transport returned no response")
}

func TestClient_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newSimpleClient(t, testutil.Respond(http.StatusBadRequest, "nope"), WithLogger(zap.New(core).Sugar()))

	_, err := c.Clear(context.Background(), "GET", "/wiggle")
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).FilterMessageSnippet("/mockability/GET/wiggle").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessageSnippet("server answered 400").Len())
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newSimpleClient(t, testutil.Respond(http.StatusOK, "cleared"), WithMetrics(reg))

	_, err := c.ClearAll(context.Background())
	require.NoError(t, err)

	n, err := promtest.GatherAndCount(reg, transport.RequestsTotalName)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureLeadingSlash(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/wiggle", "/wiggle"},
		{"wiggle", "/wiggle"},
		{"", "/"},
		{"//double", "//double"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EnsureLeadingSlash(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, EnsureLeadingSlash(got))
		})
	}
}
