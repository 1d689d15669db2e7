package mockability

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/adapter/nethttp"
	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/IvanTurko/mockability-sdk-go/internal/testutil"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func htmlResponse(t *testing.T, status int, body string) *http.Response {
	t.Helper()
	resp, err := nethttp.Adapter{}.BuildResponse(status, []adapter.HeaderPair{
		adapter.NewHeaderPair("Content-Type", "text/html"),
	}, []byte(body))
	require.NoError(t, err)
	return resp
}

func TestTransactionSeries_SetUpThreeTriggerTwoClearOne(t *testing.T) {
	ctx := context.Background()
	server := testutil.NewMockServer(t)
	subject, err := NewNetHTTP(server.URL)
	require.NoError(t, err)

	const uri = "/blibbety?type=silly&definition=mouth+noise"
	prepared := []struct {
		status int
		body   string
	}{
		{201, "<html><body>Response #1</body></html>"},
		{405, "Last programmed response; you won't be getting any more"},
		{503, "No one will ever see this"},
	}

	_, err = subject.Clear(ctx, http.MethodGet, uri)
	require.NoError(t, err)
	for _, p := range prepared {
		_, err := subject.Prepare(ctx, http.MethodGet, uri, htmlResponse(t, p.status, p.body))
		require.NoError(t, err)
	}

	trigger := func(record string) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+uri, nil)
		require.NoError(t, err)
		req.Header.Set("X-Record", record)
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	for i, record := range []string{"First request", "Second request"} {
		resp := trigger(record)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, prepared[i].status, resp.StatusCode)
		assert.Equal(t, prepared[i].body, string(body))
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		assert.Equal(t, int64(len(prepared[i].body)), resp.ContentLength)
	}

	reqs, err := subject.Report(ctx, http.MethodGet, uri)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	for i, record := range []string{"First request", "Second request"} {
		assert.Equal(t, http.MethodGet, reqs[i].Method)
		assert.Equal(t, uri, reqs[i].URL.RequestURI())
		assert.Equal(t, []string{record}, reqs[i].Header.Values("X-Record"))
		assert.Nil(t, reqs[i].Body)
	}

	_, err = subject.Clear(ctx, http.MethodGet, uri)
	require.NoError(t, err)

	rejected := trigger("Rejected")
	assert.Equal(t, testutil.StatusUnprepared, rejected.StatusCode)

	_, err = subject.Report(ctx, http.MethodGet, uri)
	require.Error(t, err)
	assert.ErrorIs(t, err, sdkerr.ErrServerRejected)
	assert.EqualError(t, err,
		"\nReport was demanded for:\n"+
			"127.0.0.1: GET '/blibbety?type=silly&definition=mouth+noise'\n\n"+
			"Reports are prepared only for:\n"+
			"No reports were prepared.\n")

	assert.Equal(t, uint64(2), server.Served())
	assert.Equal(t, uint64(1), server.Unmatched())
}

func TestTransactionSeries_ClearAllForgetsEverySlot(t *testing.T) {
	ctx := context.Background()
	server := testutil.NewMockServer(t)
	subject, err := NewSimple(server.URL)
	require.NoError(t, err)

	for _, uri := range []string{"/wiggle", "/wobble"} {
		_, err := subject.Prepare(ctx, http.MethodPost, uri, simple.NewResponse(http.StatusOK).WithBody([]byte("ok")))
		require.NoError(t, err)
	}

	_, err = subject.ClearAll(ctx)
	require.NoError(t, err)

	_, err = subject.Report(ctx, http.MethodPost, "/wiggle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No reports were prepared.")
}
