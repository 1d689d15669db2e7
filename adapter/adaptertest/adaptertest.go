// Package adaptertest checks that an adapter.Adapter honours the contract the
// mockability client relies on. Adapter implementations call RunContract from
// their own tests.
package adaptertest

import (
	"fmt"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Methods lists every request method an adapter must accept.
var Methods = []string{
	adapter.MethodHead,
	adapter.MethodGet,
	adapter.MethodPost,
	adapter.MethodPut,
	adapter.MethodDelete,
}

// HeaderSets are the header sequences exercised by RunContract.
var HeaderSets = map[string][]adapter.HeaderPair{
	"no headers": {},
	"single": {
		adapter.NewHeaderPair("gurble", "flop"),
	},
	"repeated name": {
		adapter.NewHeaderPair("X-Record", "first"),
		adapter.NewHeaderPair("X-Record", "second"),
		adapter.NewHeaderPair("X-Record", "third"),
	},
	"mixed": {
		adapter.NewHeaderPair("Content-Type", "text/html"),
		adapter.NewHeaderPair("millie", "whump"),
		adapter.NewHeaderPair("molly", "woo"),
		adapter.NewHeaderPair("molly", "wah"),
	},
}

// Bodies are the bodies exercised by RunContract.
var Bodies = map[string][]byte{
	"empty":  {},
	"text":   []byte("booga-booga, flarpjack"),
	"binary": {0x00, 0xff, 0x0a, 0x7f, 0x80},
}

// URIs are the request URIs exercised by RunContract.
var URIs = []string{
	"/wiggle",
	"/blibbety?type=silly&definition=mouth+noise",
	"//wiggle",
	"//foo/bar?x=1",
}

// Statuses are the response statuses exercised by RunContract.
var Statuses = []int{200, 201, 404, 499, 503}

// RunContract verifies the round-trip law for requests and responses and the
// rejection of unsupported methods.
func RunContract[Q, S any](t *testing.T, a adapter.Adapter[Q, S]) {
	t.Helper()

	t.Run("request round trip", func(t *testing.T) {
		for _, method := range Methods {
			for _, uri := range URIs {
				for hName, headers := range HeaderSets {
					for bName, body := range Bodies {
						name := fmt.Sprintf("%s %s %s %s", method, uri, hName, bName)
						t.Run(name, func(t *testing.T) {
							assertRequestRoundTrip(t, a, adapter.Request{
								Method:  method,
								URI:     uri,
								Headers: headers,
								Body:    body,
							})
						})
					}
				}
			}
		}
	})

	t.Run("response round trip", func(t *testing.T) {
		for _, status := range Statuses {
			for hName, headers := range HeaderSets {
				for bName, body := range Bodies {
					name := fmt.Sprintf("%d %s %s", status, hName, bName)
					t.Run(name, func(t *testing.T) {
						assertResponseRoundTrip(t, a, adapter.Response{
							Status:  status,
							Headers: headers,
							Body:    body,
						})
					})
				}
			}
		}
	})

	t.Run("unsupported method", func(t *testing.T) {
		_, err := a.BuildRequest("QUARBLEY", "/wiggle", nil, []byte{})
		require.Error(t, err)
		assert.Equal(t, "Unexpected request method QUARBLEY", err.Error())
	})

	t.Run("body reads are repeatable", func(t *testing.T) {
		q, err := a.BuildRequest(adapter.MethodPost, "/wiggle", nil, []byte("once"))
		require.NoError(t, err)
		first, err := a.RequestBody(q)
		require.NoError(t, err)
		second, err := a.RequestBody(q)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		s, err := a.BuildResponse(200, nil, []byte("twice"))
		require.NoError(t, err)
		first, err = a.ResponseBody(s)
		require.NoError(t, err)
		second, err = a.ResponseBody(s)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func assertRequestRoundTrip[Q, S any](t *testing.T, a adapter.Adapter[Q, S], want adapter.Request) {
	t.Helper()

	q, err := adapter.FromRequest(a, want)
	require.NoError(t, err)

	got, err := adapter.ToRequest(a, q)
	require.NoError(t, err)

	assert.Equal(t, want.Method, got.Method)
	assert.Equal(t, want.URI, got.URI)
	assert.Truef(t, adapter.EqualHeaderSets(want.Headers, got.Headers),
		"headers differ: want %v, got %v", want.Headers, got.Headers)
	require.NotNil(t, got.Body)
	assert.Equal(t, want.Body, got.Body)
}

func assertResponseRoundTrip[Q, S any](t *testing.T, a adapter.Adapter[Q, S], want adapter.Response) {
	t.Helper()

	s, err := adapter.FromResponse(a, want)
	require.NoError(t, err)

	got, err := adapter.ToResponse(a, s)
	require.NoError(t, err)

	assert.Equal(t, want.Status, got.Status)
	assert.Truef(t, adapter.EqualHeaderSets(want.Headers, got.Headers),
		"headers differ: want %v, got %v", want.Headers, got.Headers)
	require.NotNil(t, got.Body)
	assert.Equal(t, want.Body, got.Body)
}
