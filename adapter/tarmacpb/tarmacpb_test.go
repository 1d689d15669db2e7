package tarmacpb

import (
	"math"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/adapter/adaptertest"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	sdkhttp "github.com/tarmac-project/protobuf-go/sdk/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestAdapter_Contract(t *testing.T) {
	adaptertest.RunContract[*sdkhttp.HTTPClient, *sdkhttp.HTTPClientResponse](t, Adapter{})
}

func TestAdapter_BuildRequest(t *testing.T) {
	req, err := Adapter{}.BuildRequest("PUT", "/wiggle", []adapter.HeaderPair{
		adapter.NewHeaderPair("molly", "woo"),
		adapter.NewHeaderPair("molly", "wah"),
	}, []byte("booga-booga"))
	require.NoError(t, err)

	want := &sdkhttp.HTTPClient{
		Method: "PUT",
		Url:    "/wiggle",
		Headers: map[string]*sdkhttp.Header{
			"molly": {Values: []string{"woo", "wah"}},
		},
		Body: []byte("booga-booga"),
	}
	assert.True(t, proto.Equal(want, req), "got %v", req)
}

func TestAdapter_BuildResponse_SurvivesMarshal(t *testing.T) {
	resp, err := Adapter{}.BuildResponse(503, []adapter.HeaderPair{
		adapter.NewHeaderPair("gurble", "flop"),
	}, []byte("biggety-boo"))
	require.NoError(t, err)

	b, err := proto.Marshal(resp)
	require.NoError(t, err)

	var decoded sdkhttp.HTTPClientResponse
	require.NoError(t, proto.Unmarshal(b, &decoded))

	assert.Equal(t, 503, Adapter{}.ResponseStatus(&decoded))
	assert.Equal(t, int32(200), decoded.GetStatus().GetCode())
	assert.Equal(t, []adapter.HeaderPair{adapter.NewHeaderPair("gurble", "flop")},
		Adapter{}.ResponseHeaders(&decoded))
	body, err := Adapter{}.ResponseBody(&decoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("biggety-boo"), body)
}

func TestAdapter_BuildResponse_StatusOutOfRange(t *testing.T) {
	hi, lo := int64(math.MaxInt32), int64(math.MinInt32)
	for _, status := range []int{int(hi + 1), int(lo - 1)} {
		_, err := Adapter{}.BuildResponse(status, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, sdkerr.ErrConversion)
	}
}

func TestAdapter_RequestURI(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"path only", "/wiggle?x=1", "/wiggle?x=1"},
		{"double slash path", "//wiggle", "//wiggle"},
		{"double slash path with query", "//foo/bar?x=1", "//foo/bar?x=1"},
		{"absolute", "https://example.com:8443/wiggle?x=1", "/wiggle?x=1"},
		{"unparseable", "/%zz", "/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Adapter{}.RequestURI(&sdkhttp.HTTPClient{Url: tt.url}))
		})
	}
}

func TestAdapter_NilMessageFields(t *testing.T) {
	req := &sdkhttp.HTTPClient{Method: "GET"}

	body, err := Adapter{}.RequestBody(req)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, body)
	assert.Empty(t, Adapter{}.RequestHeaders(req))
}
