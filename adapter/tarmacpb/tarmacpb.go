// Package tarmacpb adapts the protobuf HTTP messages of the Tarmac SDK:
// sdkhttp.HTTPClient for requests and sdkhttp.HTTPClientResponse for
// responses.
package tarmacpb

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	sdkhttp "github.com/tarmac-project/protobuf-go/sdk/http"
)

// Adapter implements adapter.Adapter for the Tarmac protobuf messages.
//
// The Status field of a built response reports a successful host call; the
// HTTP status lives in Code.
type Adapter struct{}

var _ adapter.Adapter[*sdkhttp.HTTPClient, *sdkhttp.HTTPClientResponse] = Adapter{}

// BuildRequest implements adapter.Adapter.
func (Adapter) BuildRequest(method, uri string, headers []adapter.HeaderPair, body []byte) (*sdkhttp.HTTPClient, error) {
	if err := adapter.ValidateMethod(method); err != nil {
		return nil, err
	}
	return &sdkhttp.HTTPClient{
		Method:  method,
		Url:     uri,
		Headers: toProtoHeaders(headers),
		Body:    bytes.Clone(body),
	}, nil
}

// BuildResponse implements adapter.Adapter.
func (Adapter) BuildResponse(status int, headers []adapter.HeaderPair, body []byte) (*sdkhttp.HTTPClientResponse, error) {
	if status < math.MinInt32 || status > math.MaxInt32 {
		return nil, sdkerr.NewSDKError().
			WithSubsys("adapter/tarmacpb").
			WithOp("Adapter.BuildResponse").
			WithKind(sdkerr.ErrConversion).
			WithMessage(fmt.Sprintf("status %d does not fit the Code field", status))
	}
	return &sdkhttp.HTTPClientResponse{
		Status:  &sdkproto.Status{Code: http.StatusOK, Status: http.StatusText(http.StatusOK)},
		Code:    int32(status),
		Headers: toProtoHeaders(headers),
		Body:    bytes.Clone(body),
	}, nil
}

func (Adapter) RequestMethod(req *sdkhttp.HTTPClient) string {
	return req.GetMethod()
}

// RequestURI returns the path and query of the request URL. A URL that is
// already a path, or has no host, is returned unchanged.
func (Adapter) RequestURI(req *sdkhttp.HTTPClient) string {
	raw := req.GetUrl()
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.RequestURI()
}

func (Adapter) RequestHeaders(req *sdkhttp.HTTPClient) []adapter.HeaderPair {
	return fromProtoHeaders(req.GetHeaders())
}

func (Adapter) RequestBody(req *sdkhttp.HTTPClient) ([]byte, error) {
	return cloneNonNil(req.GetBody()), nil
}

func (Adapter) ResponseStatus(resp *sdkhttp.HTTPClientResponse) int {
	return int(resp.GetCode())
}

func (Adapter) ResponseHeaders(resp *sdkhttp.HTTPClientResponse) []adapter.HeaderPair {
	return fromProtoHeaders(resp.GetHeaders())
}

func (Adapter) ResponseBody(resp *sdkhttp.HTTPClientResponse) ([]byte, error) {
	return cloneNonNil(resp.GetBody()), nil
}

func toProtoHeaders(pairs []adapter.HeaderPair) map[string]*sdkhttp.Header {
	m := make(map[string]*sdkhttp.Header, len(pairs))
	for _, p := range pairs {
		h, ok := m[p.Name()]
		if !ok {
			h = &sdkhttp.Header{}
			m[p.Name()] = h
		}
		h.Values = append(h.Values, p.Value())
	}
	return m
}

// fromProtoHeaders flattens m with names in sorted order, since protobuf maps
// have no stable order.
func fromProtoHeaders(m map[string]*sdkhttp.Header) []adapter.HeaderPair {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []adapter.HeaderPair
	for _, name := range names {
		for _, v := range m[name].GetValues() {
			pairs = append(pairs, adapter.NewHeaderPair(name, v))
		}
	}
	return pairs
}

func cloneNonNil(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
