package mockability

import (
	"net/http"
	"net/http/httptest"

	"github.com/IvanTurko/mockability-sdk-go/adapter/nethttp"
	"github.com/IvanTurko/mockability-sdk-go/adapter/recorder"
	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/IvanTurko/mockability-sdk-go/adapter/tarmacpb"
	sdkhttp "github.com/tarmac-project/protobuf-go/sdk/http"
)

// NewSimple creates a Client that speaks simple.Request and simple.Response.
func NewSimple(baseURL string, opts ...Option) (*Client[*simple.Request, *simple.Response], error) {
	return New[*simple.Request, *simple.Response](simple.Adapter{}, baseURL, opts...)
}

// NewNetHTTP creates a Client that prepares *http.Response values and
// reports outgoing-style *http.Request values.
func NewNetHTTP(baseURL string, opts ...Option) (*Client[*http.Request, *http.Response], error) {
	return New[*http.Request, *http.Response](nethttp.Adapter{}, baseURL, opts...)
}

// NewRecorder creates a Client that prepares *httptest.ResponseRecorder
// values and reports server-side *http.Request values, for handler tests.
func NewRecorder(baseURL string, opts ...Option) (*Client[*http.Request, *httptest.ResponseRecorder], error) {
	return New[*http.Request, *httptest.ResponseRecorder](recorder.Adapter{}, baseURL, opts...)
}

// NewTarmac creates a Client for the Tarmac protobuf HTTP messages.
func NewTarmac(baseURL string, opts ...Option) (*Client[*sdkhttp.HTTPClient, *sdkhttp.HTTPClientResponse], error) {
	return New[*sdkhttp.HTTPClient, *sdkhttp.HTTPClientResponse](tarmacpb.Adapter{}, baseURL, opts...)
}
