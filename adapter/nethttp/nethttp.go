// Package nethttp adapts client-side *http.Request and *http.Response values.
package nethttp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
)

const subsys = "adapter/nethttp"

// Adapter implements adapter.Adapter for *http.Request and *http.Response.
//
// Requests are built without a host, so they describe what the mock server
// saw rather than something ready to send. GET, HEAD and DELETE requests
// without content carry no body; POST and PUT always carry one, possibly
// http.NoBody.
type Adapter struct{}

var _ adapter.Adapter[*http.Request, *http.Response] = Adapter{}

// BuildRequest implements adapter.Adapter.
func (Adapter) BuildRequest(method, uri string, headers []adapter.HeaderPair, body []byte) (*http.Request, error) {
	if err := adapter.ValidateMethod(method); err != nil {
		return nil, err
	}

	var r io.Reader
	if len(body) > 0 || adapter.AllowsBody(method) {
		r = bytes.NewReader(bytes.Clone(body))
	}

	target, err := parseTarget(uri)
	if err != nil {
		return nil, conversionError("Adapter.BuildRequest", err)
	}
	req, err := http.NewRequest(method, "/", r)
	if err != nil {
		return nil, conversionError("Adapter.BuildRequest", err)
	}
	req.URL = target
	req.Host = target.Host
	req.Header = adapter.HeadersToHTTP(headers)
	return req, nil
}

// parseTarget reads uri the way a server reads a request target, so a path
// starting with "//" stays a path instead of naming a host.
func parseTarget(uri string) (*url.URL, error) {
	if strings.HasPrefix(uri, "/") {
		return url.ParseRequestURI(uri)
	}
	return url.Parse(uri)
}

func conversionError(op string, err error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrConversion).
		WithCause(err)
}

// BuildResponse implements adapter.Adapter.
func (Adapter) BuildResponse(status int, headers []adapter.HeaderPair, body []byte) (*http.Response, error) {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        adapter.HeadersToHTTP(headers),
		Body:          io.NopCloser(bytes.NewReader(bytes.Clone(body))),
		ContentLength: int64(len(body)),
	}, nil
}

func (Adapter) RequestMethod(req *http.Request) string {
	return req.Method
}

// RequestURI returns the path and query of req.URL, dropping scheme and host.
func (Adapter) RequestURI(req *http.Request) string {
	if req.URL == nil {
		return req.RequestURI
	}
	return req.URL.RequestURI()
}

func (Adapter) RequestHeaders(req *http.Request) []adapter.HeaderPair {
	return adapter.HeadersFromHTTP(req.Header)
}

// RequestBody reads req.Body and puts an equivalent reader back in its place.
func (Adapter) RequestBody(req *http.Request) ([]byte, error) {
	b, rc, err := drain(req.Body, "Adapter.RequestBody")
	if err != nil {
		return nil, err
	}
	if req.Body != nil {
		req.Body = rc
	}
	return b, nil
}

func (Adapter) ResponseStatus(resp *http.Response) int {
	return resp.StatusCode
}

func (Adapter) ResponseHeaders(resp *http.Response) []adapter.HeaderPair {
	return adapter.HeadersFromHTTP(resp.Header)
}

// ResponseBody reads resp.Body and puts an equivalent reader back in its place.
func (Adapter) ResponseBody(resp *http.Response) ([]byte, error) {
	b, rc, err := drain(resp.Body, "Adapter.ResponseBody")
	if err != nil {
		return nil, err
	}
	resp.Body = rc
	return b, nil
}

func drain(body io.ReadCloser, op string) ([]byte, io.ReadCloser, error) {
	if body == nil || body == http.NoBody {
		return []byte{}, http.NoBody, nil
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, conversionError(op, err)
	}
	return b, io.NopCloser(bytes.NewReader(b)), nil
}
