// Package recorder adapts the server-side test doubles of net/http/httptest:
// requests as produced by httptest.NewRequest and responses as captured by
// an httptest.ResponseRecorder.
package recorder

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
)

const subsys = "adapter/recorder"

// Adapter implements adapter.Adapter for server-side *http.Request and
// *httptest.ResponseRecorder values.
type Adapter struct{}

var _ adapter.Adapter[*http.Request, *httptest.ResponseRecorder] = Adapter{}

// BuildRequest implements adapter.Adapter.
func (Adapter) BuildRequest(method, uri string, headers []adapter.HeaderPair, body []byte) (*http.Request, error) {
	if err := adapter.ValidateMethod(method); err != nil {
		return nil, err
	}
	// httptest.NewRequest panics on a target it cannot parse.
	if err := checkTarget(uri); err != nil {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp("Adapter.BuildRequest").
			WithKind(sdkerr.ErrConversion).
			WithCause(err)
	}

	req := httptest.NewRequest(method, uri, bytes.NewReader(bytes.Clone(body)))
	for _, p := range headers {
		req.Header[p.Name()] = append(req.Header[p.Name()], p.Value())
	}
	return req, nil
}

// BuildResponse implements adapter.Adapter.
func (Adapter) BuildResponse(status int, headers []adapter.HeaderPair, body []byte) (*httptest.ResponseRecorder, error) {
	if status < 100 || status > 999 {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp("Adapter.BuildResponse").
			WithKind(sdkerr.ErrConversion).
			WithMessage(fmt.Sprintf("invalid status code %d", status))
	}

	rec := httptest.NewRecorder()
	h := rec.Header()
	for _, p := range headers {
		h[p.Name()] = append(h[p.Name()], p.Value())
	}
	rec.WriteHeader(status)
	if len(body) > 0 {
		_, _ = rec.Write(body)
	}
	return rec, nil
}

func (Adapter) RequestMethod(req *http.Request) string {
	return req.Method
}

// RequestURI returns the request target as the server received it.
func (Adapter) RequestURI(req *http.Request) string {
	if req.RequestURI != "" {
		return req.RequestURI
	}
	return req.URL.RequestURI()
}

func (Adapter) RequestHeaders(req *http.Request) []adapter.HeaderPair {
	return adapter.HeadersFromHTTP(req.Header)
}

// RequestBody reads req.Body and puts an equivalent reader back in its place.
func (Adapter) RequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return []byte{}, nil
	}
	defer req.Body.Close()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp("Adapter.RequestBody").
			WithKind(sdkerr.ErrConversion).
			WithCause(err)
	}
	req.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}

func (Adapter) ResponseStatus(rec *httptest.ResponseRecorder) int {
	return rec.Code
}

func (Adapter) ResponseHeaders(rec *httptest.ResponseRecorder) []adapter.HeaderPair {
	return adapter.HeadersFromHTTP(rec.Header())
}

func (Adapter) ResponseBody(rec *httptest.ResponseRecorder) ([]byte, error) {
	if rec.Body == nil {
		return []byte{}, nil
	}
	b := make([]byte, rec.Body.Len())
	copy(b, rec.Body.Bytes())
	return b, nil
}

func checkTarget(uri string) error {
	if strings.ContainsAny(uri, " \r\n") {
		return fmt.Errorf("invalid request target %q", uri)
	}
	if _, err := url.ParseRequestURI(uri); err != nil {
		return err
	}
	return nil
}
