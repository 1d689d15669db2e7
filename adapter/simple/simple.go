// Package simple provides plain request and response structs, and their
// adapter, for callers that want no HTTP library at all.
package simple

import (
	"github.com/IvanTurko/mockability-sdk-go/adapter"
)

// Request is a minimal HTTP request.
type Request struct {
	Method  string
	URI     string
	Headers []adapter.HeaderPair
	Body    []byte
}

// NewRequest creates a Request with an empty body.
func NewRequest(method, uri string, headers ...adapter.HeaderPair) *Request {
	return &Request{Method: method, URI: uri, Headers: headers, Body: []byte{}}
}

// WithBody sets the request body.
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}

// Response is a minimal HTTP response.
type Response struct {
	Status  int
	Headers []adapter.HeaderPair
	Body    []byte
}

// NewResponse creates a Response with an empty body.
func NewResponse(status int, headers ...adapter.HeaderPair) *Response {
	return &Response{Status: status, Headers: headers, Body: []byte{}}
}

// WithBody sets the response body.
func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

// Adapter implements adapter.Adapter for Request and Response.
type Adapter struct{}

var _ adapter.Adapter[*Request, *Response] = Adapter{}

// BuildRequest implements adapter.Adapter.
func (Adapter) BuildRequest(method, uri string, headers []adapter.HeaderPair, body []byte) (*Request, error) {
	if err := adapter.ValidateMethod(method); err != nil {
		return nil, err
	}
	return &Request{
		Method:  method,
		URI:     uri,
		Headers: clonePairs(headers),
		Body:    cloneBytes(body),
	}, nil
}

// BuildResponse implements adapter.Adapter.
func (Adapter) BuildResponse(status int, headers []adapter.HeaderPair, body []byte) (*Response, error) {
	return &Response{
		Status:  status,
		Headers: clonePairs(headers),
		Body:    cloneBytes(body),
	}, nil
}

func (Adapter) RequestMethod(req *Request) string {
	return req.Method
}

func (Adapter) RequestURI(req *Request) string {
	return req.URI
}

func (Adapter) RequestHeaders(req *Request) []adapter.HeaderPair {
	return clonePairs(req.Headers)
}

func (Adapter) RequestBody(req *Request) ([]byte, error) {
	return cloneBytes(req.Body), nil
}

func (Adapter) ResponseStatus(resp *Response) int {
	return resp.Status
}

func (Adapter) ResponseHeaders(resp *Response) []adapter.HeaderPair {
	return clonePairs(resp.Headers)
}

func (Adapter) ResponseBody(resp *Response) ([]byte, error) {
	return cloneBytes(resp.Body), nil
}

func clonePairs(pairs []adapter.HeaderPair) []adapter.HeaderPair {
	out := make([]adapter.HeaderPair, len(pairs))
	copy(out, pairs)
	return out
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
