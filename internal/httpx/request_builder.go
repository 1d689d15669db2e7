package httpx

import (
	"io"
	"net/http"

	"github.com/IvanTurko/mockability-sdk-go/transport"
)

// RequestBuilder assembles a transport.Request against a fixed origin.
//
// The path is appended to the base URL verbatim, query string included; no
// escaping is applied.
type RequestBuilder struct {
	BaseURL string
	Path    string
	Method  string
	Headers http.Header
	Body    io.Reader
}

func NewRequestBuilder(baseURL string) *RequestBuilder {
	return &RequestBuilder{
		BaseURL: baseURL,
		Headers: make(http.Header),
	}
}

func (b *RequestBuilder) WithPath(path string) *RequestBuilder {
	b.Path = path
	return b
}

func (b *RequestBuilder) WithMethod(method string) *RequestBuilder {
	b.Method = method
	return b
}

func (b *RequestBuilder) WithHeader(name, value string) *RequestBuilder {
	b.Headers.Add(name, value)
	return b
}

func (b *RequestBuilder) WithBody(body io.Reader) *RequestBuilder {
	b.Body = body
	return b
}

func (b *RequestBuilder) Build() *transport.Request {
	return &transport.Request{
		Method:  b.Method,
		FullURL: b.BaseURL + b.Path,
		Headers: b.Headers,
		Body:    b.Body,
	}
}
