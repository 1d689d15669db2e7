// Package adapter defines the bridge between native HTTP request/response
// representations and the canonical records exchanged with a mockability
// server.
//
// An Adapter is chosen once per client. It converts a native request type Q
// and response type S to and from Request and Response, so the wire protocol
// is written once no matter how many representations exist.
package adapter

import (
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
)

const subsys = "adapter"

// Supported request methods.
const (
	MethodHead   = "HEAD"
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Request is the representation-neutral form of an HTTP request.
//
// URI holds the path and query only. Body holds raw bytes and is never
// base64 at this layer.
type Request struct {
	Method  string
	URI     string
	Headers []HeaderPair
	Body    []byte
}

// Response is the representation-neutral form of an HTTP response.
type Response struct {
	Status  int
	Headers []HeaderPair
	Body    []byte
}

// Adapter converts between one native request type Q, one native response
// type S and the canonical records.
//
// Implementations must be stateless. BuildRequest must reject methods other
// than HEAD, GET, POST, PUT and DELETE with the error from ValidateMethod.
type Adapter[Q, S any] interface {
	// BuildRequest constructs a native request. uri carries no scheme, host or port.
	BuildRequest(method, uri string, headers []HeaderPair, body []byte) (Q, error)
	// BuildResponse constructs a native response. A zero-length body must still be readable.
	BuildResponse(status int, headers []HeaderPair, body []byte) (S, error)

	RequestMethod(req Q) string
	// RequestURI returns the path and query of req.
	RequestURI(req Q) string
	// RequestHeaders flattens multi-valued headers into one pair per value.
	RequestHeaders(req Q) []HeaderPair
	// RequestBody reads the whole body; it is empty, not nil, when req has none.
	RequestBody(req Q) ([]byte, error)

	ResponseStatus(resp S) int
	ResponseHeaders(resp S) []HeaderPair
	ResponseBody(resp S) ([]byte, error)
}

// ValidateMethod returns an error unless method is one of the supported
// request methods.
func ValidateMethod(method string) error {
	switch method {
	case MethodHead, MethodGet, MethodPost, MethodPut, MethodDelete:
		return nil
	default:
		return sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp("ValidateMethod").
			WithKind(sdkerr.ErrValidation).
			WithVerbatimMessage("Unexpected request method " + method)
	}
}

// AllowsBody reports whether method carries an entity in request
// representations that distinguish the two.
func AllowsBody(method string) bool {
	return method == MethodPost || method == MethodPut
}

// ToRequest extracts the canonical form of a native request.
func ToRequest[Q, S any](a Adapter[Q, S], req Q) (Request, error) {
	body, err := a.RequestBody(req)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method:  a.RequestMethod(req),
		URI:     a.RequestURI(req),
		Headers: a.RequestHeaders(req),
		Body:    nonNil(body),
	}, nil
}

// ToResponse extracts the canonical form of a native response.
func ToResponse[Q, S any](a Adapter[Q, S], resp S) (Response, error) {
	body, err := a.ResponseBody(resp)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Status:  a.ResponseStatus(resp),
		Headers: a.ResponseHeaders(resp),
		Body:    nonNil(body),
	}, nil
}

// FromRequest builds a native request from its canonical form.
func FromRequest[Q, S any](a Adapter[Q, S], req Request) (Q, error) {
	return a.BuildRequest(req.Method, req.URI, req.Headers, nonNil(req.Body))
}

// FromResponse builds a native response from its canonical form.
func FromResponse[Q, S any](a Adapter[Q, S], resp Response) (S, error) {
	return a.BuildResponse(resp.Status, resp.Headers, nonNil(resp.Body))
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
