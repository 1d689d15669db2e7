// Package wire encodes and decodes the JSON payloads exchanged with a
// mockability server.
//
// Prepared responses travel as a JSON array of
// {"status", "headers": [{"name", "value"}], "body"} objects and reported
// requests as an array of {"method", "uri", "headers", "body"} objects.
// Bodies are base64 (standard alphabet, padded) on the wire and raw bytes
// everywhere else.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/internal/validation"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
)

const subsys = "wire"

var validate = validation.New()

var errNotArray = errors.New("payload is not a JSON array")

type header struct {
	Name  *string `json:"name" validate:"required,min=1"`
	Value *string `json:"value" validate:"required"`
}

type request struct {
	Method  *string  `json:"method" validate:"required,min=1"`
	URI     *string  `json:"uri" validate:"required"`
	Headers []header `json:"headers" validate:"dive"`
	Body    *string  `json:"body,omitempty"`
}

type response struct {
	Status  *int     `json:"status" validate:"required"`
	Headers []header `json:"headers" validate:"dive"`
	Body    *string  `json:"body"`
}

// EncodeResponse renders resp as the body of a prepare call. The result is
// always a one-element array; body is always present and headers is never
// null.
func EncodeResponse(resp adapter.Response) ([]byte, error) {
	status := resp.Status
	body := base64.StdEncoding.EncodeToString(resp.Body)

	b, err := json.Marshal([]response{{
		Status:  &status,
		Headers: encodeHeaders(resp.Headers),
		Body:    &body,
	}})
	if err != nil {
		return nil, encodeError("EncodeResponse", err)
	}
	return b, nil
}

// EncodeRequests renders reqs the way a mockability server reports them. An
// empty body is omitted.
func EncodeRequests(reqs []adapter.Request) ([]byte, error) {
	out := make([]request, 0, len(reqs))
	for _, r := range reqs {
		method, uri := r.Method, r.URI
		wr := request{
			Method:  &method,
			URI:     &uri,
			Headers: encodeHeaders(r.Headers),
		}
		if len(r.Body) > 0 {
			body := base64.StdEncoding.EncodeToString(r.Body)
			wr.Body = &body
		}
		out = append(out, wr)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, encodeError("EncodeRequests", err)
	}
	return b, nil
}

// DecodeRequests parses the body of a report call. Requests come back in
// array order; a request without a body gets an empty one.
//
// Any malformed element fails the whole decode.
func DecodeRequests(data []byte) ([]adapter.Request, error) {
	const op = "DecodeRequests"

	var in []request
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, decodeError(op, "malformed report payload", err)
	}
	if in == nil {
		return nil, decodeError(op, "malformed report payload", errNotArray)
	}

	reqs := make([]adapter.Request, 0, len(in))
	for i, wr := range in {
		if err := validate.Struct(wr); err != nil {
			return nil, decodeError(op, elementMessage("request", i, err), err)
		}
		body, err := decodeBody(wr.Body)
		if err != nil {
			return nil, decodeError(op, fmt.Sprintf("request %d: invalid body", i), err)
		}
		reqs = append(reqs, adapter.Request{
			Method:  *wr.Method,
			URI:     *wr.URI,
			Headers: decodeHeaders(wr.Headers),
			Body:    body,
		})
	}
	return reqs, nil
}

// DecodeResponses parses the body of a prepare call.
func DecodeResponses(data []byte) ([]adapter.Response, error) {
	const op = "DecodeResponses"

	var in []response
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, decodeError(op, "malformed prepare payload", err)
	}
	if in == nil {
		return nil, decodeError(op, "malformed prepare payload", errNotArray)
	}

	resps := make([]adapter.Response, 0, len(in))
	for i, wr := range in {
		if err := validate.Struct(wr); err != nil {
			return nil, decodeError(op, elementMessage("response", i, err), err)
		}
		body, err := decodeBody(wr.Body)
		if err != nil {
			return nil, decodeError(op, fmt.Sprintf("response %d: invalid body", i), err)
		}
		resps = append(resps, adapter.Response{
			Status:  *wr.Status,
			Headers: decodeHeaders(wr.Headers),
			Body:    body,
		})
	}
	return resps, nil
}

func encodeHeaders(pairs []adapter.HeaderPair) []header {
	out := make([]header, 0, len(pairs))
	for _, p := range pairs {
		name, value := p.Name(), p.Value()
		out = append(out, header{Name: &name, Value: &value})
	}
	return out
}

func decodeHeaders(in []header) []adapter.HeaderPair {
	pairs := make([]adapter.HeaderPair, 0, len(in))
	for _, h := range in {
		pairs = append(pairs, adapter.NewHeaderPair(*h.Name, *h.Value))
	}
	return pairs
}

func decodeBody(s *string) ([]byte, error) {
	if s == nil {
		return []byte{}, nil
	}
	b, err := base64.StdEncoding.DecodeString(*s)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func elementMessage(kind string, i int, err error) string {
	fields := validation.Fields(err)
	if len(fields) == 0 {
		return fmt.Sprintf("%s %d: invalid", kind, i)
	}
	return fmt.Sprintf("%s %d: missing or empty %s", kind, i, strings.Join(fields, ", "))
}

func decodeError(op, msg string, cause error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrDecodeError).
		WithMessage(msg).
		WithCause(cause)
}

func encodeError(op string, cause error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrConversion).
		WithCause(cause)
}
