package httpx

import (
	"net/http"
	"time"

	"github.com/IvanTurko/mockability-sdk-go/transport"
)

// NewDefaultHTTPClient returns the transport a mockability client uses unless
// one is injected. It holds a single connection pool for the life of the
// client. A zero timeout means no per-request limit beyond the caller's
// context.
func NewDefaultHTTPClient(timeout time.Duration) transport.HTTPClient {
	return transport.NewHTTPClient(&http.Client{Timeout: timeout})
}
