package mockability

import (
	"time"

	"github.com/IvanTurko/mockability-sdk-go/transport"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Client.
type Option func(*options)

// Logger is an interface for logging. *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type options struct {
	client   transport.HTTPClient
	logger   Logger
	timeout  time.Duration
	registry prometheus.Registerer
	metrics  bool
}

// WithHTTPClient sets the transport used to reach the mock server.
// The default is a net/http client owned by the Client. To reuse an existing
// *http.Client, pass transport.NewHTTPClient(c).
func WithHTTPClient(c transport.HTTPClient) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithLogger sets the logger for the client. The default discards everything.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTimeout bounds each call made by the default transport. It has no
// effect together with WithHTTPClient. The default is no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMetrics records request counts and durations on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metrics = true
		o.registry = reg
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}
