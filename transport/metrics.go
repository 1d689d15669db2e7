package transport

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics recorded by an instrumented client. A request that never produced
// a response is counted with code "error".
const (
	RequestsTotalName   = "mockability_client_requests_total"
	RequestDurationName = "mockability_client_request_duration_seconds"
)

type instrumentedClient struct {
	inner    HTTPClient
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInstrumentedClient wraps inner so that every call is counted and timed
// on reg. A nil reg uses prometheus.DefaultRegisterer.
//
// It panics if the metrics are already registered on reg, as promauto does.
func NewInstrumentedClient(inner HTTPClient, reg prometheus.Registerer) HTTPClient {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &instrumentedClient{
		inner: inner,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: RequestsTotalName,
				Help: "Total number of requests sent to the mockability server",
			},
			[]string{"method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationName,
				Help:    "Duration of requests to the mockability server in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (c *instrumentedClient) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	resp, err := c.inner.Do(ctx, req)
	c.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	code := "error"
	if err == nil && resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.requests.WithLabelValues(req.Method, code).Inc()

	return resp, err
}
