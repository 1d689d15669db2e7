package testutil

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	gosync "sync"
	"testing"

	"github.com/IvanTurko/mockability-sdk-go/adapter"
	"github.com/IvanTurko/mockability-sdk-go/internal/sync"
	"github.com/IvanTurko/mockability-sdk-go/wire"
)

const (
	controlPrefix = "/mockability"

	// StatusUnprepared is returned for traffic nothing was prepared for.
	StatusUnprepared = 499
)

type slotKey struct {
	addr   string
	method string
	uri    string
}

func (k slotKey) String() string {
	return fmt.Sprintf("%s: %s '%s'", k.addr, k.method, k.uri)
}

type slot struct {
	pending  []adapter.Response
	recorded []adapter.Request
}

// MockServer is an in-process stand-in for a mockability server.
//
// Responses are prepared per client address, method and URI and handed out
// in FIFO order; every request that consumes one is recorded for report.
// Traffic with nothing prepared gets StatusUnprepared.
type MockServer struct {
	*httptest.Server

	mu    gosync.Mutex
	slots map[slotKey]*slot

	served    sync.Counter
	unmatched sync.Counter
}

// NewMockServer starts a MockServer and closes it when the test ends.
func NewMockServer(t testing.TB) *MockServer {
	m := &MockServer{
		slots:     make(map[slotKey]*slot),
		served:    sync.NewCounter(),
		unmatched: sync.NewCounter(),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// Served is the number of prepared responses handed out so far.
func (m *MockServer) Served() uint64 { return m.served.Get() }

// Unmatched is the number of requests that found nothing prepared.
func (m *MockServer) Unmatched() uint64 { return m.unmatched.Get() }

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	addr := remoteHost(r)
	target := r.RequestURI

	if target == controlPrefix {
		if r.Method == http.MethodDelete {
			m.clearAll(w)
			return
		}
		writeText(w, http.StatusBadRequest, "Only DELETE is supported on "+controlPrefix)
		return
	}

	if rest, ok := strings.CutPrefix(target, controlPrefix+"/"); ok {
		method, uri, _ := strings.Cut(rest, "/")
		key := slotKey{addr: addr, method: method, uri: "/" + uri}
		switch r.Method {
		case http.MethodPost:
			m.prepare(w, r, key)
		case http.MethodGet:
			m.report(w, key)
		case http.MethodDelete:
			m.clear(w, key)
		default:
			writeText(w, http.StatusBadRequest, "Unsupported control method "+r.Method)
		}
		return
	}

	m.serve(w, r, slotKey{addr: addr, method: r.Method, uri: target})
}

func (m *MockServer) prepare(w http.ResponseWriter, r *http.Request, key slotKey) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	resps, err := wire.DecodeResponses(data)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	m.mu.Lock()
	s := m.slot(key)
	s.pending = append(s.pending, resps...)
	m.mu.Unlock()

	writeText(w, http.StatusOK, fmt.Sprintf("Prepared %d response(s) for %s", len(resps), key))
}

func (m *MockServer) report(w http.ResponseWriter, key slotKey) {
	m.mu.Lock()
	s, ok := m.slots[key]
	var recorded []adapter.Request
	if ok {
		recorded = append(recorded, s.recorded...)
	}
	known := m.describeLocked()
	m.mu.Unlock()

	if !ok {
		writeText(w, StatusUnprepared, fmt.Sprintf(
			"\nReport was demanded for:\n%s\n\nReports are prepared only for:\n%s", key, known))
		return
	}

	data, err := wire.EncodeRequests(recorded)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (m *MockServer) clear(w http.ResponseWriter, key slotKey) {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()

	writeText(w, http.StatusOK, "Cleared "+key.String())
}

func (m *MockServer) clearAll(w http.ResponseWriter) {
	m.mu.Lock()
	m.slots = make(map[slotKey]*slot)
	m.mu.Unlock()

	writeText(w, http.StatusOK, "Cleared everything")
}

func (m *MockServer) serve(w http.ResponseWriter, r *http.Request, key slotKey) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok || len(s.pending) == 0 {
		m.mu.Unlock()
		m.unmatched.Inc()
		writeText(w, StatusUnprepared, fmt.Sprintf("No response was prepared for %s", key))
		return
	}
	resp := s.pending[0]
	s.pending = s.pending[1:]
	s.recorded = append(s.recorded, adapter.Request{
		Method:  r.Method,
		URI:     key.uri,
		Headers: adapter.HeadersFromHTTP(r.Header),
		Body:    body,
	})
	m.mu.Unlock()
	m.served.Inc()

	if resp.Status < 100 || resp.Status > 999 {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Prepared status %d cannot be sent", resp.Status))
		return
	}
	h := w.Header()
	for _, p := range resp.Headers {
		// The server sets the length itself.
		if http.CanonicalHeaderKey(p.Name()) == "Content-Length" {
			continue
		}
		h.Add(p.Name(), p.Value())
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (m *MockServer) slot(key slotKey) *slot {
	s, ok := m.slots[key]
	if !ok {
		s = &slot{}
		m.slots[key] = s
	}
	return s
}

func (m *MockServer) describeLocked() string {
	if len(m.slots) == 0 {
		return "No reports were prepared.\n"
	}
	lines := make([]string, 0, len(m.slots))
	for key := range m.slots {
		lines = append(lines, key.String()+"\n")
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
