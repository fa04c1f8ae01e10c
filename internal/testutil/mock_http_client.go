package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/flexprice/taxadmin/internal/httpclient"
)

// MockHTTPClient implements httpclient.Client with canned responses keyed by
// method and URL suffix. Unregistered routes answer 404, and SetDown makes
// every call fail as if the network were unreachable.
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string]MockResponse
	down     bool
	requests []*httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

// RegisterResponse registers a mock response for method and URL suffix
func (m *MockHTTPClient) RegisterResponse(method, path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[routeKey(method, path)] = resp
}

// RegisterJSONResponse is a helper to register a 200 response with v encoded as JSON
func (m *MockHTTPClient) RegisterJSONResponse(method, path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.RegisterResponse(method, path, MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// SetDown toggles simulated transport failure
func (m *MockHTTPClient) SetDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	down := m.down
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}
	if down {
		return nil, ierr.NewError("dial tcp: connection refused").
			WithHint("Tax service is unreachable").
			Mark(ierr.ErrHTTPClient)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched MockResponse
	var found bool
	for route, resp := range m.routes {
		method, path, _ := strings.Cut(route, " ")
		if method == req.Method && strings.HasSuffix(req.URL, path) {
			matched = resp
			found = true
			break
		}
	}

	if !found {
		matched = MockResponse{StatusCode: http.StatusNotFound, Body: []byte("Not Found")}
	}

	if matched.StatusCode < 200 || matched.StatusCode >= 300 {
		return nil, httpclient.NewError(matched.StatusCode, matched.Body)
	}

	return &httpclient.Response{
		StatusCode: matched.StatusCode,
		Body:       matched.Body,
		Headers:    matched.Headers,
	}, nil
}

// Requests returns every request sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*httpclient.Request(nil), m.requests...)
}

// CountRequests returns how many requests matched method and URL suffix
func (m *MockHTTPClient) CountRequests(method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.Method == method && strings.HasSuffix(r.URL, path) {
			n++
		}
	}
	return n
}

// Clear removes all registered responses and recorded requests
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.requests = nil
	m.down = false
}
