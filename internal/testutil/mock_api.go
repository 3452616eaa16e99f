// Package testutil provides testing utilities for the F1 ETL packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines one canned response of the mock API.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request seen by the mock API.
type RecordedRequest struct {
	Path      string
	Limit     string
	Offset    string
	UserAgent string
}

// MockAPI is a configurable mock of the Ergast-compatible F1 API.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	scripts  map[string][]MockResponse
	requests []RecordedRequest
}

// NewMockAPI creates and starts a mock API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]http.HandlerFunc),
		scripts:  make(map[string][]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Path:      r.URL.Path,
			Limit:     q.Get("limit"),
			Offset:    q.Get("offset"),
			UserAgent: r.Header.Get("User-Agent"),
		})

		// Scripted responses are consumed in order; the last one repeats.
		if script, ok := mock.scripts[r.URL.Path]; ok && len(script) > 0 {
			resp := script[0]
			if len(script) > 1 {
				mock.scripts[r.URL.Path] = script[1:]
			}
			mock.mu.Unlock()
			writeResponse(w, resp)
			return
		}

		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		writeResponse(w, NewNotFoundResponse())
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetScript configures a sequence of responses for a path.
func (m *MockAPI) SetScript(path string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[path] = append([]MockResponse(nil), responses...)
}

// Requests returns a copy of all recorded requests.
func (m *MockAPI) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount returns the number of requests made to the server.
func (m *MockAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// RequestsFor returns the recorded requests for one path.
func (m *MockAPI) RequestsFor(path string) []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []RecordedRequest
	for _, r := range m.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewJSONResponse creates a 200 OK JSON response.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"detail": "Request was throttled."}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"detail": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"detail": "Not found."}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// Envelope builds an MRData response body holding one named table.
func Envelope(total int, limit, offset int, tableKey string, table any) string {
	body := map[string]any{
		"MRData": map[string]any{
			"xmlns":  "",
			"series": "f1",
			"limit":  strconv.Itoa(limit),
			"offset": strconv.Itoa(offset),
			"total":  strconv.Itoa(total),
			tableKey: table,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal envelope: %v", err))
	}
	return string(data)
}

// PagedHandler parses the limit and offset query parameters and serves the
// body page builds for them.
func PagedHandler(page func(offset, limit int) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit <= 0 {
			limit = 30
		}
		offset, err := strconv.Atoi(q.Get("offset"))
		if err != nil || offset < 0 {
			offset = 0
		}
		writeResponse(w, NewJSONResponse(page(offset, limit)))
	}
}

// RacesPage builds a race-table page for the given rounds of one season.
func RacesPage(season string, rounds ...string) string {
	races := make([]map[string]any, 0, len(rounds))
	for _, round := range rounds {
		races = append(races, map[string]any{
			"season":   season,
			"round":    round,
			"raceName": "Grand Prix " + round,
			"date":     "2025-03-16",
			"Circuit": map[string]any{
				"circuitId":   "circuit_" + round,
				"circuitName": "Circuit " + round,
				"Location": map[string]any{
					"locality": "Town " + round,
					"country":  "Country " + round,
				},
			},
		})
	}
	return Envelope(len(rounds), 1000, 0, "RaceTable", map[string]any{
		"season": season,
		"Races":  races,
	})
}
