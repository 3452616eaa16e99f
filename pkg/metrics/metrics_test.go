package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestPush_NoURL(t *testing.T) {
	if err := Push(context.Background(), "", "f1_etl", "run"); err != nil {
		t.Errorf("Push with empty url = %v, want nil", err)
	}
}

func TestPush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "f1_test_rows_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(42)

	orig := Gatherer
	Gatherer = reg
	defer func() { Gatherer = orig }()

	if err := Push(context.Background(), server.URL, "f1_etl", "3f0c9a52-run"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if want := "/metrics/job/f1_etl/run_id/3f0c9a52-run"; path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if !strings.Contains(body, "f1_test_rows_total") {
		t.Errorf("pushed body does not contain the metric")
	}
}

func TestPush_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	orig := Gatherer
	Gatherer = prometheus.NewRegistry()
	defer func() { Gatherer = orig }()

	if err := Push(context.Background(), server.URL, "f1_etl", "run"); err == nil {
		t.Error("expected error from failing pushgateway")
	}
}
