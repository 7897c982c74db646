package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestNodeClientRecords(t *testing.T) {
	m := NewNodeClient()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, nodeRequestsTotal.WithLabelValues("account_info", "success"), func() {
		m.Observe("account_info", nil, start)
	}); inc != 1 {
		t.Fatalf("expected success counter increment, got %v", inc)
	}

	if inc := delta(t, nodeRequestsTotal.WithLabelValues("work_generate", "error"), func() {
		m.Observe("work_generate", errors.New("boom"), start)
	}); inc != 1 {
		t.Fatalf("expected error counter increment, got %v", inc)
	}

	if inc := delta(t, nodeRetriesTotal.WithLabelValues("process"), func() {
		m.Retry("process")
	}); inc != 1 {
		t.Fatalf("expected retry counter increment, got %v", inc)
	}
}

func TestRefresherRecords(t *testing.T) {
	m := NewRefresher()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, refreshPassTotal.WithLabelValues("error"), func() {
		m.ObservePass(errors.New("fail"), start)
	}); inc != 1 {
		t.Fatalf("expected pass error increment, got %v", inc)
	}

	if inc := delta(t, refreshChangedTotal, func() {
		m.ObservePage(10, 3)
	}); inc != 3 {
		t.Fatalf("expected changed counter +3, got %v", inc)
	}
}

func TestMiddleware(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/balance/{address}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h := Middleware(r)
	r.Use(Middleware)

	if inc := delta(t, httpRequestsTotal.WithLabelValues("/api/balance/{address}", "400"), func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/balance/x", nil))
	}); inc != 1 {
		t.Fatalf("expected route counter increment, got %v", inc)
	}

	if inc := delta(t, httpRequestsTotal.WithLabelValues("unknown", "404"), func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	}); inc != 1 {
		t.Fatalf("expected unknown route counter increment, got %v", inc)
	}
}
