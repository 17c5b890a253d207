package metric

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Gatherer() == nil {
		t.Fatal("Gatherer() returned nil")
	}

	// Two registries must not collide.
	_ = NewRegistry()
}

func TestObserveCommand(t *testing.T) {
	r := NewRegistry()

	r.ObserveCommand("GET", 0.0001, nil)
	r.ObserveCommand("GET", 0.0002, errors.New("Key not found"))
	r.ObserveCommand("SET", 0.0001, nil)

	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("GET", ResultOK)); got != 1 {
		t.Errorf("GET ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("GET", ResultError)); got != 1 {
		t.Errorf("GET error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.CommandDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestRegisterKeyCount(t *testing.T) {
	r := NewRegistry()
	n := 3
	r.RegisterKeyCount(func() int { return n })

	expected := `
# HELP samus_store_keys Number of keys currently in the store.
# TYPE samus_store_keys gauge
samus_store_keys 3
`
	if err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "samus_store_keys"); err != nil {
		t.Error(err)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ConnectionsTotal.Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(string(body), "samus_connections_total 1") {
		t.Errorf("metrics output missing connections counter:\n%s", body)
	}
}
