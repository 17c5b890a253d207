package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/samus-go/internal/server/textserver"
	"github.com/yndnr/samus-go/internal/storage/memory"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
)

// KeyCounts defines the preloaded key counts for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

func keyAt(i int) string {
	return fmt.Sprintf("key-%d", i)
}

// prefillStore loads count keys into store.
func prefillStore(b *testing.B, store *memory.Store, count int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		if err := store.Load(ctx, keyAt(i), "value", 0); err != nil {
			b.Fatalf("Load: %v", err)
		}
	}
}

// startServer runs a text server over a store holding count keys.
func startServer(b *testing.B, count int) *textserver.Server {
	b.Helper()

	store := memory.New()
	prefillStore(b, store, count)

	cfg := textserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := textserver.New(cfg, store, textserver.WithLogger(logger.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		cancel()
		b.Fatalf("Start: %v", err)
	}
	b.Cleanup(func() {
		cancel()
		sctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(sctx)
	})
	return srv
}

// reportMemory reports heap usage as a custom metric.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/1024/1024, prefix+"_heap_MB")
}
