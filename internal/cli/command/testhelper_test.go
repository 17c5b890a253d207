package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/samus-go/internal/server/localserver"
	"github.com/yndnr/samus-go/internal/server/textserver"
	"github.com/yndnr/samus-go/internal/storage/memory"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
)

// startTextServer runs a text server holding the default seed entry.
func startTextServer(t *testing.T) (*textserver.Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	if err := store.Load(context.Background(), "test_key", "test_value", 0); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := textserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := textserver.New(cfg, store, textserver.WithLogger(logger.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		sctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(sctx)
	})
	return srv, store
}

type fakeStatus struct{}

func (fakeStatus) Keys() int { return 3 }
func (fakeStatus) ActiveConnections() int64 { return 1 }

// startAdminServer runs an admin socket server and returns its path.
func startAdminServer(t *testing.T, reload func(context.Context) error) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "samus")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "admin.sock")

	srv := localserver.New(path, localserver.NewHandler(fakeStatus{}, reload), logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		sctx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(sctx)
	})
	return path
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runApp runs the CLI with args and captures its output. Exit errors are
// returned instead of terminating the test binary.
func runApp(stdin string, args ...string) runResult {
	var stdout, stderr bytes.Buffer

	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"samus-cli", "--cli-config="}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// exitCode returns the exit code carried by err, 0 for nil and 1 for
// other errors.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}
