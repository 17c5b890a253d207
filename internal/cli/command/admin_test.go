package command

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yndnr/samus-go/internal/infra/buildinfo"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
)

func TestStatus(t *testing.T) {
	path := startAdminServer(t, nil)

	res := runApp("", "status", "--socket", path)
	if res.err != nil {
		t.Fatalf("status: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "keys=3 connections=1 uptime=") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestStatus_JSON(t *testing.T) {
	path := startAdminServer(t, nil)

	res := runApp("", "-o", "json", "status", "--socket", path)
	if res.err != nil {
		t.Fatalf("status: %v", res.err)
	}

	var info StatusInfo
	if err := json.Unmarshal([]byte(res.stdout), &info); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	if info.Keys != "3" || info.Connections != "1" || info.Version != buildinfo.Version {
		t.Errorf("info = %+v", info)
	}
}

func TestStatus_NoSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sock")

	res := runApp("", "status", "--socket", path)
	if res.err == nil || !strings.Contains(res.err.Error(), "not found") {
		t.Errorf("err = %v", res.err)
	}
}

func TestLogLevel(t *testing.T) {
	path := startAdminServer(t, nil)
	prev := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(prev) })

	res := runApp("", "loglevel", "--socket", path, "debug")
	if res.err != nil {
		t.Fatalf("loglevel: %v", res.err)
	}
	if res.stdout != "debug\n" {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = runApp("", "loglevel", "--socket", path, "loud")
	if res.err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestReload(t *testing.T) {
	var calls atomic.Int32
	path := startAdminServer(t, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	res := runApp("", "reload", "--socket", path)
	if res.err != nil {
		t.Fatalf("reload: %v", res.err)
	}
	if res.stdout != "ok\n" || calls.Load() != 1 {
		t.Errorf("stdout = %q, calls = %d", res.stdout, calls.Load())
	}
}

func TestReload_Failure(t *testing.T) {
	path := startAdminServer(t, func(context.Context) error {
		return errors.New("bad config")
	})

	res := runApp("", "reload", "--socket", path)
	if res.err == nil || !strings.Contains(res.err.Error(), "bad config") {
		t.Errorf("err = %v", res.err)
	}
}

func TestParseStatus(t *testing.T) {
	info := parseStatus([]string{"keys=10 connections=2 uptime=1m0s version=v1.0.0 extra"})
	want := StatusInfo{Keys: "10", Connections: "2", Uptime: "1m0s", Version: "v1.0.0"}
	if info != want {
		t.Errorf("parseStatus = %+v, want %+v", info, want)
	}
}

func TestVersion(t *testing.T) {
	res := runApp("", "version")
	if res.err != nil {
		t.Fatalf("version: %v", res.err)
	}
	if res.stdout != buildinfo.String()+"\n" {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = runApp("", "-o", "yaml", "version")
	if res.err != nil {
		t.Fatalf("version yaml: %v", res.err)
	}
	if !strings.Contains(res.stdout, "version: ") {
		t.Errorf("yaml stdout = %q", res.stdout)
	}
}
