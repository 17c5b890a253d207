package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/yndnr/samus-go/internal/core/domain"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/pkg/cmap"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.text.addr", cfg.Text.Addr); err != nil {
		return err
	}
	if cfg.Text.MaxConnections < 1 {
		return errors.New("server.text.max_connections must be at least 1")
	}
	if cfg.Text.ReadTimeout < 0 || cfg.Text.WriteTimeout < 0 {
		return errors.New("server.text timeouts must not be negative")
	}
	if cfg.Text.RateLimit < 0 {
		return errors.New("server.text.rate_limit must not be negative")
	}

	if cfg.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
		if samePort(cfg.Text.Addr, cfg.HTTP.Addr) {
			return fmt.Errorf("server.http.addr %q conflicts with server.text.addr %q", cfg.HTTP.Addr, cfg.Text.Addr)
		}
	}

	if cfg.Local.Enabled && cfg.Local.Path == "" {
		return errors.New("server.local.path is required when server.local is enabled")
	}
	return nil
}

func verifyAddr(name, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%s: invalid port %q", name, port)
	}
	return nil
}

// samePort reports whether two listen addresses would collide. Port 0
// asks the kernel for a free port and never collides.
func samePort(a, b string) bool {
	hostA, portA, _ := net.SplitHostPort(a)
	hostB, portB, _ := net.SplitHostPort(b)
	if portA != portB || portA == "0" {
		return false
	}
	return hostA == hostB || isWildcard(hostA) || isWildcard(hostB)
}

func isWildcard(host string) bool {
	return host == "" || host == "0.0.0.0" || host == "::"
}

func verifyStore(cfg *StoreSection) error {
	if !cmap.IsValidShardCount(cfg.ShardCount) {
		return fmt.Errorf("store.shard_count must be a power of two, got %d", cfg.ShardCount)
	}
	for i, e := range cfg.Seed {
		if err := domain.ValidateKey(e.Key); err != nil {
			return fmt.Errorf("store.seed[%d]: %w", i, err)
		}
		if err := domain.ValidateValue(e.Value); err != nil {
			return fmt.Errorf("store.seed[%d]: %w", i, err)
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format %q must be json or text", cfg.Format)
	}
}
