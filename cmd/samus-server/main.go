package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/samus-go/internal/infra/buildinfo"
	"github.com/yndnr/samus-go/internal/infra/confloader"
	"github.com/yndnr/samus-go/internal/infra/shutdown"
	"github.com/yndnr/samus-go/internal/server/config"
	"github.com/yndnr/samus-go/internal/server/httpserver"
	"github.com/yndnr/samus-go/internal/server/localserver"
	"github.com/yndnr/samus-go/internal/server/textserver"
	"github.com/yndnr/samus-go/internal/storage/memory"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/internal/telemetry/metric"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "samus-server",
		Usage:   "In-memory key-value store with a line protocol",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"SAMUS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Text protocol listen address (host:port)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Text protocol listen port; keeps the configured host",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.IntFlag{
				Name:  "max-connections",
				Usage: "Concurrently served clients (1 serves them one at a time)",
			},
			&cli.BoolFlag{
				Name:  "strict-delete",
				Usage: "Report DELETE of a missing key as an error",
			},
		},
		Action: run,
	}
}

// overrides collects the flags the user set, keyed by config path.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("addr") {
		m["server.text.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	if c.IsSet("max-connections") {
		m["server.text.max_connections"] = c.Int("max-connections")
	}
	if c.IsSet("strict-delete") {
		m["server.text.strict_delete"] = c.Bool("strict-delete")
	}
	return m
}

// loadConfig loads, adjusts and validates the configuration. port is
// applied last when non-zero.
func loadConfig(loader *confloader.Loader, port int, reload bool) (*config.ServerConfig, error) {
	cfg := config.Default()

	load := loader.Load
	if reload {
		load = loader.Reload
	}
	if err := load(cfg); err != nil {
		return nil, err
	}

	if port != 0 {
		host, _, err := net.SplitHostPort(cfg.Server.Text.Addr)
		if err != nil {
			return nil, fmt.Errorf("server.text.addr: %w", err)
		}
		cfg.Server.Text.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	opts := []confloader.Option{confloader.WithOverrides(overrides(c))}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)
	port := c.Int("port")

	cfg, err := loadConfig(loader, port, false)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    os.Stdout,
		LogValues: cfg.Log.LogValues,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting samus-server",
		"version", buildinfo.Version,
		"config", loader.FilePath())
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	metrics := metric.NewRegistry()
	metrics.RegisterKeyCount(store.Len)

	text := textserver.New(textConfig(cfg), store,
		textserver.WithLogger(log.With("component", "textserver")),
		textserver.WithMetrics(metrics))
	if err := text.Start(ctx); err != nil {
		return err
	}
	log.Info("text server listening", "addr", text.Addr().String())

	sh := shutdown.NewHandler(shutdown.DefaultTimeout, log)
	sh.OnShutdown("text server", text.Shutdown)

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics.Handler(),
			Ready:   text.Ready,
			Logger:  log.With("component", "httpserver"),
		})
		hs := httpserver.New(cfg.Server.HTTP.Addr, router, log)
		if err := hs.Start(); err != nil {
			_ = sh.Shutdown()
			return fmt.Errorf("start http server: %w", err)
		}
		log.Info("http server listening", "addr", hs.Addr().String())
		sh.OnShutdown("http server", hs.Shutdown)
	}

	reload := func(context.Context) error {
		next, err := loadConfig(loader, port, true)
		if err != nil {
			return err
		}
		logger.SetLevel(next.Log.Level)
		log.Info("configuration reloaded", "log_level", next.Log.Level)
		return nil
	}

	if cfg.Server.Local.Enabled {
		handler := localserver.NewHandler(adminStatus{store: store, text: text}, reload)
		ls := localserver.New(cfg.Server.Local.Path, handler, log.With("component", "localserver"))
		if err := ls.Start(ctx); err != nil {
			_ = sh.Shutdown()
			return fmt.Errorf("start admin socket: %w", err)
		}
		log.Info("admin socket listening", "path", cfg.Server.Local.Path)
		sh.OnShutdown("admin socket", ls.Shutdown)
	}

	if path := loader.FilePath(); path != "" {
		if err := watchConfig(ctx, sh, path, reload, log); err != nil {
			log.Warn("config file watch disabled", "path", path, "error", err)
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newStore(ctx context.Context, cfg *config.ServerConfig) (*memory.Store, error) {
	store := memory.New(
		memory.WithShardCount(cfg.Store.ShardCount),
		memory.WithStrictDelete(cfg.Server.Text.StrictDelete),
	)

	seed := make([]memory.SeedEntry, len(cfg.Store.Seed))
	for i, e := range cfg.Store.Seed {
		seed[i] = memory.SeedEntry{Key: e.Key, Value: e.Value, TTL: e.TTL}
	}
	if err := store.Seed(ctx, seed); err != nil {
		return nil, err
	}
	return store, nil
}

func textConfig(cfg *config.ServerConfig) *textserver.Config {
	t := cfg.Server.Text
	return &textserver.Config{
		Address:        t.Addr,
		MaxConnections: t.MaxConnections,
		ReadTimeout:    t.ReadTimeout,
		WriteTimeout:   t.WriteTimeout,
		RateLimit:      t.RateLimit,
	}
}

// watchConfig reloads the configuration whenever the file changes.
func watchConfig(ctx context.Context, sh *shutdown.Handler, path string, reload func(context.Context) error, log logger.Logger) error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return err
	}
	w.OnChange(func(string) {
		if err := reload(ctx); err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
		}
	})
	go w.Run(ctx)

	sh.OnShutdown("config watcher", func(context.Context) error {
		return w.Stop()
	})
	return nil
}

// adminStatus feeds the admin socket status command.
type adminStatus struct {
	store *memory.Store
	text  *textserver.Server
}

func (s adminStatus) Keys() int {
	return s.store.Len()
}

func (s adminStatus) ActiveConnections() int64 {
	return s.text.ActiveConnections()
}

var _ localserver.Status = adminStatus{}
