// Package main provides the entry point for viewgate-server.
//
// viewgate-server hosts the ViewGate session overlay as a JSON API
// for reactive single-page frontends.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/edvros/viewgate-go/internal/core/overlay"
	"github.com/edvros/viewgate-go/internal/core/view"
	"github.com/edvros/viewgate-go/internal/infra/buildinfo"
	"github.com/edvros/viewgate-go/internal/infra/confloader"
	"github.com/edvros/viewgate-go/internal/infra/shutdown"
	"github.com/edvros/viewgate-go/internal/oracle/httpapi"
	"github.com/edvros/viewgate-go/internal/oracle/local"
	"github.com/edvros/viewgate-go/internal/server/config"
	"github.com/edvros/viewgate-go/internal/server/httpserver"
	"github.com/edvros/viewgate-go/internal/slots"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
	"github.com/edvros/viewgate-go/internal/telemetry/metric"
)

func main() {
	app := &cli.App{
		Name:    "viewgate-server",
		Usage:   "session overlay service for reactive frontends",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"VIEWGATE_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Reload the log level when the config file changes",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")

	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting viewgate-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile,
		"slots_backend", cfg.Slots.Backend,
		"oracle_backend", cfg.Oracle.Backend)

	ctx := context.Background()

	store, err := newSlotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init slot store: %w", err)
	}

	oracle, err := newOracle(cfg, log)
	if err != nil {
		store.Close()
		return fmt.Errorf("init oracle: %w", err)
	}

	metrics := metric.NewRegistry()

	controller, err := overlay.New(overlay.Config{
		Oracle:      oracle,
		LoginView:   &view.LoginProvider{},
		ContentView: &view.ContentProvider{},
		Logger:      log,
		Metrics:     metrics,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("init controller: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = controller.VerifyCollaborators(verifyCtx)
	cancel()
	if err != nil {
		store.Close()
		return fmt.Errorf("verify collaborators: %w", err)
	}

	handler, err := httpserver.NewHandler(httpserver.HandlerConfig{
		Controller:   controller,
		Slots:        store,
		Logger:       log,
		Metrics:      metrics,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		SlotsBackend: cfg.Slots.Backend,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("init handler: %w", err)
	}

	httpServer := httpserver.New(httpserver.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpserver.NewRouter(handler, log))

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout)

	// Shutdown hooks run in reverse order of startup.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing slot store")
		return store.Close()
	})

	if c.Bool("watch-config") && configFile != "" {
		watcher, err := startConfigWatcher(configFile, log)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		shutdownHandler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	startSweeper(cfg, store, oracle, log, shutdownHandler.Done())

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.Addr)

		var err error
		if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, an optional file, and
// the environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSlotStore builds the configured token-slot store.
func newSlotStore(ctx context.Context, cfg *config.ServerConfig) (slots.Store, error) {
	switch cfg.Slots.Backend {
	case "memory":
		return slots.NewMemoryStore(cfg.Session.SlotTTL), nil
	case "redis":
		return slots.NewRedisStore(ctx, slots.RedisConfig{
			Addr:     cfg.Slots.Redis.Addr,
			Password: cfg.Slots.Redis.Password,
			DB:       cfg.Slots.Redis.DB,
			TTL:      cfg.Session.SlotTTL,
		})
	case "badger":
		return slots.NewBadgerStore(slots.BadgerConfig{
			Dir: cfg.Slots.Badger.Dir,
			TTL: cfg.Session.SlotTTL,
		})
	default:
		return nil, fmt.Errorf("unknown slots backend %q", cfg.Slots.Backend)
	}
}

// newOracle builds the configured session oracle.
func newOracle(cfg *config.ServerConfig, log logger.Logger) (overlay.Oracle, error) {
	switch cfg.Oracle.Backend {
	case "local":
		oracle := local.New(local.Config{
			SessionTTL: cfg.Oracle.Local.SessionTTL,
			LoginRate:  cfg.Oracle.Local.LoginRate,
			Logger:     log,
		})
		for _, acct := range cfg.Oracle.Local.Accounts {
			if err := oracle.AddAccountHash(acct.Username, acct.PasswordHash); err != nil {
				return nil, fmt.Errorf("account %q: %w", acct.Username, err)
			}
		}
		return oracle, nil
	case "http":
		return httpapi.New(httpapi.Config{
			BaseURL: cfg.Oracle.HTTP.BaseURL,
			APIKey:  cfg.Oracle.HTTP.APIKey,
			Timeout: cfg.Oracle.HTTP.Timeout,
			Logger:  log,
		})
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.Oracle.Backend)
	}
}

// startConfigWatcher reloads the log level when the config file
// changes. Other settings need a restart.
func startConfigWatcher(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})

	watcher.StartAsync()
	return watcher, nil
}

// startSweeper expires stale sessions on the probe interval so a
// client's next status probe observes the logout. Backends with native
// TTLs expire on their own.
func startSweeper(cfg *config.ServerConfig, store slots.Store, oracle overlay.Oracle, log logger.Logger, done <-chan struct{}) {
	if cfg.Session.ProbeInterval <= 0 {
		return
	}

	mem, _ := store.(*slots.MemoryStore)
	loc, _ := oracle.(*local.Oracle)
	if mem == nil && loc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(cfg.Session.ProbeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if mem != nil {
					if n := mem.Sweep(); n > 0 {
						log.Debug("swept slot pairs", "count", n)
					}
				}
				if loc != nil {
					if n := loc.Sweep(); n > 0 {
						log.Debug("swept oracle sessions", "count", n)
					}
				}
			}
		}
	}()
}
