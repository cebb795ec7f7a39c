package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/vaxatlas/pkg/api"
	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/cache"
	"github.com/hazyhaar/vaxatlas/pkg/chassis"
	"github.com/hazyhaar/vaxatlas/pkg/importer"
	"github.com/hazyhaar/vaxatlas/pkg/selection"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: vaxatlas <command>

Commands:
  serve    Start the HTTP (and optional HTTP/3) server
  import   Download public sources into the data directory
  export   Write the series and averages of one entity as xlsx or csv
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	loadEnv()
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// SIGINT/SIGTERM: graceful shutdown. Source fetches already running
	// finish on their own; nothing is reloaded on SIGHUP.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsCache, closeCache := openCache(ctx, cfg.Cache, logger)
	defer closeCache()

	a := atlas.New(logger, atlas.Options{Cache: statsCache, MaxParallel: cfg.MaxParallel})
	go func() {
		start := time.Now()
		if err := a.Load(ctx, cfg.Sources); err != nil {
			logger.Warn("some sources did not load", "error", err)
			return
		}
		logger.Info("all sources loaded", "count", len(cfg.Sources), "duration", time.Since(start))
	}()

	sessions := selection.NewStore(cfg.SessionTTL, logger)
	go sessions.Start(ctx, sweepInterval(cfg.SessionTTL))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data dir", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	ledger, err := importer.OpenLedger(filepath.Join(cfg.DataDir, "sources.db"))
	if err != nil {
		logger.Error("open sources.db", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()
	if err := ledger.Seed(importer.All()); err != nil {
		logger.Error("seed sources", "error", err)
		os.Exit(1)
	}
	if cfg.CheckInterval > 0 {
		go importer.NewChecker(ledger, logger, cfg.CheckInterval).Start(ctx)
	}

	handler := api.NewRouter(a, sessions, logger, api.WithImports(ledger))
	if cfg.MCP.Enabled {
		mcpSrv := server.NewMCPServer("vaxatlas", version, server.WithToolCapabilities(false))
		api.RegisterMCPTools(mcpSrv, a, logger)

		mux := http.NewServeMux()
		mux.Handle(cfg.MCP.Path, server.NewStreamableHTTPServer(mcpSrv))
		mux.Handle("/", handler)
		handler = mux
		logger.Info("MCP enabled", "path", cfg.MCP.Path)
	}

	if cfg.TLS.Enabled {
		serveTLS(ctx, cfg, handler, logger)
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("vaxatlas listening", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func serveTLS(ctx context.Context, cfg config, handler http.Handler, logger *slog.Logger) {
	srv, err := chassis.New(chassis.Config{
		Addr:     cfg.Addr,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
		Hosts:    cfg.TLS.Hosts,
		Handler:  handler,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("chassis", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

// openCache prefers Redis when configured and reachable, else an in-process
// LRU. A zero size with no Redis disables caching.
func openCache(ctx context.Context, cc cacheConfig, logger *slog.Logger) (cache.Cache, func()) {
	if r := cache.OpenRedis(cc.RedisAddr, cc.RedisPassword, cc.RedisDB, cc.TTL); r != nil {
		if err := r.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, falling back to in-process cache", "addr", cc.RedisAddr, "error", err)
			r.Close()
		} else {
			logger.Info("stats cache: redis", "addr", cc.RedisAddr)
			return r, func() { r.Close() }
		}
	}
	if cc.Size <= 0 {
		logger.Info("stats cache disabled")
		return nil, func() {}
	}
	logger.Info("stats cache: in-process", "size", cc.Size, "ttl", cc.TTL)
	return cache.NewLRU(cc.Size, cc.TTL), func() {}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if iv := ttl / 4; iv > time.Second {
		return iv
	}
	return time.Second
}
