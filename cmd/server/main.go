package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/taskchat/pkg/api"
	"github.com/hazyhaar/taskchat/pkg/chassis"
	"github.com/hazyhaar/taskchat/pkg/chat"
	"github.com/hazyhaar/taskchat/pkg/task"
	"github.com/hazyhaar/taskchat/pkg/tool"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr        string   `yaml:"addr"`
	DB          string   `yaml:"db"`
	CertFile    string   `yaml:"cert_file"`
	KeyFile     string   `yaml:"key_file"`
	PlainHTTP   bool     `yaml:"plain_http"` // HTTP only, no TLS, no QUIC, no MCP
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "migrate":
		cmdMigrate(os.Args[2:])
	case "chat":
		cmdChat(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: taskchat <command>\n\nCommands:\n  serve    Start the chat server\n  migrate  Create or verify the task database schema\n  chat     Send one chat message to a running server over MCP QUIC\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}
	if lvl, ok := parseLogLevel(cfg.LogLevel); ok {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}

	// Task store and tool registry.
	store, err := task.Open(cfg.DB)
	if err != nil {
		logger.Error("open task store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reg, err := tool.New(task.Tools(store)...)
	if err != nil {
		logger.Error("build tool registry", "error", err)
		os.Exit(1)
	}
	resolver := chat.NewResolver(reg, logger)
	logger.Info("tool registry ready", "tools", len(reg.Tools()), "db", cfg.DB)

	// HTTP router (also served over HTTP/3).
	router := api.NewRouter(resolver, logger, cfg.CORSOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.PlainHTTP {
		servePlain(ctx, cfg, router, logger)
		return
	}

	// MCP server: the registry tools plus the chat tool, reachable over
	// QUIC on the same port as the HTTP API.
	mcpSrv := server.NewMCPServer("taskchat", "1.0.0", server.WithToolCapabilities(false))
	api.RegisterMCPTools(mcpSrv, reg, resolver)

	ch, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.CertFile,
		KeyFile:   cfg.KeyFile,
		Handler:   router,
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("chassis init", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := ch.Start(ctx); err != nil {
			logger.Error("chassis error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch.Stop(shutdownCtx)
}

// servePlain runs the HTTP API without TLS, for local development behind
// a frontend dev server. No QUIC means no MCP in this mode.
func servePlain(ctx context.Context, cfg config, router http.Handler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("taskchat listening", "addr", cfg.Addr, "mode", "plain HTTP")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr: ":8000",
		DB:   "taskchat.db",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
